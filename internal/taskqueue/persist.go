package taskqueue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/triage/internal/task"
)

const stateFileName = "queue-state.json"

// persistedState is the serializable representation of the queue.
type persistedState struct {
	Tasks  []task.Task `json:"tasks"`
	NextID int         `json:"next_id"`
}

// StatePath returns the path of the queue state file inside dir.
func StatePath(dir string) string {
	return filepath.Join(dir, stateFileName)
}

// SaveState writes the queue to a JSON file in the given directory.
// The write is atomic: data is written to a temporary file first, then
// renamed into place. A file lock is held during the operation for
// cross-process safety.
func (q *TaskQueue) SaveState(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	fl := NewFileLock(dir)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	q.mu.Lock()
	data, err := json.MarshalIndent(persistedState{
		Tasks:  q.tasks,
		NextID: q.nextID,
	}, "", "  ")
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal queue state: %w", err)
	}

	return WriteFileAtomic(StatePath(dir), data)
}

// WriteFileAtomic writes data to a sibling temporary file and renames it over
// target. Callers are expected to hold the directory's [FileLock].
func WriteFileAtomic(target string, data []byte) error {
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// LoadState restores a TaskQueue from a previously saved state file in the
// given directory. A missing file yields an empty queue. A file lock is held
// during the read for cross-process safety.
func LoadState(dir string) (*TaskQueue, error) {
	data, err := readLocked(dir, StatePath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, err
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal queue state: %w", err)
	}

	return newFromTasks(state.Tasks, state.NextID), nil
}

// readLocked reads path while holding the lock for dir. A missing directory
// or file is reported as os.ErrNotExist.
func readLocked(dir, path string) ([]byte, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	fl := NewFileLock(dir)
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}

// ReadFileLocked reads a state file from dir while holding the directory's
// [FileLock]. A missing file is reported with an error satisfying
// os.IsNotExist.
func ReadFileLocked(dir, name string) ([]byte, error) {
	return readLocked(dir, filepath.Join(dir, name))
}
