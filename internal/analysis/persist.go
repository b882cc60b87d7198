package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/triage/internal/taskqueue"
)

const resultFileName = "analysis-result.json"

// ResultPath returns the path of the stored result inside dir.
func ResultPath(dir string) string {
	return filepath.Join(dir, resultFileName)
}

// SaveResult writes the stored result to dir under the state directory
// lock. When no result is stored the file is removed, so that a cleared
// queue does not resurrect an old ranking on the next run.
func (o *Orchestrator) SaveResult(dir string) error {
	o.mu.Lock()
	r := o.result.clone()
	o.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	fl := taskqueue.NewFileLock(dir)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	if r == nil {
		if err := os.Remove(ResultPath(dir)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove analysis result: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}
	return taskqueue.WriteFileAtomic(ResultPath(dir), data)
}

// LoadResult replaces the stored result with the one saved in dir. A
// missing file leaves the orchestrator without a result and is not an
// error.
func (o *Orchestrator) LoadResult(dir string) error {
	data, err := taskqueue.ReadFileLocked(dir, resultFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("unmarshal analysis result: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.result = &r
	if o.state != StateRequesting {
		o.state = StateSucceeded
	}
	return nil
}
