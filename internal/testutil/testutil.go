// Package testutil provides testing utilities for triage tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Iron-Ham/triage/internal/task"
)

// AnalyzePath is where the fake service accepts analysis requests.
const AnalyzePath = "/api/tasks/analyze/"

// AnalyzeRequest is a request body as received by the fake service.
type AnalyzeRequest struct {
	Strategy string      `json:"strategy"`
	Tasks    []task.Task `json:"tasks"`
}

// Ranker orders the tasks of one request. The default is ReverseRanking.
type Ranker func(req AnalyzeRequest) []task.ScoredTask

// ScoringService is an in-process fake of the scoring service. It records
// every analysis request and answers with the output of its Ranker, or with
// a fixed failure after FailWith. The server is closed when the test ends.
type ScoringService struct {
	server *httptest.Server

	mu         sync.Mutex
	requests   []AnalyzeRequest
	ranker     Ranker
	failStatus int
	failBody   string
}

// NewScoringService starts a fake scoring service for t.
func NewScoringService(t *testing.T) *ScoringService {
	t.Helper()

	s := &ScoringService{ranker: ReverseRanking}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

// BaseURL returns the task API root to configure clients with.
func (s *ScoringService) BaseURL() string {
	return s.server.URL + "/api/tasks"
}

// Close stops the server. Later requests fail to connect.
func (s *ScoringService) Close() {
	s.server.Close()
}

// SetRanker replaces the ranking function.
func (s *ScoringService) SetRanker(r Ranker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranker = r
}

// FailWith makes every later request fail with status and body. A zero
// status restores normal answers.
func (s *ScoringService) FailWith(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failBody = body
}

// Requests returns the analysis requests received so far.
func (s *ScoringService) Requests() []AnalyzeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AnalyzeRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Hits returns how many analysis requests were received.
func (s *ScoringService) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *ScoringService) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != AnalyzePath || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "request body is not valid JSON", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	ranker, status, body := s.ranker, s.failStatus, s.failBody
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
		return
	}

	ranked := ranker(req)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"strategy": req.Strategy,
		"count":    len(ranked),
		"tasks":    ranked,
	})
}

// ReverseRanking ranks tasks in reverse queue order. Scores fall by 0.1 per
// rank starting at 0.9, labels go High, Medium, then Low.
func ReverseRanking(req AnalyzeRequest) []task.ScoredTask {
	n := len(req.Tasks)
	out := make([]task.ScoredTask, 0, n)
	for i := n - 1; i >= 0; i-- {
		rank := n - i
		label := "Low"
		switch rank {
		case 1:
			label = "High"
		case 2:
			label = "Medium"
		}
		out = append(out, task.ScoredTask{
			Task:          req.Tasks[i],
			Score:         1 - float64(rank)/10,
			PriorityLabel: label,
			Explanation:   fmt.Sprintf("ranked %d of %d", rank, n),
		})
	}
	return out
}

// WriteFile writes content to name inside dir, creating parent
// directories, and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", name, err)
	}
	return path
}
