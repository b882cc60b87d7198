package scorer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/strategy"
	"github.com/Iron-Ham/triage/internal/task"
)

func sampleTasks() []task.Task {
	due := task.NewDate(2025, 11, 30)
	return []task.Task{
		{ID: "t1", Title: "Fix login bug", DueDate: &due, EstimatedHours: 3, Importance: 8, Dependencies: []string{}},
		{ID: "t2", Title: "Write docs", EstimatedHours: 1, Importance: 4, Dependencies: []string{"t1"}},
	}
}

func TestAnalyze_SendsRequestAndKeepsServiceOrder(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/tasks/analyze/" {
			t.Errorf("path = %s, want /api/tasks/analyze/", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"strategy": "fastest_wins",
			"count": 2,
			"tasks": [
				{"id":"t2","title":"Write docs","due_date":null,"estimated_hours":1,"importance":4,"dependencies":["t1"],
				 "score":0.91,"priority_label":"High","explanation":"quick win","warnings":["Missing due_date: treated as mildly urgent."]},
				{"id":"t1","title":"Fix login bug","due_date":"2025-11-30","estimated_hours":3,"importance":8,
				 "score":0.62,"priority_label":"Medium","explanation":""}
			]
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/api/tasks/")
	resp, err := c.Analyze(context.Background(), strategy.FastestWins, sampleTasks())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got.Strategy != "fastest_wins" || len(got.Tasks) != 2 || got.Tasks[1].Dependencies[0] != "t1" {
		t.Errorf("request body = %+v", got)
	}
	if got.Tasks[0].DueDate == nil || got.Tasks[0].DueDate.String() != "2025-11-30" {
		t.Errorf("due date not sent as YYYY-MM-DD: %+v", got.Tasks[0].DueDate)
	}

	if resp.Count != 2 || len(resp.Tasks) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Tasks[0].ID != "t2" || resp.Tasks[1].ID != "t1" {
		t.Errorf("order = %s, %s; want service order t2, t1", resp.Tasks[0].ID, resp.Tasks[1].ID)
	}
	if resp.Tasks[0].Score != 0.91 || resp.Tasks[0].PriorityLabel != "High" {
		t.Errorf("first task = %+v", resp.Tasks[0])
	}
	if len(resp.Tasks[0].Warnings) != 1 {
		t.Errorf("warnings = %v", resp.Tasks[0].Warnings)
	}
	if resp.Tasks[1].Dependencies == nil {
		t.Error("missing dependencies should decode as an empty list")
	}
}

func TestAnalyze_MissingTasksFieldIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"strategy":"smart_balance","count":0}`)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Analyze(context.Background(), strategy.SmartBalance, sampleTasks())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.Tasks == nil || len(resp.Tasks) != 0 {
		t.Errorf("Tasks = %#v, want empty list", resp.Tasks)
	}
}

func TestAnalyze_ServiceError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode int
	}{
		{"bad request keeps body", http.StatusBadRequest, `{"strategy":["\"x\" is not a valid choice."]}`, `{"strategy":["\"x\" is not a valid choice."]}`, 400},
		{"empty body falls back", http.StatusInternalServerError, "", "analysis failed", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Analyze(context.Background(), strategy.SmartBalance, sampleTasks())

			var se *errors.ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("expected ServiceError, got %T: %v", err, err)
			}
			if se.StatusCode != tt.wantCode {
				t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.wantCode)
			}
			if got := errors.UserMessage(err); got != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestAnalyze_UndecodableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>proxy page</html>`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Analyze(context.Background(), strategy.SmartBalance, nil)
	if !errors.Is(err, errors.ErrServiceRejected) {
		t.Fatalf("expected ErrServiceRejected, got %v", err)
	}
}

func TestAnalyze_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url + "/api/tasks")
	_, err := c.Analyze(context.Background(), strategy.SmartBalance, sampleTasks())

	var te *errors.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if !strings.Contains(errors.UserMessage(err), c.Endpoint()) {
		t.Errorf("guidance %q should name the endpoint %q", errors.UserMessage(err), c.Endpoint())
	}
	if !errors.IsRetryable(err) {
		t.Error("transport errors should be retryable")
	}
}

func TestAnalyze_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Analyze(context.Background(), strategy.SmartBalance, sampleTasks())
	if !errors.Is(err, errors.ErrServiceUnreachable) {
		t.Fatalf("expected ErrServiceUnreachable on timeout, got %v", err)
	}
}

func TestNewClient_BaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultBaseURL + "/analyze/"},
		{"http://svc:9000/api/tasks/", "http://svc:9000/api/tasks/analyze/"},
		{"  http://svc:9000  ", "http://svc:9000/analyze/"},
	}
	for _, tt := range tests {
		if got := NewClient(tt.in).Endpoint(); got != tt.want {
			t.Errorf("NewClient(%q).Endpoint() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithHTTPClient_KeepsCallerTransport(t *testing.T) {
	var called bool
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"tasks":[]}`)),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})

	c := NewClient("http://example.invalid", WithHTTPClient(&http.Client{Transport: rt}))
	if _, err := c.Analyze(context.Background(), strategy.HighImpact, sampleTasks()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !called {
		t.Error("custom transport was not used")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
