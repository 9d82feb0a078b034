package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/workspace-agent/workspace-agent/internal/agent"
	"github.com/workspace-agent/workspace-agent/internal/core"
	"github.com/workspace-agent/workspace-agent/internal/report"
	"github.com/workspace-agent/workspace-agent/internal/storage"
)

func testServer(t *testing.T) (*Server, *storage.SnapshotStore) {
	t.Helper()

	db, err := storage.Open(storage.Config{InMemory: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	snapshots := storage.NewSnapshotStore(db)
	reports := storage.NewReportStore(db)
	chats := storage.NewChatStore(db)

	ag := agent.New(agent.Config{
		Snapshots: snapshots,
		History:   chats,
		Recorder:  chats,
	})

	server := New(Config{
		Host:          "localhost",
		Port:          0,
		Agent:         ag,
		Reports:       report.New(snapshots, reports, nil),
		SnapshotStore: snapshots,
		ChatStore:     chats,
		ReportStore:   reports,
	})

	return server, snapshots
}

func seedToday(t *testing.T, snapshots *storage.SnapshotStore) {
	t.Helper()
	snap := &core.Snapshot{
		Emails:   []core.Email{{Sender: "a@b.com", Subject: "hello", IsUnread: true}},
		Meetings: []core.Meeting{{Title: "Standup", Start: "2026-08-28T09:30:00Z"}},
	}
	if err := snapshots.Save(context.Background(), storage.DateKey(time.Now()), snap, nil); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(t, s, "GET", "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestChatEndpoint(t *testing.T) {
	s, snapshots := testServer(t)
	seedToday(t, snapshots)

	rec := doRequest(t, s, "POST", "/api/chat", ChatRequest{Message: "show my emails"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Response, "hello") {
		t.Errorf("expected the seeded email in the answer: %q", resp.Response)
	}
}

func TestChatEndpointValidation(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(t, s, "POST", "/api/chat", ChatRequest{Message: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank message: status %d", rec.Code)
	}

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader("{not json"))
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: status %d", rec.Code)
	}
}

func TestChatSessionsViaHeader(t *testing.T) {
	s, snapshots := testServer(t)
	seedToday(t, snapshots)

	// Build meeting context in session A.
	req := httptest.NewRequest("POST", "/api/chat",
		strings.NewReader(`{"message": "any meetings today?"}`))
	req.Header.Set("X-Session-Id", "session-a")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	// The follow-up in the same session resolves against that context.
	req = httptest.NewRequest("POST", "/api/chat",
		strings.NewReader(`{"message": "tell me more about that"}`))
	req.Header.Set("X-Session-Id", "session-a")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp ChatResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.Contains(resp.Response, "Meeting: Standup") {
		t.Errorf("follow-up should detail the tracked meeting: %q", resp.Response)
	}
}

func TestChatHistoryEndpoint(t *testing.T) {
	s, snapshots := testServer(t)
	seedToday(t, snapshots)

	doRequest(t, s, "POST", "/api/chat", ChatRequest{Message: "show my emails"})

	// Turn persistence is async; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		rec := doRequest(t, s, "GET", "/api/chat/history?limit=10", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "show my emails") {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("turn never appeared in history: %s", rec.Body.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	s, snapshots := testServer(t)

	rec := doRequest(t, s, "GET", "/api/snapshot/today", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("no snapshot yet: status %d", rec.Code)
	}

	seedToday(t, snapshots)

	rec = doRequest(t, s, "GET", "/api/snapshot/today", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Standup") {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestReportEndpoints(t *testing.T) {
	s, snapshots := testServer(t)
	seedToday(t, snapshots)

	rec := doRequest(t, s, "GET", "/api/eod-report", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("no report yet: status %d", rec.Code)
	}

	rec = doRequest(t, s, "POST", "/api/eod-report/generate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, "GET", "/api/eod-report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get after generate: status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "End of Day Report") {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestObserveEndpointWithoutObserver(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(t, s, "POST", "/api/observe", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d, want 503 when no observer is wired", rec.Code)
	}
}
