package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/workspace-agent/workspace-agent/internal/core"
	"github.com/workspace-agent/workspace-agent/internal/storage"
)

func writeJSON(w io.Writer, data interface{}) {
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ChatRequest is the chat endpoint payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the chat endpoint reply.
type ChatResponse struct {
	Response string `json:"response"`
	Session  string `json:"session"`
}

// handleChat routes one query through the agent. The session comes from
// the X-Session-Id header; absent means the shared anonymous session.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	session := r.Header.Get("X-Session-Id")
	response := s.agent.HandleQuery(r.Context(), session, message)

	s.events.Broadcast(Event{Type: "chat", Data: map[string]string{
		"query":    message,
		"response": response,
	}})

	s.respondJSON(w, http.StatusOK, ChatResponse{Response: response, Session: session})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	turns, err := s.chatStore.RecentHistory(r.Context(), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if turns == nil {
		turns = []core.ChatTurn{}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"history": turns,
		"count":   len(turns),
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reportSt.Latest(r.Context())
	if err == core.ErrNoReport {
		s.respondError(w, http.StatusNotFound, "no report generated yet")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	content, err := s.reports.GenerateToday(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.events.Broadcast(Event{Type: "report", Data: map[string]string{
		"date": storage.DateKey(time.Now()),
	}})

	s.respondJSON(w, http.StatusOK, map[string]string{
		"date":    storage.DateKey(time.Now()),
		"content": content,
	})
}

func (s *Server) handleTodaySnapshot(w http.ResponseWriter, r *http.Request) {
	date := storage.DateKey(time.Now())
	snap, insights, err := s.snapshots.ByDate(r.Context(), date)
	if err == core.ErrNoSnapshot {
		s.respondError(w, http.StatusNotFound, "no snapshot for today")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":     date,
		"snapshot": snap,
		"insights": insights,
	})
}

// handleObserve triggers an observation cycle on demand.
func (s *Server) handleObserve(w http.ResponseWriter, r *http.Request) {
	if s.observer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "observer not configured")
		return
	}

	snap, err := s.observer.RunCycle(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.events.Broadcast(Event{Type: "snapshot", Data: map[string]int{
		"emails":      len(snap.Emails),
		"meetings":    len(snap.Meetings),
		"assignments": len(snap.Assignments),
	}})

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":        storage.DateKey(time.Now()),
		"emails":      len(snap.Emails),
		"meetings":    len(snap.Meetings),
		"assignments": len(snap.Assignments),
	})
}
