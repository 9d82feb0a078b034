package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/workspace-agent/workspace-agent/internal/core"
	"github.com/workspace-agent/workspace-agent/internal/logging"
)

// SnapshotProvider serves the current day's snapshot.
type SnapshotProvider interface {
	CurrentSnapshot(ctx context.Context) (*core.Snapshot, error)
}

// HistoryProvider serves recent chat turns, oldest first.
type HistoryProvider interface {
	RecentHistory(ctx context.Context, limit int) ([]core.ChatTurn, error)
}

// TurnRecorder persists a completed exchange.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, query, response string) error
}

// Enricher answers queries the deterministic handlers could not. An
// implementation that is not configured should return ("", false, nil).
type Enricher interface {
	Enrich(ctx context.Context, prompt string) (string, bool, error)
}

// Agent routes each query through the deterministic pipeline: classify,
// extract, handle, enrich, fall back. All ordering and matching rules
// live in this package; the collaborators behind the interfaces are
// replaceable.
type Agent struct {
	snapshots SnapshotProvider
	history   HistoryProvider
	recorder  TurnRecorder
	enricher  Enricher
	tracker   *Tracker

	historyLimit int
	log          *logging.Logger
}

// Config for the agent.
type Config struct {
	Snapshots    SnapshotProvider
	History      HistoryProvider
	Recorder     TurnRecorder
	Enricher     Enricher
	HistoryLimit int // turns of history fed to classification and prompts; default 5
}

// New creates an agent. Snapshots is required; the other collaborators
// are optional and their absence degrades the matching feature
// (no history, no persistence, no enrichment) without failing queries.
func New(cfg Config) *Agent {
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = 5
	}
	return &Agent{
		snapshots:    cfg.Snapshots,
		history:      cfg.History,
		recorder:     cfg.Recorder,
		enricher:     cfg.Enricher,
		tracker:      NewTracker(),
		historyLimit: limit,
		log:          logging.Component("agent"),
	}
}

// Tracker exposes the conversation context tracker, mainly for tests
// and for surfaces that need to clear a session.
func (a *Agent) Tracker() *Tracker {
	return a.tracker
}

// HandleQuery answers one query for one session. It never returns an
// error to the caller: pipeline panics are recovered into a fixed
// apology, and missing data degrades to the empty-state messages. The
// returned string is never "".
func (a *Agent) HandleQuery(ctx context.Context, session, query string) (response string) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithField("panic", r).Error("query pipeline panicked")
			response = ApologyMessage
		}
	}()

	snap := a.currentSnapshot(ctx)
	history := a.recentHistory(ctx)
	topic := a.tracker.Get(session)

	st := &turnState{
		query:    query,
		lowered:  strings.ToLower(query),
		snapshot: snap,
		history:  history,
		topic:    topic,
	}
	st.intent = ClassifyIntent(query, len(history) > 0, topic != nil)
	st.matches = ExtractEntities(query, snap)

	a.log.WithFields(map[string]any{
		"session": session,
		"intent":  string(st.intent),
	}).Debug("classified query")

	if h := handlerFor(st.intent); h != nil {
		response = h(st)
	}

	// List queries answer deterministically without touching the
	// model; enrichment applies to the remaining intents only.
	if response == "" && st.intent == IntentListRequest {
		response = Fallback(query, snap, st.matches)
	}

	if response == "" {
		response = a.enrich(ctx, st)
	}

	if response == "" {
		response = Fallback(query, snap, st.matches)
	}

	a.tracker.Update(session, response, st.matches, snap)
	a.record(query, response)

	return response
}

// currentSnapshot fetches today's snapshot, degrading to empty on any
// failure so handlers always have something to read.
func (a *Agent) currentSnapshot(ctx context.Context) *core.Snapshot {
	if a.snapshots == nil {
		return &core.Snapshot{}
	}
	snap, err := a.snapshots.CurrentSnapshot(ctx)
	if err != nil || snap == nil {
		if err != nil && err != core.ErrNoSnapshot {
			a.log.WithField("error", err.Error()).Warn("snapshot load failed")
		}
		return &core.Snapshot{}
	}
	return snap
}

func (a *Agent) recentHistory(ctx context.Context) []core.ChatTurn {
	if a.history == nil {
		return nil
	}
	turns, err := a.history.RecentHistory(ctx, a.historyLimit)
	if err != nil {
		a.log.WithField("error", err.Error()).Warn("history load failed")
		return nil
	}
	return turns
}

// enrich asks the configured model. Enrichment failures are logged and
// swallowed: the fallback responder covers for them.
func (a *Agent) enrich(ctx context.Context, st *turnState) string {
	if a.enricher == nil {
		return ""
	}
	answer, ok, err := a.enricher.Enrich(ctx, buildChatPrompt(st.query, st.snapshot, st.history))
	if err != nil {
		a.log.WithField("error", err.Error()).Warn("enrichment failed")
		return ""
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(answer)
}

// record persists the turn without blocking the response path.
func (a *Agent) record(query, response string) {
	if a.recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.recorder.RecordTurn(ctx, query, response); err != nil {
			a.log.WithField("error", err.Error()).Warn("turn persistence failed")
		}
	}()
}

// AnalyzeSnapshot runs the urgency triage prompt over a snapshot and
// decodes the result. Returns zero insights without error when no
// enricher is configured.
func (a *Agent) AnalyzeSnapshot(ctx context.Context, snap *core.Snapshot) (core.Insights, error) {
	var insights core.Insights
	if a.enricher == nil || snap.Empty() {
		return insights, nil
	}

	raw, ok, err := a.enricher.Enrich(ctx, buildInsightsPrompt(snap))
	if err != nil {
		return insights, err
	}
	if !ok {
		return insights, nil
	}

	raw = stripJSONFences(raw)
	if err := json.Unmarshal([]byte(raw), &insights); err != nil {
		a.log.WithField("error", err.Error()).Warn("insights response was not valid JSON")
		return core.Insights{}, nil
	}
	return insights, nil
}

// stripJSONFences removes markdown code fences models wrap JSON in.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
