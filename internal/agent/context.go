package agent

import (
	"strings"
	"sync"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// ContextKind tags what kind of records a conversation topic holds.
type ContextKind string

const (
	ContextMeeting    ContextKind = "meeting"
	ContextEmail      ContextKind = "email"
	ContextAssignment ContextKind = "assignment"
)

// Topic is the last-context slot payload: what the conversation most
// recently talked about. Exactly one of the record slices is populated,
// according to Kind.
type Topic struct {
	Kind        ContextKind
	Meetings    []core.Meeting
	Emails      []core.Email
	Assignments []core.Assignment
}

// Tracker holds one last-context slot per session. The slot is
// overwritten on every turn that mentions a domain, never merged, so at
// most one prior topic is recoverable for follow-ups. Keying by session
// removes the last-writer-wins race a single shared slot would have
// under concurrent requests; single-session callers use the empty
// session ID and get the original single-slot behavior.
type Tracker struct {
	mu    sync.Mutex
	slots map[string]*Topic
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{slots: make(map[string]*Topic)}
}

// Get returns the session's current topic, or nil.
func (t *Tracker) Get(session string) *Topic {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.slots[session]
}

// Clear drops the session's topic.
func (t *Tracker) Clear(session string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.slots, session)
}

// Update inspects the rendered response text (not the query) for domain
// keywords in fixed priority: meeting first, then email or the email
// icon, then assignment. The first keyword found sets the slot,
// preferring the matched entity for that kind and falling back to the
// full snapshot list. No keyword leaves the previous topic in place, so
// stale context persists across ambiguous answers.
func (t *Tracker) Update(session, response string, matches EntityMatches, snap *core.Snapshot) {
	topic := deriveTopic(response, matches, snap)
	if topic == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[session] = topic
}

func deriveTopic(response string, matches EntityMatches, snap *core.Snapshot) *Topic {
	lower := strings.ToLower(response)

	switch {
	case strings.Contains(lower, "meeting"):
		meetings := matches.Meetings
		if matches.Meeting != nil {
			meetings = []core.Meeting{*matches.Meeting}
		}
		if len(meetings) == 0 && snap != nil {
			meetings = snap.Meetings
		}
		return &Topic{Kind: ContextMeeting, Meetings: meetings}

	case strings.Contains(lower, "email") || strings.Contains(response, "📧"):
		emails := matches.Emails
		if len(emails) == 0 && matches.Email != nil {
			emails = []core.Email{*matches.Email}
		}
		if len(emails) == 0 && snap != nil {
			emails = snap.Emails
		}
		return &Topic{Kind: ContextEmail, Emails: emails}

	case strings.Contains(lower, "assignment"):
		assignments := matches.Assignments
		if len(assignments) == 0 && snap != nil {
			assignments = snap.Assignments
		}
		return &Topic{Kind: ContextAssignment, Assignments: assignments}
	}

	return nil
}
