package agent

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// turnState carries everything a handler may look at for one query.
type turnState struct {
	query    string // raw
	lowered  string
	intent   Intent
	matches  EntityMatches
	snapshot *core.Snapshot
	history  []core.ChatTurn
	topic    *Topic
}

// A handler returns the rendered response, or "" to signal no answer so
// the engine falls through to enrichment and then the fallback
// responder.
type handler func(st *turnState) string

// handlerFor returns the handler matching the intent, or nil when the
// intent has no dedicated handler (list_request, general).
func handlerFor(intent Intent) handler {
	switch intent {
	case IntentLastItem:
		return handleLastItem
	case IntentSearchBySender:
		return handleSearchBySender
	case IntentFollowUp:
		return handleFollowUp
	case IntentDetailRequest:
		return handleDetailRequest
	default:
		return nil
	}
}

// -----------------------------------------------------------------------------
// last_item
// -----------------------------------------------------------------------------

// sortDescByKey stable-sorts a copy of items descending by an opaque
// string key. Timestamps are deliberately not parsed: "latest" is
// lexical order of the stored string, with ties keeping snapshot order.
// When every key is empty the result is the snapshot order unchanged.
func sortDescByKey[T any](items []T, key func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) > key(out[j])
	})
	return out
}

func handleLastItem(st *turnState) string {
	q := st.lowered

	switch {
	case containsAny(q, []string{"mail", "email", "message"}):
		if len(st.snapshot.Emails) == 0 {
			return NoEmailsFoundMessage
		}
		sorted := sortDescByKey(st.snapshot.Emails, func(e core.Email) string { return e.Received })
		return FormatEmailDetail(sorted[0])

	case containsAny(q, []string{"meeting", "event"}):
		if len(st.snapshot.Meetings) == 0 {
			return NoMeetingsFoundMessage
		}
		sorted := sortDescByKey(st.snapshot.Meetings, func(m core.Meeting) string { return m.Start })
		return FormatMeetingDetail(sorted[0])

	case containsAny(q, []string{"assignment", "homework"}):
		if len(st.snapshot.Assignments) == 0 {
			return NoAssignmentsFoundMessage
		}
		sorted := sortDescByKey(st.snapshot.Assignments, func(a core.Assignment) string { return a.Due })
		return FormatAssignmentList(sorted[:1])
	}

	// No domain cue; let the fallback take it.
	return ""
}

// -----------------------------------------------------------------------------
// search_by_sender
// -----------------------------------------------------------------------------

// senderNamePattern captures the name after "from", stopping at
// punctuation, end of string, or the words "mail"/"email".
var senderNamePattern = regexp.MustCompile(`from\s+(.+?)(?:\s+mail\b|\s+email\b|[.,!?;:]|$)`)

// extractSenderName pulls the candidate name out of a lowercased query.
// Falls back to the first whitespace token after the literal word
// "from". Names shorter than two characters are rejected.
func extractSenderName(q string) string {
	var name string
	if m := senderNamePattern.FindStringSubmatch(q); m != nil {
		name = strings.TrimSpace(m[1])
	}

	if name == "" {
		fields := strings.Fields(q)
		for i, f := range fields {
			if f == "from" && i+1 < len(fields) {
				name = fields[i+1]
				break
			}
		}
	}

	if len(name) < 2 {
		return ""
	}
	return name
}

// senderMatches reports whether every whitespace token of name appears
// in the sender string, or the whole name does.
func senderMatches(sender, name string) bool {
	sender = strings.ToLower(sender)
	if strings.Contains(sender, name) {
		return true
	}
	for _, tok := range strings.Fields(name) {
		if !strings.Contains(sender, tok) {
			return false
		}
	}
	return true
}

func handleSearchBySender(st *turnState) string {
	name := extractSenderName(st.lowered)
	if name == "" {
		return ""
	}

	matched := filterEmails(st.snapshot.Emails, func(e core.Email) bool {
		return senderMatches(e.Sender, name)
	})

	if len(matched) == 0 {
		return fmt.Sprintf("No emails found from '%s'.", titleCase(name))
	}

	return FormatEmailList(matched, true)
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}

// -----------------------------------------------------------------------------
// follow_up
// -----------------------------------------------------------------------------

func handleFollowUp(st *turnState) string {
	if st.topic != nil && containsAny(st.lowered, detailCues) {
		if resp := renderTopic(st.topic); resp != "" {
			return resp
		}
	}

	// No usable slot: scan history newest to oldest for the most recent
	// agent message naming a domain, then answer from the *current*
	// snapshot, not from the historical message.
	for i := len(st.history) - 1; i >= 0; i-- {
		resp := strings.ToLower(st.history[i].Response)
		switch {
		case strings.Contains(resp, "meeting"):
			if len(st.snapshot.Meetings) == 0 {
				return EmptyCalendarMessage
			}
			return FormatMeetingDetail(st.snapshot.Meetings[0])
		case strings.Contains(resp, "email") || strings.Contains(st.history[i].Response, "📧"):
			return FormatEmailList(st.snapshot.Emails, true)
		case strings.Contains(resp, "assignment"):
			return FormatAssignmentList(st.snapshot.Assignments)
		}
	}

	return ClarifyMessage
}

// renderTopic renders the slot's records: detail of the first element
// for meetings and assignments, the full detailed list for emails.
func renderTopic(topic *Topic) string {
	switch topic.Kind {
	case ContextMeeting:
		if len(topic.Meetings) == 0 {
			return ""
		}
		return FormatMeetingDetail(topic.Meetings[0])
	case ContextEmail:
		if len(topic.Emails) == 0 {
			return ""
		}
		return FormatEmailList(topic.Emails, true)
	case ContextAssignment:
		if len(topic.Assignments) == 0 {
			return ""
		}
		return FormatAssignmentList(topic.Assignments[:1])
	}
	return ""
}

// -----------------------------------------------------------------------------
// detail_request
// -----------------------------------------------------------------------------

func handleDetailRequest(st *turnState) string {
	switch {
	case st.matches.Meeting != nil:
		return FormatMeetingDetail(*st.matches.Meeting)
	case st.matches.Email != nil:
		return FormatEmailDetail(*st.matches.Email)
	case len(st.matches.Emails) > 0:
		return FormatEmailList(st.matches.Emails, true)
	case len(st.matches.Assignments) > 0:
		return FormatAssignmentList(st.matches.Assignments)
	}
	return FormatSummary(st.snapshot)
}
