package agent

import (
	"strings"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// Fixed responses. These strings double as contracts: the context
// tracker keys off the domain words they contain, and tests compare
// against them verbatim.
const (
	EmptyInboxMessage       = "📧 Your inbox is clear - no unread or important emails today."
	EmptyCalendarMessage    = "📅 No meetings on your calendar today. Enjoy the focus time!"
	EmptyAssignmentsMessage = "📚 No assignments due soon. You're all caught up!"

	NoEmailsFoundMessage      = "I don't see any emails in today's snapshot."
	NoMeetingsFoundMessage    = "I don't see any meetings in today's snapshot."
	NoAssignmentsFoundMessage = "I don't see any assignments in today's snapshot."

	ClarifyMessage = "Could you be more specific? I can tell you about your emails, meetings, or assignments."

	ApologyMessage = "Sorry, something went wrong while processing that. Please try again."

	HelpMessage = "I can help you with:\n" +
		"• **Emails** - \"show my emails\", \"any mail from LinkedIn?\", \"last email\"\n" +
		"• **Meetings** - \"what's on my calendar?\", \"next meeting details\"\n" +
		"• **Assignments** - \"what's due?\", \"show my homework\"\n" +
		"• **Summary** - \"give me an overview of today\""
)

// Fallback produces an answer for any query no handler claimed. It
// never returns "": every branch ends in a rendered list, a fixed empty
// message, or the help text. Dispatch is keyword order, so a query
// naming several domains answers for the first one listed here.
func Fallback(query string, snap *core.Snapshot, matches EntityMatches) string {
	if snap == nil {
		snap = &core.Snapshot{}
	}
	q := strings.ToLower(query)

	switch {
	case containsAny(q, meetingCues):
		return FormatMeetingList(snap.Meetings)

	case containsAny(q, emailCues):
		switch {
		case strings.Contains(q, "linked"), strings.Contains(q, "google"), strings.Contains(q, "github"):
			sender := "linkedin"
			switch {
			case strings.Contains(q, "google"):
				sender = "google"
			case strings.Contains(q, "github"):
				sender = "github"
			}
			found := filterEmails(snap.Emails, func(e core.Email) bool {
				return strings.Contains(strings.ToLower(e.Sender), sender)
			})
			if len(found) == 0 {
				return "No matching emails in today's snapshot."
			}
			return FormatEmailList(found, true)
		case containsAny(q, urgencyCues):
			if len(matches.Emails) == 0 {
				return "Nothing urgent in your inbox today. 👍"
			}
			return FormatEmailList(matches.Emails, true)
		}
		return FormatEmailList(snap.Emails, false)

	case containsAny(q, assignmentCues):
		return FormatAssignmentList(snap.Assignments)

	case containsAny(q, []string{"summary", "overview", "today", "status"}):
		return FormatSummary(snap)
	}

	return HelpMessage
}
