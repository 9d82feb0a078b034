package agent

import (
	"fmt"
	"strings"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// Rendering is pure: the same records always produce byte-identical
// text. The context tracker depends on the domain words these templates
// emit ("Meeting", "email", "assignment"), so changes here are
// behavior changes, not cosmetics.

const (
	snippetPreviewLen = 150
	emailListLimit    = 5
)

// truncate limits s to max characters, not bytes, so a cut never
// splits a multi-byte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// FormatEmailDetail renders one email in full.
func FormatEmailDetail(e core.Email) string {
	status := "Read"
	if e.IsUnread {
		status = "Unread"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📧 **%s**\n", e.DisplaySubject())
	fmt.Fprintf(&b, "From: %s\n", e.DisplaySender())
	fmt.Fprintf(&b, "Received: %s\n", e.DisplayReceived())
	fmt.Fprintf(&b, "Status: %s\n\n", status)
	b.WriteString(truncate(e.DisplaySnippet(), snippetPreviewLen))
	return b.String()
}

// FormatEmailList renders a numbered email list. Detailed mode adds a
// snippet preview per entry. Lists longer than five entries are cut off
// with a "...and N more" suffix; this threshold applies to email lists
// only.
func FormatEmailList(emails []core.Email, detailed bool) string {
	if len(emails) == 0 {
		return EmptyInboxMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📧 You have %d email%s:\n", len(emails), plural(len(emails)))

	shown := emails
	if len(shown) > emailListLimit {
		shown = shown[:emailListLimit]
	}

	for i, e := range shown {
		fmt.Fprintf(&b, "\n%d. **%s** - from %s", i+1, e.DisplaySubject(), e.DisplaySender())
		if detailed {
			fmt.Fprintf(&b, "\n   %s", truncate(e.DisplaySnippet(), snippetPreviewLen))
		}
	}

	if len(emails) > emailListLimit {
		fmt.Fprintf(&b, "\n\n...and %d more", len(emails)-emailListLimit)
	}

	return b.String()
}

// FormatMeetingDetail renders one meeting in full. Optional fields
// render fixed defaults instead of being omitted.
func FormatMeetingDetail(m core.Meeting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 **Meeting: %s**\n", m.DisplayTitle())
	fmt.Fprintf(&b, "Start: %s\n", m.DisplayStart())
	fmt.Fprintf(&b, "Duration: %d minutes\n", m.DurationMinutes)
	fmt.Fprintf(&b, "Attendees: %d\n", m.AttendeesCount)
	fmt.Fprintf(&b, "Location: %s\n\n", m.DisplayLocation())
	b.WriteString(m.DisplayDescription())
	return b.String()
}

// FormatMeetingList renders all meetings; no cutoff.
func FormatMeetingList(meetings []core.Meeting) string {
	if len(meetings) == 0 {
		return EmptyCalendarMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 You have %d meeting%s today:\n", len(meetings), plural(len(meetings)))
	for i, m := range meetings {
		fmt.Fprintf(&b, "\n%d. **%s** at %s (%d min, %d attendees)",
			i+1, m.DisplayTitle(), m.DisplayStart(), m.DurationMinutes, m.AttendeesCount)
	}
	return b.String()
}

// FormatAssignmentList renders all assignments; no cutoff.
func FormatAssignmentList(assignments []core.Assignment) string {
	if len(assignments) == 0 {
		return EmptyAssignmentsMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📚 You have %d assignment%s due:\n", len(assignments), plural(len(assignments)))
	for i, a := range assignments {
		fmt.Fprintf(&b, "\n%d. **%s** - %s\n   Due: %s • %d points • %s",
			i+1, a.DisplayTitle(), a.DisplayCourse(), a.DisplayDue(), a.Points, a.DisplayStatus())
	}
	return b.String()
}

// FormatSummary renders the cross-domain overview.
func FormatSummary(snap *core.Snapshot) string {
	if snap == nil {
		snap = &core.Snapshot{}
	}

	unread := 0
	for _, e := range snap.Emails {
		if e.IsUnread {
			unread++
		}
	}

	var b strings.Builder
	b.WriteString("📊 **Today's Overview**\n")
	fmt.Fprintf(&b, "\n📧 %d email%s (%d unread)", len(snap.Emails), plural(len(snap.Emails)), unread)

	if len(snap.Meetings) > 0 {
		m := snap.Meetings[0]
		fmt.Fprintf(&b, "\n📅 %d meeting%s - next: %s at %s",
			len(snap.Meetings), plural(len(snap.Meetings)), m.DisplayTitle(), m.DisplayStart())
	} else {
		b.WriteString("\n📅 No meetings scheduled")
	}

	if len(snap.Assignments) > 0 {
		a := snap.Assignments[0]
		fmt.Fprintf(&b, "\n📚 %d assignment%s due - next: %s (%s)",
			len(snap.Assignments), plural(len(snap.Assignments)), a.DisplayTitle(), a.DisplayCourse())
	} else {
		b.WriteString("\n📚 No assignments due")
	}

	return b.String()
}
