package agent

import (
	"strings"
	"testing"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

func TestFallbackEmptySnapshotMessages(t *testing.T) {
	empty := &core.Snapshot{}

	tests := []struct {
		query string
		want  string
	}{
		{"my meetings", EmptyCalendarMessage},
		{"my emails", EmptyInboxMessage},
		{"homework due", EmptyAssignmentsMessage},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Fallback(tt.query, empty, EntityMatches{})
			if got != tt.want {
				t.Errorf("Fallback(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestFallbackProviderBranches(t *testing.T) {
	snap := &core.Snapshot{
		Emails: []core.Email{
			{Sender: "Google Calendar <calendar-noreply@google.com>", Subject: "Invitation"},
			{Sender: "LinkedIn <jobs-noreply@linkedin.com>", Subject: "New jobs"},
			{Sender: "sarah@example.com", Subject: "lunch"},
		},
	}

	got := Fallback("emails about google stuff", snap, EntityMatches{})
	if !strings.Contains(got, "Google Calendar") || strings.Contains(got, "sarah") {
		t.Errorf("google branch should list only google senders: %q", got)
	}

	got = Fallback("emails about linkedin", snap, EntityMatches{})
	if !strings.Contains(got, "LinkedIn") || strings.Contains(got, "Google Calendar") {
		t.Errorf("linkedin branch should list only linkedin senders: %q", got)
	}

	got = Fallback("emails about github", snap, EntityMatches{})
	if got != "No matching emails in today's snapshot." {
		t.Errorf("no github senders present: %q", got)
	}
}

func TestFallbackUrgencyBranch(t *testing.T) {
	snap := &core.Snapshot{
		Emails: []core.Email{
			{Sender: "prof@uni.edu", Subject: "URGENT: exam moved", Snippet: "new date"},
			{Sender: "news@letter.com", Subject: "weekly digest"},
		},
	}
	matches := ExtractEntities("any urgent emails?", snap)

	got := Fallback("any urgent emails?", snap, matches)
	if !strings.Contains(got, "exam moved") || strings.Contains(got, "weekly digest") {
		t.Errorf("urgency branch should list only flagged subjects: %q", got)
	}

	got = Fallback("any urgent emails?", &core.Snapshot{}, EntityMatches{})
	if !strings.Contains(got, "Nothing urgent") {
		t.Errorf("empty urgency case: %q", got)
	}
}

func TestFallbackMeetingBeatsEmailInDispatchOrder(t *testing.T) {
	snap := &core.Snapshot{
		Emails:   []core.Email{{Sender: "a@b.com", Subject: "hi"}},
		Meetings: []core.Meeting{{Title: "Standup"}},
	}

	got := Fallback("meetings and emails today", snap, EntityMatches{})
	if !strings.Contains(got, "Standup") {
		t.Errorf("meeting cue is checked first: %q", got)
	}
}

func TestFallbackSummaryAndHelp(t *testing.T) {
	snap := &core.Snapshot{
		Emails: []core.Email{{Sender: "a@b.com", Subject: "hi"}},
	}

	got := Fallback("give me a status", snap, EntityMatches{})
	if !strings.Contains(got, "Today's Overview") {
		t.Errorf("status query should render the summary: %q", got)
	}

	got = Fallback("sing me a song", snap, EntityMatches{})
	if got != HelpMessage {
		t.Errorf("unrecognized query should return help text: %q", got)
	}
}
