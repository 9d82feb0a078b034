package agent

import (
	"testing"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

func testSnapshot() *core.Snapshot {
	return &core.Snapshot{
		Emails: []core.Email{
			{Sender: "Sarah Chen <sarah@example.com>", Subject: "Project update", Snippet: "Here is the latest", Received: "2026-08-28T09:00:00Z", IsUnread: true},
			{Sender: "LinkedIn <jobs-noreply@linkedin.com>", Subject: "New jobs for you", Snippet: "5 new jobs", Received: "2026-08-28T08:30:00Z"},
			{Sender: "GitHub <noreply@github.com>", Subject: "[repo] PR review requested", Snippet: "Review requested", Received: "2026-08-28T10:15:00Z", IsUnread: true},
			{Sender: "Prof. Davis", Subject: "URGENT: exam rescheduled", Snippet: "The exam moved", Received: "2026-08-28T07:45:00Z", IsUnread: true},
		},
		Meetings: []core.Meeting{
			{Title: "Standup", Start: "2026-08-28T09:30:00Z", DurationMinutes: 15, AttendeesCount: 6},
			{Title: "Design review", Start: "2026-08-28T14:00:00Z", DurationMinutes: 60, AttendeesCount: 4},
		},
		Assignments: []core.Assignment{
			{Course: "CS 301", Title: "Problem set 4", Due: "2026-08-30T23:59:00Z", Points: 100, Status: "PUBLISHED"},
		},
	}
}

func TestExtractEntitiesSenderMatch(t *testing.T) {
	snap := testSnapshot()

	matches := ExtractEntities("show me the email from sarah", snap)
	if matches.Email == nil {
		t.Fatal("expected a sender match")
	}
	if matches.Email.Subject != "Project update" {
		t.Errorf("matched wrong email: %q", matches.Email.Subject)
	}
}

func TestExtractEntitiesFirstMatchWins(t *testing.T) {
	snap := &core.Snapshot{
		Emails: []core.Email{
			{Sender: "alice@corp.com", Subject: "first"},
			{Sender: "alice@other.com", Subject: "second"},
		},
	}

	matches := ExtractEntities("email from alice", snap)
	if matches.Email == nil || matches.Email.Subject != "first" {
		t.Fatalf("expected first alice email, got %+v", matches.Email)
	}
}

func TestExtractEntitiesShortWordsIgnored(t *testing.T) {
	snap := &core.Snapshot{
		Emails: []core.Email{{Sender: "al b. cd", Subject: "short tokens"}},
	}

	// Sender tokens are all short and no query word of 3+ chars appears
	// in them, so nothing should match.
	matches := ExtractEntities("is my mail ok", snap)
	if matches.Email != nil {
		t.Errorf("short tokens should not match, got %+v", matches.Email)
	}
}

func TestExtractEntitiesLinkedInCollector(t *testing.T) {
	snap := testSnapshot()

	matches := ExtractEntities("any mail from linkedin?", snap)
	if len(matches.Emails) != 1 {
		t.Fatalf("expected 1 linkedin email, got %d", len(matches.Emails))
	}
	if matches.Emails[0].Subject != "New jobs for you" {
		t.Errorf("wrong email collected: %q", matches.Emails[0].Subject)
	}
}

func TestExtractEntitiesGitHubMatchesSubjectToo(t *testing.T) {
	snap := &core.Snapshot{
		Emails: []core.Email{
			{Sender: "ci@builds.dev", Subject: "GitHub Actions run failed"},
		},
	}

	matches := ExtractEntities("github emails", snap)
	if len(matches.Emails) != 1 {
		t.Fatalf("expected subject match, got %d emails", len(matches.Emails))
	}
}

func TestExtractEntitiesUrgentCollector(t *testing.T) {
	snap := testSnapshot()

	matches := ExtractEntities("any urgent emails today?", snap)
	if len(matches.Emails) != 1 {
		t.Fatalf("expected 1 urgent email, got %d", len(matches.Emails))
	}
	if matches.Emails[0].Sender != "Prof. Davis" {
		t.Errorf("wrong urgent email: %q", matches.Emails[0].Sender)
	}
}

func TestExtractEntitiesMeetings(t *testing.T) {
	snap := testSnapshot()

	matches := ExtractEntities("what meetings do i have", snap)
	if matches.Meeting == nil {
		t.Fatal("expected first meeting bind")
	}
	if matches.Meeting.Title != "Standup" {
		t.Errorf("expected first meeting, got %q", matches.Meeting.Title)
	}
	if len(matches.Meetings) != 2 {
		t.Errorf("expected full meeting list, got %d", len(matches.Meetings))
	}
}

func TestExtractEntitiesAssignments(t *testing.T) {
	snap := testSnapshot()

	matches := ExtractEntities("anything due for homework", snap)
	if len(matches.Assignments) != 1 {
		t.Fatalf("expected assignment list, got %d", len(matches.Assignments))
	}
}

func TestExtractEntitiesAdditive(t *testing.T) {
	snap := testSnapshot()

	// One query can populate email and meeting fields at once.
	matches := ExtractEntities("emails and meetings from sarah", snap)
	if matches.Email == nil {
		t.Error("expected email match")
	}
	if matches.Meeting == nil {
		t.Error("expected meeting match")
	}
}

func TestExtractEntitiesEmptySnapshot(t *testing.T) {
	matches := ExtractEntities("show meetings and assignments", &core.Snapshot{})
	if !matches.IsEmpty() {
		t.Errorf("empty snapshot must yield no matches, got %+v", matches)
	}

	matches = ExtractEntities("anything", nil)
	if !matches.IsEmpty() {
		t.Error("nil snapshot must yield no matches")
	}
}
