package agent

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short unchanged", "hello", 10, "hello"},
		{"exact unchanged", "12345", 5, "12345"},
		{"long truncated", "hello world", 5, "hello..."},
		{"empty", "", 5, ""},
		{"multi-byte counted as characters", "ééééé", 3, "ééé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	long := "a" + strings.Repeat("é", 300)
	out := FormatEmailDetail(core.Email{
		Sender:  "a@b.com",
		Subject: "Subject",
		Snippet: long,
	})

	if !utf8.ValidString(out) {
		t.Fatalf("rendered detail contains invalid UTF-8: %q", out)
	}
	want := "a" + strings.Repeat("é", 149) + "..."
	if !strings.Contains(out, want) {
		t.Error("snippet preview should hold 150 characters before the ellipsis")
	}
}

func TestFormatEmailDetailSnippetPreview(t *testing.T) {
	long := strings.Repeat("x", 300)
	out := FormatEmailDetail(core.Email{
		Sender:   "a@b.com",
		Subject:  "Subject",
		Snippet:  long,
		Received: "2026-08-28T09:00:00Z",
		IsUnread: true,
	})

	want := strings.Repeat("x", 150) + "..."
	if !strings.HasSuffix(out, want) {
		t.Error("snippet should be cut to 150 chars plus ellipsis")
	}
	if !strings.Contains(out, "Status: Unread") {
		t.Error("unread flag should render as Unread")
	}
}

func TestFormatEmailDetailDefaults(t *testing.T) {
	out := FormatEmailDetail(core.Email{})

	for _, want := range []string{
		core.DefaultSubject, core.DefaultSender, core.DefaultTimestamp,
		core.DefaultSnippet, "Status: Read",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestFormatEmailListCutoff(t *testing.T) {
	emails := make([]core.Email, 8)
	for i := range emails {
		emails[i] = core.Email{Sender: "s@x.com", Subject: "subject"}
	}

	out := FormatEmailList(emails, false)
	if !strings.Contains(out, "You have 8 emails") {
		t.Errorf("header should report the full count:\n%s", out)
	}
	if !strings.Contains(out, "...and 3 more") {
		t.Errorf("lists over five entries need the overflow suffix:\n%s", out)
	}
	if strings.Contains(out, "6. ") {
		t.Error("entries past the fifth should not render")
	}
}

func TestFormatEmailListDetailedAddsSnippets(t *testing.T) {
	emails := []core.Email{{Sender: "s@x.com", Subject: "hi", Snippet: "preview text"}}

	plain := FormatEmailList(emails, false)
	if strings.Contains(plain, "preview text") {
		t.Error("plain list should omit snippets")
	}

	detailed := FormatEmailList(emails, true)
	if !strings.Contains(detailed, "preview text") {
		t.Error("detailed list should include snippets")
	}
}

func TestFormatEmailListEmpty(t *testing.T) {
	if got := FormatEmailList(nil, true); got != EmptyInboxMessage {
		t.Errorf("empty list = %q, want the fixed empty-inbox message", got)
	}
}

func TestFormatEmailListSingular(t *testing.T) {
	out := FormatEmailList([]core.Email{{Subject: "one"}}, false)
	if !strings.Contains(out, "You have 1 email:") {
		t.Errorf("singular count should not pluralize:\n%s", out)
	}
}

func TestFormatMeetingDetail(t *testing.T) {
	out := FormatMeetingDetail(core.Meeting{
		Title:           "Design review",
		Start:           "2026-08-28T14:00:00Z",
		DurationMinutes: 60,
		AttendeesCount:  4,
	})

	// The context tracker keys on this word appearing in the rendering.
	if !strings.Contains(strings.ToLower(out), "meeting") {
		t.Error("meeting detail must contain the word meeting")
	}
	if !strings.Contains(out, core.DefaultLocation) {
		t.Error("missing location should render the default")
	}
	if !strings.Contains(out, core.DefaultDescription) {
		t.Error("missing description should render the default")
	}
}

func TestFormatMeetingListNoCutoff(t *testing.T) {
	meetings := make([]core.Meeting, 7)
	for i := range meetings {
		meetings[i] = core.Meeting{Title: "m", Start: "t"}
	}

	out := FormatMeetingList(meetings)
	if !strings.Contains(out, "7. ") {
		t.Error("meeting lists render every entry")
	}
	if strings.Contains(out, "more") {
		t.Error("meeting lists have no overflow suffix")
	}
}

func TestFormatAssignmentList(t *testing.T) {
	out := FormatAssignmentList([]core.Assignment{
		{Course: "CS 301", Title: "Problem set", Due: "2026-08-30", Points: 100, Status: "PUBLISHED"},
	})

	for _, want := range []string{"Problem set", "CS 301", "100 points", "PUBLISHED"} {
		if !strings.Contains(out, want) {
			t.Errorf("assignment list missing %q:\n%s", want, out)
		}
	}

	if got := FormatAssignmentList(nil); got != EmptyAssignmentsMessage {
		t.Errorf("empty assignments = %q", got)
	}
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(testSnapshot())

	for _, want := range []string{"4 emails", "3 unread", "2 meetings", "Standup", "1 assignment", "Problem set 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSummaryEmpty(t *testing.T) {
	out := FormatSummary(&core.Snapshot{})

	if !strings.Contains(out, "No meetings scheduled") || !strings.Contains(out, "No assignments due") {
		t.Errorf("empty summary should name the empty sections:\n%s", out)
	}
}

func TestFormattingIsPure(t *testing.T) {
	snap := testSnapshot()
	first := FormatSummary(snap)
	for i := 0; i < 10; i++ {
		if FormatSummary(snap) != first {
			t.Fatal("same snapshot must render byte-identical text")
		}
	}
}
