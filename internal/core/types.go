// Package core defines the fundamental record types for the workspace agent.
package core

import "time"

// -----------------------------------------------------------------------------
// Records - the normalized items observed from the user's workspace
// -----------------------------------------------------------------------------

// Email is a normalized inbox message.
//
// Received is an opaque timestamp string produced by the connector
// (RFC 3339 when the source header parsed, the raw header text when it
// did not). The chat core never parses it; "latest" is defined by
// lexical order of this field.
type Email struct {
	Sender   string `json:"sender"`
	Subject  string `json:"subject"`
	Snippet  string `json:"snippet"`
	Received string `json:"received"`
	IsUnread bool   `json:"is_unread"`
}

// Assignment is a normalized coursework item.
type Assignment struct {
	Course string `json:"course"`
	Title  string `json:"title"`
	Due    string `json:"due"`
	Points int    `json:"points"`
	Status string `json:"status"`
}

// Meeting is a normalized calendar event. Description and Location are
// optional; everything else is required.
type Meeting struct {
	Title           string `json:"title"`
	Start           string `json:"start"`
	DurationMinutes int    `json:"duration_minutes"`
	AttendeesCount  int    `json:"attendees_count"`
	Description     string `json:"description,omitempty"`
	Location        string `json:"location,omitempty"`
}

// Snapshot is one day's observations across all sources. Exactly one
// snapshot is current per day; the chat core only ever reads the
// current one.
type Snapshot struct {
	Emails      []Email      `json:"emails"`
	Assignments []Assignment `json:"assignments"`
	Meetings    []Meeting    `json:"meetings"`
	ObservedAt  time.Time    `json:"observation_time"`
}

// Empty reports whether the snapshot has no records at all.
func (s *Snapshot) Empty() bool {
	if s == nil {
		return true
	}
	return len(s.Emails) == 0 && len(s.Assignments) == 0 && len(s.Meetings) == 0
}

// ChatTurn is one completed (query, response) exchange.
type ChatTurn struct {
	Query     string    `json:"user"`
	Response  string    `json:"agent"`
	Timestamp time.Time `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// Insights - the reasoning output stored alongside a snapshot
// -----------------------------------------------------------------------------

// InsightItem is one prioritized item from the urgency analysis.
type InsightItem struct {
	Type   string `json:"type"` // email, assignment or meeting
	Title  string `json:"title"`
	Reason string `json:"reason,omitempty"`
}

// Risk is a flagged problem with a suggested action.
type Risk struct {
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
}

// Insights holds the analysis produced for one snapshot. All fields may
// be empty when the reasoning service was unavailable.
type Insights struct {
	Urgent      []InsightItem `json:"urgent,omitempty"`
	Important   []InsightItem `json:"important,omitempty"`
	LowPriority []InsightItem `json:"low_priority,omitempty"`
	Risks       []Risk        `json:"risks,omitempty"`
	Summary     string        `json:"summary,omitempty"`
}

// -----------------------------------------------------------------------------
// Missing-field defaulting - one declared policy for all renderers
// -----------------------------------------------------------------------------

const (
	DefaultSender      = "Unknown sender"
	DefaultSubject     = "No subject"
	DefaultSnippet     = "No preview available"
	DefaultTimestamp   = "Unknown"
	DefaultMeetingName = "Untitled Meeting"
	DefaultCourse      = "Unknown course"
	DefaultAssignment  = "Untitled assignment"
	DefaultLocation    = "No location set"
	DefaultDescription = "No description"
	DefaultStatus      = "PUBLISHED"
)

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// DisplaySender returns the sender, defaulted when missing.
func (e Email) DisplaySender() string { return orDefault(e.Sender, DefaultSender) }

// DisplaySubject returns the subject, defaulted when missing.
func (e Email) DisplaySubject() string { return orDefault(e.Subject, DefaultSubject) }

// DisplaySnippet returns the snippet, defaulted when missing.
func (e Email) DisplaySnippet() string { return orDefault(e.Snippet, DefaultSnippet) }

// DisplayReceived returns the received timestamp, defaulted when missing.
func (e Email) DisplayReceived() string { return orDefault(e.Received, DefaultTimestamp) }

// DisplayTitle returns the meeting title, defaulted when missing.
func (m Meeting) DisplayTitle() string { return orDefault(m.Title, DefaultMeetingName) }

// DisplayStart returns the start timestamp, defaulted when missing.
func (m Meeting) DisplayStart() string { return orDefault(m.Start, DefaultTimestamp) }

// DisplayLocation returns the location, defaulted when missing.
func (m Meeting) DisplayLocation() string { return orDefault(m.Location, DefaultLocation) }

// DisplayDescription returns the description, defaulted when missing.
func (m Meeting) DisplayDescription() string { return orDefault(m.Description, DefaultDescription) }

// DisplayTitle returns the assignment title, defaulted when missing.
func (a Assignment) DisplayTitle() string { return orDefault(a.Title, DefaultAssignment) }

// DisplayCourse returns the course name, defaulted when missing.
func (a Assignment) DisplayCourse() string { return orDefault(a.Course, DefaultCourse) }

// DisplayDue returns the due timestamp, defaulted when missing.
func (a Assignment) DisplayDue() string { return orDefault(a.Due, DefaultTimestamp) }

// DisplayStatus returns the status, defaulted when missing.
func (a Assignment) DisplayStatus() string { return orDefault(a.Status, DefaultStatus) }
