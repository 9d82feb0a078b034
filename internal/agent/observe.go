package agent

import (
	"context"
	"time"

	"github.com/workspace-agent/workspace-agent/internal/core"
	"github.com/workspace-agent/workspace-agent/internal/logging"
)

// Per-source fetch contracts. One interface per source so a deployment
// can run with any subset connected.
type (
	// EmailSource fetches today's notable inbox messages.
	EmailSource interface {
		FetchEmails(ctx context.Context) ([]core.Email, error)
	}
	// AssignmentSource fetches coursework due soon.
	AssignmentSource interface {
		FetchAssignments(ctx context.Context) ([]core.Assignment, error)
	}
	// MeetingSource fetches today's calendar events.
	MeetingSource interface {
		FetchMeetings(ctx context.Context) ([]core.Meeting, error)
	}
)

// SnapshotSaver persists a day's snapshot and insights.
type SnapshotSaver interface {
	Save(ctx context.Context, date string, snap *core.Snapshot, insights *core.Insights) error
}

// Reporter produces and stores the end-of-day report for a date.
type Reporter interface {
	Generate(ctx context.Context, date string) (string, error)
}

// Observer runs the observation cycle: fetch from every connected
// source, triage, and store the day's snapshot. A failing source logs
// and contributes nothing; one broken connector must not lose the
// others' data.
type Observer struct {
	emails      EmailSource
	assignments AssignmentSource
	meetings    MeetingSource
	saver       SnapshotSaver
	agent       *Agent
	reporter    Reporter
	dateKey     func(time.Time) string
	log         *logging.Logger
}

// ObserverConfig wires the observer's collaborators. Saver and DateKey
// are required; sources and Reporter may be nil.
type ObserverConfig struct {
	Emails      EmailSource
	Assignments AssignmentSource
	Meetings    MeetingSource
	Saver       SnapshotSaver
	Agent       *Agent
	Reporter    Reporter
	DateKey     func(time.Time) string
}

// NewObserver creates an observer.
func NewObserver(cfg ObserverConfig) *Observer {
	return &Observer{
		emails:      cfg.Emails,
		assignments: cfg.Assignments,
		meetings:    cfg.Meetings,
		saver:       cfg.Saver,
		agent:       cfg.Agent,
		reporter:    cfg.Reporter,
		dateKey:     cfg.DateKey,
		log:         logging.Component("observer"),
	}
}

// RunCycle executes one observe-reason-store pass and returns the
// stored snapshot.
func (o *Observer) RunCycle(ctx context.Context) (*core.Snapshot, error) {
	snap := &core.Snapshot{ObservedAt: time.Now().UTC()}

	if o.emails != nil {
		emails, err := o.emails.FetchEmails(ctx)
		if err != nil {
			o.log.WithField("error", err.Error()).Warn("email fetch failed")
		} else {
			snap.Emails = emails
		}
	}

	if o.assignments != nil {
		assignments, err := o.assignments.FetchAssignments(ctx)
		if err != nil {
			o.log.WithField("error", err.Error()).Warn("assignment fetch failed")
		} else {
			snap.Assignments = assignments
		}
	}

	if o.meetings != nil {
		meetings, err := o.meetings.FetchMeetings(ctx)
		if err != nil {
			o.log.WithField("error", err.Error()).Warn("meeting fetch failed")
		} else {
			snap.Meetings = meetings
		}
	}

	var insights core.Insights
	if o.agent != nil {
		var err error
		insights, err = o.agent.AnalyzeSnapshot(ctx, snap)
		if err != nil {
			o.log.WithField("error", err.Error()).Warn("snapshot triage failed")
			insights = core.Insights{}
		}
	}

	date := o.dateKey(time.Now())
	if err := o.saver.Save(ctx, date, snap, &insights); err != nil {
		return nil, err
	}

	if o.reporter != nil {
		if _, err := o.reporter.Generate(ctx, date); err != nil {
			o.log.WithField("error", err.Error()).Warn("report generation failed")
		}
	}

	o.log.WithFields(map[string]any{
		"date":        date,
		"emails":      len(snap.Emails),
		"assignments": len(snap.Assignments),
		"meetings":    len(snap.Meetings),
	}).Info("observation cycle complete")

	return snap, nil
}
