// Package report generates end-of-day workspace reports.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/workspace-agent/workspace-agent/internal/core"
	"github.com/workspace-agent/workspace-agent/internal/logging"
	"github.com/workspace-agent/workspace-agent/internal/storage"
)

const pastSummaryPreviewLen = 150

// Generator writes the end-of-day report for a date from that day's
// snapshot and insights, with the past few reports as continuity
// context.
type Generator struct {
	snapshots *storage.SnapshotStore
	reports   *storage.ReportStore
	enricher  Enricher
	log       *logging.Logger
}

// Enricher produces the narrative report text. ok=false means the
// service is not configured and the deterministic fallback applies.
type Enricher interface {
	Enrich(ctx context.Context, prompt string) (string, bool, error)
}

// New creates a generator.
func New(snapshots *storage.SnapshotStore, reports *storage.ReportStore, enricher Enricher) *Generator {
	return &Generator{
		snapshots: snapshots,
		reports:   reports,
		enricher:  enricher,
		log:       logging.Component("report"),
	}
}

// Generate builds, stores, and returns the report for a date. A missing
// snapshot or an unavailable model degrades to a deterministic summary
// rather than failing: the evening report must always exist.
func (g *Generator) Generate(ctx context.Context, date string) (string, error) {
	snap, insights, err := g.snapshots.ByDate(ctx, date)
	if err == core.ErrNoSnapshot {
		snap, insights = &core.Snapshot{}, &core.Insights{}
	} else if err != nil {
		return "", fmt.Errorf("loading snapshot for %s: %w", date, err)
	}

	content := g.narrate(ctx, date, snap, insights)
	if content == "" {
		content = fallbackSummary(date, snap, insights)
	}

	if err := g.reports.Save(ctx, date, content); err != nil {
		return "", fmt.Errorf("saving report for %s: %w", date, err)
	}

	g.log.WithField("date", date).Info("end-of-day report stored")
	return content, nil
}

// GenerateToday is Generate for the current date.
func (g *Generator) GenerateToday(ctx context.Context) (string, error) {
	return g.Generate(ctx, storage.DateKey(time.Now()))
}

func (g *Generator) narrate(ctx context.Context, date string, snap *core.Snapshot, insights *core.Insights) string {
	if g.enricher == nil {
		return ""
	}

	past, err := g.reports.RecentSummaries(ctx, 3)
	if err != nil {
		g.log.WithField("error", err.Error()).Warn("past summaries unavailable")
	}

	text, ok, err := g.enricher.Enrich(ctx, buildReportPrompt(date, snap, insights, past))
	if err != nil {
		g.log.WithField("error", err.Error()).Warn("report narration failed")
		return ""
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

func buildReportPrompt(date string, snap *core.Snapshot, insights *core.Insights, past []storage.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a short end-of-day workspace report for %s.\n\n", date)

	fmt.Fprintf(&b, "Today's numbers: %d emails, %d meetings, %d assignments.\n\n",
		len(snap.Emails), len(snap.Meetings), len(snap.Assignments))

	if len(insights.Urgent) > 0 {
		b.WriteString("Urgent items flagged today:\n")
		for _, item := range insights.Urgent {
			fmt.Fprintf(&b, "- [%s] %s\n", item.Type, item.Title)
		}
		b.WriteString("\n")
	}
	if insights.Summary != "" {
		fmt.Fprintf(&b, "Day summary: %s\n\n", insights.Summary)
	}

	if len(past) > 0 {
		b.WriteString("Previous reports for continuity:\n")
		for _, r := range past {
			preview := r.Content
			if runes := []rune(preview); len(runes) > pastSummaryPreviewLen {
				preview = string(runes[:pastSummaryPreviewLen]) + "..."
			}
			fmt.Fprintf(&b, "- %s: %s\n", r.Date, preview)
		}
		b.WriteString("\n")
	}

	b.WriteString("Structure the report as: Highlights, Open Items, Tomorrow's Focus. ")
	b.WriteString("Use markdown headers. Keep it under 250 words and mention carryover from previous days where relevant.")

	return b.String()
}

// fallbackSummary is the deterministic report used when no model is
// available. Same data, no narrative.
func fallbackSummary(date string, snap *core.Snapshot, insights *core.Insights) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# End of Day Report - %s\n\n", date)

	if snap.Empty() {
		b.WriteString("No workspace activity was recorded today.\n")
		return b.String()
	}

	b.WriteString("## Highlights\n")
	fmt.Fprintf(&b, "- %d emails observed\n", len(snap.Emails))
	fmt.Fprintf(&b, "- %d meetings on the calendar\n", len(snap.Meetings))
	fmt.Fprintf(&b, "- %d assignments due soon\n", len(snap.Assignments))

	if len(insights.Urgent) > 0 {
		b.WriteString("\n## Open Items\n")
		for _, item := range insights.Urgent {
			fmt.Fprintf(&b, "- %s\n", item.Title)
		}
	}

	return b.String()
}
