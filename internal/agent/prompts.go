package agent

import (
	"fmt"
	"strings"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// buildChatPrompt assembles the enrichment prompt for queries the
// deterministic handlers could not answer. The snapshot and recent
// history are inlined as plain text so the model sees exactly what the
// user's day looks like.
func buildChatPrompt(query string, snap *core.Snapshot, history []core.ChatTurn) string {
	var b strings.Builder

	b.WriteString("You are a helpful workspace assistant. You have access to the user's ")
	b.WriteString("daily snapshot of emails, assignments, and meetings.\n\n")

	b.WriteString("Today's workspace snapshot:\n")
	writeSnapshotContext(&b, snap)

	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.Query, turn.Response)
		}
	}

	b.WriteString("\nAnswer the user's question using only the snapshot above. ")
	b.WriteString("Be concise and friendly. If the snapshot has no relevant data, say so.\n\n")
	fmt.Fprintf(&b, "User question: %s", query)

	return b.String()
}

func writeSnapshotContext(b *strings.Builder, snap *core.Snapshot) {
	if snap == nil || snap.Empty() {
		b.WriteString("(no data collected today)\n")
		return
	}

	fmt.Fprintf(b, "Emails (%d):\n", len(snap.Emails))
	for _, e := range snap.Emails {
		fmt.Fprintf(b, "- From %s: %s\n", e.DisplaySender(), e.DisplaySubject())
	}

	fmt.Fprintf(b, "Meetings (%d):\n", len(snap.Meetings))
	for _, m := range snap.Meetings {
		fmt.Fprintf(b, "- %s at %s (%d min)\n", m.DisplayTitle(), m.DisplayStart(), m.DurationMinutes)
	}

	fmt.Fprintf(b, "Assignments (%d):\n", len(snap.Assignments))
	for _, a := range snap.Assignments {
		fmt.Fprintf(b, "- %s (%s), due %s\n", a.DisplayTitle(), a.DisplayCourse(), a.DisplayDue())
	}
}

// buildInsightsPrompt asks the model to triage the snapshot into
// prioritized action items and risks. The response must be JSON
// matching core.Insights.
func buildInsightsPrompt(snap *core.Snapshot) string {
	var b strings.Builder

	b.WriteString("You are a workspace triage assistant. Analyze the snapshot below ")
	b.WriteString("and produce prioritized insights.\n\n")
	writeSnapshotContext(&b, snap)

	b.WriteString(`
Respond with JSON in exactly this shape:
{
  "urgent": [{"type": "email|assignment|meeting", "title": "...", "reason": "..."}],
  "important": [{"type": "...", "title": "...", "reason": "..."}],
  "low_priority": [{"type": "...", "title": "..."}],
  "risks": [{"issue": "...", "recommendation": "..."}],
  "summary": "one-sentence overview of the day"
}

Rank urgent items by deadline proximity and sender importance. Keep each list under five entries.`)

	return b.String()
}
