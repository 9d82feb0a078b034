package connectors

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// CalendarConnector reads today's events from the primary calendar.
type CalendarConnector struct {
	service *calendar.Service
}

// NewCalendarConnector builds a connector over an authenticated client.
func NewCalendarConnector(ctx context.Context, client *http.Client) (*CalendarConnector, error) {
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return &CalendarConnector{service: service}, nil
}

// FetchMeetings lists today's timed events in start order. All-day
// events have no start time and are skipped; they are not meetings.
func (c *CalendarConnector) FetchMeetings(ctx context.Context) ([]core.Meeting, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	resp, err := c.service.Events.List("primary").
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	var meetings []core.Meeting
	for _, event := range resp.Items {
		if event.Start == nil || event.Start.DateTime == "" {
			continue
		}
		meetings = append(meetings, normalizeEvent(event))
	}

	return meetings, nil
}

func normalizeEvent(event *calendar.Event) core.Meeting {
	meeting := core.Meeting{
		Title:          event.Summary,
		Start:          event.Start.DateTime,
		AttendeesCount: len(event.Attendees),
		Description:    event.Description,
		Location:       event.Location,
	}

	if event.End != nil && event.End.DateTime != "" {
		start, errS := time.Parse(time.RFC3339, event.Start.DateTime)
		end, errE := time.Parse(time.RFC3339, event.End.DateTime)
		if errS == nil && errE == nil {
			meeting.DurationMinutes = int(end.Sub(start).Minutes())
		}
	}

	return meeting
}
