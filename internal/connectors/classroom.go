package connectors

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// ClassroomConnector reads coursework due within the assignment window.
type ClassroomConnector struct {
	service *classroom.Service
	window  int // days ahead to include
}

// NewClassroomConnector builds a connector over an authenticated
// client.
func NewClassroomConnector(ctx context.Context, client *http.Client, windowDays int) (*ClassroomConnector, error) {
	service, err := classroom.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating classroom service: %w", err)
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	return &ClassroomConnector{service: service, window: windowDays}, nil
}

// FetchAssignments walks the active courses and keeps coursework due
// between now and the window horizon. Work with no due date is skipped.
func (c *ClassroomConnector) FetchAssignments(ctx context.Context) ([]core.Assignment, error) {
	courses, err := c.service.Courses.List().
		CourseStates("ACTIVE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	now := time.Now().UTC()
	horizon := now.AddDate(0, 0, c.window)

	var assignments []core.Assignment
	for _, course := range courses.Courses {
		work, err := c.service.Courses.CourseWork.List(course.Id).
			OrderBy("dueDate asc").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("listing coursework for %s: %w", course.Name, err)
		}

		for _, cw := range work.CourseWork {
			due, ok := dueTime(cw)
			if !ok || due.Before(now) || due.After(horizon) {
				continue
			}

			assignments = append(assignments, core.Assignment{
				Course: course.Name,
				Title:  cw.Title,
				Due:    due.Format(time.RFC3339),
				Points: int(cw.MaxPoints),
				Status: cw.State,
			})
		}
	}

	return assignments, nil
}

// dueTime combines Classroom's split dueDate/dueTime fields. A missing
// dueTime means end of day UTC, matching how Classroom displays it.
func dueTime(cw *classroom.CourseWork) (time.Time, bool) {
	if cw.DueDate == nil {
		return time.Time{}, false
	}

	hour, minute := 23, 59
	if cw.DueTime != nil {
		hour = int(cw.DueTime.Hours)
		minute = int(cw.DueTime.Minutes)
	}

	return time.Date(
		int(cw.DueDate.Year), time.Month(cw.DueDate.Month), int(cw.DueDate.Day),
		hour, minute, 0, 0, time.UTC,
	), true
}
