package connectors

import (
	"context"
	"fmt"
	"net/http"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// Service bundles the three Google connectors behind one authenticated
// client. It satisfies the observer's email, assignment, and meeting
// source contracts.
type Service struct {
	gmail     *GmailConnector
	classroom *ClassroomConnector
	calendar  *CalendarConnector
}

// ServiceConfig tunes the per-source fetch behavior.
type ServiceConfig struct {
	MaxEmails        int // gmail list cap
	AssignmentWindow int // days of coursework to include
}

// NewService builds all connectors over one HTTP client. The client
// must carry OAuth credentials with the scopes from DefaultOAuthConfig.
func NewService(ctx context.Context, client *http.Client, cfg ServiceConfig) (*Service, error) {
	gm, err := NewGmailConnector(ctx, client, cfg.MaxEmails)
	if err != nil {
		return nil, fmt.Errorf("gmail connector: %w", err)
	}
	cr, err := NewClassroomConnector(ctx, client, cfg.AssignmentWindow)
	if err != nil {
		return nil, fmt.Errorf("classroom connector: %w", err)
	}
	cal, err := NewCalendarConnector(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("calendar connector: %w", err)
	}

	return &Service{gmail: gm, classroom: cr, calendar: cal}, nil
}

// FetchEmails implements the observer's email source.
func (s *Service) FetchEmails(ctx context.Context) ([]core.Email, error) {
	return s.gmail.FetchEmails(ctx)
}

// FetchAssignments implements the observer's assignment source.
func (s *Service) FetchAssignments(ctx context.Context) ([]core.Assignment, error) {
	return s.classroom.FetchAssignments(ctx)
}

// FetchMeetings implements the observer's meeting source.
func (s *Service) FetchMeetings(ctx context.Context) ([]core.Meeting, error) {
	return s.calendar.FetchMeetings(ctx)
}
