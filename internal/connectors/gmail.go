package connectors

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// Messages the observer cares about: anything unread plus anything
// Gmail itself flagged important.
const gmailQuery = "is:unread OR is:important"

// GmailConnector reads today's notable inbox messages.
type GmailConnector struct {
	service *gmail.Service
	userID  string
	limit   int64
}

// NewGmailConnector builds a connector over an authenticated client.
func NewGmailConnector(ctx context.Context, client *http.Client, limit int) (*GmailConnector, error) {
	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	if limit <= 0 {
		limit = 10
	}
	return &GmailConnector{service: service, userID: "me", limit: int64(limit)}, nil
}

// FetchEmails lists matching messages and normalizes them. Metadata
// format keeps the payload small; the snippet is all the body the agent
// ever shows.
func (c *GmailConnector) FetchEmails(ctx context.Context) ([]core.Email, error) {
	resp, err := c.service.Users.Messages.List(c.userID).
		Q(gmailQuery).
		MaxResults(c.limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	emails := make([]core.Email, 0, len(resp.Messages))
	for _, summary := range resp.Messages {
		msg, err := c.service.Users.Messages.Get(c.userID, summary.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("fetching message %s: %w", summary.Id, err)
		}
		emails = append(emails, normalizeMessage(msg))
	}

	return emails, nil
}

func normalizeMessage(msg *gmail.Message) core.Email {
	email := core.Email{Snippet: msg.Snippet}

	for _, label := range msg.LabelIds {
		if label == "UNREAD" {
			email.IsUnread = true
			break
		}
	}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			switch header.Name {
			case "From":
				email.Sender = header.Value
			case "Subject":
				email.Subject = header.Value
			case "Date":
				email.Received = normalizeDate(header.Value)
			}
		}
	}

	return email
}

// normalizeDate converts an RFC 5322 date header to RFC 3339 so lexical
// order matches chronological order. Headers that fail to parse pass
// through unchanged; downstream treats the field as opaque either way.
func normalizeDate(raw string) string {
	t, err := mail.ParseDate(raw)
	if err != nil {
		return raw
	}
	return t.UTC().Format(time.RFC3339)
}
