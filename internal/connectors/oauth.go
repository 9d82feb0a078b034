// Package connectors implements the Google workspace connectors that
// feed the daily observation snapshot.
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/gmail/v1"
)

// OAuthConfig holds Google OAuth configuration.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenFile    string // where the refresh token is persisted
	Scopes       []string
}

// DefaultOAuthConfig returns config from environment.
func DefaultOAuthConfig() OAuthConfig {
	return OAuthConfig{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  "http://localhost:8765/callback",
		TokenFile:    "token.json",
		Scopes: []string{
			gmail.GmailReadonlyScope,
			classroom.ClassroomCoursesReadonlyScope,
			classroom.ClassroomCourseworkMeReadonlyScope,
			calendar.CalendarReadonlyScope,
		},
	}
}

// OAuthFlow handles the OAuth2 authentication flow and token
// persistence.
type OAuthFlow struct {
	config    *oauth2.Config
	tokenFile string
}

// NewOAuthFlow creates an OAuth flow handler.
func NewOAuthFlow(cfg OAuthConfig) *OAuthFlow {
	return &OAuthFlow{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		tokenFile: cfg.TokenFile,
	}
}

// AuthURL returns the URL for user authorization.
func (f *OAuthFlow) AuthURL(state string) string {
	return f.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode exchanges the authorization code for tokens and persists
// the result.
func (f *OAuthFlow) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := f.SaveToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// HTTPClient returns an authenticated HTTP client that auto-refreshes.
func (f *OAuthFlow) HTTPClient(ctx context.Context, token *oauth2.Token) *http.Client {
	return f.config.Client(ctx, token)
}

// SaveToken writes the token to the configured file.
func (f *OAuthFlow) SaveToken(token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(f.tokenFile, data, 0600)
}

// LoadToken reads the persisted token.
func (f *OAuthFlow) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.tokenFile)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", f.tokenFile, err)
	}
	return &token, nil
}

// LocalAuthServer handles the OAuth callback locally.
type LocalAuthServer struct {
	server   *http.Server
	codeChan chan string
	errChan  chan error
}

// NewLocalAuthServer creates a local server for the OAuth callback.
func NewLocalAuthServer() *LocalAuthServer {
	return &LocalAuthServer{
		codeChan: make(chan string, 1),
		errChan:  make(chan error, 1),
	}
}

// Start listens on the given port.
func (s *LocalAuthServer) Start(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.errChan <- err
		}
	}()

	return nil
}

// WaitForCode waits for the OAuth callback.
func (s *LocalAuthServer) WaitForCode(timeout time.Duration) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-time.After(timeout):
		return "", fmt.Errorf("OAuth timeout - no callback received")
	}
}

// Stop shuts the server down.
func (s *LocalAuthServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *LocalAuthServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		errMsg := r.URL.Query().Get("error")
		s.errChan <- fmt.Errorf("OAuth error: %s", errMsg)
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	s.codeChan <- code

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Workspace Agent - Connected</title></head>
<body style="font-family: system-ui; text-align: center; padding-top: 20vh;">
	<h1>Google account connected!</h1>
	<p>You can close this window and return to the terminal.</p>
</body>
</html>`)
}
