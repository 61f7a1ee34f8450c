package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"recruitdesk/screening-service/internal/config"
	"recruitdesk/screening-service/internal/services"
	"recruitdesk/screening-service/internal/state"
)

const (
	tokenStateKey = "mail_token"

	// Tokens this close to expiry are refreshed before use, never used
	// past expiry.
	refreshSkew = 5 * time.Minute
)

var graphScopes = []string{"offline_access", "User.Read", "Mail.Read", "Mail.ReadWrite"}

// TokenState is the persisted OAuth state for the connected mailbox.
// Mutated only by the TokenManager, destroyed on disconnect.
type TokenState struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at_epoch_ms"`
	AccountEmail string `json:"account_email"`
}

// TokenSource is what the poller needs from the token lifecycle: a valid
// access token, or "" meaning not connected.
type TokenSource interface {
	GetValidAccessToken(ctx context.Context) (string, error)
}

type TokenManager struct {
	conf  *oauth2.Config
	store state.Store

	mu sync.Mutex

	// Injectable for tests
	now     func() time.Time
	refresh func(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

func NewTokenManager(cfg config.GraphConfig, store state.Store) *TokenManager {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       graphScopes,
		Endpoint:     microsoft.AzureADEndpoint(cfg.Tenant),
	}

	m := &TokenManager{
		conf:  conf,
		store: store,
		now:   time.Now,
	}
	m.refresh = func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
		return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	}

	return m
}

// AuthURL returns the authorization-code URL the operator visits to connect
// the mailbox.
func (m *TokenManager) AuthURL(stateToken string) (string, error) {
	if m.conf.ClientID == "" {
		return "", &services.ConfigurationError{Setting: "GRAPH_CLIENT_ID"}
	}
	return m.conf.AuthCodeURL(stateToken, oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorization code for tokens and persists them.
func (m *TokenManager) Exchange(ctx context.Context, code string) error {
	if m.conf.ClientID == "" {
		return &services.ConfigurationError{Setting: "GRAPH_CLIENT_ID"}
	}

	tok, err := m.conf.Exchange(ctx, code)
	if err != nil {
		return &services.UpstreamError{Op: "token exchange", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.save(&TokenState{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry.UnixMilli(),
	})
}

// GetValidAccessToken implements TokenSource. Returns "" (with no error)
// when there is no usable connection; callers treat that as "nothing to
// do", not as a transient failure to retry.
func (m *TokenManager) GetValidAccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.load()
	if !ok {
		return "", nil
	}

	expiry := time.UnixMilli(st.ExpiresAt)
	if expiry.After(m.now().Add(refreshSkew)) {
		return st.AccessToken, nil
	}

	tok, err := m.refresh(ctx, st.RefreshToken)
	if err != nil {
		// Refresh token revoked or expired. Drop all token state; the
		// operator has to reconnect.
		log.Printf("⚠️  Mailbox token refresh failed, disconnecting: %v\n", err)
		if derr := m.store.Delete(tokenStateKey); derr != nil {
			log.Printf("⚠️  Failed to clear token state: %v\n", derr)
		}
		return "", nil
	}

	st.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		st.RefreshToken = tok.RefreshToken
	}
	st.ExpiresAt = tok.Expiry.UnixMilli()

	if err := m.save(st); err != nil {
		return "", err
	}

	return st.AccessToken, nil
}

// SetAccountEmail records which mailbox the tokens belong to.
func (m *TokenManager) SetAccountEmail(email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.load()
	if !ok {
		return fmt.Errorf("no token state to update")
	}

	st.AccountEmail = email
	return m.save(st)
}

// Connected reports whether token state exists at all. It does not probe
// the remote service.
func (m *TokenManager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.load()
	return ok
}

func (m *TokenManager) AccountEmail() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.load()
	if !ok {
		return ""
	}
	return st.AccountEmail
}

// Disconnect clears all stored token state. Idempotent.
func (m *TokenManager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.Delete(tokenStateKey)
}

func (m *TokenManager) load() (*TokenState, bool) {
	raw, ok := m.store.Get(tokenStateKey)
	if !ok {
		return nil, false
	}

	var st TokenState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		log.Printf("⚠️  Corrupt token state, discarding: %v\n", err)
		return nil, false
	}

	return &st, true
}

func (m *TokenManager) save(st *TokenState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal token state: %w", err)
	}

	return m.store.Set(tokenStateKey, string(raw))
}
