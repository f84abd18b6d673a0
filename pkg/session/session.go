// Package session provides the authentication context for the Arbor shell.
// A Controller holds the signed-in session and notifies listeners on change;
// a Scope widget makes the controller available to the widget tree.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arbor-app/arbor/pkg/core"
)

// Session describes one signed-in account.
type Session struct {
	// ID uniquely identifies this sign-in.
	ID string
	// Handle is the account name shown in the UI.
	Handle string
	// Token is the bearer token presented to the remote API.
	Token string
	// StartedAt is when the session was established.
	StartedAt time.Time
}

// Controller owns the current session. It is a core.Listenable; listeners
// are notified on sign-in, sign-out, and restore.
type Controller struct {
	notifier *core.Notifier
	mu       sync.RWMutex
	current  *Session
}

// NewController creates a signed-out controller.
func NewController() *Controller {
	return &Controller{notifier: core.NewNotifier()}
}

// AddListener registers a change callback. Returns an unsubscribe function.
func (c *Controller) AddListener(listener func()) func() {
	return c.notifier.AddListener(listener)
}

// Current returns the active session, or nil when signed out.
func (c *Controller) Current() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// IsAuthenticated reports whether a session is active.
func (c *Controller) IsAuthenticated() bool {
	return c.Current() != nil
}

// Token returns the active bearer token, or "" when signed out.
func (c *Controller) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return ""
	}
	return c.current.Token
}

// SignIn establishes a new session for the given account and token.
func (c *Controller) SignIn(handle, token string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Handle:    handle,
		Token:     token,
		StartedAt: time.Now(),
	}
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
	c.notifier.NotifyListeners()
	return s
}

// Restore installs a previously persisted session without minting a new ID.
func (c *Controller) Restore(s *Session) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
	c.notifier.NotifyListeners()
}

// SignOut clears the session. Signing out while already signed out is a no-op.
func (c *Controller) SignOut() {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.mu.Unlock()
	c.notifier.NotifyListeners()
}
