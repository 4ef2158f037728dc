package portal

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jovemegidio/Zyntra-sub004/internal/config"
)

// Session is one authenticated connection to the portal. It is owned
// by the Manager and handed out only while authenticated and younger
// than the session TTL.
type Session struct {
	drv             Driver
	authenticatedAt time.Time
}

// Driver exposes the controlled page for report fetching.
func (s *Session) Driver() Driver { return s.drv }

// AuthenticatedAt returns the time of the last successful login.
func (s *Session) AuthenticatedAt() time.Time { return s.authenticatedAt }

// Manager owns the single browser-controlled portal session shared by
// all callers. Concurrent Acquire calls are serialized so two callers
// never trigger two parallel login attempts.
type Manager struct {
	cfg     *config.Config
	factory DriverFactory

	mu       sync.Mutex
	drv      Driver
	sess     *Session
	lastAuth time.Time
	closed   bool
}

// NewManager creates a session manager. The factory builds the
// underlying browser driver lazily on first use.
func NewManager(cfg *config.Config, factory DriverFactory) *Manager {
	return &Manager{cfg: cfg, factory: factory}
}

// Acquire returns a ready-to-use authenticated session, establishing
// or re-establishing it as needed. It fails with *SessionError when
// the portal rejects the login or navigation times out.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess != nil && time.Since(m.sess.authenticatedAt) < m.cfg.Portal.SessionTTL {
		if err := m.sess.drv.Probe(ctx); err == nil {
			return m.sess, nil
		}
		// Probe failure means the page or browser went away under
		// us. Fall through to a fresh login rather than surfacing
		// the probe error.
		log.Printf("[SessionManager] probe failed, re-authenticating")
	}
	m.sess = nil

	if err := m.login(ctx); err != nil {
		return nil, err
	}
	return m.sess, nil
}

// login drives the portal's login form on the shared driver. The
// caller holds m.mu.
func (m *Manager) login(ctx context.Context) error {
	if m.drv == nil {
		m.drv = m.factory()
	}
	m.closed = false

	// The browser outlives the request that happens to trigger this
	// login. Open binds the browser's event pipeline to its ctx, so
	// it gets the manager's lifetime, never the caller's request ctx;
	// the caller's ctx still bounds every navigation below.
	if err := m.drv.Open(context.Background()); err != nil {
		m.teardown()
		return &SessionError{Op: "open", Err: err}
	}

	if err := m.drv.Navigate(ctx, LoginURL(m.cfg)); err != nil {
		m.teardown()
		return &SessionError{Op: "navigate", Err: err}
	}

	if err := m.drv.SubmitLogin(ctx, m.cfg.Portal.Username, m.cfg.Portal.Password); err != nil {
		m.teardown()
		return &SessionError{Op: "login", Err: err}
	}

	loc, err := m.drv.Location(ctx)
	if err != nil {
		m.teardown()
		return &SessionError{Op: "login", Err: err}
	}
	if !authenticatedArea(loc) {
		return &SessionError{Op: "login failed", Location: loc}
	}

	m.lastAuth = time.Now()
	m.sess = &Session{drv: m.drv, authenticatedAt: m.lastAuth}
	log.Printf("[SessionManager] authenticated at %s", loc)
	return nil
}

// Invalidate discards the current session after an unrecoverable
// navigation failure; the next Acquire starts from a clean driver.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown()
}

// Status reports whether a session is currently authenticated and
// when the last login succeeded. Read-only.
func (m *Manager) Status() (authenticated bool, lastAuth time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.sess != nil && time.Since(m.sess.authenticatedAt) < m.cfg.Portal.SessionTTL
	return ok, m.lastAuth
}

// Shutdown tears down the browser and session. Idempotent; a later
// Acquire recreates everything.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed && m.drv == nil {
		return
	}
	m.teardown()
	log.Printf("[SessionManager] shut down")
}

// teardown closes and drops the driver. The caller holds m.mu.
func (m *Manager) teardown() {
	if m.drv != nil {
		if err := m.drv.Close(); err != nil {
			log.Printf("[SessionManager] close driver: %v", err)
		}
	}
	m.drv = nil
	m.sess = nil
	m.closed = true
}
