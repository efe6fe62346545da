package session

import (
	"context"
	"sync"

	"github.com/edumundo/portal/internal/logging"
	"github.com/edumundo/portal/internal/portal/api"
)

// State is the session state machine position.
type State int

const (
	// StateInitializing covers startup: the store has been read and, when a
	// token was found, the cached identity is shown while revalidation is
	// in flight.
	StateInitializing State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session at one instant.
type Snapshot struct {
	State   State
	User    *api.User
	Token   string
	Loading bool
}

// Manager owns the process-wide session state. All mutations happen under
// one mutex and only through Service calls, so the
// invariant "user set iff token set iff state Authenticated" holds outside
// the optimistic-hydration window of Initialize.
type Manager struct {
	svc *Service
	log logging.Logger

	mu      sync.Mutex
	state   State
	user    *api.User
	token   string
	loading bool
}

func NewManager(svc *Service, log logging.Logger) *Manager {
	return &Manager{svc: svc, log: log, state: StateInitializing, loading: true}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, User: m.user.Clone(), Token: m.token, Loading: m.loading}
}

// Initialize resolves the Initializing state. With no stored token the
// session is immediately Anonymous and no network call is made. With a
// token, the cached identity is adopted optimistically (so the UI never
// flashes a logged-out frame) and confirmed against the service; any
// failure reverts to Anonymous and clears the store.
func (m *Manager) Initialize(ctx context.Context) {
	tok, cached, err := m.svc.Store().Read(ctx)
	if err != nil {
		m.log.Warn(ctx, "credential store read failed at startup", "error", err)
		m.settle(StateAnonymous, nil, "")
		return
	}
	if tok == "" {
		m.settle(StateAnonymous, nil, "")
		return
	}

	// tentative: show the cached identity while we confirm it
	m.mu.Lock()
	m.user = cached
	m.token = tok
	m.mu.Unlock()

	user, err := m.svc.CurrentUser(ctx)
	if err != nil {
		m.log.Info(ctx, "stored session rejected, logging out", "error", err)
		m.svc.Logout(ctx)
		m.settle(StateAnonymous, nil, "")
		return
	}

	m.settle(StateAuthenticated, user, tok)
	m.log.Debug(ctx, "session restored", "user", user.Email)
}

// Login authenticates and transitions Anonymous -> Authenticated. A failure
// leaves the state untouched and is returned for inline display.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.setLoading(true)
	creds, err := m.svc.Login(ctx, email, password)
	if err != nil {
		m.setLoading(false)
		return err
	}
	m.settle(StateAuthenticated, creds.User, creds.Token)
	return nil
}

// Register creates an account and transitions like Login.
func (m *Manager) Register(ctx context.Context, email, password, firstName, lastName string) error {
	m.setLoading(true)
	creds, err := m.svc.Register(ctx, email, password, firstName, lastName)
	if err != nil {
		m.setLoading(false)
		return err
	}
	m.settle(StateAuthenticated, creds.User, creds.Token)
	return nil
}

// Logout ends the session unconditionally.
func (m *Manager) Logout(ctx context.Context) {
	m.svc.Logout(ctx)
	m.settle(StateAnonymous, nil, "")
}

// ConfirmUser re-fetches the authenticated profile and adopts it. On any
// failure the session is force-logged-out; the error is returned so the
// caller can tell, but by then the state is already Anonymous.
func (m *Manager) ConfirmUser(ctx context.Context) error {
	user, err := m.svc.CurrentUser(ctx)
	if err != nil {
		m.log.Info(ctx, "revalidation failed, logging out", "error", err)
		m.Logout(ctx)
		return err
	}

	// a logout during the fetch empties the store; do not resurrect a
	// cleared session with a late result
	tok, err := m.svc.Store().Token(ctx)
	if err != nil || tok == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAuthenticated
	m.user = user
	m.token = tok
	m.loading = false
	return nil
}

// UpdateLanguage persists the preference and patches the in-memory user.
func (m *Manager) UpdateLanguage(ctx context.Context, language string) error {
	lang, err := m.svc.UpdateLanguage(ctx, language)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user != nil {
		m.user.PreferredLanguage = lang
	}
	return nil
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = v
}

// settle applies a resolved state. Last write wins; every field is set
// together so no observer can see a mixed combination.
func (m *Manager) settle(state State, user *api.User, tok string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.user = user
	m.token = tok
	m.loading = false
}
