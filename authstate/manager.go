// Package authstate keeps the single answer to "who is signed in and are
// they an admin", reconciled from the identity provider's session stream.
package authstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"recipe-blog-cms/identity"
	"recipe-blog-cms/models"
)

// ProfileStore is the slice of the data layer the manager needs. FetchProfile
// returns (nil, nil) when the account has no profile row.
type ProfileStore interface {
	FetchProfile(ctx context.Context, userID uint) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.Profile, error)
}

type State struct {
	Loading    bool              `json:"loading"`
	User       *identity.User    `json:"user"`
	Profile    *models.Profile   `json:"profile"`
	IsAdmin    bool              `json:"is_admin"`
	NeedsSetup bool              `json:"needs_setup"`
	Err        error             `json:"-"`
	Session    *identity.Session `json:"-"`
}

func (s State) Authenticated() bool {
	return s.User != nil
}

// Role is the profile role, or empty when there is no profile.
func (s State) Role() models.UserRole {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

// Resolve derives the auth view from a session and its profile lookup.
// It is shared by the manager and the per-request server middleware.
func Resolve(session *identity.Session, profile *models.Profile, lookupErr error) State {
	if session == nil {
		return State{}
	}
	user := session.User
	st := State{User: &user, Session: session}
	switch {
	case lookupErr != nil:
		st.Err = lookupErr
	case profile == nil:
		st.NeedsSetup = true
	default:
		st.Profile = profile
		st.IsAdmin = profile.Role == models.RoleAdmin
	}
	return st
}

type Manager struct {
	provider identity.Provider
	profiles ProfileStore
	logger   *slog.Logger

	mu        sync.Mutex
	notifyMu  sync.Mutex
	state     State
	started   uint64
	applied   uint64
	observers map[int]func(State)
	order     []int
	nextObs   int

	ready     chan struct{}
	readyOnce sync.Once

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

func New(provider identity.Provider, profiles ProfileStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		provider:  provider,
		profiles:  profiles,
		logger:    logger.With("component", "authstate"),
		state:     State{Loading: true},
		observers: make(map[int]func(State)),
		ready:     make(chan struct{}),
	}
}

// Start resolves the current session in the background and follows session
// changes until Close.
func (m *Manager) Start(ctx context.Context) {
	m.ctx, m.cancel = context.WithCancel(ctx)

	initial := m.nextSeq()
	m.unsubscribe = m.provider.OnSessionChange(func(event identity.Event, session *identity.Session) {
		seq := m.nextSeq()
		m.logger.Debug("session change", "event", event, "seq", seq)
		m.spawn(func() { m.resolve(seq, session) })
	})

	m.spawn(func() {
		session, err := m.provider.CurrentSession(m.ctx)
		if err != nil {
			m.apply(initial, State{Err: err})
			return
		}
		m.resolve(initial, session)
	})
}

// Close stops following the provider and waits for in-flight resolutions.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Ready is closed once the first resolution has been applied.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Subscribe registers fn for every applied state. Observers run serially and
// must not call UpdateProfile synchronously.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextObs++
	id := m.nextObs
	m.observers[id] = fn
	m.order = append(m.order, id)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.observers[id]; !ok {
			return
		}
		delete(m.observers, id)
		for i, v := range m.order {
			if v == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
}

// UpdateProfile writes a partial profile update for the signed-in user and
// returns the profile as re-read afterwards.
func (m *Manager) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.Profile, error) {
	current := m.State()
	if current.User == nil {
		return nil, models.ErrNoSession
	}
	seq := m.nextSeq()

	if _, err := m.profiles.UpdateProfile(ctx, current.User.ID, req); err != nil {
		return nil, asBackendError("profile update rejected", err)
	}

	fresh, err := m.profiles.FetchProfile(ctx, current.User.ID)
	if err != nil {
		return nil, asBackendError("failed to reload profile", err)
	}
	if fresh == nil {
		return nil, models.ErrProfileNotFound
	}

	m.apply(seq, Resolve(current.Session, fresh, nil))
	return fresh, nil
}

// SignOut asks the provider to end the session. Local state is cleared by
// the change notification that follows, not here.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.provider.SignOut(ctx); err != nil {
		return asBackendError("sign out failed", err)
	}
	return nil
}

func (m *Manager) spawn(fn func()) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		fn()
	}()
}

func (m *Manager) nextSeq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	return m.started
}

func (m *Manager) resolve(seq uint64, session *identity.Session) {
	if session == nil {
		m.apply(seq, State{})
		return
	}
	profile, err := m.profiles.FetchProfile(m.ctx, session.User.ID)
	if err != nil {
		m.logger.Warn("profile lookup failed", "user_id", session.User.ID, "error", err)
	}
	m.apply(seq, Resolve(session, profile, err))
}

// apply installs st unless a resolution that started later has already
// been applied.
func (m *Manager) apply(seq uint64, st State) bool {
	m.mu.Lock()
	if seq <= m.applied {
		m.mu.Unlock()
		m.logger.Debug("discarding stale resolution", "seq", seq)
		return false
	}
	m.applied = seq
	m.state = st
	observers := make([]func(State), 0, len(m.order))
	for _, id := range m.order {
		observers = append(observers, m.observers[id])
	}
	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	m.readyOnce.Do(func() { close(m.ready) })
	for _, fn := range observers {
		fn(st)
	}
	return true
}

func asBackendError(message string, err error) error {
	var (
		validation models.ErrorValidation
		forbidden  models.ErrorForbidden
		notFound   models.ErrorNotFound
		backend    models.ErrorInternalServer
	)
	if errors.As(err, &validation) || errors.As(err, &forbidden) || errors.As(err, &notFound) || errors.As(err, &backend) {
		return err
	}
	return models.NewBackendError(message, err)
}
