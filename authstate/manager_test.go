package authstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recipe-blog-cms/identity"
	"recipe-blog-cms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu        sync.Mutex
	session   *identity.Session
	listeners identity.Listeners
	signOuts  int
	signOutFn func() error
}

func (p *fakeProvider) CurrentSession(context.Context) (*identity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session, nil
}

func (p *fakeProvider) OnSessionChange(fn identity.ChangeFunc) func() {
	return p.listeners.Add(fn)
}

func (p *fakeProvider) SignOut(context.Context) error {
	p.mu.Lock()
	p.signOuts++
	fn := p.signOutFn
	p.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return nil
}

func (p *fakeProvider) emit(event identity.Event, s *identity.Session) {
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
	p.listeners.Notify(event, s)
}

type fakeProfiles struct {
	mu        sync.Mutex
	profiles  map[uint]*models.Profile
	gates     map[uint]chan struct{}
	fetchErr  error
	updateErr error
}

func newFakeProfiles(profiles ...*models.Profile) *fakeProfiles {
	f := &fakeProfiles{profiles: map[uint]*models.Profile{}, gates: map[uint]chan struct{}{}}
	for _, p := range profiles {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) FetchProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	f.mu.Lock()
	gate := f.gates[userID]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, userID uint, req models.UpdateProfileRequest) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, models.ErrProfileNotFound
	}
	if req.DisplayName != nil {
		p.DisplayName = *req.DisplayName
	}
	cp := *p
	return &cp, nil
}

func session(id uint, email string) *identity.Session {
	return &identity.Session{ID: "s", AccessToken: "t", User: identity.User{ID: id, Email: email}}
}

func startManager(t *testing.T, p *fakeProvider, profiles *fakeProfiles) (*Manager, chan State) {
	t.Helper()
	m := New(p, profiles, nil)
	states := make(chan State, 16)
	m.Subscribe(func(s State) { states <- s })
	m.Start(context.Background())
	t.Cleanup(m.Close)
	return m, states
}

func next(t *testing.T, states <-chan State) State {
	t.Helper()
	select {
	case s := <-states:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no state applied")
		return State{}
	}
}

func TestStartsLoadingThenResolvesAnonymous(t *testing.T) {
	m := New(&fakeProvider{}, newFakeProfiles(), nil)
	assert.True(t, m.State().Loading)

	m.Start(context.Background())
	defer m.Close()

	select {
	case <-m.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("manager never became ready")
	}
	st := m.State()
	assert.False(t, st.Loading)
	assert.False(t, st.Authenticated())
	assert.False(t, st.IsAdmin)
}

func TestObserversNotifiedInSubscriptionOrder(t *testing.T) {
	p := &fakeProvider{}
	m := New(p, newFakeProfiles(&models.Profile{ID: 1, Role: models.RoleUser}), nil)
	t.Cleanup(m.Close)

	var (
		mu  sync.Mutex
		got []string
	)
	record := func(name string) func(State) {
		return func(State) {
			mu.Lock()
			got = append(got, name)
			mu.Unlock()
		}
	}
	m.Subscribe(record("first"))
	removeSecond := m.Subscribe(record("second"))
	m.Subscribe(record("third"))
	done := make(chan struct{}, 4)
	m.Subscribe(func(State) { done <- struct{}{} })

	wait := func() {
		t.Helper()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("no state applied")
		}
	}

	m.Start(context.Background())
	wait()

	removeSecond()
	removeSecond()
	p.emit(identity.EventSignedIn, session(1, "x@example.com"))
	wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second", "third", "first", "third"}, got)
}

func TestResolvesAdminRole(t *testing.T) {
	p := &fakeProvider{session: session(1, "chef@example.com")}
	_, states := startManager(t, p, newFakeProfiles(&models.Profile{ID: 1, Role: models.RoleAdmin}))

	st := next(t, states)
	require.True(t, st.Authenticated())
	assert.True(t, st.IsAdmin)
	assert.False(t, st.NeedsSetup)
}

func TestNonAdminRoles(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleUser, models.RoleEditor, "Admin", ""} {
		p := &fakeProvider{session: session(1, "x@example.com")}
		_, states := startManager(t, p, newFakeProfiles(&models.Profile{ID: 1, Role: role}))
		st := next(t, states)
		assert.False(t, st.IsAdmin, "role %q", role)
	}
}

func TestMissingProfileNeedsSetup(t *testing.T) {
	p := &fakeProvider{session: session(7, "new@example.com")}
	_, states := startManager(t, p, newFakeProfiles())

	st := next(t, states)
	assert.True(t, st.Authenticated(), "needs-setup is not anonymous")
	assert.True(t, st.NeedsSetup)
	assert.False(t, st.IsAdmin)
	assert.Nil(t, st.Profile)
}

func TestProfileLookupFailureIsNotNeedsSetup(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.fetchErr = errors.New("connection reset")
	p := &fakeProvider{session: session(7, "new@example.com")}
	_, states := startManager(t, p, profiles)

	st := next(t, states)
	assert.Error(t, st.Err)
	assert.False(t, st.NeedsSetup)
}

func TestNewerNotificationWinsOverSlowerOlderOne(t *testing.T) {
	slow := make(chan struct{})
	profiles := newFakeProfiles(
		&models.Profile{ID: 1, Role: models.RoleAdmin},
		&models.Profile{ID: 2, Role: models.RoleUser},
	)
	profiles.gates[1] = slow

	p := &fakeProvider{}
	m, states := startManager(t, p, profiles)
	next(t, states) // anonymous initial state

	p.emit(identity.EventSignedIn, session(1, "admin@example.com"))
	p.emit(identity.EventSignedIn, session(2, "user@example.com"))

	st := next(t, states)
	require.NotNil(t, st.User)
	assert.Equal(t, uint(2), st.User.ID)

	close(slow)
	select {
	case stale := <-states:
		t.Fatalf("stale resolution applied for user %d", stale.User.ID)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, uint(2), m.State().User.ID)
	assert.False(t, m.State().IsAdmin)
}

func TestSignOutClearsOnlyThroughNotification(t *testing.T) {
	p := &fakeProvider{session: session(1, "a@example.com")}
	m, states := startManager(t, p, newFakeProfiles(&models.Profile{ID: 1, Role: models.RoleUser}))
	next(t, states)

	require.NoError(t, m.SignOut(context.Background()))
	assert.Equal(t, 1, p.signOuts)
	assert.True(t, m.State().Authenticated(), "state is untouched until the provider reports")

	p.emit(identity.EventSignedOut, nil)
	st := next(t, states)
	assert.False(t, st.Authenticated())
}

func TestSignOutFailureIsBackendError(t *testing.T) {
	p := &fakeProvider{signOutFn: func() error { return errors.New("provider down") }}
	m, _ := startManager(t, p, newFakeProfiles())

	err := m.SignOut(context.Background())
	var backend models.ErrorInternalServer
	assert.ErrorAs(t, err, &backend)
}

func TestUpdateProfileWithoutSession(t *testing.T) {
	m, states := startManager(t, &fakeProvider{}, newFakeProfiles())
	next(t, states)

	name := "New Name"
	_, err := m.UpdateProfile(context.Background(), models.UpdateProfileRequest{DisplayName: &name})
	assert.ErrorIs(t, err, models.ErrNoSession)
}

func TestUpdateProfileRejectedWrite(t *testing.T) {
	profiles := newFakeProfiles(&models.Profile{ID: 1, Role: models.RoleUser})
	profiles.updateErr = errors.New("permission denied for table profiles")
	m, states := startManager(t, &fakeProvider{session: session(1, "a@example.com")}, profiles)
	next(t, states)

	name := "New Name"
	_, err := m.UpdateProfile(context.Background(), models.UpdateProfileRequest{DisplayName: &name})
	var backend models.ErrorInternalServer
	assert.ErrorAs(t, err, &backend)
}

func TestUpdateProfileRefreshesState(t *testing.T) {
	profiles := newFakeProfiles(&models.Profile{ID: 1, DisplayName: "Old", Role: models.RoleUser})
	m, states := startManager(t, &fakeProvider{session: session(1, "a@example.com")}, profiles)
	next(t, states)

	name := "Fresh Name"
	profile, err := m.UpdateProfile(context.Background(), models.UpdateProfileRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Fresh Name", profile.DisplayName)

	st := next(t, states)
	assert.Equal(t, "Fresh Name", st.Profile.DisplayName)
	assert.Equal(t, "Fresh Name", m.State().Profile.DisplayName)
}
