package client

import (
	"context"
	"net/http"

	"recipe-blog-cms/identity"
	"recipe-blog-cms/models"
)

var _ identity.Provider = (*Client)(nil)

// SignIn exchanges credentials for a session and notifies listeners.
func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	var res models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, models.LoginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return c.setSession(identity.EventSignedIn, res), nil
}

// Register creates an account with its profile and signs it in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*identity.Session, error) {
	var res models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &res); err != nil {
		return nil, err
	}
	return c.setSession(identity.EventSignedIn, res), nil
}

func (c *Client) setSession(event identity.Event, res models.AuthResponse) *identity.Session {
	session := &identity.Session{
		AccessToken: res.Token,
		User:        identity.User{ID: res.Account.ID, Email: res.Account.Email},
		ExpiresAt:   res.ExpiresAt,
	}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	c.listeners.Notify(event, session)
	return session
}

func (c *Client) CurrentSession(ctx context.Context) (*identity.Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil, nil
	}
	s := *c.session
	return &s, nil
}

func (c *Client) OnSessionChange(fn identity.ChangeFunc) func() {
	return c.listeners.Add(fn)
}

// SignOut revokes the session on the server. Local state is cleared only
// once the server confirmed, through the SIGNED_OUT notification.
func (c *Client) SignOut(ctx context.Context) error {
	if c.token() == "" {
		return nil
	}
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	c.listeners.Notify(identity.EventSignedOut, nil)
	return nil
}

type profileState struct {
	User       *identity.User  `json:"user"`
	Profile    *models.Profile `json:"profile"`
	NeedsSetup bool            `json:"needs_setup"`
}

// FetchProfile returns the signed-in user's profile, or (nil, nil) when the
// account still needs setup.
func (c *Client) FetchProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	var st profileState
	if err := c.do(ctx, http.MethodGet, "/profile", nil, nil, &st); err != nil {
		return nil, err
	}
	if st.User == nil || st.User.ID != userID {
		return nil, models.ErrorForbidden{Message: "profile belongs to another session"}
	}
	return st.Profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodPatch, "/profile", nil, req, &profile); err != nil {
		return nil, err
	}
	if profile.ID != userID {
		return nil, models.ErrorForbidden{Message: "profile belongs to another session"}
	}
	return &profile, nil
}

// SetupProfile creates the missing profile row for a signed-in account.
func (c *Client) SetupProfile(ctx context.Context, displayName string) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodPost, "/profile/setup", nil, models.SetupProfileRequest{DisplayName: displayName}, &profile); err != nil {
		return nil, err
	}
	c.notifyUserUpdated()
	return &profile, nil
}

func (c *Client) notifyUserUpdated() {
	session, _ := c.CurrentSession(context.Background())
	if session != nil {
		c.listeners.Notify(identity.EventUserUpdated, session)
	}
}
