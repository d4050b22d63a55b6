package middleware

import (
	"context"
	"net/http"
	"strings"

	"recipe-blog-cms/authstate"
	"recipe-blog-cms/guard"
	"recipe-blog-cms/helper"
	"recipe-blog-cms/identity"
	"recipe-blog-cms/models"

	"github.com/gin-gonic/gin"
)

const authStateKey = "auth_state"

// Authenticator resolves bearer tokens and the profiles behind them.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.Session, error)
	FetchProfile(ctx context.Context, userID uint) (*models.Profile, error)
}

// Authenticate resolves the request's auth state. Requests without an
// Authorization header continue as anonymous; a bad token is rejected.
func Authenticate(auth Authenticator, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(authStateKey, authstate.State{})
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			h.SendUnauthorizedError(c, "Bearer token required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			h.SendErrorFrom(c, err)
			c.Abort()
			return
		}

		profile, err := auth.FetchProfile(c.Request.Context(), session.User.ID)
		state := authstate.Resolve(session, profile, err)
		if state.Err != nil {
			h.SendErrorFrom(c, state.Err)
			c.Abort()
			return
		}

		c.Set(authStateKey, state)
		c.Next()
	}
}

// AuthState returns the state stored by Authenticate, or anonymous.
func AuthState(c *gin.Context) authstate.State {
	if v, ok := c.Get(authStateKey); ok {
		if st, ok := v.(authstate.State); ok {
			return st
		}
	}
	return authstate.State{}
}

// Guard enforces route requirements. Unauthenticated callers get a 401 that
// carries the sign-in location; signed-in non-admins get a 403 naming their
// identity and role.
func Guard(req guard.Requirements, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := guard.Decide(AuthState(c), req, c.Request.URL.RequestURI())

		switch decision.Kind {
		case guard.Authorized:
			c.Next()
			return
		case guard.Loading:
			h.SendUnavailable(c, "Authentication is still resolving", h.EmptyJsonMap())
		case guard.RedirectSignIn:
			h.SendUnauthorizedError(c, "Sign in required", gin.H{"redirect_to": decision.SignInURL()})
		case guard.AccessDenied:
			h.SendForbiddenError(c, "Access denied", gin.H{"email": decision.Email, "role": decision.Role})
		}
		c.Abort()
	}
}

// RequireProfile rejects signed-in accounts that have not finished setup.
func RequireProfile(h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if AuthState(c).NeedsSetup {
			h.SendError(c, models.ErrNeedsSetup.Error(), gin.H{"needs_setup": true}, http.StatusForbidden, `needsSetup`)
			c.Abort()
			return
		}
		c.Next()
	}
}
