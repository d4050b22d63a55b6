// Package guard decides what a navigation attempt should render given the
// resolved auth state and the route's declared requirements.
package guard

import (
	"net/url"

	"recipe-blog-cms/authstate"
	"recipe-blog-cms/models"
)

const SignInPath = "/signin"

type Requirements struct {
	RequireAuth  bool
	RequireAdmin bool
}

type Kind int

const (
	Loading Kind = iota
	RedirectSignIn
	AccessDenied
	Authorized
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case RedirectSignIn:
		return "redirect_sign_in"
	case AccessDenied:
		return "access_denied"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}

type Decision struct {
	Kind Kind

	// ReturnTo is the originally requested location, set for RedirectSignIn.
	ReturnTo string

	// Email and Role describe the current identity, set for AccessDenied.
	Email string
	Role  models.UserRole
}

// Decide gates one navigation attempt. Admin routes imply authentication,
// so a missing identity always redirects before any role check happens.
func Decide(state authstate.State, req Requirements, location string) Decision {
	if state.Loading {
		return Decision{Kind: Loading}
	}
	if (req.RequireAuth || req.RequireAdmin) && !state.Authenticated() {
		return Decision{Kind: RedirectSignIn, ReturnTo: location}
	}
	if req.RequireAdmin && !state.IsAdmin {
		return Decision{Kind: AccessDenied, Email: state.User.Email, Role: state.Role()}
	}
	return Decision{Kind: Authorized}
}

// SignInURL is where a RedirectSignIn decision sends the user.
func (d Decision) SignInURL() string {
	if d.ReturnTo == "" {
		return SignInPath
	}
	return SignInPath + "?" + url.Values{"redirect": {d.ReturnTo}}.Encode()
}
