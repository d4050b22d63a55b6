// Package identity holds the session contract shared by the server and
// clients, and the signed tokens that carry it.
package identity

import (
	"context"
	"sync"
	"time"
)

type User struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// Session is the opaque credential issued at sign-in.
type Session struct {
	ID          string    `json:"id"`
	AccessToken string    `json:"access_token"`
	User        User      `json:"user"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventUserUpdated    Event = "USER_UPDATED"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

type ChangeFunc func(event Event, session *Session)

// Provider is the identity service as seen by the rest of the application.
type Provider interface {
	CurrentSession(ctx context.Context) (*Session, error)
	OnSessionChange(fn ChangeFunc) (unsubscribe func())
	SignOut(ctx context.Context) error
}

// Listeners is a registry of change callbacks, notified in registration order.
type Listeners struct {
	mu     sync.Mutex
	nextID int
	order  []int
	fns    map[int]ChangeFunc
}

func (l *Listeners) Add(fn ChangeFunc) (remove func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]ChangeFunc)
	}
	l.nextID++
	id := l.nextID
	l.fns[id] = fn
	l.order = append(l.order, id)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

func (l *Listeners) Notify(event Event, session *Session) {
	l.mu.Lock()
	fns := make([]ChangeFunc, 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}
