package identity

import (
	"testing"
	"time"

	"recipe-blog-cms/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer(config.JWTConfig{Secret: []byte("test-secret"), Expiration: time.Hour, Issuer: "test"})
}

func TestIssueAndParse(t *testing.T) {
	issuer := testIssuer()

	token, expiresAt, err := issuer.Issue(42, "cook@example.com", "session-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", claims.Email)
	assert.Equal(t, "session-1", claims.ID)

	id, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, _, err := testIssuer().Issue(1, "a@example.com", "s")
	require.NoError(t, err)

	other := NewTokenIssuer(config.JWTConfig{Secret: []byte("other"), Expiration: time.Hour})
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := testIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue(1, "a@example.com", "s")
	require.NoError(t, err)

	_, err = testIssuer().Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestListenersNotifyInOrderAndRemove(t *testing.T) {
	var l Listeners
	var got []string

	l.Add(func(e Event, _ *Session) { got = append(got, "first:"+string(e)) })
	remove := l.Add(func(e Event, _ *Session) { got = append(got, "second:"+string(e)) })

	l.Notify(EventSignedIn, &Session{})
	remove()
	l.Notify(EventSignedOut, nil)

	assert.Equal(t, []string{"first:SIGNED_IN", "second:SIGNED_IN", "first:SIGNED_OUT"}, got)
}
