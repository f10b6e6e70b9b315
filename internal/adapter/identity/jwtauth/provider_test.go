package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"shopeelife/internal/app/ports"
)

func newProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New("test-secret", nil)
	require.NoError(t, err)
	p.Now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	return p
}

func TestProviderAcceptsSignedToken(t *testing.T) {
	p := newProvider(t)
	token, err := p.Sign("alice", time.Hour)
	require.NoError(t, err)

	id, err := p.Authenticate(context.Background(), ports.Credentials{BearerToken: token})
	require.NoError(t, err)
	require.Equal(t, "alice", id)
}

func TestProviderRejectsBadTokens(t *testing.T) {
	p := newProvider(t)
	expired, err := p.Sign("alice", -time.Minute)
	require.NoError(t, err)

	other, err := New("other-secret", nil)
	require.NoError(t, err)
	other.Now = p.Now
	foreign, err := other.Sign("alice", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":    expired,
		"foreign":    foreign,
		"malformed":  "not-a-token",
		"no subject": noSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := p.Authenticate(context.Background(), ports.Credentials{BearerToken: token})
			require.True(t, errors.Is(err, ports.ErrNotAuthenticated), "got %v", err)
		})
	}
}

func TestProviderHeaderFallback(t *testing.T) {
	p := newProvider(t)
	_, err := p.Authenticate(context.Background(), ports.Credentials{UserID: "bob"})
	require.True(t, errors.Is(err, ports.ErrNotAuthenticated))

	p.AllowHeader = true
	id, err := p.Authenticate(context.Background(), ports.Credentials{UserID: " bob "})
	require.NoError(t, err)
	require.Equal(t, "bob", id)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("", nil)
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestHeaderProvider(t *testing.T) {
	id, err := HeaderProvider{}.Authenticate(context.Background(), ports.Credentials{UserID: "carol"})
	require.NoError(t, err)
	require.Equal(t, "carol", id)

	_, err = HeaderProvider{}.Authenticate(context.Background(), ports.Credentials{})
	require.ErrorIs(t, err, ports.ErrNotAuthenticated)
}
