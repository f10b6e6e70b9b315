package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"shopeelife/internal/app/ports"
)

var ErrEmptySecret = errors.New("jwt secret cannot be empty")

// Provider authenticates HS256 bearer tokens whose subject is the user id.
// With AllowHeader set, a plain user id header is accepted when no token is
// sent, which is meant for local play only.
type Provider struct {
	secret      []byte
	AllowHeader bool
	logger      *zap.Logger
	Now         func() time.Time
}

func New(secret string, logger *zap.Logger) (*Provider, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		secret: []byte(secret),
		logger: logger.Named("jwtauth"),
		Now:    time.Now,
	}, nil
}

func (p *Provider) Authenticate(_ context.Context, creds ports.Credentials) (string, error) {
	if creds.BearerToken != "" {
		return p.verify(creds.BearerToken)
	}
	if p.AllowHeader {
		if id := strings.TrimSpace(creds.UserID); id != "" {
			return id, nil
		}
	}
	return "", ports.ErrNotAuthenticated
}

func (p *Provider) verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.Now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		p.logger.Debug("token rejected", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ports.ErrNotAuthenticated, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ports.ErrNotAuthenticated)
	}
	return claims.Subject, nil
}

// Sign issues a token for userID that expires after ttl. Players get their
// tokens from the auth service; this is for tests and local play.
func (p *Provider) Sign(userID string, ttl time.Duration) (string, error) {
	now := p.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
