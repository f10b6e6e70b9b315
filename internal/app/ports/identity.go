package ports

import "context"

// Credentials is what the transport extracted from a request.
type Credentials struct {
	BearerToken string
	UserID      string
}

type IdentityProvider interface {
	Authenticate(ctx context.Context, creds Credentials) (string, error)
}

type userIDKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// CurrentUserID returns the authenticated user for ctx, or false when the
// caller is anonymous.
func CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
