package auth

import (
	"context"

	"bloghub/internal/models"
)

// Identity is the gate's verdict for one request: anonymous when User is nil.
type Identity struct {
	User    *models.User
	Session *Claims
}

func Anonymous() Identity {
	return Identity{}
}

func Authenticated(user *models.User, session *Claims) Identity {
	return Identity{User: user, Session: session}
}

func (i Identity) IsAuthenticated() bool {
	return i.User != nil
}

func (i Identity) IsAdmin() bool {
	return i.User != nil && i.User.Role() == models.RoleAdmin
}

func (i Identity) UserID() string {
	if i.User == nil {
		return ""
	}
	return i.User.UserID
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns Anonymous when the gate did not run.
func IdentityFrom(ctx context.Context) Identity {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok {
		return Anonymous()
	}
	return id
}
