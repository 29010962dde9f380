package auth

import (
	"context"
	"errors"

	"github.com/mkamau/bloghub/internal/domain/user"
)

// TokenStore is the slice of the tokens repo the resolver needs.
type TokenStore interface {
	ResolveActive(ctx context.Context, tokenHash string) (user.User, error)
}

// Resolver turns a presented raw bearer token into the owning user. The
// lookup happens on every authenticated request so revocation takes effect
// immediately.
type Resolver struct {
	mgr   *Manager
	store TokenStore
}

func NewResolver(mgr *Manager, store TokenStore) *Resolver {
	return &Resolver{mgr: mgr, store: store}
}

func (r *Resolver) ResolveToken(ctx context.Context, raw string) (user.User, error) {
	if raw == "" {
		return user.User{}, ErrInvalidToken
	}

	u, err := r.store.ResolveActive(ctx, r.mgr.HashToken(raw))

	if err != nil {
		// missing and revoked look identical to the caller
		return user.User{}, errors.Join(ErrInvalidToken, err)
	}

	return u, nil
}

// HashToken exposes the manager's hashing so callers holding a resolver can
// map a raw token to its stored form without touching the secret directly.
func (r *Resolver) HashToken(raw string) string {
	return r.mgr.HashToken(raw)
}
