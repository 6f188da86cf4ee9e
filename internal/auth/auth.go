// Package auth is the access boundary in front of mutating operations. It
// resolves a caller identity; authorization policy beyond "the caller is a
// known user" is left to deployments fronting the service.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// UserIDHeader names the header carrying the caller's user id. It is expected
// to be set by a trusted proxy that already verified the credential.
const UserIDHeader = "X-User-ID"

var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the resolved caller.
type Identity struct {
	UserID   int64
	Username string
}

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (Identity, error)
}

// HeaderAuthenticator trusts the UserIDHeader and verifies the user exists.
type HeaderAuthenticator struct {
	store storage.Store
}

func NewHeaderAuthenticator(store storage.Store) *HeaderAuthenticator {
	return &HeaderAuthenticator{store: store}
}

func (a *HeaderAuthenticator) Authenticate(r *http.Request) (Identity, error) {
	raw := r.Header.Get(UserIDHeader)
	if raw == "" {
		return Identity{}, ErrUnauthenticated
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Identity{}, ErrUnauthenticated
	}

	var user core.User
	err = a.store.WithinTx(r.Context(), func(tx storage.Tx) error {
		var err error
		user, err = tx.GetUser(r.Context(), id)
		return err
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Identity{}, ErrUnauthenticated
		}
		return Identity{}, err
	}
	return Identity{UserID: user.ID, Username: user.Username}, nil
}

var _ Authenticator = (*HeaderAuthenticator)(nil)

type identityKey struct{}

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored on the context, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
