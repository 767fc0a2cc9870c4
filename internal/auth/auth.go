// Package auth resolves bearer tokens into principals.
// Token issuance and user registration happen outside this service.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"food-ordering-system/internal/database"
	"food-ordering-system/internal/models"

	"github.com/jackc/pgx/v5"
)

// Authenticator turns a raw bearer token into the calling principal.
// Unknown or expired tokens yield models.ErrUnauthenticated.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

// HashToken returns the hex SHA-256 digest stored in auth_tokens.token_hash
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Postgres looks tokens up by digest joined to users
type Postgres struct {
	db *database.DB
}

func NewPostgres(db *database.DB) *Postgres {
	return &Postgres{db: db}
}

func (a *Postgres) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	if token == "" {
		return models.Principal{}, models.ErrUnauthenticated
	}

	var (
		p    models.Principal
		role string
	)
	err := a.db.QueryRow(ctx, database.GetPrincipalByTokenSQL, HashToken(token)).Scan(&p.UserID, &p.Email, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Principal{}, models.ErrUnauthenticated
	}
	if err != nil {
		return models.Principal{}, fmt.Errorf("failed to look up token: %w", err)
	}

	p.Role, err = models.ParseRole(role)
	if err != nil {
		return models.Principal{}, fmt.Errorf("user %d: %w", p.UserID, err)
	}
	return p, nil
}

// Static serves a fixed token table, used by the memory driver and tests
type Static struct {
	principals map[string]models.Principal
}

func NewStatic(principals map[string]models.Principal) *Static {
	copied := make(map[string]models.Principal, len(principals))
	for token, p := range principals {
		copied[token] = p
	}
	return &Static{principals: copied}
}

func (a *Static) Authenticate(_ context.Context, token string) (models.Principal, error) {
	p, ok := a.principals[token]
	if !ok || token == "" {
		return models.Principal{}, models.ErrUnauthenticated
	}
	return p, nil
}

type contextKey struct{}

// WithPrincipal stores the authenticated principal on the request context
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the principal set by the auth middleware
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(models.Principal)
	return p, ok
}
