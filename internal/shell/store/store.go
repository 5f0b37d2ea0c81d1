package store

import (
	"context"
	"time"

	"github.com/shorepound/TheSandwich/internal/core/catalog"
)

// =============================================================================
// Entities
// =============================================================================

// Sandwich is a persisted custom order. Description is the only durable
// record of the chosen composition; there is no relational link from an
// order to its ingredient ids.
type Sandwich struct {
	ID          int64    `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Description *string  `db:"description" json:"description"`
	Price       *float64 `db:"price" json:"price"`
	Toasted     bool     `db:"toasted" json:"toasted"`
	OwnerUserID *int64   `db:"owner_user_id" json:"ownerUserId"`
	IsPrivate   bool     `db:"is_private" json:"isPrivate"`
}

// User is a registered account.
type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	MFASecret    *string   `db:"mfa_secret"`
	CreatedAt    time.Time `db:"created_at"`
}

// Session maps an opaque bearer token to a user.
type Session struct {
	Token     string    `db:"token"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for orders, users, and sessions.
type Store interface {
	// Order operations
	InsertSandwich(ctx context.Context, s *Sandwich) error
	GetSandwich(ctx context.Context, id int64) (*Sandwich, error)
	ListSandwiches(ctx context.Context) ([]Sandwich, error)
	ListSandwichesByOwner(ctx context.Context, userID int64) ([]Sandwich, error)
	UpdateSandwich(ctx context.Context, s *Sandwich) error
	DeleteSandwich(ctx context.Context, id int64) error

	// BackfillPrices sets every NULL price to zero and returns the number of
	// rows changed. Idempotent: a second call changes nothing.
	BackfillPrices(ctx context.Context) (int64, error)

	// User operations
	CreateUser(ctx context.Context, email, passwordHash string) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// SetMFASecret stores (or clears, when nil) the user's TOTP secret.
	SetMFASecret(ctx context.Context, userID int64, secret *string) error

	// Session operations
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// =============================================================================
// Catalog Interface
// =============================================================================

// Catalog is the dual-backend ingredient store. Both implementations satisfy
// the core catalog.Resolver and catalog.Browser contracts; which one is
// active is a wiring decision the core never sees.
type Catalog interface {
	catalog.Resolver
	catalog.Browser

	// Seed inserts reference options, ignoring ones already present.
	Seed(ctx context.Context, options []catalog.Option) error
}
