package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Order Operations
// =============================================================================

func (s *SQLiteStore) InsertSandwich(ctx context.Context, sw *Sandwich) error {
	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sandwiches (name, description, price, toasted, owner_user_id, is_private)
		VALUES (:name, :description, :price, :toasted, :owner_user_id, :is_private)`, sw)
	if err != nil {
		return NewStoreError("InsertSandwich", "sandwich", "", err.Error(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return NewStoreError("InsertSandwich", "sandwich", "", err.Error(), err)
	}
	sw.ID = id
	return nil
}

func (s *SQLiteStore) GetSandwich(ctx context.Context, id int64) (*Sandwich, error) {
	var sw Sandwich
	err := s.db.GetContext(ctx, &sw, `
		SELECT id, name, description, price, toasted, owner_user_id, is_private
		FROM sandwiches WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("GetSandwich", "sandwich", formatID(id), "not found", ErrNotFound)
	}
	if err != nil {
		return nil, NewStoreError("GetSandwich", "sandwich", formatID(id), err.Error(), err)
	}
	return &sw, nil
}

func (s *SQLiteStore) ListSandwiches(ctx context.Context) ([]Sandwich, error) {
	var out []Sandwich
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, name, description, price, toasted, owner_user_id, is_private
		FROM sandwiches ORDER BY id`)
	if err != nil {
		return nil, NewStoreError("ListSandwiches", "sandwich", "", err.Error(), err)
	}
	return out, nil
}

func (s *SQLiteStore) ListSandwichesByOwner(ctx context.Context, userID int64) ([]Sandwich, error) {
	var out []Sandwich
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, name, description, price, toasted, owner_user_id, is_private
		FROM sandwiches WHERE owner_user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, NewStoreError("ListSandwichesByOwner", "sandwich", "", err.Error(), err)
	}
	return out, nil
}

func (s *SQLiteStore) UpdateSandwich(ctx context.Context, sw *Sandwich) error {
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE sandwiches
		SET name = :name, description = :description, price = :price,
		    toasted = :toasted, owner_user_id = :owner_user_id, is_private = :is_private
		WHERE id = :id`, sw)
	if err != nil {
		return NewStoreError("UpdateSandwich", "sandwich", formatID(sw.ID), err.Error(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NewStoreError("UpdateSandwich", "sandwich", formatID(sw.ID), err.Error(), err)
	}
	if n == 0 {
		return NewStoreError("UpdateSandwich", "sandwich", formatID(sw.ID), "not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) DeleteSandwich(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sandwiches WHERE id = ?`, id)
	if err != nil {
		return NewStoreError("DeleteSandwich", "sandwich", formatID(id), err.Error(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NewStoreError("DeleteSandwich", "sandwich", formatID(id), err.Error(), err)
	}
	if n == 0 {
		return NewStoreError("DeleteSandwich", "sandwich", formatID(id), "not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) BackfillPrices(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE sandwiches SET price = 0 WHERE price IS NULL`)
	if err != nil {
		return 0, NewStoreError("BackfillPrices", "sandwich", "", err.Error(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, NewStoreError("BackfillPrices", "sandwich", "", err.Error(), err)
	}
	return n, nil
}

// =============================================================================
// User Operations
// =============================================================================

// userRow mirrors the users table; timestamps are stored as RFC 3339 text.
type userRow struct {
	ID           int64   `db:"id"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	IsAdmin      bool    `db:"is_admin"`
	MFASecret    *string `db:"mfa_secret"`
	CreatedAt    string  `db:"created_at"`
}

func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, is_admin, created_at)
		VALUES (?, ?, 0, ?)`, email, passwordHash, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, NewStoreError("CreateUser", "user", "", "email already registered", ErrDuplicateEmail)
		}
		return 0, NewStoreError("CreateUser", "user", "", err.Error(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, NewStoreError("CreateUser", "user", "", err.Error(), err)
	}
	return id, nil
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, password_hash, is_admin, mfa_secret, created_at
		FROM users WHERE email = ? COLLATE NOCASE`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("GetUserByEmail", "user", "", "not found", ErrNotFound)
	}
	if err != nil {
		return nil, NewStoreError("GetUserByEmail", "user", "", err.Error(), err)
	}

	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	return &User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsAdmin:      row.IsAdmin,
		MFASecret:    row.MFASecret,
		CreatedAt:    createdAt,
	}, nil
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, password_hash, is_admin, mfa_secret, created_at
		FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("GetUserByID", "user", formatID(id), "not found", ErrNotFound)
	}
	if err != nil {
		return nil, NewStoreError("GetUserByID", "user", formatID(id), err.Error(), err)
	}

	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	return &User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsAdmin:      row.IsAdmin,
		MFASecret:    row.MFASecret,
		CreatedAt:    createdAt,
	}, nil
}

func (s *SQLiteStore) SetMFASecret(ctx context.Context, userID int64, secret *string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET mfa_secret = ? WHERE id = ?`, secret, userID)
	if err != nil {
		return NewStoreError("SetMFASecret", "user", formatID(userID), err.Error(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NewStoreError("SetMFASecret", "user", formatID(userID), err.Error(), err)
	}
	if n == 0 {
		return NewStoreError("SetMFASecret", "user", formatID(userID), "not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1) FROM users WHERE email = ? COLLATE NOCASE`, email)
	if err != nil {
		return false, NewStoreError("EmailExists", "user", "", err.Error(), err)
	}
	return count > 0, nil
}

// =============================================================================
// Session Operations
// =============================================================================

type sessionRow struct {
	Token     string `db:"token"`
	UserID    int64  `db:"user_id"`
	CreatedAt string `db:"created_at"`
	ExpiresAt string `db:"expires_at"`
}

func (s *SQLiteStore) CreateSession(ctx context.Context, session *Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		session.Token, session.UserID,
		session.CreatedAt.UTC().Format(time.RFC3339),
		session.ExpiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return NewStoreError("CreateSession", "session", "", err.Error(), err)
	}
	return nil
}

// GetSession resolves a bearer token. Expired sessions are deleted on read
// and reported as ErrSessionExpired.
func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("GetSession", "session", "", "not found", ErrNotFound)
	}
	if err != nil {
		return nil, NewStoreError("GetSession", "session", "", err.Error(), err)
	}

	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	expiresAt, _ := time.Parse(time.RFC3339, row.ExpiresAt)
	if !expiresAt.IsZero() && expiresAt.Before(time.Now()) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
		return nil, NewStoreError("GetSession", "session", "", "expired", ErrSessionExpired)
	}

	return &Session{
		Token:     row.Token,
		UserID:    row.UserID,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return NewStoreError("DeleteSession", "session", "", err.Error(), err)
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
