package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// User is a registered player account.
type User struct {
	ID               string
	Email            string
	Nickname         string
	PasswordHash     string
	Confirmed        bool
	ConfirmationCode string
	CreatedAt        time.Time
}

const userColumns = `id, email, nickname, password_hash, confirmed, confirmation_code, created_at`

// CreateUser inserts a new account. Returns ErrConflict if the email is taken.
func (s *Store) CreateUser(ctx context.Context, u User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Nickname, u.PasswordHash, u.Confirmed, u.ConfirmationCode, formatTime(u.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("storage: cannot create user %s: %w", u.Email, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot create user: %w", err)
	}
	return nil
}

// UserByEmail looks up an account by email, case-insensitively.
// Returns nil if no account exists.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UserByID looks up an account by ID. Returns nil if no account exists.
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var createdAt any
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.Confirmed, &u.ConfirmationCode, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

// ConfirmUser marks an account confirmed and clears its code.
func (s *Store) ConfirmUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET confirmed = 1, confirmation_code = '' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: cannot confirm user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("storage: cannot confirm user: %w", sql.ErrNoRows)
	}
	return nil
}

// SetConfirmationCode replaces the pending confirmation code.
func (s *Store) SetConfirmationCode(ctx context.Context, id, code string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET confirmation_code = ? WHERE id = ?`, code, id)
	if err != nil {
		return fmt.Errorf("storage: cannot update confirmation code: %w", err)
	}
	return nil
}
