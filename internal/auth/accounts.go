// Package auth provides player accounts: sign-up with a confirmation code,
// password sign-in, session tokens and display names.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/tui-tetrics/internal/storage"
)

// Errors returned by account operations.
var (
	ErrUserExists         = errors.New("auth: user already exists")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrNotConfirmed       = errors.New("auth: account not confirmed")
	ErrInvalidCode        = errors.New("auth: invalid confirmation code")
	ErrNotSignedIn        = errors.New("auth: not signed in")
	ErrInvalidInput       = errors.New("auth: invalid input")
)

// Password length bounds.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt ignores anything longer
	codeDigits     = 6
)

// User is the public view of an account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

// Attributes are the profile fields used for display names.
type Attributes struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
}

// SignUpInput carries a registration request.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
}

// SignUpResult is returned after registration. Code is the confirmation code the
// player must enter; there is no mail delivery, so the caller shows it.
type SignUpResult struct {
	UserID string `json:"userId"`
	Code   string `json:"code,omitempty"`
}

// Accounts manages accounts in the SQLite store.
type Accounts struct {
	store  *storage.Store
	logger *log.Logger
	cost   int
}

// NewAccounts creates an account manager. A nil logger discards output.
func NewAccounts(store *storage.Store, logger *log.Logger) *Accounts {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Accounts{store: store, logger: logger, cost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignUp(in SignUpInput) error {
	at := strings.IndexByte(in.Email, '@')
	if at <= 0 || at == len(in.Email)-1 || strings.ContainsAny(in.Email, " \t") {
		return fmt.Errorf("%w: email address is malformed", ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLen || len(in.Password) > MaxPasswordLen {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidInput, MinPasswordLen, MaxPasswordLen)
	}
	if len([]rune(in.Nickname)) > 24 {
		return fmt.Errorf("%w: nickname must be at most 24 characters", ErrInvalidInput)
	}
	return nil
}

// SignUp registers an unconfirmed account and returns its confirmation code.
func (a *Accounts) SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.Nickname = strings.TrimSpace(in.Nickname)
	if err := validateSignUp(in); err != nil {
		return SignUpResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return SignUpResult{}, fmt.Errorf("auth: cannot hash password: %w", err)
	}
	code, err := newCode()
	if err != nil {
		return SignUpResult{}, err
	}

	u := storage.User{
		ID:               uuid.NewString(),
		Email:            in.Email,
		Nickname:         in.Nickname,
		PasswordHash:     string(hash),
		ConfirmationCode: code,
	}
	if err := a.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return SignUpResult{}, ErrUserExists
		}
		return SignUpResult{}, err
	}

	a.logger.Info("account created", "email", u.Email, "id", u.ID)
	return SignUpResult{UserID: u.ID, Code: code}, nil
}

// ConfirmSignUp confirms an account with the code issued at sign-up.
func (a *Accounts) ConfirmSignUp(ctx context.Context, email, code string) error {
	u, err := a.store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if u.Confirmed {
		return nil
	}
	if strings.TrimSpace(code) != u.ConfirmationCode {
		return ErrInvalidCode
	}
	if err := a.store.ConfirmUser(ctx, u.ID); err != nil {
		return err
	}
	a.logger.Info("account confirmed", "email", u.Email)
	return nil
}

// ResendCode issues a fresh confirmation code for an unconfirmed account.
func (a *Accounts) ResendCode(ctx context.Context, email string) (string, error) {
	u, err := a.store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}
	if u.Confirmed {
		return "", fmt.Errorf("%w: account already confirmed", ErrInvalidInput)
	}
	code, err := newCode()
	if err != nil {
		return "", err
	}
	if err := a.store.SetConfirmationCode(ctx, u.ID, code); err != nil {
		return "", err
	}
	return code, nil
}

// SignIn checks credentials. Unconfirmed accounts are rejected with
// ErrNotConfirmed once the password matches.
func (a *Accounts) SignIn(ctx context.Context, email, password string) (*User, error) {
	u, err := a.store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Confirmed {
		return nil, ErrNotConfirmed
	}
	return publicUser(u), nil
}

// User looks up an account by ID.
func (a *Accounts) User(ctx context.Context, id string) (*User, error) {
	u, err := a.store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return publicUser(u), nil
}

func publicUser(u *storage.User) *User {
	return &User{ID: u.ID, Email: u.Email, Nickname: u.Nickname, Confirmed: u.Confirmed}
}

// newCode returns a random numeric confirmation code.
func newCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("auth: cannot generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
