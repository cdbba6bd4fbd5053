package auth

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Display names for players without a usable profile.
const (
	GuestName   = "Guest Player"
	DefaultName = "Player"
)

// Provider is an identity backend holding the signed-in player for one client.
type Provider interface {
	SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
	// CurrentUser returns ErrNotSignedIn for guests.
	CurrentUser(ctx context.Context) (*User, error)
	FetchUserAttributes(ctx context.Context) (Attributes, error)
}

// LocalProvider serves a single client from the local account store.
type LocalProvider struct {
	accounts *Accounts

	mu      sync.Mutex
	current *User
}

var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider creates a provider with nobody signed in.
func NewLocalProvider(accounts *Accounts) *LocalProvider {
	return &LocalProvider{accounts: accounts}
}

func (p *LocalProvider) SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error) {
	return p.accounts.SignUp(ctx, in)
}

func (p *LocalProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	return p.accounts.ConfirmSignUp(ctx, email, code)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	u, err := p.accounts.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.current = u
	p.mu.Unlock()
	return u, nil
}

func (p *LocalProvider) SignOut(context.Context) error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	return nil
}

func (p *LocalProvider) CurrentUser(context.Context) (*User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, ErrNotSignedIn
	}
	u := *p.current
	return &u, nil
}

// FetchUserAttributes reloads the profile from the store.
func (p *LocalProvider) FetchUserAttributes(ctx context.Context) (Attributes, error) {
	cur, err := p.CurrentUser(ctx)
	if err != nil {
		return Attributes{}, err
	}
	u, err := p.accounts.User(ctx, cur.ID)
	if err != nil {
		return Attributes{}, err
	}
	return Attributes{Email: u.Email, Nickname: u.Nickname}, nil
}

// DisplayName resolves the signed-in player's name: nickname, then a name
// derived from the email, then DefaultName. Guests get GuestName. Lookup
// failures degrade to QuickDisplayName.
func DisplayName(ctx context.Context, p Provider) string {
	u, err := p.CurrentUser(ctx)
	if err != nil || u == nil {
		return GuestName
	}
	attrs, err := p.FetchUserAttributes(ctx)
	if err != nil {
		return QuickDisplayName(u)
	}
	return nameFrom(attrs.Nickname, attrs.Email)
}

// QuickDisplayName derives a name from a user record without a lookup.
func QuickDisplayName(u *User) string {
	if u == nil {
		return GuestName
	}
	return nameFrom(u.Nickname, u.Email)
}

func nameFrom(nickname, email string) string {
	if n := strings.TrimSpace(nickname); n != "" {
		return n
	}
	if name := NameFromEmail(email); name != "" {
		return name
	}
	return DefaultName
}

// NameFromEmail turns "jane.doe_smith@x.com" into "Jane Doe Smith".
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == ' '
	})
	if len(words) == 0 {
		return ""
	}
	caser := cases.Title(language.Und)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
