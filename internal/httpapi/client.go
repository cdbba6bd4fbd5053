package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/tui-tetrics/internal/auth"
	"github.com/vovakirdan/tui-tetrics/internal/scores"
)

// Client talks to a remote backend. It serves as both a score backend and an
// identity provider, keeping the session token in memory.
type Client struct {
	base string
	hc   *http.Client

	mu    sync.Mutex
	token string
}

var (
	_ scores.Backend = (*Client)(nil)
	_ scores.Ranker  = (*Client)(nil)
	_ auth.Provider  = (*Client)(nil)
)

// NewClient creates a client for baseURL. A nil hc uses a client with a 10s
// timeout.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc}
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// SetToken restores a saved session.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// APIError is a non-2xx response that maps to no known sentinel.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("httpapi: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("httpapi: %d %s", e.Status, e.Code)
}

var sentinels = map[string]error{
	codeUnauthorized:       auth.ErrNotSignedIn,
	codeUserExists:         auth.ErrUserExists,
	codeUserNotFound:       auth.ErrUserNotFound,
	codeInvalidCredentials: auth.ErrInvalidCredentials,
	codeNotConfirmed:       auth.ErrNotConfirmed,
	codeInvalidCode:        auth.ErrInvalidCode,
	codeInvalidInput:       auth.ErrInvalidInput,
	codeInvalidRecord:      scores.ErrInvalidRecord,
	codeSaveFailed:         scores.ErrSaveFailed,
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpapi: cannot encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("httpapi: cannot build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" && !scores.IsGuest(ctx) {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("httpapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var er errorRes
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if s, ok := sentinels[er.Error]; ok {
			if er.Message != "" {
				return fmt.Errorf("%w (%s)", s, er.Message)
			}
			return s
		}
		return &APIError{Status: resp.StatusCode, Code: er.Error, Message: er.Message}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("httpapi: cannot decode response: %w", err)
	}
	return nil
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Create posts a score. The owner is taken from the session token unless ctx is
// marked with scores.AsGuest.
func (c *Client) Create(ctx context.Context, r scores.Record) (scores.Record, error) {
	var out scores.Record
	err := c.do(ctx, http.MethodPost, "/scores", r, &out)
	return out, err
}

// List fetches every score for gameID.
func (c *Client) List(ctx context.Context, gameID string) ([]scores.Record, error) {
	return c.listScores(ctx, gameID, url.Values{})
}

// Top fetches the best limit scores for gameID; the server does the ranking.
func (c *Client) Top(ctx context.Context, gameID string, limit int) ([]scores.Record, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	return c.listScores(ctx, gameID, q)
}

// ForUser fetches a player's best scores.
func (c *Client) ForUser(ctx context.Context, gameID, userID, playerName string, limit int) ([]scores.Record, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if userID != "" {
		q.Set("userId", userID)
	}
	if playerName != "" {
		q.Set("player", playerName)
	}
	if userID == "" && playerName == "" {
		return nil, nil
	}
	return c.listScores(ctx, gameID, q)
}

// Best fetches the single best score for gameID.
func (c *Client) Best(ctx context.Context, gameID string) (int, error) {
	top, err := c.Top(ctx, gameID, 1)
	if err != nil || len(top) == 0 {
		return 0, err
	}
	return top[0].Score, nil
}

func (c *Client) listScores(ctx context.Context, gameID string, q url.Values) ([]scores.Record, error) {
	if gameID != "" {
		q.Set("gameId", gameID)
	}
	path := "/scores"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out scoresRes
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Scores, nil
}

func (c *Client) SignUp(ctx context.Context, in auth.SignUpInput) (auth.SignUpResult, error) {
	var out auth.SignUpResult
	err := c.do(ctx, http.MethodPost, "/auth/signup", in, &out)
	return out, err
}

func (c *Client) ConfirmSignUp(ctx context.Context, email, code string) error {
	return c.do(ctx, http.MethodPost, "/auth/confirm", confirmReq{Email: email, Code: code}, nil)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*auth.User, error) {
	var out signInRes
	if err := c.do(ctx, http.MethodPost, "/auth/signin", signInReq{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return out.User, nil
}

// SignOut notifies the server and always drops the local token.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (*auth.User, error) {
	if c.Token() == "" {
		return nil, auth.ErrNotSignedIn
	}
	var u auth.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) FetchUserAttributes(ctx context.Context) (auth.Attributes, error) {
	u, err := c.CurrentUser(ctx)
	if err != nil {
		return auth.Attributes{}, err
	}
	return auth.Attributes{Email: u.Email, Nickname: u.Nickname}, nil
}
