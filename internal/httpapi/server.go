// Package httpapi serves the score and account backend over HTTP and provides a
// client for it.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/tui-tetrics/internal/auth"
	"github.com/vovakirdan/tui-tetrics/internal/scores"
)

// Options configures a Server.
type Options struct {
	Scores   *scores.Service
	Accounts *auth.Accounts
	Tokens   *auth.Tokens
	// Origin allowed by CORS. Empty allows any origin without credentials.
	Origin string
	Logger zerolog.Logger
}

// Server routes backend requests.
type Server struct {
	r        *chi.Mux
	scores   *scores.Service
	accounts *auth.Accounts
	tokens   *auth.Tokens
	origin   string
	log      zerolog.Logger
}

// New builds the router.
func New(opts Options) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		scores:   opts.Scores,
		accounts: opts.Accounts,
		tokens:   opts.Tokens,
		origin:   opts.Origin,
		log:      opts.Logger,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Get("/scores", s.handleListScores)
	s.r.With(s.withOptionalAuth).Post("/scores", s.handleSaveScore)

	s.r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignUp)
		r.Post("/confirm", s.handleConfirm)
		r.Post("/signin", s.handleSignIn)
		r.Post("/signout", s.handleSignOut)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.r }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// --- Middleware ---

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", s.origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxUserKey struct{}

func bearerToken(r *http.Request) string {
	a := r.Header.Get("Authorization")
	if len(a) > 7 && strings.EqualFold(a[:7], "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// authenticate resolves the bearer token to a live account.
func (s *Server) authenticate(r *http.Request) (*auth.User, error) {
	raw := bearerToken(r)
	if raw == "" {
		return nil, auth.ErrNotSignedIn
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.accounts.User(r.Context(), claims.Subject)
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
	})
}

// withOptionalAuth attaches the user when a valid token is present. Invalid
// tokens are treated as guests.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, err := s.authenticate(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
		}
		next.ServeHTTP(w, r)
	})
}

func userFrom(ctx context.Context) *auth.User {
	u, _ := ctx.Value(ctxUserKey{}).(*auth.User)
	return u
}

// --- Scores ---

type scoresRes struct {
	Scores []scores.Record `json:"scores"`
}

func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gameID := q.Get("gameId")
	limit, _ := strconv.Atoi(q.Get("limit"))
	userID, player := q.Get("userId"), q.Get("player")

	var (
		list []scores.Record
		err  error
	)
	if userID != "" || player != "" {
		list, err = s.scores.ForUser(r.Context(), gameID, userID, player, limit)
	} else {
		list, err = s.scores.Top(r.Context(), gameID, limit)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("list scores")
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	if list == nil {
		list = []scores.Record{}
	}
	writeJSON(w, http.StatusOK, scoresRes{Scores: list})
}

func (s *Server) handleSaveScore(w http.ResponseWriter, r *http.Request) {
	var rec scores.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, codeBadJSON)
		return
	}
	// Ownership comes from the token, never from the body.
	rec.ID, rec.UserID = "", ""
	if u := userFrom(r.Context()); u != nil {
		rec.UserID = u.ID
	}

	saved, err := s.scores.Save(r.Context(), rec)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// --- Auth ---

type confirmReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRes struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *auth.User `json:"user"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req auth.SignUpInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadJSON)
		return
	}
	res, err := s.accounts.SignUp(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadJSON)
		return
	}
	if err := s.accounts.ConfirmSignUp(r.Context(), req.Email, req.Code); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadJSON)
		return
	}
	u, err := s.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		s.log.Error().Err(err).Msg("issue token")
		writeError(w, http.StatusInternalServerError, "token_failed")
		return
	}
	writeJSON(w, http.StatusOK, signInRes{Token: token, ExpiresAt: exp, User: u})
}

// handleSignOut is a no-op for stateless tokens; clients drop their token.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

// --- Responses ---

// Error codes shared with the client.
const (
	codeBadJSON            = "bad_json"
	codeUnauthorized       = "unauthorized"
	codeUserExists         = "user_exists"
	codeUserNotFound       = "user_not_found"
	codeInvalidCredentials = "invalid_credentials"
	codeNotConfirmed       = "not_confirmed"
	codeInvalidCode        = "invalid_code"
	codeInvalidInput       = "invalid_input"
	codeInvalidRecord      = "invalid_record"
	codeSaveFailed         = "save_failed"
)

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorRes{Error: code})
}

// domainErrors maps sentinel errors to status codes and wire codes.
var domainErrors = []struct {
	err    error
	status int
	code   string
}{
	{auth.ErrUserExists, http.StatusConflict, codeUserExists},
	{auth.ErrUserNotFound, http.StatusNotFound, codeUserNotFound},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, codeInvalidCredentials},
	{auth.ErrNotConfirmed, http.StatusForbidden, codeNotConfirmed},
	{auth.ErrInvalidCode, http.StatusBadRequest, codeInvalidCode},
	{auth.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput},
	{scores.ErrInvalidRecord, http.StatusBadRequest, codeInvalidRecord},
	{scores.ErrSaveFailed, http.StatusInternalServerError, codeSaveFailed},
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			if d.status >= http.StatusInternalServerError {
				s.log.Error().Err(err).Msg(d.code)
			}
			writeJSON(w, d.status, errorRes{Error: d.code, Message: err.Error()})
			return
		}
	}
	s.log.Error().Err(err).Msg("unhandled error")
	writeError(w, http.StatusInternalServerError, "internal")
}
