// Package scores implements the leaderboard service on top of a pluggable backend:
// the local SQLite store or the remote HTTP API.
package scores

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Errors returned by the service.
var (
	ErrSaveFailed    = errors.New("scores: save failed")
	ErrInvalidRecord = errors.New("scores: invalid record")
)

// TopN is the size of the high-score table.
const TopN = 10

// BoardLimit is how many rows the scoreboard shows.
const BoardLimit = 50

// Record is one finished game.
type Record struct {
	ID           string    `json:"id,omitempty"`
	GameID       string    `json:"gameId"`
	PlayerName   string    `json:"playerName"`
	Score        int       `json:"score"`
	Level        int       `json:"level"`
	LinesCleared int       `json:"linesCleared"`
	GameDate     time.Time `json:"gameDate"`
	UserID       string    `json:"userId,omitempty"`
}

// Validate trims the player name and checks required fields.
func (r *Record) Validate() error {
	r.PlayerName = strings.TrimSpace(r.PlayerName)
	switch {
	case r.PlayerName == "":
		return fmt.Errorf("%w: player name is required", ErrInvalidRecord)
	case r.Score < 0 || r.Level < 0 || r.LinesCleared < 0:
		return fmt.Errorf("%w: negative counters", ErrInvalidRecord)
	}
	return nil
}

// Backend persists and lists records.
type Backend interface {
	Create(ctx context.Context, r Record) (Record, error)
	// List returns records for gameID, or all games when empty. Order is unspecified.
	List(ctx context.Context, gameID string) ([]Record, error)
}

// Ranker is implemented by backends that order and limit records themselves.
// The service uses it instead of sorting the full list.
type Ranker interface {
	Top(ctx context.Context, gameID string, limit int) ([]Record, error)
	ForUser(ctx context.Context, gameID, userID, playerName string, limit int) ([]Record, error)
	Best(ctx context.Context, gameID string) (int, error)
}

type guestKey struct{}

// AsGuest marks ctx so backends store the record without an owner, even when a
// session would otherwise supply one.
func AsGuest(ctx context.Context) context.Context {
	return context.WithValue(ctx, guestKey{}, true)
}

// IsGuest reports whether ctx was marked by AsGuest.
func IsGuest(ctx context.Context) bool {
	v, _ := ctx.Value(guestKey{}).(bool)
	return v
}

// Service wraps a Backend with leaderboard logic.
type Service struct {
	backend Backend
	logger  *log.Logger
}

// NewService creates a service. A nil logger discards output.
func NewService(b Backend, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{backend: b, logger: logger}
}

// Save stores the record. If the full record is rejected it retries once without
// the user ID.
func (s *Service) Save(ctx context.Context, r Record) (Record, error) {
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	if r.GameDate.IsZero() {
		r.GameDate = time.Now().UTC()
	}

	saved, err := s.backend.Create(ctx, r)
	if err == nil {
		s.logger.Info("score saved", "game", r.GameID, "player", r.PlayerName, "score", r.Score)
		return saved, nil
	}
	if r.UserID == "" || ctx.Err() != nil {
		s.logger.Error("score save failed", "err", err)
		return Record{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	s.logger.Warn("score save failed, retrying without user", "err", err, "user", r.UserID)
	reduced := r
	reduced.UserID = ""
	saved, err = s.backend.Create(AsGuest(ctx), reduced)
	if err != nil {
		s.logger.Error("score save retry failed", "err", err)
		return Record{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return saved, nil
}

// All returns every record for gameID, best first.
func (s *Service) All(ctx context.Context, gameID string) ([]Record, error) {
	records, err := s.backend.List(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("scores: cannot list: %w", err)
	}
	SortByScore(records)
	return records, nil
}

// Top returns the best limit records for gameID. A limit of zero or less returns
// every record.
func (s *Service) Top(ctx context.Context, gameID string, limit int) ([]Record, error) {
	if r, ok := s.backend.(Ranker); ok && limit > 0 {
		records, err := r.Top(ctx, gameID, limit)
		if err != nil {
			return nil, fmt.Errorf("scores: cannot list: %w", err)
		}
		return records, nil
	}
	records, err := s.All(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return head(records, limit), nil
}

// ForUser returns a player's best records, matched by user ID or player name.
func (s *Service) ForUser(ctx context.Context, gameID, userID, playerName string, limit int) ([]Record, error) {
	if r, ok := s.backend.(Ranker); ok && limit > 0 {
		records, err := r.ForUser(ctx, gameID, userID, playerName, limit)
		if err != nil {
			return nil, fmt.Errorf("scores: cannot list: %w", err)
		}
		return records, nil
	}
	records, err := s.All(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return head(FilterPersonal(records, userID, playerName), limit), nil
}

// Best returns the highest score for gameID, or 0 when none is stored.
func (s *Service) Best(ctx context.Context, gameID string) (int, error) {
	if r, ok := s.backend.(Ranker); ok {
		best, err := r.Best(ctx, gameID)
		if err != nil {
			return 0, fmt.Errorf("scores: cannot get best: %w", err)
		}
		return best, nil
	}
	top, err := s.Top(ctx, gameID, 1)
	if err != nil || len(top) == 0 {
		return 0, err
	}
	return top[0].Score, nil
}

// IsHighScore reports whether score would enter the top ten. Any score qualifies
// while the table has fewer than ten entries.
func (s *Service) IsHighScore(ctx context.Context, gameID string, score int) (bool, error) {
	top, err := s.Top(ctx, gameID, TopN)
	if err != nil {
		return false, err
	}
	return QualifiesForTop(top, score), nil
}

// QualifiesForTop applies the high-score rule to a sorted top table.
func QualifiesForTop(top []Record, score int) bool {
	if len(top) < TopN {
		return true
	}
	return score > top[TopN-1].Score
}

// FilterPersonal keeps records owned by userID or named playerName. Empty
// criteria match nothing.
func FilterPersonal(records []Record, userID, playerName string) []Record {
	var out []Record
	for _, r := range records {
		if (userID != "" && r.UserID == userID) || (playerName != "" && r.PlayerName == playerName) {
			out = append(out, r)
		}
	}
	return out
}

// SortByScore orders records best first. Ties keep the earlier game first.
func SortByScore(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].GameDate.Before(records[j].GameDate)
	})
}

// Rank returns the 1-based position score would take among all, counting ties
// in its favor.
func Rank(score int, all []Record) int {
	values := make([]int, len(all))
	for i, r := range all {
		values[i] = r.Score
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	for i, v := range values {
		if v <= score {
			return i + 1
		}
	}
	return len(values) + 1
}

// FormatScore renders a score with thousands separators.
func FormatScore(score int) string {
	return humanize.Comma(int64(score))
}

// Medal returns the podium icon for a 1-based rank, or the rank number.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("#%d", rank)
}

func head(records []Record, limit int) []Record {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
