package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScoreEntry is one finished game on a leaderboard.
type ScoreEntry struct {
	ID           string
	GameID       string
	PlayerName   string
	Score        int
	Level        int
	LinesCleared int
	GameDate     time.Time
	UserID       string // Empty for guests
}

const scoreColumns = `id, game_id, player_name, score, level, lines_cleared, game_date, user_id`

// SaveScore inserts a score. A missing ID or date is filled in. An unknown
// UserID fails the foreign key check.
func (s *Store) SaveScore(ctx context.Context, e ScoreEntry) (ScoreEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.GameDate.IsZero() {
		e.GameDate = time.Now()
	}
	userID := sql.NullString{String: e.UserID, Valid: e.UserID != ""}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (`+scoreColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.GameID, e.PlayerName, e.Score, e.Level, e.LinesCleared, formatTime(e.GameDate), userID,
	)
	if err != nil {
		return ScoreEntry{}, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return e, nil
}

// ListScores returns every score for gameID, or for all games when gameID is
// empty, best first.
func (s *Store) ListScores(ctx context.Context, gameID string) ([]ScoreEntry, error) {
	return s.queryScores(ctx,
		`SELECT `+scoreColumns+` FROM scores
		 WHERE (? = '' OR game_id = ?)
		 ORDER BY score DESC, game_date ASC`,
		gameID, gameID,
	)
}

// TopScores retrieves the top N scores for the given game.
func (s *Store) TopScores(ctx context.Context, gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(ctx,
		`SELECT `+scoreColumns+` FROM scores
		 WHERE (? = '' OR game_id = ?)
		 ORDER BY score DESC, game_date ASC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
}

// UserScores retrieves a player's best scores, matched by user ID or by player
// name.
func (s *Store) UserScores(ctx context.Context, gameID, userID, playerName string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(ctx,
		`SELECT `+scoreColumns+` FROM scores
		 WHERE (? = '' OR game_id = ?)
		   AND ((? != '' AND user_id = ?) OR (? != '' AND player_name = ?))
		 ORDER BY score DESC, game_date ASC
		 LIMIT ?`,
		gameID, gameID, userID, userID, playerName, playerName, limit,
	)
}

func (s *Store) queryScores(ctx context.Context, query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var gameDate any
		var userID sql.NullString
		if err := rows.Scan(&e.ID, &e.GameID, &e.PlayerName, &e.Score, &e.Level, &e.LinesCleared, &gameDate, &userID); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.GameDate = parseTime(gameDate)
		e.UserID = userID.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(ctx context.Context, gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(ctx context.Context, gameID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalLines int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(ctx context.Context, gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}
	var lastPlayed sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(lines_cleared), 0), MAX(game_date)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalLines, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}
	return stats, nil
}

// GetAllGamesStats retrieves statistics for every game that has been played.
func (s *Store) GetAllGamesStats(ctx context.Context) (map[string]*GameStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(lines_cleared), MAX(game_date)
		 FROM scores
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var st GameStats
		var lastPlayed string
		if err := rows.Scan(&st.GameID, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalLines, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.GameID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
