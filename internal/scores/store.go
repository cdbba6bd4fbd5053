package scores

import (
	"context"

	"github.com/vovakirdan/tui-tetrics/internal/storage"
)

// StoreBackend keeps records in the local SQLite store. Ranking runs in SQL.
type StoreBackend struct {
	store *storage.Store
}

var _ Ranker = (*StoreBackend)(nil)

// NewStoreBackend wraps an open store.
func NewStoreBackend(store *storage.Store) *StoreBackend {
	return &StoreBackend{store: store}
}

// Create inserts the record.
func (b *StoreBackend) Create(ctx context.Context, r Record) (Record, error) {
	e, err := b.store.SaveScore(ctx, toEntry(r))
	if err != nil {
		return Record{}, err
	}
	return fromEntry(e), nil
}

// List returns all records for gameID.
func (b *StoreBackend) List(ctx context.Context, gameID string) ([]Record, error) {
	entries, err := b.store.ListScores(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return fromEntries(entries), nil
}

// Top returns the best limit records for gameID.
func (b *StoreBackend) Top(ctx context.Context, gameID string, limit int) ([]Record, error) {
	entries, err := b.store.TopScores(ctx, gameID, limit)
	if err != nil {
		return nil, err
	}
	return fromEntries(entries), nil
}

// ForUser returns a player's best records.
func (b *StoreBackend) ForUser(ctx context.Context, gameID, userID, playerName string, limit int) ([]Record, error) {
	entries, err := b.store.UserScores(ctx, gameID, userID, playerName, limit)
	if err != nil {
		return nil, err
	}
	return fromEntries(entries), nil
}

// Best returns the highest score for gameID.
func (b *StoreBackend) Best(ctx context.Context, gameID string) (int, error) {
	return b.store.HighScore(ctx, gameID)
}

// Clear deletes every record for gameID.
func (b *StoreBackend) Clear(ctx context.Context, gameID string) error {
	return b.store.ClearScores(ctx, gameID)
}

func fromEntries(entries []storage.ScoreEntry) []Record {
	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = fromEntry(e)
	}
	return out
}

func toEntry(r Record) storage.ScoreEntry {
	return storage.ScoreEntry{
		ID:           r.ID,
		GameID:       r.GameID,
		PlayerName:   r.PlayerName,
		Score:        r.Score,
		Level:        r.Level,
		LinesCleared: r.LinesCleared,
		GameDate:     r.GameDate,
		UserID:       r.UserID,
	}
}

func fromEntry(e storage.ScoreEntry) Record {
	return Record{
		ID:           e.ID,
		GameID:       e.GameID,
		PlayerName:   e.PlayerName,
		Score:        e.Score,
		Level:        e.Level,
		LinesCleared: e.LinesCleared,
		GameDate:     e.GameDate,
		UserID:       e.UserID,
	}
}
