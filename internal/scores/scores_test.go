package scores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-tetrics/internal/storage"
)

// fakeBackend records calls and rejects any record carrying a user ID when
// rejectUsers is set.
type fakeBackend struct {
	records     []Record
	calls       []Record
	guests      []bool
	rejectUsers bool
	failAll     bool
}

func (f *fakeBackend) Create(ctx context.Context, r Record) (Record, error) {
	f.calls = append(f.calls, r)
	f.guests = append(f.guests, IsGuest(ctx))
	if f.failAll || (f.rejectUsers && r.UserID != "") {
		return Record{}, errors.New("rejected")
	}
	r.ID = "id"
	f.records = append(f.records, r)
	return r, nil
}

func (f *fakeBackend) List(_ context.Context, gameID string) ([]Record, error) {
	var out []Record
	for _, r := range f.records {
		if gameID == "" || r.GameID == gameID {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestSaveValidates(t *testing.T) {
	svc := NewService(&fakeBackend{}, nil)
	_, err := svc.Save(context.Background(), Record{PlayerName: "   ", Score: 10})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
	_, err = svc.Save(context.Background(), Record{PlayerName: "a", Score: -1})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord for negative score, got %v", err)
	}
}

func TestSaveTrimsAndDates(t *testing.T) {
	fb := &fakeBackend{}
	svc := NewService(fb, nil)
	saved, err := svc.Save(context.Background(), Record{GameID: "tetrics", PlayerName: "  Ana ", Score: 10})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.PlayerName != "Ana" || saved.GameDate.IsZero() {
		t.Errorf("unexpected saved record %+v", saved)
	}
	if len(fb.calls) != 1 {
		t.Errorf("expected a single call, got %d", len(fb.calls))
	}
}

func TestSaveRetriesWithoutUser(t *testing.T) {
	fb := &fakeBackend{rejectUsers: true}
	svc := NewService(fb, nil)

	saved, err := svc.Save(context.Background(), Record{GameID: "tetrics", PlayerName: "Ana", Score: 10, UserID: "u1"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(fb.calls) != 2 {
		t.Fatalf("expected retry, got %d calls", len(fb.calls))
	}
	if fb.calls[0].UserID != "u1" || fb.calls[1].UserID != "" {
		t.Errorf("retry should drop the user id: %+v", fb.calls)
	}
	if fb.guests[0] || !fb.guests[1] {
		t.Errorf("only the retry should run as guest: %v", fb.guests)
	}
	if saved.UserID != "" || saved.Score != 10 {
		t.Errorf("unexpected saved record %+v", saved)
	}
}

func TestSaveFailure(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		wantCalls int
	}{
		{"guest", "", 1},
		{"user", "u1", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := &fakeBackend{failAll: true}
			svc := NewService(fb, nil)
			_, err := svc.Save(context.Background(), Record{PlayerName: "Ana", UserID: tc.userID})
			if !errors.Is(err, ErrSaveFailed) {
				t.Errorf("expected ErrSaveFailed, got %v", err)
			}
			if len(fb.calls) != tc.wantCalls {
				t.Errorf("expected %d calls, got %d", tc.wantCalls, len(fb.calls))
			}
		})
	}
}

func seed(fb *fakeBackend, scores ...int) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range scores {
		fb.records = append(fb.records, Record{
			GameID:     "tetrics",
			PlayerName: "p",
			Score:      s,
			GameDate:   base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestTopSorted(t *testing.T) {
	fb := &fakeBackend{}
	seed(fb, 30, 10, 50, 20, 40)
	fb.records = append(fb.records, Record{GameID: "tetrics_cloud", PlayerName: "x", Score: 999})
	svc := NewService(fb, nil)

	top, err := svc.Top(context.Background(), "tetrics", 3)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	want := []int{50, 40, 30}
	if len(top) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(top))
	}
	for i, w := range want {
		if top[i].Score != w {
			t.Errorf("top[%d] = %d, want %d", i, top[i].Score, w)
		}
	}
}

func TestSortTiesKeepEarlierGame(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []Record{
		{PlayerName: "late", Score: 100, GameDate: early.Add(time.Hour)},
		{PlayerName: "early", Score: 100, GameDate: early},
	}
	SortByScore(records)
	if records[0].PlayerName != "early" {
		t.Errorf("tie should favor the earlier game, got %+v", records)
	}
}

func TestIsHighScore(t *testing.T) {
	ctx := context.Background()

	fb := &fakeBackend{}
	seed(fb, 100, 200, 300)
	svc := NewService(fb, nil)
	if ok, _ := svc.IsHighScore(ctx, "tetrics", 0); !ok {
		t.Error("any score qualifies with fewer than ten entries")
	}

	fb = &fakeBackend{}
	seed(fb, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 50)
	svc = NewService(fb, nil)

	tests := []struct {
		score int
		want  bool
	}{
		{99, false},
		{100, false}, // Equal to the tenth does not qualify
		{101, true},
		{5000, true},
	}
	for _, tc := range tests {
		got, err := svc.IsHighScore(ctx, "tetrics", tc.score)
		if err != nil {
			t.Fatalf("IsHighScore: %v", err)
		}
		if got != tc.want {
			t.Errorf("IsHighScore(%d) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestRank(t *testing.T) {
	all := []Record{{Score: 300}, {Score: 100}, {Score: 200}}
	tests := []struct {
		score int
		want  int
	}{
		{400, 1},
		{300, 1},
		{250, 2},
		{200, 2},
		{150, 3},
		{50, 4},
	}
	for _, tc := range tests {
		if got := Rank(tc.score, all); got != tc.want {
			t.Errorf("Rank(%d) = %d, want %d", tc.score, got, tc.want)
		}
	}
	if Rank(10, nil) != 1 {
		t.Error("empty table should rank first")
	}
}

func TestFormatScoreAndMedal(t *testing.T) {
	if got := FormatScore(1234567); got != "1,234,567" {
		t.Errorf("FormatScore = %q", got)
	}
	if got := FormatScore(42); got != "42" {
		t.Errorf("FormatScore = %q", got)
	}
	if Medal(1) != "🥇" || Medal(3) != "🥉" || Medal(4) != "#4" {
		t.Error("unexpected medals")
	}
}

func TestForUser(t *testing.T) {
	fb := &fakeBackend{records: []Record{
		{GameID: "tetrics", PlayerName: "Ana", Score: 10, UserID: "u1"},
		{GameID: "tetrics", PlayerName: "Ana", Score: 30},
		{GameID: "tetrics", PlayerName: "Bo", Score: 20},
	}}
	svc := NewService(fb, nil)

	mine, err := svc.ForUser(context.Background(), "tetrics", "u1", "Ana", 10)
	if err != nil {
		t.Fatalf("ForUser: %v", err)
	}
	if len(mine) != 2 || mine[0].Score != 30 {
		t.Errorf("unexpected personal scores %+v", mine)
	}
	if got := FilterPersonal(fb.records, "", ""); len(got) != 0 {
		t.Errorf("empty filter should match nothing, got %+v", got)
	}
}

func TestStoreBackendRetry(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	svc := NewService(NewStoreBackend(store), nil)

	// The user does not exist, so the foreign key rejects the first attempt.
	saved, err := svc.Save(ctx, Record{GameID: "tetrics", PlayerName: "Ana", Score: 1500, Level: 2, LinesCleared: 11, UserID: "ghost"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" || saved.UserID != "" {
		t.Errorf("expected saved record without user, got %+v", saved)
	}

	top, err := svc.Top(ctx, "tetrics", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 1 || top[0].PlayerName != "Ana" || top[0].LinesCleared != 11 {
		t.Errorf("unexpected top %+v", top)
	}
}

// rankingBackend answers ranking queries itself and fails any full listing.
type rankingBackend struct {
	fakeBackend
	topCalls, userCalls int
}

func (r *rankingBackend) List(context.Context, string) ([]Record, error) {
	return nil, errors.New("full listing not expected")
}

func (r *rankingBackend) Top(_ context.Context, _ string, limit int) ([]Record, error) {
	r.topCalls++
	out := append([]Record(nil), r.records...)
	SortByScore(out)
	return head(out, limit), nil
}

func (r *rankingBackend) ForUser(_ context.Context, _, userID, playerName string, limit int) ([]Record, error) {
	r.userCalls++
	return head(FilterPersonal(r.records, userID, playerName), limit), nil
}

func (r *rankingBackend) Best(context.Context, string) (int, error) {
	return 99, nil
}

func TestServiceUsesRanker(t *testing.T) {
	rb := &rankingBackend{}
	seed(&rb.fakeBackend, 5, 15, 10)
	svc := NewService(rb, nil)
	ctx := context.Background()

	top, err := svc.Top(ctx, "tetrics", 2)
	if err != nil || len(top) != 2 || top[0].Score != 15 {
		t.Fatalf("Top: %+v %v", top, err)
	}
	if _, err := svc.ForUser(ctx, "tetrics", "", "p", 5); err != nil {
		t.Fatalf("ForUser: %v", err)
	}
	if ok, err := svc.IsHighScore(ctx, "tetrics", 1); err != nil || !ok {
		t.Errorf("IsHighScore: %v %v", ok, err)
	}
	if best, _ := svc.Best(ctx, "tetrics"); best != 99 {
		t.Errorf("Best should come from the backend, got %d", best)
	}
	if rb.topCalls != 2 || rb.userCalls != 1 {
		t.Errorf("expected ranked calls, got top=%d user=%d", rb.topCalls, rb.userCalls)
	}
	if _, err := svc.Top(ctx, "tetrics", 0); err == nil {
		t.Error("an unlimited Top should fall back to the full listing")
	}
}

func TestBestWithoutRanker(t *testing.T) {
	fb := &fakeBackend{}
	svc := NewService(fb, nil)
	if best, err := svc.Best(context.Background(), "tetrics"); err != nil || best != 0 {
		t.Errorf("empty board: %d %v", best, err)
	}
	seed(fb, 30, 70, 50)
	if best, _ := svc.Best(context.Background(), "tetrics"); best != 70 {
		t.Errorf("expected 70, got %d", best)
	}
}

func TestStoreBackendRanksInSQL(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	sb := NewStoreBackend(store)
	svc := NewService(sb, nil)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range []int{300, 100, 300, 200} {
		name := "Ana"
		if i%2 == 1 {
			name = "Bo"
		}
		if _, err := svc.Save(ctx, Record{GameID: "tetrics", PlayerName: name, Score: s, GameDate: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	top, err := svc.Top(ctx, "tetrics", 3)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 3 || top[0].Score != 300 || !top[0].GameDate.Before(top[1].GameDate) || top[2].Score != 200 {
		t.Errorf("unexpected ranking %+v", top)
	}

	bo, err := svc.ForUser(ctx, "tetrics", "", "Bo", 10)
	if err != nil || len(bo) != 2 || bo[0].Score != 200 {
		t.Errorf("ForUser: %+v %v", bo, err)
	}

	if best, err := svc.Best(ctx, "tetrics"); err != nil || best != 300 {
		t.Errorf("Best: %d %v", best, err)
	}

	if err := sb.Clear(ctx, "tetrics"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if best, _ := svc.Best(ctx, "tetrics"); best != 0 {
		t.Errorf("expected empty board after Clear, got best %d", best)
	}
}
