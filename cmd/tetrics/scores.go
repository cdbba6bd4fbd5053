package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetrics/internal/registry"
	"github.com/vovakirdan/tui-tetrics/internal/scores"
	"github.com/vovakirdan/tui-tetrics/internal/storage"
)

var (
	flagScoresUser  string
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the top high scores for a game. Without a game, shows a
summary for every game played so far.

Examples:
  tetrics scores tetrics
  tetrics scores tetrics_cloud --limit 50
  tetrics scores tetrics --user Ana
  tetrics scores tetrics --clear
  tetrics scores`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresUser, "user", "", "Only show scores for this player name")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", scores.TopN, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every local score for the game")
}

func runScores(_ *cobra.Command, args []string) {
	logger, _ := newLogger("tetrics", false)
	b, err := openBackend(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	ctx := context.Background()
	if len(args) == 0 {
		if err := printSummary(ctx, b); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
			os.Exit(1)
		}
		return
	}

	gameID := args[0]
	info, ok := registry.Lookup(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tetrics list' to see available games.")
		os.Exit(1)
	}

	if flagScoresClear {
		if b.store == nil {
			fmt.Fprintln(os.Stderr, "Error: --clear only works on the local database")
			os.Exit(1)
		}
		if err := scores.NewStoreBackend(b.store).Clear(ctx, gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared all scores for %s.\n", info.Title)
		return
	}

	var list []scores.Record
	if flagScoresUser != "" {
		list, err = b.scores.ForUser(ctx, gameID, "", flagScoresUser, flagScoresLimit)
	} else {
		list, err = b.scores.Top(ctx, gameID, flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	if best, err := b.scores.Best(ctx, gameID); err == nil && best > 0 {
		fmt.Printf("Best ever: %s\n", scores.FormatScore(best))
	}
	fmt.Println()

	if len(list) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tetrics play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-20s  %10s  %5s  %5s  %s\n", "Rank", "Player", "Score", "Level", "Lines", "When")
	fmt.Printf("  %-4s  %-20s  %10s  %5s  %5s  %s\n", "----", "------", "-----", "-----", "-----", "----")
	for i, r := range list {
		fmt.Printf("  %-4s  %-20s  %10s  %5d  %5d  %s\n",
			scores.Medal(i+1), r.PlayerName, scores.FormatScore(r.Score),
			r.Level, r.LinesCleared, humanize.Time(r.GameDate))
	}

	if b.store != nil && flagScoresUser == "" {
		if st, err := b.store.GetGameStats(ctx, gameID); err == nil {
			fmt.Println()
			fmt.Printf("%d games played, average %s, last played %s\n",
				st.GamesCount, humanize.CommafWithDigits(st.AvgScore, 0), humanize.Time(st.LastPlayed))
		}
	}

	if flagScoresUser != "" {
		all, err := b.scores.All(ctx, gameID)
		if err == nil {
			fmt.Println()
			fmt.Printf("Best rank for %s: %d of %d\n", flagScoresUser, scores.Rank(list[0].Score, all), len(all))
		}
	}
}

// printSummary lists per-game statistics. The local database aggregates in
// SQL; a remote backend is summarized from the full list.
func printSummary(ctx context.Context, b *backend) error {
	type row struct {
		title string
		games int
		best  int
		avg   float64
		lines int64
	}
	var rows []row

	var local map[string]*storage.GameStats
	if b.store != nil {
		var err error
		if local, err = b.store.GetAllGamesStats(ctx); err != nil {
			return err
		}
	}

	for _, g := range registry.List() {
		r := row{title: g.Title}
		if b.store != nil {
			if st, ok := local[g.ID]; ok {
				r.games, r.best, r.avg, r.lines = st.GamesCount, st.HighScore, st.AvgScore, st.TotalLines
			}
		} else {
			all, err := b.scores.All(ctx, g.ID)
			if err != nil {
				return err
			}
			sum := 0
			for _, rec := range all {
				sum += rec.Score
				r.lines += int64(rec.LinesCleared)
			}
			r.games = len(all)
			if len(all) > 0 {
				r.best = all[0].Score
				r.avg = float64(sum) / float64(len(all))
			}
		}
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].games > rows[j].games })

	fmt.Printf("  %-16s  %6s  %10s  %10s  %8s\n", "Game", "Played", "Best", "Average", "Lines")
	fmt.Printf("  %-16s  %6s  %10s  %10s  %8s\n", "----", "------", "----", "-------", "-----")
	for _, r := range rows {
		fmt.Printf("  %-16s  %6d  %10s  %10s  %8s\n",
			r.title, r.games, scores.FormatScore(r.best),
			humanize.CommafWithDigits(r.avg, 0), humanize.Comma(r.lines))
	}
	return nil
}
