// tetrics is a falling-block game for the terminal with a classic and a
// cloud-services themed variant, local or remote high scores, and accounts.
//
// Usage:
//
//	tetrics list              - List available games
//	tetrics play <game>       - Play a game
//	tetrics menu              - Start menu to pick games interactively
//	tetrics scores [game]     - Show high scores
//	tetrics account <cmd>     - Sign up, confirm, sign in or out
//	tetrics serve             - Start SSH server for remote play
//	tetrics api               - Start the score and account HTTP backend
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.tetrics/scores.db)
//	--api <url>         - Use a remote backend instead of the local database
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs here while a game is on screen
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/tui-tetrics/internal/games/tetrics"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagAPI      string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetrics",
	Short: "Tetrics - falling blocks in your terminal",
	Long: `Tetrics is a terminal falling-block game. Clear lines, level up and
post your score to the local or shared leaderboard.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  scores   - View high scores
  account  - Manage your player account
  serve    - Start SSH server for remote play
  api      - Start the HTTP backend

Examples:
  tetrics play tetrics
  tetrics play tetrics_cloud --difficulty hard
  tetrics menu --api http://localhost:5175
  tetrics scores tetrics --user Ana`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tetrics/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "Backend URL (empty = local database)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file for interactive commands")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(factsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}
