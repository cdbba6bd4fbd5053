package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetrics/internal/games/tetrics"
	"github.com/vovakirdan/tui-tetrics/internal/platform/tui"
	"github.com/vovakirdan/tui-tetrics/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
	flagPlayer     string
	flagLogin      string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Left/Right, A/D, H/L  - Move
  Up, W, K, X           - Rotate
  Down, S, J            - Soft drop
  Space                 - Hard drop
  P                     - Pause
  R                     - Restart (after game over)
  Esc/B                 - Leave (paused or game over)
  Ctrl+S                - Screenshot
  Q/Ctrl+C              - Quit

When the game ends you can save your score under any name. Signed-in
players keep their scores linked to their account.

Difficulty options:
  easy   - Slower start
  normal - Default timing
  hard   - Faster start and steeper speed-up
  fixed  - No speed-up as levels rise

Examples:
  tetrics play tetrics
  tetrics play tetrics_cloud --difficulty hard
  tetrics play tetrics --config ./my-tetrics.yaml
  tetrics play tetrics --login ana@example.com`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	for _, c := range []*cobra.Command{playCmd, menuCmd} {
		c.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
		c.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
		c.Flags().StringVar(&flagPlayer, "player", "", "Default name for saved scores")
		c.Flags().StringVar(&flagLogin, "login", "", "Sign in with this email before playing")
	}
}

// applyGameFlags hands --config and --difficulty to the game package.
func applyGameFlags() {
	tetrics.SetConfigPath(flagConfig)
	tetrics.SetDifficultyPreset(flagDifficulty)
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tetrics list' to see available games.")
		os.Exit(1)
	}

	cfg := runtimeConfig()
	applyGameFlags()

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger("tetrics", true)
	defer closeLog()

	b, err := openBackend(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		b = nil
	}

	player, err := resolvePlayer(context.Background(), b, flagLogin, flagPlayer)
	if err != nil {
		b.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(game, b.services(logger), player, cfg)
	b.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
