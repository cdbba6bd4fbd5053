// Package tetrics adapts the Tetrics simulation to the platform Game interface.
// Two variants are registered: the classic game and the cloud-services themed one.
package tetrics

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-tetrics/internal/config"
	platformcore "github.com/vovakirdan/tui-tetrics/internal/core"
	"github.com/vovakirdan/tui-tetrics/internal/games/tetrics/core"
	"github.com/vovakirdan/tui-tetrics/internal/registry"
)

// Game IDs.
const (
	IDClassic = "tetrics"
	IDCloud   = "tetrics_cloud"
)

// configPath and difficultyPreset are set from the CLI before Reset.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets a custom YAML config path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// Game implements registry.Game for one catalog.
type Game struct {
	catalog *core.Catalog
	id      string

	cfg       config.TetricsConfig
	cfgErr    error
	session   *core.Session
	tick      uint64
	tickDur   time.Duration
	screenW   int
	screenH   int
	pendingGO *core.GameOver
}

// New creates the classic game.
func New() *Game {
	return &Game{catalog: core.ClassicCatalog(), id: IDClassic}
}

// NewCloud creates the cloud-services themed game.
func NewCloud() *Game {
	return &Game{catalog: core.CloudCatalog(), id: IDCloud}
}

func init() {
	registry.Register(IDClassic, func() registry.Game { return New() })
	registry.Register(IDCloud, func() registry.Game { return NewCloud() })
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.catalog.Title
}

// Reset loads the configuration and starts a new session.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickDur = cfg.TickInterval()
	g.tick = 0
	g.pendingGO = nil

	gameCfg, _, err := config.LoadTetrics(configPath)
	if err != nil {
		g.cfgErr = err
		gameCfg = config.DefaultTetricsConfig()
	} else {
		g.cfgErr = nil
	}
	// The CLI preset wins; otherwise a non-default preset from the file applies.
	preset := difficultyPreset
	if preset == "" && gameCfg.Difficulty.Preset != config.DifficultyNormal {
		preset = gameCfg.Difficulty.Preset
	}
	if preset != "" {
		config.ApplyTetricsPreset(&gameCfg, preset)
	}
	g.cfg = gameCfg

	g.session = core.NewSession(core.Options{
		Rules:   RulesFromConfig(gameCfg),
		Catalog: g.catalog,
		Rand:    rand.New(rand.NewSource(cfg.Seed)),
		OnGameOver: func(ev core.GameOver) {
			g.pendingGO = &ev
		},
	})
}

// RulesFromConfig converts the YAML configuration into session rules.
func RulesFromConfig(cfg config.TetricsConfig) core.Rules {
	step := cfg.Timing.Step()
	if !cfg.Difficulty.Progression {
		step = 0
	}
	return core.Rules{
		Width:         cfg.Board.Width,
		Height:        cfg.Board.Height,
		BaseInterval:  cfg.Timing.BaseInterval(),
		IntervalStep:  step,
		MinInterval:   cfg.Timing.MinInterval(),
		LinesPerLevel: cfg.Scoring.LinesPerLevel,
		HardDropBonus: cfg.Scoring.HardDropBonus,
		ScoreTable:    append([]int(nil), cfg.Scoring.LineTable...),
		CarryOver:     cfg.Timing.CarryOver,
	}
}

// ConfigError returns the error from loading a custom config, if any. The game
// falls back to defaults in that case.
func (g *Game) ConfigError() error {
	return g.cfgErr
}

// Step applies the frame's input and advances the fall timer by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.tick++
	s := g.session

	if in.Has(platformcore.ActionRestart) {
		s.Restart()
	}
	if in.Has(platformcore.ActionPause) {
		s.TogglePause()
	}

	if in.Has(platformcore.ActionLeft) {
		s.MoveLeft()
	}
	if in.Has(platformcore.ActionRight) {
		s.MoveRight()
	}
	if in.Has(platformcore.ActionRotate) {
		s.Rotate()
	}
	if in.Has(platformcore.ActionSoftDrop) {
		s.SoftDrop()
	}
	if in.Has(platformcore.ActionHardDrop) {
		s.HardDrop()
	}

	s.Advance(g.tickDur)

	res := platformcore.StepResult{State: g.State()}
	if g.pendingGO != nil {
		res.GameOver = g.gameOverEvent(*g.pendingGO)
		g.pendingGO = nil
	}
	return res
}

func (g *Game) gameOverEvent(ev core.GameOver) *platformcore.GameOverEvent {
	out := &platformcore.GameOverEvent{
		GameID:   g.id,
		Score:    ev.Score,
		Level:    ev.Level,
		Lines:    ev.Lines,
		Headline: "Game Over",
	}
	if ev.Fact != nil {
		out.Headline = fmt.Sprintf("%s Did you know? %s", ev.Fact.Icon, ev.Fact.Service)
		out.Detail = ev.Fact.Text
	}
	return out
}

// State returns the current game status.
func (g *Game) State() platformcore.GameState {
	if g.session == nil {
		return platformcore.GameState{}
	}
	return platformcore.GameState{
		Score:    g.session.Score(),
		Level:    g.session.Level(),
		Lines:    g.session.Lines(),
		GameOver: g.session.Over(),
		Paused:   g.session.Paused(),
	}
}

// Session exposes the underlying simulation.
func (g *Game) Session() *core.Session {
	return g.session
}

// Config returns the configuration used by the current session.
func (g *Game) Config() config.TetricsConfig {
	return g.cfg
}
