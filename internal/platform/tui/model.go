package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetrics/internal/auth"
	"github.com/vovakirdan/tui-tetrics/internal/core"
	"github.com/vovakirdan/tui-tetrics/internal/registry"
	"github.com/vovakirdan/tui-tetrics/internal/scores"
)

// footerLines is the height reserved below the game screen.
const footerLines = 2

// requestTimeout bounds backend calls made from the UI.
const requestTimeout = 5 * time.Second

// Services are the backends a session talks to. Scores and Auth may be nil.
type Services struct {
	Scores *scores.Service
	Auth   auth.Provider
	Logger *log.Logger
}

func (s Services) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// Player is who scores are saved for.
type Player struct {
	Name   string
	UserID string
}

// ResolvePlayer looks up the signed-in player. Guests get fallback, or the
// generic guest name when fallback is empty.
func ResolvePlayer(ctx context.Context, p auth.Provider, fallback string) Player {
	guest := Player{Name: fallback}
	if guest.Name == "" {
		guest.Name = auth.GuestName
	}
	if p == nil {
		return guest
	}
	u, err := p.CurrentUser(ctx)
	if err != nil || u == nil {
		return guest
	}
	return Player{Name: auth.DisplayName(ctx, p), UserID: u.ID}
}

type promptState int

const (
	promptNone promptState = iota
	promptEditing
	promptSaving
	promptDone
)

type highScoreMsg struct{ ok bool }

type scoreSavedMsg struct {
	rec scores.Record
	err error
}

// GameModel runs one game with score saving and back-to-menu support.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	services   Services
	player     Player
	renderer   *lipgloss.Renderer
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	standalone bool // Back quits the program instead of returning to a menu

	lastOver  *core.GameOverEvent
	prompt    promptState
	nameInput textinput.Model
	highScore bool
	status    string
	statusErr bool

	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game model. A nil renderer uses the default one.
func NewGameModel(game registry.Game, services Services, player Player, cfg core.RuntimeConfig, r *lipgloss.Renderer) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.CharLimit = 24
	ti.Width = 24
	ti.Prompt = ""

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		config:     cfg,
		services:   services,
		player:     player,
		renderer:   r,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		nameInput:  ti,
	}
}

func gameHeight(screenH int) int {
	return max(1, screenH-footerLines)
}

// Init starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, gameHeight(msg.Height))
		return m, nil

	case TickMsg:
		return m.handleTick()

	case highScoreMsg:
		m.highScore = msg.ok
		return m, nil

	case scoreSavedMsg:
		return m.handleSaved(msg)
	}

	if m.prompt == promptEditing {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.prompt == promptEditing {
		switch msg.String() {
		case "enter":
			return m.startSave()
		case "esc":
			m.prompt = promptDone
			m.nameInput.Blur()
			m.setStatus("Score not saved", false)
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch action {
	case core.ActionQuit:
		if isQuit {
			m.quitting = true
			return m, tea.Quit
		}
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			if m.standalone {
				m.quitting = true
				return m, tea.Quit
			}
			m.backToMenu = true
		}
		return m, nil
	case core.ActionRestart:
		if m.gameState.GameOver && m.prompt != promptSaving {
			m.inputFrame.Set(core.ActionRestart)
		}
		return m, nil
	case core.ActionNone:
		return m, nil
	}

	m.inputFrame.Set(action)
	return m, nil
}

// handleTick steps the simulation once.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	m.gameState = result.State

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}

	if wasOver && !m.gameState.GameOver {
		// Restarted.
		m.lastOver = nil
		m.prompt = promptNone
		m.highScore = false
		m.status = ""
	}

	if ev := result.GameOver; ev != nil {
		m.lastOver = ev
		m.services.logger().Info("game over", "game", ev.GameID, "score", ev.Score, "level", ev.Level, "lines", ev.Lines)
		if m.services.Scores != nil {
			m.prompt = promptEditing
			m.nameInput.SetValue(m.player.Name)
			m.nameInput.CursorEnd()
			cmds = append(cmds, m.nameInput.Focus(), m.checkHighScoreCmd(*ev))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m GameModel) checkHighScoreCmd(ev core.GameOverEvent) tea.Cmd {
	svc := m.services.Scores
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ok, err := svc.IsHighScore(ctx, ev.GameID, ev.Score)
		if err != nil {
			return highScoreMsg{}
		}
		return highScoreMsg{ok: ok}
	}
}

// startSave validates the name and saves the score in the background.
func (m GameModel) startSave() (tea.Model, tea.Cmd) {
	if m.lastOver == nil || m.services.Scores == nil {
		m.prompt = promptDone
		return m, nil
	}
	rec := scores.Record{
		GameID:       m.lastOver.GameID,
		PlayerName:   m.nameInput.Value(),
		Score:        m.lastOver.Score,
		Level:        m.lastOver.Level,
		LinesCleared: m.lastOver.Lines,
		UserID:       m.player.UserID,
	}
	if err := rec.Validate(); err != nil {
		m.setStatus("Please enter a player name", true)
		return m, nil
	}

	m.prompt = promptSaving
	m.nameInput.Blur()
	return m, m.saveCmd(rec)
}

func (m GameModel) saveCmd(rec scores.Record) tea.Cmd {
	svc := m.services.Scores
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		saved, err := svc.Save(ctx, rec)
		return scoreSavedMsg{rec: saved, err: err}
	}
}

func (m GameModel) handleSaved(msg scoreSavedMsg) (tea.Model, tea.Cmd) {
	m.prompt = promptDone
	if msg.err != nil {
		m.services.logger().Warn("score not saved", "err", msg.err)
		m.setStatus("Failed to save score. Press R to play again.", true)
		return m, nil
	}
	m.player.Name = msg.rec.PlayerName
	m.setStatus(fmt.Sprintf("Score saved for %s!", msg.rec.PlayerName), false)
	return m, nil
}

func (m *GameModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tetrics", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err == nil {
		m.setStatus("Screenshot saved to "+path, false)
	}
}

// View renders the game and the footer.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return renderScreen(m.renderer, m.screen) + "\n" + m.footer()
}

func (m GameModel) footer() string {
	accent := m.renderer.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	muted := m.renderer.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle := m.renderer.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle := m.renderer.NewStyle().Foreground(lipgloss.Color("10"))

	var line string
	switch m.prompt {
	case promptEditing:
		if m.highScore {
			line = accent.Render("🏆 High Score! ")
		}
		line += "Save score as: " + m.nameInput.View() + muted.Render("  enter save · esc skip")
	case promptSaving:
		line = muted.Render("Saving score…")
	default:
		if m.lastOver != nil {
			line = accent.Render(m.lastOver.Headline) + "  "
		}
		if m.status != "" {
			if m.statusErr {
				line += errStyle.Render(m.status)
			} else {
				line += okStyle.Render(m.status)
			}
		}
	}
	if m.prompt == promptEditing && m.status != "" && m.statusErr {
		line += "  " + errStyle.Render(m.status)
	}

	who := "Playing as " + m.player.Name
	if m.player.UserID == "" {
		who += " (guest)"
	}
	return line + "\n" + muted.Render(who+" · ctrl+s screenshot")
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Player returns the player, with the name last used to save a score.
func (m GameModel) Player() Player {
	return m.player
}

// Run starts a standalone program for one game.
func Run(game registry.Game, services Services, player Player, cfg core.RuntimeConfig) error {
	model := NewGameModel(game, services, player, cfg, nil)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
