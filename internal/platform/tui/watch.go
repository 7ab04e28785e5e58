package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wee/internal/config"
	"github.com/vovakirdan/wee/internal/core"
	"github.com/vovakirdan/wee/internal/engine"
	"github.com/vovakirdan/wee/internal/runner"
	"github.com/vovakirdan/wee/internal/storage"
)

// Inspector layout constants
const (
	headerLines = 1
	statusLines = 1
	minPreviewW = 16
	rateStep    = 0.25
)

var objectTableColumns = []table.Column{
	{Title: "Name", Width: 12},
	{Title: "Position", Width: 11},
	{Title: "Size", Width: 9},
	{Title: "Layer", Width: 5},
	{Title: "Switch", Width: 6},
	{Title: "Sprite", Width: 10},
}

// objectTableWidth is the rendered width of the object table, cell padding included.
var objectTableWidth = func() int {
	w := 0
	for _, c := range objectTableColumns {
		w += c.Width + 2
	}
	return w
}()

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	wonStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	lostStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// WatchOptions configures a WatchModel.
type WatchOptions struct {
	ID         string
	Definition engine.Definition
	Config     config.RunConfig
	Store      *storage.Store // optional; finished runs are recorded here
	Logger     *log.Logger    // optional
	Width      int
	Height     int

	// CanGoBack lets esc/b leave the inspector without quitting the program.
	CanGoBack bool

	// SnapshotDir receives ctrl+s screen dumps. Empty uses ~/.wee/snapshots.
	SnapshotDir string
}

// terminalPointer turns terminal mouse events into per-frame pointer input.
// A click that starts and ends between two frames still registers as a press.
type terminalPointer struct {
	position core.Vec2
	held     bool
	clicked  bool
	state    core.ButtonState
}

func (p *terminalPointer) at(int) core.Mouse {
	p.state = core.NextState(p.state, p.held || p.clicked)
	p.clicked = false
	return core.Mouse{Position: p.position, State: p.state}
}

// WatchModel is the Bubble Tea model for inspecting a running game.
type WatchModel struct {
	opts   WatchOptions
	logger *log.Logger
	keys   WatchKeyMap
	help   help.Model
	table  table.Model
	screen *core.Screen
	input  *terminalPointer

	game      *engine.Game
	seed      int64
	rate      float64
	gen       int
	paused    bool
	showTable bool
	sounds    []string
	err       error
	saved     bool
	notice    string

	width    int
	height   int
	quitting bool
	back     bool
}

// NewWatchModel creates an inspector and starts its first game.
func NewWatchModel(opts WatchOptions) (WatchModel, error) {
	opts.Config.Normalize()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	t := table.New(
		table.WithColumns(objectTableColumns),
		table.WithFocused(false),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	t.SetStyles(s)

	m := WatchModel{
		opts:      opts,
		logger:    logger,
		keys:      DefaultWatchKeyMap(),
		help:      help.New(),
		table:     t,
		screen:    core.NewScreen(0, 0),
		input:     &terminalPointer{},
		seed:      opts.Config.Seed,
		rate:      opts.Config.PlaybackRate,
		gen:       newLoop(),
		showTable: true,
	}
	if m.seed == 0 {
		m.seed = time.Now().UnixNano()
	}
	if err := m.start(); err != nil {
		return WatchModel{}, err
	}
	m.resize(opts.Width, opts.Height)
	return m, nil
}

// start builds a fresh game with the current seed.
func (m *WatchModel) start() error {
	g, err := engine.NewGame(m.opts.Definition, engine.Options{
		Difficulty: m.opts.Config.Difficulty,
		Rand:       engine.NewRand(m.seed),
	})
	if err != nil {
		return fmt.Errorf("tui: starting %s: %w", m.opts.ID, err)
	}
	m.game = g
	m.sounds = nil
	m.err = nil
	m.saved = false
	*m.input = terminalPointer{position: m.input.position}
	m.refreshTable()
	m.logger.Debug("watch started", "game", m.opts.ID, "seed", m.seed, "difficulty", g.Difficulty)
	return nil
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.opts.Config.FPS, m.gen)
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case TickMsg:
		return m.handleTick(msg)
	}
	return m, nil
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.opts.CanGoBack {
			m.back = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		if m.finished() {
			return m, nil
		}
		m.paused = !m.paused
		if !m.paused {
			m.gen = newLoop()
			return m, tickCmd(m.opts.Config.FPS, m.gen)
		}
		return m, nil

	case key.Matches(msg, m.keys.Step):
		if m.paused && !m.finished() {
			m.advance()
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		return m.restart()

	case key.Matches(msg, m.keys.Faster):
		m.rate = min(m.rate+rateStep, engine.PlaybackRateMax)
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		m.rate = max(m.rate-rateStep, 1)
		return m, nil

	case key.Matches(msg, m.keys.Table):
		m.showTable = !m.showTable
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.Snapshot):
		m.saveSnapshot()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
		return m, nil
	}
	return m, nil
}

func (m WatchModel) restart() (tea.Model, tea.Cmd) {
	if m.opts.Config.Seed != 0 {
		m.seed++
	} else {
		m.seed = time.Now().UnixNano()
	}
	if err := m.start(); err != nil {
		m.err = err
		return m, nil
	}
	m.paused = false
	m.gen = newLoop()
	return m, tickCmd(m.opts.Config.FPS, m.gen)
}

// handleMouse maps a terminal cell to logical coordinates. Rows above the
// preview and columns right of it clamp to its edge.
func (m *WatchModel) handleMouse(msg tea.MouseMsg) {
	vp := m.viewport()
	x := core.Clamp(msg.X, 0, max(vp.Width-1, 0))
	y := core.Clamp(msg.Y-headerLines, 0, max(vp.Height-1, 0))
	m.input.position = vp.Logical(x, y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.input.held = true
			m.input.clicked = true
		}
	case tea.MouseActionRelease:
		// Some encodings do not say which button went up.
		m.input.held = false
	}
}

func (m WatchModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.paused || m.finished() {
		return m, nil
	}
	m.advance()
	if m.finished() {
		return m, nil
	}
	return m, tickCmd(m.opts.Config.FPS, m.gen)
}

// advance runs one presentation of the game.
func (m *WatchModel) advance() {
	steps, err := m.game.Present(m.rate, m.input.at)
	m.sounds = m.sounds[:0]
	for _, s := range steps {
		m.sounds = append(m.sounds, s.Sounds...)
	}
	m.refreshTable()
	if err != nil {
		m.err = err
		m.logger.Error("update failed", "game", m.opts.ID, "frame", m.game.Frames.Ran, "error", err)
		m.record(runner.Failed)
		return
	}
	if m.game.Done() || m.capped() {
		m.record(runner.OutcomeOf(m.game))
	}
}

func (m WatchModel) finished() bool {
	return m.err != nil || m.game.Done() || m.capped()
}

// capped reports whether an infinite game hit the configured frame cap.
func (m WatchModel) capped() bool {
	limit := m.opts.Config.MaxFrames
	return m.game.Frames.Total.Infinite && limit > 0 && m.game.Frames.Ran >= limit
}

// record stores the finished run once.
func (m *WatchModel) record(outcome runner.Outcome) {
	if m.saved {
		return
	}
	m.saved = true
	m.logger.Info("watch finished",
		"game", m.opts.ID,
		"outcome", outcome,
		"frames", m.game.Frames.Ran,
		"seed", m.seed,
	)
	if m.opts.Store == nil {
		return
	}
	_, err := m.opts.Store.SaveRun(storage.RunEntry{
		GameID:       m.opts.ID,
		Seed:         m.seed,
		Difficulty:   m.game.Difficulty,
		PlaybackRate: m.rate,
		Outcome:      string(outcome),
		Frames:       m.game.Frames.Ran,
	})
	if err != nil {
		m.logger.Warn("could not record run", "game", m.opts.ID, "error", err)
	}
}

func (m *WatchModel) saveSnapshot() {
	DrawGame(m.screen, m.game)

	dir := m.opts.SnapshotDir
	if dir == "" {
		dir = config.UserPath("snapshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.notice = "snapshot failed: " + err.Error()
		return
	}
	name := fmt.Sprintf("%s_%06d.txt", strings.ReplaceAll(m.opts.ID, "/", "_"), m.game.Frames.Ran)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.notice = "snapshot failed: " + err.Error()
		return
	}
	m.notice = "saved " + path
}

func (m *WatchModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	helpLines := lipgloss.Height(m.help.View(m.keys))
	previewH := max(height-headerLines-statusLines-helpLines, 1)
	previewW := width
	if m.showTable && width-objectTableWidth-1 >= minPreviewW {
		previewW = width - objectTableWidth - 1
	}
	m.screen.Resize(max(previewW, 1), previewH)
	m.table.SetWidth(objectTableWidth)
	m.table.SetHeight(previewH)
}

func (m WatchModel) viewport() Viewport {
	return Viewport{Width: m.screen.Width(), Height: m.screen.Height()}
}

func (m *WatchModel) refreshTable() {
	rows := make([]table.Row, 0, m.game.Objects.Len())
	m.game.Objects.Each(func(o *engine.Object) {
		sprite := o.Sprite.Image
		if !o.Sprite.IsImage() {
			c := o.Sprite.Colour
			sprite = fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
		}
		rows = append(rows, table.Row{
			o.Name,
			fmt.Sprintf("%.0f,%.0f", o.Position.X, o.Position.Y),
			fmt.Sprintf("%.0fx%.0f", o.Size.Width, o.Size.Height),
			fmt.Sprintf("%d", o.Layer),
			o.Switch.String(),
			sprite,
		})
	})
	m.table.SetRows(rows)
}

func channel(v float64) int {
	return core.Clamp(int(v*255+0.5), 0, 255)
}

// View renders the inspector.
func (m WatchModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	DrawGame(m.screen, m.game)
	preview := RenderScreen(m.screen)
	if m.showTable && m.screen.Width() < m.width {
		preview = lipgloss.JoinHorizontal(lipgloss.Top, preview, " ", m.table.View())
	}
	b.WriteString(preview)
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m WatchModel) headerView() string {
	total := "inf"
	if !m.game.Frames.Total.Infinite {
		total = fmt.Sprintf("%d", m.game.Frames.Total.Frames)
	}
	header := headerStyle.Render(m.opts.ID) + dimStyle.Render(fmt.Sprintf(
		"  frame %d/%s  %s  rate %.2fx  difficulty %d  seed %d",
		m.game.Frames.Ran, total, m.game.Status.Current, m.rate, m.game.Difficulty, m.seed,
	))
	if m.paused {
		header += " " + pausedStyle.Render("PAUSED")
	}
	return header
}

func (m WatchModel) statusView() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("ERROR ") + m.err.Error()
	case m.finished():
		outcome := runner.OutcomeOf(m.game)
		line := strings.ToUpper(string(outcome))
		switch outcome {
		case runner.Won:
			line = wonStyle.Render(line)
		case runner.Lost:
			line = lostStyle.Render(line)
		default:
			line = pausedStyle.Render(line)
		}
		return line + dimStyle.Render("  r: restart  q: quit")
	case m.notice != "":
		return dimStyle.Render(m.notice)
	case len(m.sounds) > 0:
		return dimStyle.Render("sounds: " + strings.Join(m.sounds, ", "))
	}
	return ""
}

// Game returns the game being inspected.
func (m WatchModel) Game() *engine.Game {
	return m.game
}

// Paused reports whether the tick loop is paused.
func (m WatchModel) Paused() bool {
	return m.paused
}

// Rate returns the current playback rate.
func (m WatchModel) Rate() float64 {
	return m.rate
}

// IsQuitting returns true if user requested to quit entirely.
func (m WatchModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the picker.
func (m WatchModel) BackToMenu() bool {
	return m.back
}
