package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wee/internal/config"
	"github.com/vovakirdan/wee/internal/core"
	"github.com/vovakirdan/wee/internal/engine"
	"github.com/vovakirdan/wee/internal/storage"
)

func clickToWin() engine.Definition {
	target := engine.DefaultObjectSpec("Target")
	target.Rules = []engine.Rule{{
		Triggers: []engine.Trigger{engine.MouseInput{
			Over:  engine.MouseRegion{Kind: engine.MouseOverObject, Name: "Target"},
			State: core.ButtonPress,
		}},
		Actions: []engine.Action{engine.Win{}},
	}}
	return engine.Definition{Length: engine.Length{Seconds: 1}, Objects: []engine.ObjectSpec{target}}
}

func newTestWatch(t *testing.T, def engine.Definition, opts WatchOptions) WatchModel {
	t.Helper()
	opts.ID = "test"
	opts.Definition = def
	if opts.Config.Seed == 0 {
		opts.Config.Seed = 5
	}
	if opts.Width == 0 {
		opts.Width, opts.Height = 40, 14
	}
	m, err := NewWatchModel(opts)
	if err != nil {
		t.Fatalf("NewWatchModel failed: %v", err)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m WatchModel, msg tea.Msg) (WatchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	wm, ok := next.(WatchModel)
	if !ok {
		t.Fatalf("Expected WatchModel, got %T", next)
	}
	return wm, cmd
}

func tick(t *testing.T, m WatchModel) (WatchModel, tea.Cmd) {
	t.Helper()
	return send(t, m, TickMsg{Gen: m.gen})
}

func TestWatchTickAdvances(t *testing.T) {
	m := newTestWatch(t, clickToWin(), WatchOptions{})

	m, cmd := tick(t, m)
	if m.Game().Frames.Ran != 1 {
		t.Errorf("Expected 1 frame, got %d", m.Game().Frames.Ran)
	}
	if cmd == nil {
		t.Error("Expected next tick to be scheduled")
	}

	m, _ = send(t, m, TickMsg{Gen: m.gen + 1000})
	if m.Game().Frames.Ran != 1 {
		t.Errorf("Expected stale tick to be ignored, got %d frames", m.Game().Frames.Ran)
	}
}

func TestWatchDoubleRate(t *testing.T) {
	m := newTestWatch(t, clickToWin(), WatchOptions{Config: config.RunConfig{PlaybackRate: 2}})
	m, _ = tick(t, m)
	if m.Game().Frames.Ran != 2 {
		t.Errorf("Expected 2 frames at double rate, got %d", m.Game().Frames.Ran)
	}
}

func TestWatchPauseAndStep(t *testing.T) {
	m := newTestWatch(t, clickToWin(), WatchOptions{})

	m, _ = send(t, m, keyMsg("p"))
	if !m.Paused() {
		t.Fatal("Expected paused")
	}
	oldGen := m.gen

	m, _ = tick(t, m)
	if m.Game().Frames.Ran != 0 {
		t.Errorf("Expected no frames while paused, got %d", m.Game().Frames.Ran)
	}

	m, _ = send(t, m, keyMsg("n"))
	m, _ = send(t, m, keyMsg("n"))
	if m.Game().Frames.Ran != 2 {
		t.Errorf("Expected 2 stepped frames, got %d", m.Game().Frames.Ran)
	}

	m, cmd := send(t, m, keyMsg("p"))
	if m.Paused() || cmd == nil {
		t.Error("Expected resume to restart the tick loop")
	}
	if m.gen == oldGen {
		t.Error("Expected a new tick generation after resume")
	}
	m, _ = send(t, m, TickMsg{Gen: oldGen})
	if m.Game().Frames.Ran != 2 {
		t.Errorf("Expected tick from the old loop to be ignored, got %d frames", m.Game().Frames.Ran)
	}
}

func TestWatchRateKeys(t *testing.T) {
	m := newTestWatch(t, clickToWin(), WatchOptions{})
	for range 6 {
		m, _ = send(t, m, keyMsg("+"))
	}
	if m.Rate() != engine.PlaybackRateMax {
		t.Errorf("Expected rate capped at %v, got %v", engine.PlaybackRateMax, m.Rate())
	}
	m, _ = send(t, m, keyMsg("-"))
	if m.Rate() != 1.75 {
		t.Errorf("Expected 1.75, got %v", m.Rate())
	}
	for range 6 {
		m, _ = send(t, m, keyMsg("-"))
	}
	if m.Rate() != 1 {
		t.Errorf("Expected rate floored at 1, got %v", m.Rate())
	}
}

func TestWatchMouseClickWins(t *testing.T) {
	m := newTestWatch(t, clickToWin(), WatchOptions{})

	// 40x11 preview: cell (20,5) is the centre of the screen.
	m, _ = send(t, m, tea.MouseMsg{X: 20, Y: 5 + headerLines, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = send(t, m, tea.MouseMsg{X: 20, Y: 5 + headerLines, Action: tea.MouseActionRelease})
	m, _ = tick(t, m)

	if !m.Game().HasWon() {
		t.Errorf("Expected click between frames to win, status %s", m.Game().Status.Current)
	}
}

func TestWatchMouseMissDoesNotWin(t *testing.T) {
	m := newTestWatch(t, clickToWin(), WatchOptions{})

	m, _ = send(t, m, tea.MouseMsg{X: 1, Y: 1 + headerLines, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = tick(t, m)

	if m.Game().HasWon() {
		t.Error("Expected click away from target not to win")
	}
}

func TestWatchRecordsFinishedRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	def := clickToWin()
	def.Length = engine.Length{Seconds: 0.05} // 3 frames
	m := newTestWatch(t, def, WatchOptions{Store: store})

	var cmd tea.Cmd
	for range 3 {
		m, cmd = tick(t, m)
	}
	if cmd != nil {
		t.Error("Expected tick loop to stop when the game ends")
	}
	m, _ = tick(t, m)
	if m.Game().Frames.Ran != 3 {
		t.Errorf("Expected 3 frames, got %d", m.Game().Frames.Ran)
	}

	runs, err := store.RecentRuns("test", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].Outcome != storage.OutcomeUndecided || runs[0].Frames != 3 || runs[0].Seed != 5 {
		t.Errorf("Unexpected run %+v", runs[0])
	}
	if !strings.Contains(m.View(), "UNDECIDED") {
		t.Error("Expected outcome in view")
	}
}

func TestWatchRestart(t *testing.T) {
	m := newTestWatch(t, clickToWin(), WatchOptions{})
	m, _ = tick(t, m)
	m, _ = send(t, m, keyMsg("p"))

	m, cmd := send(t, m, keyMsg("r"))
	if m.Game().Frames.Ran != 0 {
		t.Errorf("Expected fresh game, got %d frames", m.Game().Frames.Ran)
	}
	if m.seed != 6 {
		t.Errorf("Expected next seed 6, got %d", m.seed)
	}
	if m.Paused() || cmd == nil {
		t.Error("Expected restart to resume ticking")
	}
}

func TestWatchBackAndQuit(t *testing.T) {
	m := newTestWatch(t, clickToWin(), WatchOptions{})
	m, _ = send(t, m, keyMsg("b"))
	if m.BackToMenu() {
		t.Error("Expected back to be ignored without a menu")
	}

	m = newTestWatch(t, clickToWin(), WatchOptions{CanGoBack: true})
	m, _ = send(t, m, keyMsg("b"))
	if !m.BackToMenu() {
		t.Error("Expected back to menu")
	}

	m, cmd := send(t, m, keyMsg("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("Expected quit")
	}
}

func TestWatchSnapshot(t *testing.T) {
	dir := t.TempDir()
	m := newTestWatch(t, clickToWin(), WatchOptions{SnapshotDir: dir})
	m, _ = tick(t, m)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	data, err := os.ReadFile(filepath.Join(dir, "test_000001.txt"))
	if err != nil {
		t.Fatalf("Expected snapshot file: %v", err)
	}
	if !strings.ContainsRune(string(data), runeColour) {
		t.Error("Expected snapshot to contain the drawn object")
	}
}

func TestWatchView(t *testing.T) {
	m := newTestWatch(t, clickToWin(), WatchOptions{Width: 120, Height: 20})
	view := m.View()
	for _, want := range []string{"test", "frame 0/60", "Target", "pause"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestTerminalPointerLatch(t *testing.T) {
	p := &terminalPointer{held: true, clicked: true}
	if s := p.at(0).State; s != core.ButtonPress {
		t.Errorf("Expected press, got %s", s)
	}
	if s := p.at(1).State; s != core.ButtonDown {
		t.Errorf("Expected down, got %s", s)
	}
	p.held = false
	if s := p.at(2).State; s != core.ButtonRelease {
		t.Errorf("Expected release, got %s", s)
	}
	if s := p.at(3).State; s != core.ButtonUp {
		t.Errorf("Expected up, got %s", s)
	}
}
