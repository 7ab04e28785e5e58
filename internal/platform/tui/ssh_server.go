package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/wee/internal/catalog"
	"github.com/vovakirdan/wee/internal/config"
	"github.com/vovakirdan/wee/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.wee/host_key.
	HostKeyPath string

	// DBPath is the path to the run history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the catalog id every session watches. Empty shows a picker,
	// and a session command (ssh host <id>) overrides it.
	Game string
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.wee/history.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the inspector.
type SSHServer struct {
	config  SSHServerConfig
	run     config.RunConfig
	catalog *catalog.Catalog
	server  *ssh.Server
	store   *storage.Store
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server serving games from cat.
// A nil logger logs to stderr.
func NewSSHServer(cfg SSHServerConfig, cat *catalog.Catalog, run config.RunConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "wee-ssh",
		})
	}

	if cfg.Game != "" && !cat.Exists(cfg.Game) {
		return nil, fmt.Errorf("tui: unknown game %q", cfg.Game)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config:  cfg,
		run:     run,
		catalog: cat,
		store:   store,
		logger:  logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		hostKeyPath = config.UserPath("host_key")
		if hostKeyPath == "" {
			return nil, errors.New("tui: cannot get home directory for host key")
		}
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	gameID := s.config.Game
	if cmd := sshSession.Command(); len(cmd) > 0 {
		gameID = cmd[0]
	}

	model := NewSessionModel(SessionOptions{
		Catalog: s.catalog,
		Config:  s.run,
		Store:   s.store,
		Logger:  s.logger.With("user", sshSession.User()),
		Game:    gameID,
		Width:   pty.Window.Width,
		Height:  pty.Window.Height,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"command", sshSession.Command(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "games", len(s.catalog.List()))

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Catalog *catalog.Catalog
	Config  config.RunConfig
	Store   *storage.Store
	Logger  *log.Logger
	Game    string // opened straight away when set
	Width   int
	Height  int
}

// SessionModel manages the flow picker -> inspector -> picker.
// This is the top-level model used for SSH sessions and `wee watch`
// without a game argument.
type SessionModel struct {
	opts     SessionOptions
	picker   PickerModel
	watch    *WatchModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr)
	}
	m := SessionModel{opts: opts}
	m.picker = m.newPicker()
	if opts.Game != "" {
		if err := m.open(opts.Game); err != nil {
			m.picker = m.picker.WithMessage(err.Error())
		}
	}
	return m
}

func (m SessionModel) newPicker() PickerModel {
	return NewPickerModel(m.opts.Catalog.List(), m.opts.Width, m.opts.Height)
}

// open loads a game from the catalog and switches to the inspector.
func (m *SessionModel) open(id string) error {
	def, err := m.opts.Catalog.Open(id)
	if err != nil {
		m.opts.Logger.Warn("cannot open game", "game", id, "error", err)
		return err
	}
	watch, err := NewWatchModel(WatchOptions{
		ID:         id,
		Definition: def,
		Config:     m.opts.Config,
		Store:      m.opts.Store,
		Logger:     m.opts.Logger,
		Width:      m.opts.Width,
		Height:     m.opts.Height,
		CanGoBack:  true,
	})
	if err != nil {
		m.opts.Logger.Warn("cannot start game", "game", id, "error", err)
		return err
	}
	m.watch = &watch
	return nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.watch != nil {
		return m.watch.Init()
	}
	return m.picker.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	if m.watch != nil {
		return m.updateWatch(msg)
	}
	return m.updatePicker(msg)
}

func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if picker, ok := newPicker.(PickerModel); ok {
		m.picker = picker
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.picker.Selected(); selected != nil {
		m.picker = m.newPicker()
		if err := m.open(selected.ID); err != nil {
			m.picker = m.picker.WithMessage(err.Error())
			return m, nil
		}
		return m, m.watch.Init()
	}

	return m, cmd
}

func (m SessionModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.watch.Update(msg)
	if watch, ok := newModel.(WatchModel); ok {
		m.watch = &watch
	}

	if m.watch.BackToMenu() {
		m.watch = nil
		m.picker = m.newPicker()
		return m, m.picker.Init()
	}

	if m.watch.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.watch != nil {
		return m.watch.View()
	}
	return m.picker.View()
}

// Watching returns the active inspector, or nil while picking.
func (m SessionModel) Watching() *WatchModel {
	return m.watch
}
