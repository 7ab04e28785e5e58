package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wee/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeGame   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspector SSH server",
	Long: `Start an SSH server that lets users connect and watch games.

Each SSH connection gets its own inspector. With --game every session opens
that game; otherwise sessions start in a picker. A session command selects
a game directly: ssh -p 23234 localhost reach

Finished runs of every session are recorded in the shared history database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.wee/host_key

Examples:
  wee serve                           # Listen on :23234 with auto-generated key
  wee serve --ssh :2222               # Listen on port 2222
  wee serve --game reach              # Serve a single game
  wee serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeGame, "game", "", "Catalog id every session watches")
}

func runServe(_ *cobra.Command, _ []string) {
	cat, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      runCfg.HistoryPath(),
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Game:        flagServeGame,
	}

	server, err := tui.NewSSHServer(cfg, cat, runCfg, logger.WithPrefix("wee-ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting wee SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
