package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alipala/ai-fantasy-rpg/internal/api"
	"github.com/alipala/ai-fantasy-rpg/internal/config"
	"github.com/alipala/ai-fantasy-rpg/internal/logger"
	"github.com/alipala/ai-fantasy-rpg/internal/ui"
)

func main() {
	cfg := config.Load()

	// The terminal belongs to the TUI, so logs go to a file or nowhere.
	logOut := io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.LogFile, err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.Setup(cfg, logOut)

	client := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to the game API at %s.\nPlease ensure the backend is running.\n", cfg.APIBaseURL)
		os.Exit(1)
	}

	gw := api.NewClient(client, cfg.APIBaseURL, log)
	log.Info("starting game client", "api", cfg.APIBaseURL, "environment", cfg.Environment)

	p := tea.NewProgram(ui.NewModel(cfg, gw, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// testConnection probes the catalog endpoint before handing the
// terminal to the TUI, so connection problems print a plain message.
func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(strings.TrimRight(baseURL, "/") + "/world-info")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
