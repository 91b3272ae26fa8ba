package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/jwebster45206/dayscene/internal/config"
	"github.com/jwebster45206/dayscene/internal/logger"
	"github.com/jwebster45206/dayscene/pkg/content"
	"github.com/jwebster45206/dayscene/pkg/game"
)

// The console plays locally by default. With API_BASE_URL set it plays a game
// hosted by the API server instead.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Log lines would corrupt the terminal UI, so they go to CONSOLE_LOG or nowhere.
	var logOut io.Writer = io.Discard
	if path := os.Getenv("CONSOLE_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.SetupWriter(cfg, logOut)

	var driver Driver
	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		driver, err = newRemoteDriver(context.Background(), &http.Client{Timeout: 30 * time.Second}, baseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not start a game on %s: %v\nPlease ensure the API is running.\n", baseURL, err)
			os.Exit(1)
		}
	} else {
		driver, err = newLocalDriver(context.Background(), cfg, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start game: %v\n", err)
			os.Exit(1)
		}
	}
	defer driver.Close()

	p := tea.NewProgram(NewConsoleUI(driver), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func newLocalDriver(ctx context.Context, cfg *config.Config, log *slog.Logger) (*localDriver, error) {
	loader := content.NewDirLoader(cfg.ContentDir, log)
	loader.Strict = cfg.ContentStrict

	store, err := config.NewSaveStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	ctrl, err := game.New(loader, store, cfg.SaveFormat, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &localDriver{ctrl: ctrl, closer: store}, nil
}
