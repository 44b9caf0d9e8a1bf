// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/app/filter"
	"github.com/palco-live/palco/internal/app/notification"
	"github.com/palco-live/palco/internal/app/registry"
	"github.com/palco-live/palco/internal/app/search"
	"github.com/palco-live/palco/internal/app/session"
	"github.com/palco-live/palco/internal/infra/config"
	"github.com/palco-live/palco/internal/infra/logger"
	"github.com/palco-live/palco/internal/transport/httpapi"
	"github.com/palco-live/palco/internal/transport/ws"
)

var (
	app        = kingpin.New("palco-server", "palco karaoke room server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available filters and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	// Bootstrap logger so config loading itself is logged; reconfigured
	// below once the config's logging section is known.
	if err := logger.Init(mergeLoggerConfig(config.LoggingConfig{}, *verbose, *logfile)); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := logger.Init(mergeLoggerConfig(cfg.Logging, *verbose, *logfile)); err != nil {
		zlog.Fatal().Msgf("Failed to configure logger: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	blocklist := filter.NewBlocklist()
	filters := buildFilterChain(cfg, blocklist)

	rooms := registry.New(cfg.Room.CodeLength, cfg.Room.CreateAttempts)
	notifications := notification.NewManager()
	defer notifications.Close()

	coordinator := session.NewCoordinator(rooms, notifications, blocklist)

	searcher, err := search.NewServiceFromConfig(cfg, filters)
	if err != nil {
		return fmt.Errorf("failed to create search service: %w", err)
	}

	hub := ws.NewHub(coordinator)
	router := httpapi.NewRouter(coordinator, searcher, hub)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Drop live connections first so clients see the close frame before
	// the listener goes away.
	hub.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// mergeLoggerConfig combines the config file's logging section with the
// command-line flags; flags take precedence over the file.
func mergeLoggerConfig(lc config.LoggingConfig, verbose bool, logfile string) logger.Config {
	out := logger.Config{
		Output: lc.Output,
		Level:  lc.Level,
	}
	if out.Output == "" {
		out.Output = "stdout"
	}
	if out.Level == "" {
		out.Level = "info"
	}
	if verbose {
		out.Level = "debug"
	}
	if logfile != "" {
		out.Output = logfile
	}
	return out
}

// buildFilterChain assembles the filter chain from registered factories,
// honoring per-filter enable flags in the config.
func buildFilterChain(cfg *config.Config, blocklist *filter.Blocklist) *filter.Chain {
	chain := filter.NewChain()
	for name, factory := range filter.GetRegistered() {
		if !cfg.IsFilterEnabled(name) {
			zlog.Info().Msgf("Filter disabled by config: name=%s", name)
			continue
		}
		chain.Add(factory(blocklist))
	}
	return chain
}

// printFilters prints available filters.
func printFilters() {
	registered := filter.GetRegistered()
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available Filters:")
	for _, name := range names {
		f := registered[name](filter.NewBlocklist())
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}
