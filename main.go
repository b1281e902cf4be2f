// pattern: Imperative Shell
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"panedit/internal/cli"
	"panedit/internal/config"
	"panedit/internal/docs"
	"panedit/internal/events"
	"panedit/internal/instance"
	"panedit/internal/kv"
	"panedit/internal/layout"
	"panedit/internal/logging"
	"panedit/internal/tui"
	"panedit/internal/web"
)

var version = "dev"

func main() {
	// Flags after the subcommand name belong to the subcommand.
	flag.CommandLine.SetInterspersed(false)
	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/panedit)")
	flag.Usage = func() {
		cli.BuildApp(version, *configDir).PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if !cli.BuildApp(version, *configDir).Execute(flag.Args()) {
		return
	}
	if err := runTUI(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}

// newLogManager logs to a rotated file in dataDir. Warnings and errors also
// reach the status bar.
func newLogManager(dataDir string, cfg *config.Config) (*logging.Manager, error) {
	return logging.NewManager(logging.Config{
		FilePath:       filepath.Join(dataDir, "panedit.log"),
		MaxSizeMB:      10,
		MaxBackups:     3,
		MaxAgeDays:     7,
		ChannelBufSize: 1000,
		Level:          cfg.LogLevel,
	})
}

// openLayout builds the layout store and restores the last session from the
// state database in dataDir. When the database cannot be opened the layout
// lives in memory for this run only.
func openLayout(dataDir string, cfg *config.Config, logProvider logging.LoggerProvider) (*layout.Store, kv.Store) {
	logger := logProvider.For("layout")

	var state kv.Store
	db, err := kv.Open(filepath.Join(dataDir, "panedit.db"))
	if err != nil {
		logger.Warn("state database unavailable, layout will not be saved", "error", err)
		state = kv.NewMemory()
	} else {
		state = db
	}

	store := layout.NewStore(layout.Options{
		MaxGroups: cfg.Layout.MaxPanes,
		Logger:    logger,
	})
	persister := layout.NewPersister(state, logger.With("component", "persist"))
	persister.Load(store)
	persister.Attach(store)
	return store, state
}

// startWeb serves the remote control API for store and records its address
// for the CLI. Mutations reach the store through send, so the UI loop stays
// its only writer. The returned func stops the server.
func startWeb(dataDir string, cfg *config.Config, store *layout.Store, send func(any), logManager *logging.Manager) (string, func(), error) {
	logger := logManager.For("app")
	srv := web.New(web.Config{Bind: cfg.Web.Bind, Port: cfg.Web.Port}, send, logManager)
	srv.Publish(store.Snapshot())
	store.OnChange(func() { srv.Publish(store.Snapshot()) })

	ln, err := srv.Listen()
	if err != nil {
		return "", nil, err
	}
	if err := instance.WritePort(dataDir, srv.Addr()); err != nil {
		logger.Error("failed to write port file", "error", err)
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server error", "error", err)
		}
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("web server shutdown error", "error", err)
		}
	}
	return "http://" + srv.Addr(), stop, nil
}

func runTUI(configDir string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
	dataDir := cli.ResolveDataDir(configDir)

	fl, err := instance.Lock(dataDir)
	if err != nil {
		return err
	}
	defer instance.Cleanup(dataDir, fl)

	logManager, err := newLogManager(dataDir, &cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logManager.Close() }()

	logger := logManager.For("app")
	logger.Info("application starting", "version", version)

	store, state := openLayout(dataDir, &cfg, logManager)
	defer func() { _ = state.Close() }()

	notesDir := cfg.ResolveNotesDir()
	watcher, err := docs.NewWatcher(notesDir, logManager.For("docs.watch"))
	if err != nil {
		return fmt.Errorf("watch notes: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notes watcher stopped", "error", err)
		}
	}()

	model := tui.NewModel(tui.Options{
		Config:      &cfg,
		Store:       store,
		Docs:        docs.NewStore(notesDir, logManager.For("docs")),
		LogProvider: logManager,
		LogEntries:  logManager.Entries(),
		DocChanges:  watcher.Changes(),
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	url, stopWeb, err := startWeb(dataDir, &cfg, store, func(msg any) { p.Send(msg) }, logManager)
	if err != nil {
		return err
	}
	defer stopWeb()
	go p.Send(events.WebListenURLMsg{URL: url})

	if _, err := p.Run(); err != nil {
		logger.Error("application exited with error", "error", err)
		return fmt.Errorf("run interface: %w", err)
	}
	logger.Info("application stopped", "panes", store.Len())
	return nil
}
