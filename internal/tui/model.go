package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"panedit/internal/config"
	"panedit/internal/docs"
	"panedit/internal/drag"
	"panedit/internal/geometry"
	"panedit/internal/layout"
	"panedit/internal/logging"
)

// StatusLevel is the severity of the status bar message.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusError
)

// Options wires a Model to its collaborators. Store is required; everything
// else has a usable default.
type Options struct {
	Config *config.Config
	Store  *layout.Store
	Docs   *docs.Store
	// Renderer draws tab bodies. Defaults to a DocRenderer over Docs.
	Renderer Renderer
	// Bounds resolves rendered element bounds. Defaults to the model's
	// bubblezone manager.
	Bounds      geometry.Provider
	LogProvider logging.LoggerProvider
	// LogEntries feeds warnings and errors to the status bar.
	LogEntries <-chan logging.LogEntry
	// DocChanges reports edits and deletions in the notes directory.
	DocChanges <-chan docs.Change
}

// resizeState tracks a divider drag between two adjacent panes.
type resizeState struct {
	left, right           string
	startX                int
	leftWidth, rightWidth int
}

// Model represents the TUI application state.
type Model struct {
	width  int
	height int
	styles *Styles
	keys   KeyMap

	cfg     *config.Config
	store   *layout.Store
	docs    *docs.Store
	content Renderer
	drag    *drag.Controller
	zones   *zone.Manager
	bounds  geometry.Provider
	logger  *logging.ScopedLogger

	logEntries <-chan logging.LogEntry
	docChanges <-chan docs.Change

	resize *resizeState
	picker *picker

	statusLevel   StatusLevel
	statusMessage string
	err           error

	lastCtrlCTime time.Time
	listenURLs    []string
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	logger := logging.NopLogger()
	if opts.LogProvider != nil {
		logger = opts.LogProvider.For("tui")
	}

	docStore := opts.Docs
	if docStore == nil {
		docStore = docs.NewStore(cfg.ResolveNotesDir(), logger.With("component", "docs"))
	}
	content := opts.Renderer
	if content == nil {
		content = NewDocRenderer(docStore, logger)
	}

	zones := zone.New()
	bounds := opts.Bounds
	if bounds == nil {
		bounds = zoneProvider{zones: zones}
	}

	keys := DefaultKeyMap()
	for _, err := range keys.Apply(cfg.Keys) {
		logger.Warn("ignoring key override", "error", err)
	}

	m := Model{
		styles:     NewStyles(cfg.Theme),
		keys:       keys,
		cfg:        cfg,
		store:      opts.Store,
		docs:       docStore,
		content:    content,
		drag:       drag.NewController(cfg.Layout.DragThreshold, logger.With("component", "drag")),
		zones:      zones,
		bounds:     bounds,
		logger:     logger,
		logEntries: opts.LogEntries,
		docChanges: opts.DocChanges,
	}
	logger.Info("tui initialized", "panes", m.store.Len())
	return m
}

// Init returns the initial command to run.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.consumeLogEntries(),
		m.waitForDocChange(),
	)
}

// consumeLogEntries waits for the next batch of log entries.
func (m Model) consumeLogEntries() tea.Cmd {
	if m.logEntries == nil {
		return nil
	}
	ch := m.logEntries
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		entries := []logging.LogEntry{entry}
		// Drain whatever else is already queued so a burst costs one update.
		for len(entries) < 64 {
			select {
			case e, ok := <-ch:
				if !ok {
					return logEntriesMsg{entries: entries}
				}
				entries = append(entries, e)
			default:
				return logEntriesMsg{entries: entries}
			}
		}
		return logEntriesMsg{entries: entries}
	}
}

// waitForDocChange waits for the next notes directory change.
func (m Model) waitForDocChange() tea.Cmd {
	if m.docChanges == nil {
		return nil
	}
	ch := m.docChanges
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return docChangedMsg{change: change}
	}
}

// Store returns the layout store the model drives.
func (m Model) Store() *layout.Store {
	return m.store
}

// Close releases the zone manager.
func (m Model) Close() {
	m.zones.Close()
}
