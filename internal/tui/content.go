// pattern: Imperative Shell

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"panedit/internal/docs"
	"panedit/internal/layout"
	"panedit/internal/logging"
)

// Renderer draws the body of a tab. The layout never looks inside documents;
// everything it shows of one comes through a Renderer.
type Renderer interface {
	// Title is the tab label.
	Title(tab layout.TabItem) string
	// Render returns at most height lines, each at most width cells wide.
	Render(tab layout.TabItem, width, height int) string
	// Invalidate drops anything cached for a document id.
	Invalidate(id string)
}

// DocRenderer renders notes from a document store and a placeholder for the
// other tab types, whose views live outside this program.
type DocRenderer struct {
	store  *docs.Store
	logger *logging.ScopedLogger
	cache  map[string]cachedDoc
}

type cachedDoc struct {
	doc docs.Document
	err error
}

// NewDocRenderer returns a renderer reading from store.
func NewDocRenderer(store *docs.Store, logger *logging.ScopedLogger) *DocRenderer {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &DocRenderer{store: store, logger: logger, cache: make(map[string]cachedDoc)}
}

func (r *DocRenderer) load(id string) cachedDoc {
	if c, ok := r.cache[id]; ok {
		return c
	}
	doc, err := r.store.Open(id)
	if err != nil && !errors.Is(err, docs.ErrNotFound) {
		r.logger.Warn("failed to load document", "id", id, "error", err)
	}
	c := cachedDoc{doc: doc, err: err}
	r.cache[id] = c
	return c
}

// Title implements Renderer.
func (r *DocRenderer) Title(tab layout.TabItem) string {
	if tab.Kind != layout.KindNote {
		return tab.Kind.String() + " " + shortID(tab.ID)
	}
	c := r.load(tab.ID)
	if c.err != nil || c.doc.Title == "" {
		return shortID(tab.ID)
	}
	return c.doc.Title
}

// Render implements Renderer.
func (r *DocRenderer) Render(tab layout.TabItem, width, height int) string {
	var lines []string
	if tab.Kind != layout.KindNote {
		lines = []string{
			fmt.Sprintf("%s view", tab.Kind),
			"",
			"id: " + tab.ID,
		}
	} else {
		c := r.load(tab.ID)
		switch {
		case errors.Is(c.err, docs.ErrNotFound):
			lines = []string{"Document not found: " + tab.ID}
		case c.err != nil:
			lines = []string{"Cannot read document: " + c.err.Error()}
		default:
			lines = append([]string{"# " + c.doc.Title, ""}, strings.Split(c.doc.Body, "\n")...)
		}
	}
	return clip(lines, width, height)
}

// Invalidate implements Renderer.
func (r *DocRenderer) Invalidate(id string) {
	delete(r.cache, id)
}

// clip cuts lines to a width x height box.
func clip(lines []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ansi.Truncate(strings.ReplaceAll(l, "\t", "    "), width, "…")
	}
	return strings.Join(out, "\n")
}

// shortID keeps tab labels of uuid-named documents readable.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
