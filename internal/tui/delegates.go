// pattern: Imperative Shell

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"panedit/internal/docs"
	"panedit/internal/layout"
)

// docItem wraps a document for display in the picker.
type docItem struct {
	doc  docs.Document
	open bool // shown in some pane already
}

// Title returns the document title for display.
func (i docItem) Title() string {
	return i.doc.Title
}

// Description returns document details for display.
func (i docItem) Description() string {
	created := i.doc.Created.Local().Format("2006-01-02 15:04")
	if i.doc.Parent != "" {
		return fmt.Sprintf("%s | %s | under %s", shortID(i.doc.ID), created, shortID(i.doc.Parent))
	}
	return fmt.Sprintf("%s | %s", shortID(i.doc.ID), created)
}

// FilterValue returns the value to filter on.
func (i docItem) FilterValue() string {
	return i.doc.Title
}

// docDelegate handles rendering of documents in the picker list.
type docDelegate struct {
	styles *Styles
}

// newDocDelegate creates a new document delegate with the given styles.
func newDocDelegate(styles *Styles) docDelegate {
	return docDelegate{styles: styles}
}

// Height returns the height of a single item.
func (d docDelegate) Height() int {
	return 2
}

// Spacing returns the spacing between items.
func (d docDelegate) Spacing() int {
	return 0
}

// Update handles item-specific updates.
func (d docDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single document item.
func (d docDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	di, ok := item.(docItem)
	if !ok {
		return
	}

	st := d.styles
	title, desc, indicator := st.PickerTitle, st.PickerDesc, "  "
	if index == m.Index() {
		title, desc = st.PickerTitleSelected, st.PickerDescSelected
		indicator = st.PickerPointer.Render("▸ ")
	}

	// Documents already on screen get a filled bullet.
	state := st.Bullet.Render("○")
	if di.open {
		state = st.BulletOpen.Render("●")
	}

	_, _ = fmt.Fprintf(w, "%s%s %s\n%s%s", indicator, state, title.Render(di.doc.Title), "    ", desc.Render(di.Description()))
}

// toListItems converts documents to list items, marking those open in the
// layout.
func toListItems(documents []docs.Document, store *layout.Store) []list.Item {
	items := make([]list.Item, len(documents))
	for i, d := range documents {
		_, open := store.Owner(d.Tab())
		items[i] = docItem{doc: d, open: open}
	}
	return items
}
