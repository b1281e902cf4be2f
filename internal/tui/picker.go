// pattern: Imperative Shell

package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"panedit/internal/layout"
)

// picker is the document chooser opened over the panes.
type picker struct {
	list list.Model
}

func newPicker(styles *Styles, items []list.Item, width, height int) *picker {
	l := list.New(items, newDocDelegate(styles), width, height)
	l.Title = "Open document"
	l.Styles.Title = styles.Title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	return &picker{list: l}
}

func (p *picker) setSize(width, height int) {
	p.list.SetSize(width, height)
}

// selected returns the tab of the highlighted document.
func (p *picker) selected() (layout.TabItem, bool) {
	item, ok := p.list.SelectedItem().(docItem)
	if !ok {
		return layout.TabItem{}, false
	}
	return item.doc.Tab(), true
}

// filtering reports whether keys currently go to the filter input.
func (p *picker) filtering() bool {
	return p.list.FilterState() == list.Filtering
}

func (p *picker) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return cmd
}

func (p *picker) view() string {
	return p.list.View()
}

// pickerSize is the list area inside the picker box for a terminal size.
func pickerSize(width, height int) (int, int) {
	w := min(max(width-8, 20), 80)
	h := max(height-6, 4)
	return w, h
}
