package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds every style the interface draws with, built once from a
// catppuccin flavor.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Box      lipgloss.Style
	Info     lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Warn     lipgloss.Style
	Error    lipgloss.Style

	// Tab strip.
	Strip      lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style // shown tab of an unfocused pane
	FocusedTab lipgloss.Style // shown tab of the active pane
	DraggedTab lipgloss.Style
	Caret      lipgloss.Style

	// Split container.
	Divider       lipgloss.Style
	ActiveDivider lipgloss.Style
	Content       lipgloss.Style
	DropHighlight lipgloss.Style
	Overlay       lipgloss.Style
	InfoStatus    lipgloss.Style
	edge, edgeHot lipgloss.Style

	// Document picker.
	PickerTitle, PickerTitleSelected lipgloss.Style
	PickerDesc, PickerDescSelected   lipgloss.Style
	PickerPointer                    lipgloss.Style
	Bullet, BulletOpen               lipgloss.Style
}

// NewStyles builds styles for a flavor name. Unknown names get mocha.
func NewStyles(themeName string) *Styles {
	f := flavorFromName(themeName)
	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	on := func(st lipgloss.Style, hex string) lipgloss.Style {
		return st.Background(lipgloss.Color(hex))
	}

	return &Styles{
		Title:    fg(f.Mauve().Hex).Bold(true),
		Subtitle: fg(f.Subtext0().Hex),
		Help:     fg(f.Overlay0().Hex),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(f.Surface1().Hex)).
			Padding(0, 1),
		Info:    fg(f.Text().Hex),
		Accent:  fg(f.Teal().Hex),
		Success: fg(f.Green().Hex),
		Warn:    fg(f.Yellow().Hex),
		Error:   fg(f.Red().Hex).Bold(true),

		Strip:      on(lipgloss.NewStyle(), f.Mantle().Hex),
		Tab:        on(fg(f.Subtext0().Hex), f.Mantle().Hex),
		ActiveTab:  on(fg(f.Text().Hex), f.Surface0().Hex),
		FocusedTab: on(fg(f.Base().Hex), f.Mauve().Hex).Bold(true),
		DraggedTab: on(fg(f.Overlay0().Hex), f.Mantle().Hex).Faint(true),
		Caret:      on(fg(f.Peach().Hex), f.Mantle().Hex).Bold(true),

		Divider:       fg(f.Surface1().Hex),
		ActiveDivider: fg(f.Peach().Hex),
		Content:       fg(f.Text().Hex),
		DropHighlight: on(lipgloss.NewStyle(), f.Surface0().Hex),
		Overlay:       on(fg(f.Base().Hex), f.Peach().Hex).Bold(true),
		InfoStatus:    fg(f.Subtext1().Hex),
		edge:          on(fg(f.Base().Hex), f.Surface1().Hex),
		edgeHot:       on(fg(f.Base().Hex), f.Peach().Hex),

		PickerTitle:         fg(f.Text().Hex),
		PickerTitleSelected: fg(f.Mauve().Hex).Bold(true),
		PickerDesc:          fg(f.Subtext0().Hex),
		PickerDescSelected:  fg(f.Overlay0().Hex),
		PickerPointer:       fg(f.Mauve().Hex),
		Bullet:              fg(f.Overlay0().Hex),
		BulletOpen:          fg(f.Green().Hex),
	}
}

// EdgeZone is the new-pane strip at the right edge, lit while a drop there
// would split.
func (s *Styles) EdgeZone(hot bool) lipgloss.Style {
	if hot {
		return s.edgeHot
	}
	return s.edge
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}
