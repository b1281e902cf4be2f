package tui

import (
	"testing"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

func TestNewStyles_Flavors(t *testing.T) {
	tests := []struct {
		theme string
		want  catppuccin.Flavor
	}{
		{"latte", catppuccin.Latte},
		{"frappe", catppuccin.Frappe},
		{"macchiato", catppuccin.Macchiato},
		{"mocha", catppuccin.Mocha},
		{"solarized", catppuccin.Mocha},
		{"", catppuccin.Mocha},
	}
	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			s := NewStyles(tt.theme)
			if got, want := s.FocusedTab.GetBackground(), lipgloss.Color(tt.want.Mauve().Hex); got != want {
				t.Errorf("focused tab background = %v, want %v", got, want)
			}
		})
	}
}

func TestStyles_EdgeZone(t *testing.T) {
	s := NewStyles("mocha")
	if s.EdgeZone(true).GetBackground() == s.EdgeZone(false).GetBackground() {
		t.Error("hot edge zone should stand out")
	}
}
