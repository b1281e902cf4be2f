package tui

import (
	zone "github.com/lrstanley/bubblezone"

	"panedit/internal/geometry"
	"panedit/internal/layout"
)

const edgeZoneID = "edge"

func paneZoneID(groupID string) string { return "pane:" + groupID }

func tabZoneID(groupID string, tab layout.TabItem) string {
	return "tab:" + groupID + ":" + tab.Key()
}

func closeZoneID(groupID string, tab layout.TabItem) string {
	return "close:" + groupID + ":" + tab.Key()
}

// dividerZoneID names the divider on the right of a pane.
func dividerZoneID(leftID string) string { return "divider:" + leftID }

// zoneProvider reports the bounds bubblezone recorded on the last scanned
// frame.
type zoneProvider struct {
	zones *zone.Manager
}

// Bounds implements geometry.Provider.
func (p zoneProvider) Bounds(id string) (geometry.Rect, bool) {
	info := p.zones.Get(id)
	if info == nil || info.IsZero() {
		return geometry.Rect{}, false
	}
	return geometry.Rect{
		X: info.StartX,
		Y: info.StartY,
		W: info.EndX - info.StartX + 1,
		H: info.EndY - info.StartY + 1,
	}, true
}
