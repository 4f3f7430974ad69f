package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/chazu/snapcursor/pkg/snap"
)

var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	cursorFg  = lipgloss.Color("#EF4444")
	curveFg   = lipgloss.Color("#60A5FA")

	appStyle    = lipgloss.NewStyle().Foreground(baseFg)
	titleStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(baseDimFg)
	cursorStyle = lipgloss.NewStyle().Foreground(cursorFg).Bold(true)
	curveStyle  = lipgloss.NewStyle().Foreground(curveFg)
)

var kindFg = map[snap.Kind]lipgloss.Color{
	snap.KindVertex:       lipgloss.Color("#FFA500"),
	snap.KindEdgeMidpoint: lipgloss.Color("#22C55E"),
	snap.KindFaceCenter:   lipgloss.Color("#3B82F6"),
	snap.KindFaceHit:      lipgloss.Color("#3B82F6"),
	snap.KindCurvePoint:   lipgloss.Color("#A855F7"),
	snap.KindSurface:      lipgloss.Color("#A16207"),
	snap.KindFreeSpace:    lipgloss.Color("#9CA3AF"),
}

func kindStyle(k snap.Kind) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(kindFg[k]).Bold(true)
}

type keyMap struct {
	Quit      key.Binding
	Cancel    key.Binding
	Snap      key.Binding
	Free      key.Binding
	Wireframe key.Binding
	Ortho     key.Binding
	Orbit     key.Binding
	Zoom      key.Binding
	Help      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Snap:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start drag")),
		Free:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "place free")),
		Wireframe: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wireframe")),
		Ortho:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "ortho")),
		Orbit:     key.NewBinding(key.WithKeys("left", "right", "up", "down"), key.WithHelp("←→↑↓", "orbit")),
		Zoom:      key.NewBinding(key.WithKeys("+", "=", "-", "_"), key.WithHelp("+/-", "zoom")),
		Help:      key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Snap, k.Cancel, k.Wireframe, k.Orbit, k.Zoom, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Snap, k.Free, k.Cancel},
		{k.Wireframe, k.Ortho, k.Orbit, k.Zoom},
		{k.Help, k.Quit},
	}
}
