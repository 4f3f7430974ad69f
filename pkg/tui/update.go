package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chazu/snapcursor/pkg/drag"
	"github.com/chazu/snapcursor/pkg/snap"
)

const orbitStep = math.Pi / 24

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w, h := m.mapSize()
		m.sess.resize(w*cellPxW, h*cellPxH)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.Handle(drag.Event{Action: drag.ActionCancel}) == drag.ResultCancelled {
			m.status = "drag cancelled"
		}
	case key.Matches(msg, m.keys.Snap):
		if m.ctrl.Start() {
			m.status = "dragging: move the mouse, click to finish"
		}
	case key.Matches(msg, m.keys.Free):
		if m.hovered && !m.Dragging() {
			c := m.sess.FreeSpace(m.hover)
			m.cursor.SetLocation(c.Point)
			m.place(c)
		}
	case key.Matches(msg, m.keys.Wireframe):
		if !m.Dragging() {
			s := m.overlay.OverlayState()
			s.ShowWireframes = !s.ShowWireframes
			m.overlay.SetOverlayState(s)
			m.status = fmt.Sprintf("wireframe: %v", s.ShowWireframes)
		}
	case key.Matches(msg, m.keys.Ortho):
		m.status = "projection: " + m.sess.toggleOrtho().String()
	case key.Matches(msg, m.keys.Orbit):
		switch msg.String() {
		case "left":
			m.sess.orbit(-orbitStep, 0)
		case "right":
			m.sess.orbit(orbitStep, 0)
		case "up":
			m.sess.orbit(0, -orbitStep)
		case "down":
			m.sess.orbit(0, orbitStep)
		}
	case key.Matches(msg, m.keys.Zoom):
		if msg.String() == "+" || msg.String() == "=" {
			m.sess.dolly(1 / 1.2)
		} else {
			m.sess.dolly(1.2)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	ev, ok := mouseEvent(msg, m.trigger)
	if !ok {
		return
	}
	m.hover, m.hovered = ev.Pos, true

	// "s" starts a gesture without a button held, so a plain left click
	// finishes it.
	if m.Dragging() && ev.Action == drag.ActionPress && ev.Button == drag.ButtonLeft {
		ev = drag.Event{Action: drag.ActionRelease, Button: m.trigger.Button, Pos: ev.Pos}
	}

	switch m.ctrl.Handle(ev) {
	case drag.ResultRunning:
		if c, ok := m.ctrl.Last(); ok {
			m.last = &c
			m.status = fmt.Sprintf("snap: %s", c.Kind)
		} else {
			m.status = "dragging"
		}
	case drag.ResultFinished:
		if c, ok := m.ctrl.Last(); ok {
			m.place(c)
		}
	}
}

func (m *Model) place(c snap.Candidate) {
	m.last = &c
	m.status = fmt.Sprintf("placed (%s) at %.3f %.3f %.3f", c.Kind, c.Point.X, c.Point.Y, c.Point.Z)
	if m.onPlace != nil {
		m.onPlace(c)
	}
}
