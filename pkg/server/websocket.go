package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/chazu/snapcursor/pkg/drag"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventJSON is one pointer event sent by a drag client.
type EventJSON struct {
	Action string  `json:"action"`
	Button string  `json:"button,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Shift  bool    `json:"shift,omitempty"`
	Ctrl   bool    `json:"ctrl,omitempty"`
	Alt    bool    `json:"alt,omitempty"`
}

// OverlayJSON mirrors drag.OverlayState.
type OverlayJSON struct {
	ShowWireframes   bool    `json:"show_wireframes"`
	WireframeOpacity float64 `json:"wireframe_opacity"`
}

// DragReply is sent after every event.
type DragReply struct {
	Session   string         `json:"session"`
	Result    string         `json:"result,omitempty"`
	State     string         `json:"state"`
	Cursor    [3]float64     `json:"cursor"`
	Candidate *CandidateJSON `json:"candidate,omitempty"`
	Overlay   OverlayJSON    `json:"overlay"`
	Error     string         `json:"error,omitempty"`
}

// session is one websocket drag client.
type session struct {
	id      uuid.UUID
	ctrl    *drag.Controller
	overlay *drag.ViewOverlay
}

func (e EventJSON) event() drag.Event {
	ev := drag.Event{
		Button: drag.ParseButton(e.Button),
		Pos:    v2.Vec{X: e.X, Y: e.Y},
		Shift:  e.Shift,
		Ctrl:   e.Ctrl,
		Alt:    e.Alt,
	}
	switch e.Action {
	case "press":
		ev.Action = drag.ActionPress
	case "release":
		ev.Action = drag.ActionRelease
	case "move":
		ev.Action = drag.ActionMove
	case "cancel":
		ev.Action = drag.ActionCancel
	}
	return ev
}

func (ss *session) reply(s *Server, res drag.Result) DragReply {
	ov := ss.overlay.OverlayState()
	r := DragReply{
		Session: ss.id.String(),
		Result:  res.String(),
		State:   ss.ctrl.State().String(),
		Cursor:  vec3JSON(s.cursor.Location()),
		Overlay: OverlayJSON{ShowWireframes: ov.ShowWireframes, WireframeOpacity: ov.WireframeOpacity},
	}
	if c, ok := ss.ctrl.Last(); ok {
		cj := EncodeCandidate(c)
		r.Candidate = &cj
	}
	return r
}

// handleDrag upgrades to a websocket and runs one gesture controller for
// the life of the connection. Optional width and height query parameters
// size the viewport. The client's overlay starts as show=false, opacity
// from the "opacity" parameter (default 0.5).
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, height, err := viewportSize(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opacity := 0.5
	if v, err := strconv.ParseFloat(q.Get("opacity"), 64); err == nil {
		opacity = v
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ss := &session{
		id:      uuid.New(),
		overlay: drag.NewViewOverlay(drag.OverlayState{WireframeOpacity: opacity}),
	}
	ss.ctrl = drag.NewController(s.resolver(width, height), s.cursor, ss.overlay)

	s.mu.Lock()
	s.sessions[ss.id] = ss
	s.mu.Unlock()
	s.log.Debug("drag session opened", "session", ss.id)

	defer func() {
		// A client that disconnects mid-gesture must not leave the
		// overlay forced on.
		ss.ctrl.Cancel()
		s.mu.Lock()
		delete(s.sessions, ss.id)
		s.mu.Unlock()
		s.log.Debug("drag session closed", "session", ss.id)
	}()

	if err := conn.WriteJSON(ss.reply(s, drag.ResultPassThrough)); err != nil {
		return
	}
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var reply DragReply
		if err := eventValidator.validate(msg); err != nil {
			reply = ss.reply(s, drag.ResultPassThrough)
			reply.Error = err.Error()
		} else {
			var ej EventJSON
			if err := json.Unmarshal(msg, &ej); err != nil {
				reply = ss.reply(s, drag.ResultPassThrough)
				reply.Error = err.Error()
			} else {
				reply = ss.reply(s, ss.ctrl.Handle(ej.event()))
			}
		}
		if err := conn.WriteJSON(reply); err != nil {
			s.log.Debug("websocket write failed", "session", ss.id, "err", err)
			return
		}
	}
}
