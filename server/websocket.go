package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"ormd/diagram"
	"ormd/geometry"
	"ormd/logging"
)

// outboxSize bounds the messages queued for one slow client; further
// messages are dropped.
const outboxSize = 64

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type linePoints struct {
	ID     string           `json:"id"`
	Points []geometry.Point `json:"points"`
}

// message is sent to and received from websocket clients.
//
// Clients send {"type":"move","id":...,"bounds":...}. The server answers with
// "lines" messages carrying routed points, "shape" messages for moved tables
// and "error" messages.
type message struct {
	Type   string         `json:"type"`
	ID     string         `json:"id,omitempty"`
	Bounds *geometry.Rect `json:"bounds,omitempty"`
	Lines  []linePoints   `json:"lines,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func snapshot(d *diagram.Design) message {
	msg := message{Type: "lines", Lines: []linePoints{}}
	for _, ref := range d.Lines() {
		msg.Lines = append(msg.Lines, linePoints{ID: ref.ID, Points: ref.Points})
	}
	return msg
}

// watcher forwards design events to one websocket client. DesignChanged runs
// with the session lock held, so it copies what it needs and never blocks.
type watcher struct {
	id     string
	design *diagram.Design
	outbox chan message
}

func (w *watcher) send(msg message) {
	select {
	case w.outbox <- msg:
	default:
		logging.Logger().Warn("websocket outbox full, dropping message", "watcher", w.id, "type", msg.Type)
	}
}

func (w *watcher) DesignChanged(e diagram.Event) {
	switch e.Kind {
	case diagram.LineRouted:
		ref, ok := w.design.Line(e.ElementID)
		if !ok {
			return
		}
		points := append([]geometry.Point(nil), ref.Points...)
		w.send(message{Type: "lines", Lines: []linePoints{{ID: ref.ID, Points: points}}})
	case diagram.ShapeMoved:
		t, ok := w.design.Shape(e.ElementID)
		if !ok {
			return
		}
		bounds := t.Bounds
		w.send(message{Type: "shape", ID: t.ID, Bounds: &bounds})
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess := s.sessions.Get(id)
	if sess == nil {
		http.Error(w, "design not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	wt := &watcher{id: diagram.NewID(), design: sess.design, outbox: make(chan message, outboxSize)}

	sess.mu.Lock()
	initial := snapshot(sess.design)
	unsubscribe := sess.design.Subscribe(wt)
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		unsubscribe()
		sess.mu.Unlock()
		logging.Logger().Debug("websocket closed", "design", id, "watcher", wt.id)
	}()
	logging.Logger().Debug("websocket opened", "design", id, "watcher", wt.id)

	if err := conn.WriteJSON(initial); err != nil {
		return
	}

	// Reading must go on in the background to notice when the client closes.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			var msg message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			s.handleMessage(sess, wt, msg)
		}
	}()

	for {
		select {
		case <-closed:
			return
		case msg := <-wt.outbox:
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleMessage(sess *session, wt *watcher, msg message) {
	switch msg.Type {
	case "move":
		if msg.Bounds == nil {
			wt.send(message{Type: "error", ID: msg.ID, Error: "move needs bounds"})
			return
		}
		if _, ok := sess.move(msg.ID, *msg.Bounds); !ok {
			wt.send(message{Type: "error", ID: msg.ID, Error: "shape not found"})
		}
	case "route":
		sess.mu.Lock()
		sess.router.RouteAllLines(sess.design, sess.opts)
		sess.mu.Unlock()
	default:
		wt.send(message{Type: "error", Error: "unknown message type " + msg.Type})
	}
}
