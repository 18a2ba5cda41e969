// Package server exposes hosted designs over HTTP and pushes routed lines to
// websocket clients.
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"ormd/config"
	"ormd/connections"
	"ormd/diagram"
	"ormd/geometry"
	"ormd/logging"
	"ormd/validation"
)

// Server hosts designs in memory.
type Server struct {
	cfg       config.Config
	registry  *diagram.Registry
	sessions  *sessionMap
	accessLog io.Writer
}

// New creates a server. Access logs go to accessLog, or stdout when nil.
func New(cfg config.Config, accessLog io.Writer) *Server {
	if accessLog == nil {
		accessLog = os.Stdout
	}
	return &Server{
		cfg:       cfg,
		registry:  diagram.NewRegistry(),
		sessions:  newSessionMap(),
		accessLog: accessLog,
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	handle := func(path string, h http.HandlerFunc, methods ...string) {
		router.Handle(path, handlers.CombinedLoggingHandler(s.accessLog, h)).Methods(methods...)
	}

	handle("/health", s.health, http.MethodGet)
	handle("/designs", s.createDesign, http.MethodPost)
	handle("/designs/{id}", s.getDesign, http.MethodGet)
	handle("/designs/{id}/route", s.routeDesign, http.MethodPost)
	handle("/designs/{id}/lines/{line}/route", s.routeLine, http.MethodPost)
	handle("/designs/{id}/layout", s.layoutDesign, http.MethodPost)
	handle("/designs/{id}/validate", s.validateDesign, http.MethodGet)
	handle("/designs/{id}/shapes/{shape}", s.moveShape, http.MethodPut)
	handle("/designs/{id}/ws", s.serveWebsocket, http.MethodGet)
	return router
}

// ListenAndServe serves Handler on the configured address.
func (s *Server) ListenAndServe() error {
	logging.Logger().Info("listening", "addr", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}

// AddDesign hosts d. It fails when a design with the same ID is hosted.
func (s *Server) AddDesign(d *diagram.Design) error {
	diagram.EnsureIDs(d)
	if !s.sessions.Add(d.ID, newSession(d, s.cfg)) {
		return errors.Errorf("design %q already exists", d.ID)
	}
	return nil
}

type summaryResponse struct {
	Routed     []string       `json:"routed"`
	Failed     []string       `json:"failed"`
	Unresolved []string       `json:"unresolved"`
	Strategies map[string]int `json:"strategies"`
}

func newSummaryResponse(s connections.Summary) summaryResponse {
	resp := summaryResponse{
		Routed:     nonNil(s.Routed),
		Failed:     nonNil(s.Failed),
		Unresolved: nonNil(s.Unresolved),
		Strategies: map[string]int{},
	}
	for strategy, n := range s.Strategies {
		resp.Strategies[strategy.String()] = n
	}
	return resp
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// routeRequest optionally overrides the configured routing options.
type routeRequest struct {
	Gap      float64 `json:"gap"`
	Strategy string  `json:"strategy"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"designs": s.sessions.Size(),
	})
}

func (s *Server) createDesign(w http.ResponseWriter, r *http.Request) {
	d, err := diagram.Decode(r.Body, s.registry)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.AddDesign(d); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	logging.Logger().Info("design created", "design", d.ID, "tables", len(d.Tables), "references", len(d.References))
	writeJSON(w, http.StatusCreated, map[string]string{"id": d.ID})
}

func (s *Server) getDesign(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var buf bytes.Buffer
	sess.mu.Lock()
	err := diagram.Encode(&buf, sess.design)
	sess.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) routeDesign(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	opts, err := s.routeOptions(r, sess.opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sess.mu.Lock()
	summary := sess.router.RouteAllLines(sess.design, opts)
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, newSummaryResponse(summary))
}

func (s *Server) routeLine(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	opts, err := s.routeOptions(r, sess.opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lineID := mux.Vars(r)["line"]

	sess.mu.Lock()
	defer sess.mu.Unlock()
	ref, ok := sess.design.Line(lineID)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("line %q not found", lineID))
		return
	}
	if !sess.router.RouteLine(sess.design, lineID, opts) {
		writeError(w, http.StatusUnprocessableEntity, errors.Errorf("no route for line %q", lineID))
		return
	}
	writeJSON(w, http.StatusOK, linePoints{ID: ref.ID, Points: ref.Points})
}

type layoutRequest struct {
	Margin   float64 `json:"margin"`
	Strategy string  `json:"strategy"`
}

func (s *Server) layoutDesign(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	req := layoutRequest{Margin: s.cfg.LayoutMargin}
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := sess.opts
	if req.Strategy != "" {
		strategy, err := connections.ParseStrategy(req.Strategy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		opts.Strategy = strategy
	}

	sess.mu.Lock()
	summary := sess.router.AutoLayout(sess.design, req.Margin, opts)
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, newSummaryResponse(summary))
}

func (s *Server) validateDesign(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	issues := validation.NewValidator().Validate(sess.design)
	sess.mu.Unlock()
	if issues == nil {
		issues = []validation.Issue{}
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) moveShape(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var bounds geometry.Rect
	if err := json.NewDecoder(r.Body).Decode(&bounds); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decode bounds"))
		return
	}

	shapeID := mux.Vars(r)["shape"]
	summary, ok := sess.move(shapeID, bounds)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("shape %q not found", shapeID))
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(summary))
}

// move sets the bounds of a table and routes every line again.
func (sess *session) move(shapeID string, bounds geometry.Rect) (connections.Summary, bool) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.design.MoveShape(shapeID, bounds) {
		return connections.Summary{}, false
	}
	return sess.router.RouteAllLines(sess.design, sess.opts), true
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	id := mux.Vars(r)["id"]
	sess := s.sessions.Get(id)
	if sess == nil {
		writeError(w, http.StatusNotFound, errors.Errorf("design %q not found", id))
	}
	return sess
}

func (s *Server) routeOptions(r *http.Request, defaults connections.RouteOptions) (connections.RouteOptions, error) {
	var req routeRequest
	if err := decodeOptional(r, &req); err != nil {
		return defaults, err
	}
	opts := defaults
	if req.Gap > 0 {
		opts.Gap = req.Gap
	}
	if req.Strategy != "" {
		strategy, err := connections.ParseStrategy(req.Strategy)
		if err != nil {
			return defaults, err
		}
		opts.Strategy = strategy
	}
	return opts, nil
}

// decodeOptional decodes a JSON body into v, leaving v alone when the body is empty.
func decodeOptional(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return errors.Wrap(err, "decode request")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger().Error("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	logging.Logger().Debug("request failed", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
