package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"curvesandbox/internal/config"
	"curvesandbox/internal/editing"
	"curvesandbox/internal/shared/logger"
	"curvesandbox/internal/shared/types"
	"curvesandbox/internal/simulation"
	"curvesandbox/internal/telemetry"
)

type client struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

type server struct {
	ctx       context.Context
	log       *logger.Logger
	cfg       config.Sandbox
	sessions  *editing.Manager
	events    *telemetry.Emitter
	upgrader  websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func newServer(ctx context.Context, cfg config.Sandbox, log *logger.Logger, tel *telemetry.Client) *server {
	events := telemetry.NewEmitter(tel, log, telemetry.DefaultQueueSize)
	go events.Run(ctx)
	return &server{
		ctx:       ctx,
		log:       log,
		cfg:       cfg,
		sessions:  editing.NewManager(),
		events:    events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/sessions", s.handleSessions)
	mux.HandleFunc("/ws", s.handleWS)
	return telemetry.WithCORS(mux)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	telemetry.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		sess := s.sessions.Create()
		s.log.Printf("session created session=%s", sess.ID())
		telemetry.WriteJSON(w, http.StatusCreated, types.SessionCreateResponse{SessionID: sess.ID()})
	case http.MethodGet:
		id := r.URL.Query().Get("session_id")
		if id == "" {
			telemetry.WriteJSON(w, http.StatusOK, map[string]interface{}{"sessions": s.sessions.List()})
			return
		}
		sess, err := s.sessions.Get(id)
		if err != nil {
			telemetry.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "session_not_found"})
			return
		}
		telemetry.WriteJSON(w, http.StatusOK, sess.Summary())
	default:
		telemetry.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
	}
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	var sess *editing.Session
	if id := r.URL.Query().Get("session_id"); id != "" {
		found, err := s.sessions.Get(id)
		if err != nil {
			telemetry.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "session_not_found"})
			return
		}
		sess = found
	} else {
		sess = s.sessions.Create()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &client{sessionID: sess.ID(), conn: conn, send: make(chan []byte, 64)}
	s.register(c)

	s.log.Printf("client connected session=%s remote=%s", sess.ID(), r.RemoteAddr)
	settings := sess.Settings()
	s.sendTo(c, types.ServerEnvelope{
		Type:      "welcome",
		SessionID: sess.ID(),
		Settings:  &settings,
		ServerMS:  time.Now().UTC().UnixMilli(),
		Message:   "connected",
	})

	go s.writePump(c)
	s.readPump(c, sess)
}

func (s *server) readPump(c *client, sess *editing.Session) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Printf("client disconnected session=%s", c.sessionID)
				return
			}
			s.log.Printf("read error session=%s err=%v", c.sessionID, err)
			return
		}
		s.sessions.Touch(c.sessionID)

		var in types.ClientEnvelope
		if err := json.Unmarshal(msg, &in); err != nil {
			s.sendError(c, "bad_payload")
			continue
		}
		if err := s.dispatch(c, sess, in); err != nil {
			s.sendError(c, errorCode(err))
		}
	}
}

var (
	errMissingSettings = errors.New("missing settings")
	errMissingPoint    = errors.New("missing point")
	errUnsupported     = errors.New("unsupported message type")
)

func (s *server) dispatch(c *client, sess *editing.Session, in types.ClientEnvelope) error {
	switch in.Type {
	case "settings":
		if in.Settings == nil {
			return errMissingSettings
		}
		settings := sess.ApplySettings(*in.Settings)
		s.sendTo(c, types.ServerEnvelope{Type: "settings", SessionID: sess.ID(), Settings: &settings})
	case "stroke_begin":
		if in.Settings != nil {
			sess.ApplySettings(*in.Settings)
		}
		return sess.BeginStroke()
	case "stroke_point":
		if in.Point == nil {
			return errMissingPoint
		}
		return sess.AddPoint(*in.Point)
	case "stroke_end":
		sess.EndStroke()
	case "erase":
		if in.Point == nil {
			return errMissingPoint
		}
		return sess.Erase(*in.Point)
	case "clear":
		return sess.Clear()
	case "start":
		run, err := sess.StartRun()
		if err != nil {
			return err
		}
		go s.runLoop(sess, run)
	case "abort":
		run, ok := sess.ActiveRun()
		if !ok || !run.Abort() {
			return editing.ErrNoRun
		}
	case "ping":
		s.sendTo(c, types.ServerEnvelope{Type: "pong", ServerMS: time.Now().UTC().UnixMilli()})
	default:
		return errUnsupported
	}
	return nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, editing.ErrRunActive):
		return "run_active"
	case errors.Is(err, editing.ErrNoRun):
		return "no_run"
	case errors.Is(err, editing.ErrNoStroke):
		return "no_stroke"
	case errors.Is(err, errMissingSettings):
		return "missing_settings"
	case errors.Is(err, errMissingPoint):
		return "missing_point"
	case errors.Is(err, errUnsupported):
		return "unsupported_message_type"
	default:
		return "internal_error"
	}
}

func (s *server) writePump(c *client) {
	ticker := time.NewTicker(20 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				return
			}
		}
	}
}

func (s *server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		close(c.send)
		delete(s.clients, c)
	}
}

func (s *server) sendTo(c *client, env types.ServerEnvelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		s.log.Printf("marshal %s failed: %v", env.Type, err)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// broadcast sends env to every client attached to sessionID.
func (s *server) broadcast(sessionID string, env types.ServerEnvelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		s.log.Printf("marshal %s failed: %v", env.Type, err)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		if c.sessionID != sessionID {
			continue
		}
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (s *server) sendError(c *client, message string) {
	s.sendTo(c, types.ServerEnvelope{
		Type:    "error",
		Message: message,
	})
}

// runLoop steps run once per frame with the measured wall-clock interval as
// dt until it ends, then hands the result back to the session.
func (s *server) runLoop(sess *editing.Session, run *simulation.Run) {
	id := sess.ID()
	s.emit(id, telemetry.EventRunStarted, nil)
	s.log.Printf("run started session=%s", id)

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	every := 1
	if s.cfg.ReplicationHz > 0 && s.cfg.ReplicationHz < s.cfg.FPS {
		every = s.cfg.FPS / s.cfg.ReplicationHz
	}

	last := time.Now()
	for active := true; active; {
		select {
		case <-s.ctx.Done():
			run.Abort()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			var frame types.FrameState
			frame, active = run.Step(dt)
			for _, tr := range frame.Transitions {
				s.emitTransition(id, tr)
			}
			if active && frame.Tick%uint64(every) != 0 && len(frame.Transitions) == 0 {
				continue
			}
			s.broadcast(id, types.ServerEnvelope{
				Type:     "frame",
				Tick:     frame.Tick,
				Frame:    &frame,
				ServerMS: time.Now().UTC().UnixMilli(),
			})
		}
		if run.Done() {
			active = false
		}
	}

	res, err := sess.FinishRun()
	if err != nil {
		s.log.Printf("finish run failed session=%s err=%v", id, err)
		return
	}
	s.log.Printf("run ended session=%s reason=%s ticks=%d", id, res.Reason, res.Ticks)
	s.emit(id, telemetry.EventRunEnded, map[string]interface{}{
		"reason":      res.Reason,
		"ticks":       res.Ticks,
		"simulated_s": res.SimulatedS,
	})
	s.broadcast(id, types.ServerEnvelope{
		Type:     "run_end",
		Tick:     res.Ticks,
		Result:   &res,
		ServerMS: time.Now().UTC().UnixMilli(),
	})
}

func (s *server) emitTransition(sessionID string, tr types.Transition) {
	var kind string
	switch tr.Kind {
	case types.TransitionContactAcquired:
		kind = telemetry.EventContactAcquired
	case types.TransitionContactLost:
		kind = telemetry.EventContactLost
	default:
		return
	}
	s.emit(sessionID, kind, map[string]interface{}{"curve": tr.Curve, "edge": tr.Edge})
}

func (s *server) emit(sessionID, eventType string, payload map[string]interface{}) {
	s.events.Emit(types.TelemetryEvent{
		EventType: eventType,
		SessionID: sessionID,
		Payload:   payload,
	})
}
