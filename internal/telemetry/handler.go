package telemetry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"curvesandbox/internal/shared/types"
)

const defaultEventLimit = 100

// Handler serves the telemetry API over s:
//
//	GET  /health
//	POST /v1/events                       ingest one event
//	GET  /v1/events?session_id=&limit=    recent events
//	GET  /v1/runs?session_id=             per-session run statistics
//	GET  /metrics                         Prometheus text
func Handler(s *Store) http.Handler {
	h := &handler{store: s}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/v1/events", h.events)
	mux.HandleFunc("/v1/runs", h.runs)
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_ = s.WriteMetrics(w)
	})
	return WithCORS(mux)
}

type handler struct {
	store *Store
}

func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.ingest(w, r)
	case http.MethodGet:
		q := r.URL.Query()
		limit := defaultEventLimit
		if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
			limit = v
		}
		events := h.store.Recent(q.Get("session_id"), limit)
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"count":  len(events),
			"events": events,
		})
	default:
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
	}
}

func (h *handler) ingest(w http.ResponseWriter, r *http.Request) {
	var ev types.TelemetryEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request"})
		return
	}
	if ev.EventType == "" {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "event_type_required"})
		return
	}
	stamp(&ev, time.Now().UTC())
	h.store.Ingest(ev)
	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "event_id": ev.EventID})
}

func (h *handler) runs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
		return
	}
	id := r.URL.Query().Get("session_id")
	if id == "" {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"summary":  h.store.Summary(),
			"sessions": h.store.AllRuns(),
		})
		return
	}
	st, ok := h.store.Runs(id)
	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "session_not_found"})
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

// stamp fills in the event id and timestamp when the sender left them unset.
func stamp(ev *types.TelemetryEvent, now time.Time) {
	if ev.EventID == "" {
		ev.EventID = fmt.Sprintf("ev_%d", now.UnixNano())
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = now.UnixMilli()
	}
}

func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WriteJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
