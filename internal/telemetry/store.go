package telemetry

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"curvesandbox/internal/shared/types"
)

// Event types emitted by sandboxd.
const (
	EventRunStarted      = "run_started"
	EventContactAcquired = "contact_acquired"
	EventContactLost     = "contact_lost"
	EventRunEnded        = "run_ended"
)

// MaxRecent bounds the number of events kept in memory.
const MaxRecent = 1000

// RunStats aggregates the run events of one sandbox session.
type RunStats struct {
	SessionID       string  `json:"session_id"`
	Started         int64   `json:"started"`
	Natural         int64   `json:"natural"`
	Aborted         int64   `json:"aborted"`
	ContactsGained  int64   `json:"contacts_gained"`
	ContactsLost    int64   `json:"contacts_lost"`
	Ticks           uint64  `json:"ticks"`
	SimulatedS      float64 `json:"simulated_s"`
	LastReason      string  `json:"last_reason,omitempty"`
	LastEventUnixMS int64   `json:"last_event_unix_ms"`
}

// Active reports whether a started run has not reported its end yet.
func (r RunStats) Active() bool {
	return r.Started > r.Natural+r.Aborted
}

// Store keeps recent sandbox events, per-type counters and per-session run
// statistics.
type Store struct {
	mu       sync.RWMutex
	events   []types.TelemetryEvent
	total    int64
	byType   map[string]int64
	sessions map[string]*RunStats
}

func NewStore() *Store {
	return &Store{
		events:   make([]types.TelemetryEvent, 0, 512),
		byType:   make(map[string]int64),
		sessions: make(map[string]*RunStats),
	}
}

type Summary struct {
	Total        int64            `json:"total"`
	ByType       map[string]int64 `json:"by_type"`
	RunsByReason map[string]int64 `json:"runs_by_reason"`
	Sessions     int              `json:"sessions"`
	ActiveRuns   int              `json:"active_runs"`
}

// Ingest records ev. Events without a session id only count toward the
// global totals.
func (s *Store) Ingest(ev types.TelemetryEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	s.byType[ev.EventType]++
	s.events = append(s.events, ev)
	if n := len(s.events); n > MaxRecent {
		s.events = s.events[n-MaxRecent:]
	}
	if ev.SessionID == "" {
		return
	}

	st, ok := s.sessions[ev.SessionID]
	if !ok {
		st = &RunStats{SessionID: ev.SessionID}
		s.sessions[ev.SessionID] = st
	}
	st.LastEventUnixMS = ev.Timestamp
	switch ev.EventType {
	case EventRunStarted:
		st.Started++
	case EventContactAcquired:
		st.ContactsGained++
	case EventContactLost:
		st.ContactsLost++
	case EventRunEnded:
		reason, _ := ev.Payload["reason"].(string)
		switch reason {
		case types.EndNatural:
			st.Natural++
		case types.EndAborted:
			st.Aborted++
		}
		st.LastReason = reason
		st.Ticks += uint64(number(ev.Payload["ticks"]))
		st.SimulatedS += number(ev.Payload["simulated_s"])
	}
}

// number reads a payload value that may have come straight from sandboxd or
// through a JSON round trip.
func number(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case uint64:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Recent returns up to limit of the newest events, oldest first. A non-empty
// sessionID keeps only that session's events.
func (s *Store) Recent(sessionID string, limit int) []types.TelemetryEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.events
	if sessionID != "" {
		src = make([]types.TelemetryEvent, 0, len(s.events))
		for _, ev := range s.events {
			if ev.SessionID == sessionID {
				src = append(src, ev)
			}
		}
	}
	if limit <= 0 || limit > len(src) {
		limit = len(src)
	}
	out := make([]types.TelemetryEvent, limit)
	copy(out, src[len(src)-limit:])
	return out
}

// Runs returns the run statistics of one session.
func (s *Store) Runs(sessionID string) (RunStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return RunStats{}, false
	}
	return *st, true
}

// AllRuns returns every session's run statistics ordered by session id.
func (s *Store) AllRuns() []RunStats {
	s.mu.RLock()
	out := make([]RunStats, 0, len(s.sessions))
	for _, st := range s.sessions {
		out = append(out, *st)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := Summary{
		Total:        s.total,
		ByType:       make(map[string]int64, len(s.byType)),
		RunsByReason: map[string]int64{types.EndNatural: 0, types.EndAborted: 0},
		Sessions:     len(s.sessions),
	}
	for k, v := range s.byType {
		sum.ByType[k] = v
	}
	for _, st := range s.sessions {
		sum.RunsByReason[types.EndNatural] += st.Natural
		sum.RunsByReason[types.EndAborted] += st.Aborted
		if st.Active() {
			sum.ActiveRuns++
		}
	}
	return sum
}

// WriteMetrics writes the counters in Prometheus text format.
func (s *Store) WriteMetrics(w io.Writer) error {
	sum := s.Summary()
	kinds := make([]string, 0, len(sum.ByType))
	for k := range sum.ByType {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	lines := []string{
		"# HELP sandbox_run_events_total Total sandbox events ingested",
		"# TYPE sandbox_run_events_total counter",
		fmt.Sprintf("sandbox_run_events_total %d", sum.Total),
		"# TYPE sandbox_run_events_by_type counter",
	}
	for _, typ := range kinds {
		lines = append(lines, fmt.Sprintf("sandbox_run_events_by_type{event_type=%q} %d", typ, sum.ByType[typ]))
	}
	lines = append(lines,
		"# HELP sandbox_runs_ended_total Runs ended, by end reason",
		"# TYPE sandbox_runs_ended_total counter",
		fmt.Sprintf("sandbox_runs_ended_total{reason=%q} %d", types.EndAborted, sum.RunsByReason[types.EndAborted]),
		fmt.Sprintf("sandbox_runs_ended_total{reason=%q} %d", types.EndNatural, sum.RunsByReason[types.EndNatural]),
		"# TYPE sandbox_runs_active gauge",
		fmt.Sprintf("sandbox_runs_active %d", sum.ActiveRuns),
	)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
