package editing

import (
	"errors"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"curvesandbox/internal/geometry"
	"curvesandbox/internal/shared/types"
	"curvesandbox/internal/simulation"
)

var (
	ErrSessionNotFound = errors.New("editing: session not found")
	ErrRunActive       = errors.New("editing: a run is active")
	ErrNoRun           = errors.New("editing: no active run")
	ErrNoStroke        = errors.New("editing: no open stroke")
)

// Session is one user's drawing, editor settings and run history. Drawing
// is rejected while a run is active so the run's curves stay frozen.
type Session struct {
	mu         sync.RWMutex
	id         string
	strokes    []geometry.Stroke
	drawing    bool
	settings   types.Settings
	lastResult *types.RunResult
	run        *simulation.Run
	lastSeen   time.Time
}

func NewSession(id string) *Session {
	return &Session{
		id:       id,
		settings: DefaultSettings(),
		lastSeen: time.Now().UTC(),
	}
}

func (s *Session) ID() string { return s.id }

// ApplySettings validates in and stores the result.
func (s *Session) ApplySettings(in types.SettingsInput) types.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = merge(in, s.settings)
	return s.settings
}

func (s *Session) Settings() types.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// BeginStroke opens a new stroke with the current pen width and color.
func (s *Session) BeginStroke() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return ErrRunActive
	}
	s.strokes = append(s.strokes, geometry.Stroke{
		Width: s.settings.ToolSize,
		Color: s.settings.PenColor,
	})
	s.drawing = true
	return nil
}

// AddPoint appends p to the open stroke.
func (s *Session) AddPoint(p types.Vec2) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return ErrRunActive
	}
	if !s.drawing || len(s.strokes) == 0 {
		return ErrNoStroke
	}
	last := &s.strokes[len(s.strokes)-1]
	last.Points = append(last.Points, p.R2())
	return nil
}

// EndStroke closes the open stroke, if any.
func (s *Session) EndStroke() {
	s.mu.Lock()
	s.drawing = false
	s.mu.Unlock()
}

// Erase removes every stroke point within ToolSize*EraserScale of p,
// splitting strokes where points were removed.
func (s *Session) Erase(p types.Vec2) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return ErrRunActive
	}
	radius := float64(s.settings.ToolSize * geometry.EraserScale)
	out := make([]geometry.Stroke, 0, len(s.strokes))
	for _, st := range s.strokes {
		out = append(out, geometry.EraseStroke(st, p.R2(), radius)...)
	}
	s.strokes = out
	s.drawing = false
	return nil
}

// Clear removes all strokes.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return ErrRunActive
	}
	s.strokes = nil
	s.drawing = false
	return nil
}

// AddStroke appends a complete stroke, as loaded from a scene.
func (s *Session) AddStroke(in types.StrokeInput) {
	pts := make([]r2.Vec, len(in.Points))
	for i, p := range in.Points {
		pts[i] = p.R2()
	}
	s.mu.Lock()
	s.strokes = append(s.strokes, geometry.Stroke{Width: in.Width, Color: in.Color, Points: pts})
	s.mu.Unlock()
}

// Curves builds the collidable curves for the current drawing.
func (s *Session) Curves() []geometry.Curve {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return geometry.Build(s.strokes)
}

// DiscSpec returns the initial disc and constants for a run.
func (s *Session) DiscSpec() (simulation.Disc, simulation.Constants) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Disc(s.settings), Constants(s.settings)
}

// StartRun freezes the drawing into curves and starts a run.
func (s *Session) StartRun() (*simulation.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return nil, ErrRunActive
	}
	s.drawing = false
	run := simulation.NewRun(
		geometry.Build(s.strokes),
		Disc(s.settings),
		Constants(s.settings),
		simulation.DefaultViewport(),
	)
	s.run = run
	return run, nil
}

// ActiveRun returns the running simulation, if any.
func (s *Session) ActiveRun() (*simulation.Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run, s.run != nil
}

// FinishRun detaches the active run and applies its result.
func (s *Session) FinishRun() (types.RunResult, error) {
	s.mu.Lock()
	run := s.run
	s.run = nil
	s.mu.Unlock()
	if run == nil {
		return types.RunResult{}, ErrNoRun
	}
	run.Abort()
	res, _ := run.Result()
	s.ApplyResult(res)
	return res, nil
}

// ApplyResult hands a finished run's final state back to the editor. The
// state goes through the same range rules as typed input, so a disc aborted
// off-screen or faster than MaxInitialSpeed starts the next run from the
// defaults for those fields. The stored result is left as reported.
func (s *Session) ApplyResult(res types.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Position = validPosition(res.Position)
	s.settings.Velocity = validVelocity(res.Velocity)
	r := res
	s.lastResult = &r
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.run != nil {
		return 0
	}
	return now.Sub(s.lastSeen)
}

// Summary describes the session for the HTTP API.
func (s *Session) Summary() types.SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := types.SessionSummary{
		SessionID: s.id,
		Strokes:   len(s.strokes),
		Curves:    len(geometry.Build(s.strokes)),
		Settings:  s.settings,
		Running:   s.run != nil,
	}
	if s.lastResult != nil {
		r := *s.lastResult
		sum.LastResult = &r
	}
	return sum
}
