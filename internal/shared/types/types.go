package types

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r2"
)

// Color is a cosmetic "#rrggbb" color. Physics never reads it.
type Color string

// Vec2 represents a position or vector in screen space (y down).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// R2 converts the wire vector to the physics vector type.
func (v Vec2) R2() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// FromR2 converts a physics vector to its wire form.
func FromR2(v r2.Vec) Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

// End reasons reported in RunResult.
const (
	EndNatural = "natural"
	EndAborted = "aborted"
)

// Transition kinds reported per frame.
const (
	TransitionContactAcquired = "contact_acquired"
	TransitionContactLost     = "contact_lost"
	TransitionEdgeChanged     = "edge_changed"
)

// Transition records a motion state change inside one frame.
type Transition struct {
	Kind  string `json:"kind"`
	Curve int    `json:"curve"`
	Edge  int    `json:"edge"`
}

// DiscState is the render state of the ball.
type DiscState struct {
	Position Vec2    `json:"position"`
	Velocity Vec2    `json:"velocity"`
	Radius   float64 `json:"radius"`
	Color    Color   `json:"color"`
	Bound    bool    `json:"bound"`
	Curve    int     `json:"curve"` // -1 in freefall
	Edge     int     `json:"edge"`  // -1 in freefall
	OnTop    bool    `json:"on_top,omitempty"`
}

// FrameState is replicated once per simulated frame.
type FrameState struct {
	Tick        uint64       `json:"tick"`
	Disc        DiscState    `json:"disc"`
	Transitions []Transition `json:"transitions,omitempty"`
}

// RunResult is reported once when a run ends.
type RunResult struct {
	Position   Vec2    `json:"position"`
	Velocity   Vec2    `json:"velocity"`
	Reason     string  `json:"reason"` // natural|aborted
	Ticks      uint64  `json:"ticks"`
	SimulatedS float64 `json:"simulated_s"`
}

// Field is a raw editor value. It decodes from a JSON string or number.
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = Field(n.String())
	return nil
}

// SettingsInput carries editor fields exactly as the user typed them.
// Every field is validated before reaching the physics core.
type SettingsInput struct {
	ToolSize   Field `json:"tool_size"`
	Radius     Field `json:"radius"`
	PositionX  Field `json:"position_x"`
	PositionY  Field `json:"position_y"`
	VelocityX  Field `json:"velocity_x"`
	VelocityY  Field `json:"velocity_y"`
	Gravity    Field `json:"gravity"`
	Friction   Field `json:"friction"`
	AirDensity Field `json:"air_density"`
	PenColor   Color `json:"pen_color,omitempty"`
	BallColor  Color `json:"ball_color,omitempty"`
}

// Settings is the validated editor state.
type Settings struct {
	ToolSize   int     `json:"tool_size"`
	Radius     float64 `json:"radius"`
	Position   Vec2    `json:"position"`
	Velocity   Vec2    `json:"velocity"`
	Gravity    float64 `json:"gravity"`
	Friction   float64 `json:"friction"`
	AirDensity float64 `json:"air_density"`
	PenColor   Color   `json:"pen_color"`
	BallColor  Color   `json:"ball_color"`
}

// StrokeInput is a raw drawn curve.
type StrokeInput struct {
	Width  int    `json:"width"`
	Color  Color  `json:"color"`
	Points []Vec2 `json:"points"`
}

// Scene is a saved drawing plus settings, used by the headless runner.
type Scene struct {
	Strokes  []StrokeInput `json:"strokes"`
	Settings SettingsInput `json:"settings"`
}

// ClientEnvelope is sent from client to server.
type ClientEnvelope struct {
	Type     string         `json:"type"` // settings|stroke_begin|stroke_point|stroke_end|erase|clear|start|abort|ping
	Settings *SettingsInput `json:"settings,omitempty"`
	Point    *Vec2          `json:"point,omitempty"`
}

// ServerEnvelope is sent from server to client.
type ServerEnvelope struct {
	Type      string      `json:"type"` // welcome|settings|frame|run_end|pong|error
	SessionID string      `json:"session_id,omitempty"`
	Tick      uint64      `json:"tick,omitempty"`
	Frame     *FrameState `json:"frame,omitempty"`
	Result    *RunResult  `json:"result,omitempty"`
	Settings  *Settings   `json:"settings,omitempty"`
	ServerMS  int64       `json:"server_ms,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// SessionCreateResponse returns a new editing session id.
type SessionCreateResponse struct {
	SessionID string `json:"session_id"`
}

// SessionSummary describes an editing session.
type SessionSummary struct {
	SessionID  string     `json:"session_id"`
	Strokes    int        `json:"strokes"`
	Curves     int        `json:"curves"`
	Settings   Settings   `json:"settings"`
	LastResult *RunResult `json:"last_result,omitempty"`
	Running    bool       `json:"running"`
}

// TelemetryEvent represents a simulation/platform event.
type TelemetryEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	SessionID string                 `json:"session_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}
