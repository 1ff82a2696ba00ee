package editing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"curvesandbox/internal/shared/types"
	"curvesandbox/internal/simulation"
)

const (
	DefaultToolSize = 3
	MinToolSize     = 1
	MaxToolSize     = 10

	DefaultColor types.Color = "#ffffff"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultSettings returns the editor's initial state.
func DefaultSettings() types.Settings {
	return types.Settings{
		ToolSize:  DefaultToolSize,
		Radius:    simulation.DefaultRadius,
		Gravity:   simulation.DefaultGravity,
		PenColor:  DefaultColor,
		BallColor: DefaultColor,
	}
}

// Validate turns raw editor fields into settings. A field that is empty,
// unparseable or out of range falls back to its default rather than being
// clamped to the nearest bound.
func Validate(in types.SettingsInput) types.Settings {
	return merge(in, DefaultSettings())
}

// merge validates in; colors that are not "#rrggbb" keep prev's.
func merge(in types.SettingsInput, prev types.Settings) types.Settings {
	out := types.Settings{
		ToolSize: parseInt(string(in.ToolSize), DefaultToolSize, MinToolSize, MaxToolSize),
		Radius:   parseFloat(string(in.Radius), simulation.DefaultRadius, simulation.MinRadius, simulation.MaxRadius),
		Position: validPosition(types.Vec2{
			X: parseFloat(string(in.PositionX), 0, math.Inf(-1), math.Inf(1)),
			Y: parseFloat(string(in.PositionY), 0, math.Inf(-1), math.Inf(1)),
		}),
		Velocity: validVelocity(types.Vec2{
			X: parseFloat(string(in.VelocityX), 0, math.Inf(-1), math.Inf(1)),
			Y: parseFloat(string(in.VelocityY), 0, math.Inf(-1), math.Inf(1)),
		}),
		Gravity:    parseFloat(string(in.Gravity), simulation.DefaultGravity, 0, simulation.MaxGravity),
		Friction:   parseFloat(string(in.Friction), 0, math.Inf(-1), math.Inf(1)),
		AirDensity: parseFloat(string(in.AirDensity), 0, math.Inf(-1), math.Inf(1)),
		PenColor:   prev.PenColor,
		BallColor:  prev.BallColor,
	}
	if hexColor.MatchString(string(in.PenColor)) {
		out.PenColor = types.Color(strings.ToLower(string(in.PenColor)))
	}
	if hexColor.MatchString(string(in.BallColor)) {
		out.BallColor = types.Color(strings.ToLower(string(in.BallColor)))
	}
	if out.PenColor == "" {
		out.PenColor = DefaultColor
	}
	if out.BallColor == "" {
		out.BallColor = DefaultColor
	}
	return out
}

func parseFloat(s string, fallback, lo, hi float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return inRange(v, fallback, lo, hi)
}

func inRange(v, fallback, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
		return fallback
	}
	return v
}

// validPosition resets each coordinate outside the viewport to 0.
func validPosition(p types.Vec2) types.Vec2 {
	return types.Vec2{
		X: inRange(p.X, 0, 0, simulation.ViewportWidth),
		Y: inRange(p.Y, 0, 0, simulation.ViewportHeight),
	}
}

// validVelocity resets each component faster than MaxInitialSpeed to 0.
func validVelocity(v types.Vec2) types.Vec2 {
	return types.Vec2{
		X: inRange(v.X, 0, -simulation.MaxInitialSpeed, simulation.MaxInitialSpeed),
		Y: inRange(v.Y, 0, -simulation.MaxInitialSpeed, simulation.MaxInitialSpeed),
	}
}

func parseInt(s string, fallback, lo, hi int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		return fallback
	}
	return v
}

// Constants extracts the physics constants for a run.
func Constants(s types.Settings) simulation.Constants {
	return simulation.Constants{
		Gravity:    s.Gravity,
		Friction:   s.Friction,
		AirDensity: s.AirDensity,
	}
}

// Disc builds the initial disc for a run.
func Disc(s types.Settings) simulation.Disc {
	return simulation.NewDisc(s.Radius, s.Position.R2(), s.Velocity.R2(), s.BallColor)
}
