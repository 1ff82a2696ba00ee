package types

import (
	"encoding/json"
	"testing"
)

func TestSettingsInputAcceptsStringsAndNumbers(t *testing.T) {
	raw := `{"tool_size": 4, "radius": "30", "position_x": 12.5, "velocity_y": -1e2, "gravity": null, "friction": " 0.2 "}`
	var in SettingsInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := SettingsInput{ToolSize: "4", Radius: "30", PositionX: "12.5", VelocityY: "-1e2", Friction: " 0.2 "}
	if in != want {
		t.Fatalf("expected %+v, got=%+v", want, in)
	}
}

func TestSettingsInputRejectsOtherJSONKinds(t *testing.T) {
	for _, raw := range []string{`{"radius": true}`, `{"radius": [1]}`, `{"radius": {}}`} {
		var in SettingsInput
		if err := json.Unmarshal([]byte(raw), &in); err == nil {
			t.Fatalf("expected error for %s, got=%+v", raw, in)
		}
	}
}
