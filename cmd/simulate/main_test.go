package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"curvesandbox/internal/shared/types"
)

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

func lastResult(t *testing.T, out []byte) types.RunResult {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	var res types.RunResult
	if err := json.Unmarshal(lines[len(lines)-1], &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return res
}

func TestRunRestsOnFloorUntilTickLimit(t *testing.T) {
	path := writeScene(t, `{
  "strokes": [{"width": 4, "points": [{"x": 0, "y": 500}, {"x": 500, "y": 500}, {"x": 1000, "y": 500}]}],
  "settings": {"position_x": "250", "position_y": "200"}
}`)
	var out bytes.Buffer
	if err := run([]string{"-scene", path, "-max-ticks", "120"}, &out, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	res := lastResult(t, out.Bytes())
	if res.Reason != types.EndAborted || res.Ticks != 120 {
		t.Fatalf("expected abort at tick limit, got=%+v", res)
	}
	if res.Position.X != 250 || res.Position.Y < 477.9 || res.Position.Y > 478.1 {
		t.Fatalf("expected disc resting at (250,478), got=%+v", res.Position)
	}
}

func TestRunFallsOutNaturally(t *testing.T) {
	path := writeScene(t, `{"strokes": [], "settings": {"position_x": "100", "position_y": "100"}}`)
	var out bytes.Buffer
	if err := run([]string{"-scene", path, "-trace"}, &out, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	res := lastResult(t, out.Bytes())
	if res.Reason != types.EndNatural || res.Position != (types.Vec2{}) {
		t.Fatalf("expected natural end with zeroed disc, got=%+v", res)
	}

	frames := 0
	sc := bufio.NewScanner(bytes.NewReader(out.Bytes()))
	for sc.Scan() {
		frames++
	}
	if uint64(frames) != res.Ticks+1 {
		t.Fatalf("expected %d trace lines plus result, got=%d lines", res.Ticks, frames)
	}
}

func TestRunFlagErrors(t *testing.T) {
	if err := run(nil, io.Discard, io.Discard); err == nil {
		t.Fatal("expected error without -scene")
	}
	path := writeScene(t, `{}`)
	if err := run([]string{"-scene", path, "-dt", "0"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected error for non-positive dt")
	}
	for _, n := range []string{"0", "-1"} {
		if err := run([]string{"-scene", path, "-max-ticks", n}, io.Discard, io.Discard); err == nil {
			t.Fatalf("expected error for -max-ticks %s", n)
		}
	}
	if err := run([]string{"-scene", filepath.Join(t.TempDir(), "nope.json")}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected error for missing scene")
	}
}
