package editing

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleScene = `{
  "strokes": [
    {"width": 4, "color": "#ffffff", "points": [{"x": 0, "y": 500}, {"x": 250, "y": 500}, {"x": 500, "y": 500}]},
    {"width": 2, "color": "#ffffff", "points": [{"x": 10, "y": 10}, {"x": 10, "y": 10}]}
  ],
  "settings": {"radius": "20", "position_x": "250", "position_y": "200", "gravity": "1000"}
}`

func TestLoadSceneBuildsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(sampleScene), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	s := SessionFromScene("cli", scene)

	sum := s.Summary()
	if sum.Strokes != 2 || sum.Curves != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.Settings.Position.X != 250 || sum.Settings.Position.Y != 200 || sum.Settings.Radius != 20 {
		t.Fatalf("unexpected settings: %+v", sum.Settings)
	}
}

func TestLoadSceneErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadScene(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	if _, err := LoadScene(bad); err == nil {
		t.Fatal("expected parse error")
	}
}
