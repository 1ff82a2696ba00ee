package editing

import (
	"encoding/json"
	"fmt"
	"os"

	"curvesandbox/internal/shared/types"
)

// LoadScene reads a JSON scene from disk.
func LoadScene(filename string) (*types.Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var scene types.Scene
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", filename, err)
	}
	return &scene, nil
}

// SessionFromScene builds a detached session holding the scene's strokes and
// validated settings.
func SessionFromScene(id string, scene *types.Scene) *Session {
	s := NewSession(id)
	s.ApplySettings(scene.Settings)
	for _, st := range scene.Strokes {
		s.AddStroke(st)
	}
	return s
}
