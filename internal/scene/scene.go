package scene

import (
	"encoding/json"
	"fmt"

	"poster-maker/pkg/geometry"
)

// Scene is the full ordered set of layers for one editing session plus the
// logical/live size state. Z-order equals slice order; the background layer is
// always index 0.
type Scene struct {
	Reference float64  `json:"reference"`
	Surface   float64  `json:"surface"`
	Layers    []*Layer `json:"layers"`
}

// New creates a scene with the given background layer and live surface size.
func New(background *Layer, surface float64) *Scene {
	return &Scene{
		Reference: ReferenceSize,
		Surface:   surface,
		Layers:    []*Layer{background},
	}
}

// ScaleFactor is the single uniform factor mapping logical units to on-screen
// pixels at the current surface size.
func (s *Scene) ScaleFactor() float64 {
	if s.Reference == 0 {
		return 1
	}
	return s.Surface / s.Reference
}

// Background returns the background layer, or nil if the scene is empty.
func (s *Scene) Background() *Layer {
	for _, l := range s.Layers {
		if l.Kind == KindBackground {
			return l
		}
	}
	return nil
}

// Find returns the layer with the given id, or nil.
func (s *Scene) Find(id string) *Layer {
	for _, l := range s.Layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// Append adds a layer on top of the stack.
func (s *Scene) Append(l *Layer) {
	s.Layers = append(s.Layers, l)
}

// Remove deletes the layer with the given id. The background layer can never
// be removed; Remove reports whether anything changed.
func (s *Scene) Remove(id string) bool {
	for i, l := range s.Layers {
		if l.ID != id {
			continue
		}
		if l.Kind == KindBackground {
			return false
		}
		s.Layers = append(s.Layers[:i], s.Layers[i+1:]...)
		return true
	}
	return false
}

// HitTest returns the topmost layer whose bounds contain the given logical
// point, skipping the background (it is never directly selectable).
func (s *Scene) HitTest(p geometry.Point2D) *Layer {
	for i := len(s.Layers) - 1; i >= 0; i-- {
		l := s.Layers[i]
		if l.Kind == KindBackground {
			continue
		}
		if l.Bounds().Contains(p) {
			return l
		}
	}
	return nil
}

// SocialIcons returns the social icon layers in row order.
func (s *Scene) SocialIcons() []*Layer {
	var icons []*Layer
	for _, l := range s.Layers {
		if l.Kind == KindIdentitySocialIcon {
			icons = append(icons, l)
		}
	}
	return icons
}

// Snapshot serializes the scene. Bitmaps are not included; Load re-resolves
// them from each layer's Source.
func (s *Scene) Snapshot() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot scene: %w", err)
	}
	return data, nil
}

// Load fully replaces the scene's state from a snapshot. Layer bitmaps come
// back nil and must be re-resolved by the caller.
func (s *Scene) Load(data []byte) error {
	var restored Scene
	if err := json.Unmarshal(data, &restored); err != nil {
		return fmt.Errorf("load scene snapshot: %w", err)
	}
	if restored.Reference == 0 {
		restored.Reference = ReferenceSize
	}
	*s = restored
	return nil
}
