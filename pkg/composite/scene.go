package composite

import (
	"github.com/matzehuels/collage/pkg/layout"
	"github.com/matzehuels/collage/pkg/media"
)

// Layer is one source as seen by a single tick.
type Layer struct {
	ID      string
	Handle  media.Handle
	Audible bool
}

// Scene is what the compositor draws in one tick. Layer order is slot
// order: Layers[i] is drawn into the i-th rectangle of Kind.
//
// Producers must hand out a fresh Layers slice per call; the compositor
// never mutates it.
type Scene struct {
	Layers  []Layer
	Kind    layout.Kind
	Playing bool
}

// SceneSource supplies the scene for each tick.
type SceneSource interface {
	Scene() Scene
}

// SceneFunc adapts a function to the SceneSource interface.
type SceneFunc func() Scene

// Scene calls f.
func (f SceneFunc) Scene() Scene { return f() }

// StaticScene always returns the same scene.
type StaticScene Scene

// Scene returns s with a copied layer slice.
func (s StaticScene) Scene() Scene {
	scene := Scene(s)
	scene.Layers = append([]Layer(nil), s.Layers...)
	return scene
}
