package scene

import (
	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/transform"
)

// BuildSpeaker turns a manifest speaker into a positional audio node.
// soundURL is where the viewer can fetch the staged bytes.
func BuildSpeaker(sp *project.Speaker, soundURL string) (*engine.Speaker, error) {
	d, err := transform.DecodeMatrix(sp.Matrix)
	if err != nil {
		return nil, errors.Wrapf(err, "Speaker %q", sp.Name)
	}

	volume := sp.Volume
	if volume == 0 {
		volume = 1
	}

	return &engine.Speaker{
		Name:        sp.Name,
		Transform:   EncodeTransform(d),
		URL:         soundURL,
		Volume:      volume,
		Loop:        sp.Loop,
		Autoplay:    sp.Autoplay,
		RefDistance: sp.DistanceRef,
		MaxDistance: sp.DistanceMax,
	}, nil
}

// BuildEmpty places a named locator. Empties carry the module bindings
// game logic attaches to at runtime.
func BuildEmpty(e *project.Empty) (*engine.Empty, error) {
	d, err := transform.DecodeMatrix(e.Matrix)
	if err != nil {
		return nil, errors.Wrapf(err, "Empty %q", e.Name)
	}
	return &engine.Empty{
		Name:      e.Name,
		Transform: EncodeTransform(d),
		Modules:   e.Modules,
	}, nil
}
