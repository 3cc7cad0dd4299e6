// Package scene translates manifest entries into viewer scene graph
// commands: factories for cameras, lights, speakers and empties, the
// environment and postprocess mapping, and the build orchestrator that
// sequences them.
package scene

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nxengine/nx_player/assets"
	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/transform"
)

// EncodeTransform lays a decoded manifest transform into the wire shape
// the viewer and the live link share.
func EncodeTransform(d transform.Decoded) engine.Transform {
	return engine.Transform{
		Translation: [3]float32{d.Position.X(), d.Position.Y(), d.Position.Z()},
		Rotation:    [4]float32{d.Rotation.X(), d.Rotation.Y(), d.Rotation.Z(), d.Rotation.W},
		Scale:       [3]float32{d.Scale.X(), d.Scale.Y(), d.Scale.Z()},
	}
}

func identityTransform() engine.Transform {
	return engine.Transform{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

func defaultKeyTransform() engine.Transform {
	q := mgl32.AnglesToQuat(-math.Pi/4, math.Pi/4, 0, mgl32.XYZ)
	t := identityTransform()
	t.Rotation = [4]float32{q.X(), q.Y(), q.Z(), q.W}
	return t
}

// CollectDescriptors gathers everything a scene needs staged: its glb
// groups, the environment texture and any speaker sounds. Duplicate
// sounds stage once.
func CollectDescriptors(s *project.Scene) []assets.Descriptor {
	list := make([]assets.Descriptor, 0, len(s.GLBGroups)+len(s.Speakers)+1)

	for _, group := range s.GLBGroups {
		list = append(list, assets.Descriptor{Type: assets.TYPE_MODEL, Name: group})
	}

	if s.Environment.BackgroundType == project.BACKGROUND_TYPE_TEXTURE &&
		s.Environment.BackgroundTexture != "" {
		kind := assets.TYPE_TEXTURE
		if strings.HasSuffix(strings.ToLower(s.Environment.BackgroundTexture), ".hdr") {
			kind = assets.TYPE_HDR
		}
		list = append(list, assets.Descriptor{Type: kind, Name: s.Environment.BackgroundTexture})
	}

	seen := make(map[string]struct{})
	for _, speaker := range s.Speakers {
		if speaker.Sound == "" {
			continue
		}
		if _, staged := seen[speaker.Sound]; staged {
			continue
		}
		seen[speaker.Sound] = struct{}{}
		list = append(list, assets.Descriptor{Type: assets.TYPE_AUDIO, Name: speaker.Sound})
	}

	return list
}
