package scene

import (
	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/engine"
	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/transform"
)

const (
	DEFAULT_CAMERA_FOV  = 80.0 // vertical degrees
	DEFAULT_CAMERA_NEAR = 0.1
	DEFAULT_CAMERA_FAR  = 1000.0

	// exporter computes vertical fov for a landscape sensor
	EXPORT_ASPECT = 16.0 / 9.0
)

func BuildCamera(c *project.Camera) (*engine.Camera, error) {
	d, err := transform.DecodeMatrix(c.Matrix)
	if err != nil {
		return nil, errors.Wrapf(err, "Camera %q", c.Name)
	}

	fov := c.FOV
	if fov == 0 {
		fov = DEFAULT_CAMERA_FOV
	}
	near := c.ClipNear
	if near == 0 {
		near = DEFAULT_CAMERA_NEAR
	}
	far := c.ClipFar
	if far == 0 {
		far = DEFAULT_CAMERA_FAR
	}

	out := &engine.Camera{
		Name:      c.Name,
		Transform: EncodeTransform(d),
		FOV:       transform.DegreeToRadians(fov),
		Near:      near,
		Far:       far,
		Active:    c.Active,
	}
	switch c.Type {
	case project.CAMERA_TYPE_ORTHOGRAPHIC:
		out.Projection = engine.PROJECTION_ORTHOGRAPHIC
	default:
		out.Projection = engine.PROJECTION_PERSPECTIVE
	}
	return out, nil
}

// DefaultCamera is the spectator view for scenes that export none:
// standing eye height, a few meters back from the origin.
func DefaultCamera() *engine.Camera {
	t := identityTransform()
	t.Translation = [3]float32{0, 1.6, 3}
	return &engine.Camera{
		Name:       "DefaultCamera",
		Projection: engine.PROJECTION_PERSPECTIVE,
		Transform:  t,
		FOV:        transform.DegreeToRadians(DEFAULT_CAMERA_FOV),
		Near:       DEFAULT_CAMERA_NEAR,
		Far:        DEFAULT_CAMERA_FAR,
		Active:     true,
	}
}

// RefitFOV keeps the authored horizontal coverage when the viewport
// aspect changes: the stored vertical fov is taken back to horizontal at
// the export aspect, then to vertical at the live one.
func RefitFOV(authored float32, width, height int) float32 {
	if width <= 0 || height <= 0 {
		return authored
	}
	aspect := float64(width) / float64(height)
	h := transform.VerticalToHorizontalFOV(float64(transform.RadiansToDegree(authored)), EXPORT_ASPECT)
	v := transform.HorizontalToVerticalFOV(h, aspect)
	return transform.DegreeToRadians(float32(v))
}
