package viewer

import (
	"cogentcore.org/core/math32"
)

// Camera is the viewer's eye: a perspective projection looking at a target.
type Camera struct {
	Position math32.Vector3 `json:"position"`
	Target   math32.Vector3 `json:"target"`
	Up       math32.Vector3 `json:"up"`
	FOVDeg   float32        `json:"fov_deg"`
	Aspect   float32        `json:"aspect"`
	Near     float32        `json:"near"`
	Far      float32        `json:"far"`
}

// fitDirection is the fixed normalized direction the camera sits along when
// framing a model: an isometric-ish three-quarter view.
var fitDirection = math32.Vec3(1, 1, 1).Normal()

// fitPadding backs the camera off so the model does not touch the frame.
const fitPadding = 1.5

// DefaultCamera is the pose shown when no model is attached.
func DefaultCamera(aspect float32) Camera {
	return Camera{
		Position: math32.Vec3(50, 50, 50),
		Target:   math32.Vector3{},
		Up:       math32.Vec3(0, 1, 0),
		FOVDeg:   45,
		Aspect:   aspect,
		Near:     0.1,
		Far:      10000,
	}
}

// FitToBox places the camera along the fixed direction at a distance where
// the largest bounding-box dimension fills the field of view, scaled by the
// padding factor, looking at the box center.
func (c *Camera) FitToBox(box math32.Box3) {
	if box.IsEmpty() {
		return
	}
	center := box.Center()
	size := box.Size()
	maxDim := math32.Max(size.X, math32.Max(size.Y, size.Z))
	if maxDim <= 0 {
		maxDim = 1
	}

	halfFOV := math32.DegToRad(c.FOVDeg) / 2
	distance := (maxDim / 2) / math32.Tan(halfFOV) * fitPadding

	c.Target = center
	c.Position = center.Add(fitDirection.MulScalar(distance))
}
