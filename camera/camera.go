// Package camera provides a perspective camera able to cast rays through
// normalized screen coordinates, and first-person controls to drive it.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFovY = 80.0 // degrees
	DefaultNear = 1.0
	DefaultFar  = 10000.0
)

// Ray is a half-line, Direction is unit length
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Camera looks down its local -Z axis, with +Y up
type Camera struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat

	FovY   float64 // degrees
	Aspect float64
	Near   float64
	Far    float64
}

func New(aspect float64) *Camera {
	return &Camera{
		Rotation: mgl64.QuatIdent(),
		FovY:     DefaultFovY,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// LookAt turns the camera toward target, keeping +Y up
func (c *Camera) LookAt(target mgl64.Vec3) {
	forward := target.Sub(c.Position)
	if forward.LenSqr() < 1e-16 {
		return
	}
	c.Rotation = lookRotation(forward.Normalize(), mgl64.Vec3{0, 1, 0})
}

func lookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	right := forward.Cross(up)
	if right.LenSqr() < 1e-12 {
		// looking straight up or down
		right = forward.Cross(mgl64.Vec3{0, 0, -1})
	}
	right = right.Normalize()
	up = right.Cross(forward)

	basis := mgl64.Mat3FromCols(right, up, forward.Mul(-1))
	return mgl64.Mat4ToQuat(basis.Mat4()).Normalize()
}

func (c *Camera) Forward() mgl64.Vec3 {
	return c.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
}

func (c *Camera) Right() mgl64.Vec3 {
	return c.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
}

func (c *Camera) Up() mgl64.Vec3 {
	return c.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
}

// View is the world to camera matrix
func (c *Camera) View() mgl64.Mat4 {
	return c.Rotation.Inverse().Mat4().Mul4(mgl64.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z()))
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// SetAspect follows a viewport resize
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// Ray casts from the camera position through ndc, both coordinates in [-1, 1]
// with +Y up
func (c *Camera) Ray(ndc mgl64.Vec2) Ray {
	inverse := c.Projection().Mul4(c.View()).Inv()

	far := mgl64.TransformCoordinate(mgl64.Vec3{ndc.X(), ndc.Y(), 1}, inverse)
	direction := far.Sub(c.Position)
	if direction.LenSqr() < 1e-16 || math.IsNaN(direction.X()) {
		direction = c.Forward()
	}

	return Ray{Origin: c.Position, Direction: direction.Normalize()}
}

// Project maps a world point to ndc. ok is false behind the camera.
func (c *Camera) Project(world mgl64.Vec3) (ndc mgl64.Vec2, ok bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(world.Vec4(1))
	if clip.W() <= 0 {
		return mgl64.Vec2{}, false
	}

	return mgl64.Vec2{clip.X() / clip.W(), clip.Y() / clip.W()}, true
}
