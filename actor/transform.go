package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a pose in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewTransformAt creates a transform at position with the given orientation.
// A zero quaternion is treated as the identity.
func NewTransformAt(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	if rotation.Len() == 0 {
		rotation = mgl64.QuatIdent()
	}
	rotation = rotation.Normalize()

	return Transform{
		Position:        position,
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// ToWorld maps a point from local space to world space
func (t Transform) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(local))
}

// ToLocal maps a point from world space to local space
func (t Transform) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotation.Rotate(world.Sub(t.Position))
}
