package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// SubdivisionParams tune how a breakable object splits on impact
type SubdivisionParams struct {
	MaxSubdivisions    int
	ImpactRadiusScale1 float64
	ImpactRadiusScale2 float64
	MinSizeForBreak    float64
}

// Fracture tells whether an object may be split: Breakable or Inert
type Fracture interface {
	isFracture()
}

type Breakable struct {
	Params SubdivisionParams
}

type Inert struct{}

func (Breakable) isFracture() {}
func (Inert) isFracture()     {}

// Object is a renderable node paired with at most one rigid body
type Object struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Geometry Geometry

	CastShadow    bool
	ReceiveShadow bool
	Color         color.RGBA

	Fracture Fracture
	// Collided latches once the object was split during the current step
	Collided bool

	// staged physical state, used when the object is replaced by fragments
	Mass            float64
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

// NewObject places geometry at position with an identity orientation. The object is Inert.
func NewObject(name string, geometry Geometry, position mgl64.Vec3) *Object {
	return &Object{
		Name:     name,
		Position: position,
		Rotation: mgl64.QuatIdent(),
		Geometry: geometry,
		Fracture: Inert{},
		Color:    color.RGBA{R: 200, G: 200, B: 200, A: 255},
	}
}

// Params returns the subdivision parameters of a breakable object
func (o *Object) Params() (SubdivisionParams, bool) {
	b, ok := o.Fracture.(Breakable)
	return b.Params, ok
}

func (o *Object) IsBreakable() bool {
	_, ok := o.Fracture.(Breakable)
	return ok
}

// ToWorld maps a point of the object's geometry to world space
func (o *Object) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return o.Position.Add(o.Rotation.Rotate(local))
}

// ToLocal maps a world point into the object's geometry space
func (o *Object) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return o.Rotation.Inverse().Rotate(world.Sub(o.Position))
}
