// Package scene holds the render-side objects of the demo: breakable
// buildings, projectiles, ground, skybox and lights.
package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultRotationSpeed is the auto rotation applied per 60 Hz frame (rad)
	DefaultRotationSpeed = 0.003
	GroundSize           = 100000.0
	SkyboxSize           = 10000.0
)

type AmbientLight struct {
	Color     color.RGBA
	Intensity float64
}

type PointLight struct {
	Color      color.RGBA
	Intensity  float64
	Position   mgl64.Vec3
	CastShadow bool
	ShadowNear float64
	ShadowFar  float64
}

// Scene is the ordered set of objects drawn each frame. The whole scene may
// spin about the Y axis.
type Scene struct {
	Objects []*Object

	Ambient AmbientLight
	Point   PointLight

	Rotation      float64
	AutoRotate    bool
	RotationSpeed float64
	AxesVisible   bool
}

// New returns an empty scene with the default lights
func New() *Scene {
	return &Scene{
		Ambient:       DefaultAmbient(),
		Point:         DefaultPointLight(),
		RotationSpeed: DefaultRotationSpeed,
	}
}

func DefaultAmbient() AmbientLight {
	return AmbientLight{Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}, Intensity: 0.6}
}

func DefaultPointLight() PointLight {
	return PointLight{
		Color:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Intensity:  0.6,
		Position:   mgl64.Vec3{3000, 6000, 0},
		CastShadow: true,
		ShadowNear: 0.1,
		ShadowFar:  35000,
	}
}

// Add appends obj unless already present
func (s *Scene) Add(obj *Object) {
	if obj == nil || s.Contains(obj) {
		return
	}
	s.Objects = append(s.Objects, obj)
}

// Remove keeps the order of the remaining objects
func (s *Scene) Remove(obj *Object) {
	for i, o := range s.Objects {
		if o == obj {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			return
		}
	}
}

func (s *Scene) Contains(obj *Object) bool {
	for _, o := range s.Objects {
		if o == obj {
			return true
		}
	}
	return false
}

// FindByName returns the first object with that name
func (s *Scene) FindByName(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Update spins the scene. RotationSpeed is expressed per 60 Hz frame.
func (s *Scene) Update(dt float64) {
	if !s.AutoRotate {
		return
	}
	s.Rotation += s.RotationSpeed * dt * 60
}

// Orientation is the scene spin as a quaternion
func (s *Scene) Orientation() mgl64.Quat {
	return mgl64.QuatRotate(s.Rotation, mgl64.Vec3{0, 1, 0})
}

// NewGround is a thin static slab receiving shadows
func NewGround() *Object {
	ground := NewObject("ground", NewBoxGeometry(mgl64.Vec3{GroundSize / 2, 0.005, GroundSize / 2}), mgl64.Vec3{})
	ground.ReceiveShadow = true
	ground.Color = color.RGBA{R: 90, G: 120, B: 70, A: 255}

	return ground
}

// NewSkybox is a large box seen from the inside. It has no body.
func NewSkybox() *Object {
	half := SkyboxSize / 2
	skybox := NewObject("skybox", NewBoxGeometry(mgl64.Vec3{half, half, half}), mgl64.Vec3{})
	skybox.Color = color.RGBA{R: 135, G: 190, B: 235, A: 255}

	return skybox
}

// NewTower builds a breakable box standing on the ground at (x, z)
func NewTower(name string, halfExtents mgl64.Vec3, x, z, mass float64, params SubdivisionParams) *Object {
	tower := NewObject(name, NewBoxGeometry(halfExtents), mgl64.Vec3{x, halfExtents.Y(), z})
	tower.CastShadow = true
	tower.ReceiveShadow = true
	tower.Mass = mass
	tower.Fracture = Breakable{Params: params}
	tower.Color = color.RGBA{R: 180, G: 170, B: 160, A: 255}

	return tower
}
