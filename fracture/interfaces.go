// Package fracture ties the physics world to the scene: it throws balls from
// the camera, steps the simulation and replaces breakable objects struck hard
// enough with their fragments.
//
// Everything runs on the frame goroutine. Input handlers call Spawner.Spawn
// between frames and Engine.Step is called once per frame.
package fracture

import (
	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/camera"
	"github.com/akmonengine/shatter/constraint"
	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// PhysicsWorld is implemented by *shatter.World
type PhysicsWorld interface {
	Step(dt float64)
	AddBody(body *actor.RigidBody)
	RemoveBody(body *actor.RigidBody)
	NumManifolds() int
	ManifoldAt(i int) *constraint.ContactConstraint
}

// SceneGraph is implemented by *scene.Scene
type SceneGraph interface {
	Add(obj *scene.Object)
	Remove(obj *scene.Object)
}

// Subdivider is implemented by *breaker.Breaker
type Subdivider interface {
	Subdivide(obj *scene.Object, impactPoint, impactNormal mgl64.Vec3, p scene.SubdivisionParams) []*scene.Object
}

// RayCaster is implemented by *camera.Camera
type RayCaster interface {
	Ray(ndc mgl64.Vec2) camera.Ray
}
