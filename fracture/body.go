package fracture

import (
	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Friction of every body created by the pipeline
const Friction = 0.5

// NewShape derives a collision shape from the object geometry. Convex
// geometries become hulls, built point by point and recomputing the local
// bounds on the last point.
func NewShape(geometry scene.Geometry) actor.ShapeInterface {
	switch g := geometry.(type) {
	case *scene.SphereGeometry:
		return &actor.Sphere{Radius: g.Radius}
	case *scene.ConvexGeometry:
		vertices := g.Vertices()
		hull := &actor.ConvexHull{}
		for i, v := range vertices {
			hull.AddPoint(v, i == len(vertices)-1)
		}
		return hull
	}

	return nil
}

// NewBody creates the body of obj from its staged mass and velocities.
// A zero mass gives a static body.
func NewBody(obj *scene.Object, shape actor.ShapeInterface) *actor.RigidBody {
	body := actor.NewRigidBodyWithMass(actor.NewTransformAt(obj.Position, obj.Rotation), shape, obj.Mass)
	body.Material.SetFriction(Friction)

	if body.BodyType == actor.BodyTypeDynamic {
		body.Velocity = obj.Velocity
		body.AngularVelocity = obj.AngularVelocity
	}

	return body
}

// NewBoxBody gives obj an exact box shape instead of a hull
func NewBoxBody(obj *scene.Object, halfExtents mgl64.Vec3) *actor.RigidBody {
	return NewBody(obj, &actor.Box{HalfExtents: halfExtents})
}

// NewGroundBody is the static plane y = 0
func NewGroundBody() *actor.RigidBody {
	ground := actor.NewRigidBody(actor.NewTransform(), &actor.Plane{Normal: mgl64.Vec3{0, 1, 0}}, actor.BodyTypeStatic, 0)
	ground.Material.SetFriction(Friction)

	return ground
}
