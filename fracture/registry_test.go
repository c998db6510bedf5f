package fracture

import (
	"testing"

	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

func objects(names ...string) []*scene.Object {
	objs := make([]*scene.Object, len(names))
	for i, name := range names {
		objs[i] = scene.NewObject(name, &scene.SphereGeometry{Radius: 1}, mgl64.Vec3{})
	}
	return objs
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestRegistry_AddRemove(t *testing.T) {
	r := NewRegistry()
	objs := objects("a", "b", "c", "d")

	for _, obj := range objs {
		if !r.Add(obj) {
			t.Errorf("Add(%s) = false, want true", obj.Name)
		}
	}
	if r.Add(objs[0]) {
		t.Error("Add() of a registered object should return false")
	}

	if !r.Remove(objs[1]) {
		t.Error("Remove(b) = false, want true")
	}
	if r.Remove(objs[1]) {
		t.Error("second Remove(b) should return false")
	}

	want := []*scene.Object{objs[0], objs[2], objs[3]}
	if r.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", r.Len(), len(want))
	}
	for i, obj := range r.Objects() {
		if obj != want[i] {
			t.Errorf("Objects()[%d] = %s, want %s", i, obj.Name, want[i].Name)
		}
	}

	// the index must follow the shift
	r.Remove(objs[2])
	if !r.Contains(objs[3]) || r.Contains(objs[2]) {
		t.Error("Contains() out of sync after Remove")
	}
	if !r.Remove(objs[3]) || r.Len() != 1 || r.Objects()[0] != objs[0] {
		t.Errorf("Objects() = %v, want [a]", r.Objects())
	}
}

// =============================================================================
// RemovalQueue Tests
// =============================================================================

func TestRemovalQueue(t *testing.T) {
	q := NewRemovalQueue()
	objs := objects("a", "b")

	tests := []struct {
		obj  *scene.Object
		want bool
	}{
		{objs[0], true},
		{objs[1], true},
		{objs[0], false},
		{objs[1], false},
	}
	for _, tt := range tests {
		if got := q.Push(tt.obj); got != tt.want {
			t.Errorf("Push(%s) = %v, want %v", tt.obj.Name, got, tt.want)
		}
	}

	if q.Len() != 2 || !q.Contains(objs[1]) {
		t.Errorf("Len() = %d, want 2", q.Len())
	}

	drained := q.Drain()
	if len(drained) != 2 || drained[0] != objs[0] || drained[1] != objs[1] {
		t.Errorf("Drain() = %v, want [a b]", drained)
	}
	if q.Len() != 0 || q.Contains(objs[0]) {
		t.Error("queue should be empty after Drain")
	}
	if !q.Push(objs[0]) {
		t.Error("an object may be queued again after a drain")
	}
}

// =============================================================================
// Context Tests
// =============================================================================

func TestContext_AddDynamic(t *testing.T) {
	f := newFixture()
	tower, body := f.addTower("tower", 0)

	if !body.AlwaysActive {
		t.Error("registered bodies should never sleep")
	}
	if !f.ctx.Registry.Contains(tower) || !f.scene.Contains(tower) || !f.world.contains(body) {
		t.Error("tower should be registered, in the scene and in the world")
	}
	if f.ctx.BodyOf(tower) != body || f.ctx.ObjectOf(body) != tower {
		t.Error("body and object are not mapped to each other")
	}
}

func TestContext_AddStatic(t *testing.T) {
	f := newFixture()
	ground := scene.NewGround()
	body := NewGroundBody()

	f.ctx.AddStatic(ground, body)

	if f.ctx.Registry.Contains(ground) {
		t.Error("static pairs are not registered")
	}
	if f.ctx.ObjectOf(body) != ground || !f.world.contains(body) || !f.scene.Contains(ground) {
		t.Error("ground should be mapped, in the world and in the scene")
	}
	if body.BodyType != actor.BodyTypeStatic {
		t.Error("ground body should be static")
	}
}

func TestContext_RemoveAndFlush(t *testing.T) {
	f := newFixture()
	a, bodyA := f.addTower("a", 0)
	b, bodyB := f.addTower("b", 500)

	f.ctx.Queue.Push(a)
	f.ctx.Queue.Push(b)
	if n := f.ctx.Flush(); n != 2 {
		t.Errorf("Flush() = %d, want 2", n)
	}

	for _, tt := range []struct {
		obj  *scene.Object
		body *actor.RigidBody
	}{{a, bodyA}, {b, bodyB}} {
		if f.ctx.Registry.Contains(tt.obj) || f.scene.Contains(tt.obj) || f.world.contains(tt.body) {
			t.Errorf("%s still referenced after Flush", tt.obj.Name)
		}
		if f.ctx.BodyOf(tt.obj) != nil || f.ctx.ObjectOf(tt.body) != nil {
			t.Errorf("%s still mapped after Flush", tt.obj.Name)
		}
	}
	if f.ctx.Queue.Len() != 0 {
		t.Error("queue not cleared")
	}
}

// =============================================================================
// Body Tests
// =============================================================================

func TestNewShape(t *testing.T) {
	tests := []struct {
		name     string
		geometry scene.Geometry
		want     actor.ShapeType
		points   int
	}{
		{"sphere", &scene.SphereGeometry{Radius: 2}, actor.ShapeTypeSphere, 0},
		{"box geometry", scene.NewBoxGeometry(mgl64.Vec3{1, 2, 3}), actor.ShapeTypeConvexHull, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := NewShape(tt.geometry)
			if shape == nil || shape.Type() != tt.want {
				t.Fatalf("NewShape() = %v, want a %s", shape, tt.want)
			}

			if hull, ok := shape.(*actor.ConvexHull); ok {
				if len(hull.Points()) != tt.points {
					t.Errorf("len(Points()) = %d, want %d", len(hull.Points()), tt.points)
				}
				// bounds were computed on the last point
				lo, hi := hull.LocalBounds()
				if lo != (mgl64.Vec3{-1, -2, -3}) || hi != (mgl64.Vec3{1, 2, 3}) {
					t.Errorf("LocalBounds() = %v, %v", lo, hi)
				}
			}
		})
	}

	if NewShape(nil) != nil {
		t.Error("NewShape(nil) should be nil")
	}
}

func TestNewBody(t *testing.T) {
	obj := scene.NewObject("o", &scene.SphereGeometry{Radius: 1}, mgl64.Vec3{1, 2, 3})
	obj.Mass = 5
	obj.Velocity = mgl64.Vec3{0, 0, -10}
	obj.AngularVelocity = mgl64.Vec3{0, 1, 0}

	body := NewBody(obj, NewShape(obj.Geometry))

	if body.Material.GetMass() != 5 || body.BodyType != actor.BodyTypeDynamic {
		t.Errorf("mass = %v, type = %v", body.Material.GetMass(), body.BodyType)
	}
	if body.Transform.Position != obj.Position {
		t.Errorf("Position = %v, want %v", body.Transform.Position, obj.Position)
	}
	if body.Velocity != obj.Velocity || body.AngularVelocity != obj.AngularVelocity {
		t.Error("staged velocities not applied")
	}
	if body.Material.StaticFriction != Friction || body.Material.DynamicFriction != Friction {
		t.Errorf("friction = %v/%v, want %v", body.Material.StaticFriction, body.Material.DynamicFriction, Friction)
	}

	obj.Mass = 0
	if static := NewBody(obj, NewShape(obj.Geometry)); static.BodyType != actor.BodyTypeStatic || static.Velocity != (mgl64.Vec3{}) {
		t.Error("a zero mass should give a motionless static body")
	}
}
