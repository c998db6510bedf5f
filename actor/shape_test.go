package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// ShapeType Tests
// =============================================================================

func TestShapeType_String(t *testing.T) {
	tests := []struct {
		shape ShapeInterface
		want  string
	}{
		{&Sphere{Radius: 1}, "sphere"},
		{&Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, "box"},
		{&Plane{Normal: mgl64.Vec3{0, 1, 0}}, "plane"},
		{NewConvexHull([]mgl64.Vec3{{0, 0, 0}}), "convex hull"},
	}

	for _, tt := range tests {
		if got := tt.shape.Type().String(); got != tt.want {
			t.Errorf("Type().String() = %q, want %q", got, tt.want)
		}
	}
}

// =============================================================================
// Box Tests
// =============================================================================

func TestBox_Support(t *testing.T) {
	box := &Box{HalfExtents: mgl64.Vec3{1, 2, 3}}

	tests := []struct {
		direction mgl64.Vec3
		want      mgl64.Vec3
	}{
		{mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 2, 3}},
		{mgl64.Vec3{-1, 1, -1}, mgl64.Vec3{-1, 2, -3}},
		{mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{-1, -2, -3}},
	}

	for _, tt := range tests {
		if got := box.Support(tt.direction); got != tt.want {
			t.Errorf("Support(%v) = %v, want %v", tt.direction, got, tt.want)
		}
	}
}

func TestBox_GetContactFeature(t *testing.T) {
	box := &Box{HalfExtents: mgl64.Vec3{1, 2, 3}}

	face := box.GetContactFeature(mgl64.Vec3{0.1, -1, 0.2})
	if len(face) != 4 {
		t.Fatalf("feature has %d points, want 4", len(face))
	}
	for _, p := range face {
		if p.Y() != -2 {
			t.Errorf("point %v is not on the bottom face", p)
		}
	}
}

func TestBox_ComputeMass(t *testing.T) {
	box := &Box{HalfExtents: mgl64.Vec3{1, 2, 3}}

	if got := box.ComputeMass(2); got != 96 {
		t.Errorf("ComputeMass(2) = %v, want 96", got)
	}
}

func TestBox_CollideWithPlane(t *testing.T) {
	box := &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}
	transform := NewTransformAt(mgl64.Vec3{0, 0.5, 0}, mgl64.QuatIdent())

	collision, contacts := box.CollideWithPlane(mgl64.Vec3{0, 1, 0}, 0, transform)
	if !collision {
		t.Fatal("expected a collision")
	}
	if len(contacts) != 4 {
		t.Fatalf("got %d contacts, want 4", len(contacts))
	}
	for _, c := range contacts {
		if math.Abs(c.Penetration-0.5) > 1e-9 {
			t.Errorf("penetration = %v, want 0.5", c.Penetration)
		}
	}

	transform.Position = mgl64.Vec3{0, 1.5, 0}
	if collision, _ := box.CollideWithPlane(mgl64.Vec3{0, 1, 0}, 0, transform); collision {
		t.Error("box above the plane should not collide")
	}
}

// =============================================================================
// Sphere Tests
// =============================================================================

func TestSphere_CollideWithPlane(t *testing.T) {
	sphere := &Sphere{Radius: 1}
	transform := NewTransformAt(mgl64.Vec3{0, 0.5, 0}, mgl64.QuatIdent())

	collision, contacts := sphere.CollideWithPlane(mgl64.Vec3{0, 1, 0}, 0, transform)
	if !collision || len(contacts) != 1 {
		t.Fatalf("collision = %v with %d contacts, want 1 contact", collision, len(contacts))
	}
	if !vecApprox(contacts[0].Position, mgl64.Vec3{0, -0.5, 0}, 1e-9) {
		t.Errorf("contact = %v, want [0 -0.5 0]", contacts[0].Position)
	}
	if math.Abs(contacts[0].Penetration-0.5) > 1e-9 {
		t.Errorf("penetration = %v, want 0.5", contacts[0].Penetration)
	}
}

func TestSphere_SupportZeroDirection(t *testing.T) {
	sphere := &Sphere{Radius: 2}

	if got := sphere.Support(mgl64.Vec3{}); got.Len() != 2 {
		t.Errorf("Support(0) = %v, want a point on the surface", got)
	}
}

// =============================================================================
// ConvexHull Tests
// =============================================================================

func cubePoints(h float64) []mgl64.Vec3 {
	return []mgl64.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {-h, h, -h}, {h, h, -h},
		{-h, -h, h}, {h, -h, h}, {-h, h, h}, {h, h, h},
	}
}

func TestConvexHull_AddPoint(t *testing.T) {
	hull := &ConvexHull{}

	hull.AddPoint(mgl64.Vec3{-1, 0, 0}, false)
	hull.AddPoint(mgl64.Vec3{2, 3, 0}, false)
	if min, max := hull.LocalBounds(); min != (mgl64.Vec3{}) || max != (mgl64.Vec3{}) {
		t.Errorf("bounds changed before recalculation: %v %v", min, max)
	}

	hull.AddPoint(mgl64.Vec3{0, -1, 4}, true)
	min, max := hull.LocalBounds()
	if min != (mgl64.Vec3{-1, -1, 0}) || max != (mgl64.Vec3{2, 3, 4}) {
		t.Errorf("LocalBounds() = %v %v, want [-1 -1 0] [2 3 4]", min, max)
	}
	if len(hull.Points()) != 3 {
		t.Errorf("len(Points()) = %d, want 3", len(hull.Points()))
	}
}

func TestConvexHull_SupportAndMass(t *testing.T) {
	hull := NewConvexHull(cubePoints(1))

	if got := hull.Support(mgl64.Vec3{1, 1, 1}); got != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("Support() = %v, want [1 1 1]", got)
	}
	if got := hull.Support(mgl64.Vec3{-1, 0.2, -0.3}); got.X() != -1 || got.Y() != 1 || got.Z() != -1 {
		t.Errorf("Support() = %v, want [-1 1 -1]", got)
	}
	if got := hull.ComputeMass(1); got != 8 {
		t.Errorf("ComputeMass(1) = %v, want 8", got)
	}
}

func TestConvexHull_GetContactFeature(t *testing.T) {
	hull := NewConvexHull(cubePoints(1))

	face := hull.GetContactFeature(mgl64.Vec3{0, 1, 0})
	if len(face) != 4 {
		t.Fatalf("feature has %d points, want 4", len(face))
	}
	for _, p := range face {
		if p.Y() != 1 {
			t.Errorf("point %v is not on the top face", p)
		}
	}

	// consecutive points share an edge of the face
	for i := range face {
		edge := face[(i+1)%len(face)].Sub(face[i])
		if math.Abs(edge.Len()-2) > 1e-9 {
			t.Errorf("edge %d has length %v, want 2", i, edge.Len())
		}
	}

	corner := hull.GetContactFeature(mgl64.Vec3{1, 1, 1})
	if len(corner) != 1 || corner[0] != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("corner feature = %v, want [[1 1 1]]", corner)
	}
}

func TestConvexHull_ComputeAABB(t *testing.T) {
	hull := NewConvexHull(cubePoints(1))
	hull.ComputeAABB(NewTransformAt(mgl64.Vec3{10, 0, 0}, mgl64.QuatIdent()))

	aabb := hull.GetAABB()
	if !vecApprox(aabb.Min, mgl64.Vec3{9, -1, -1}, 1e-9) || !vecApprox(aabb.Max, mgl64.Vec3{11, 1, 1}, 1e-9) {
		t.Errorf("AABB = %v, want [9 -1 -1]..[11 1 1]", aabb)
	}
}
