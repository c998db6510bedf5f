package shatter

import (
	"testing"

	"github.com/akmonengine/shatter/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func box(position, halfExtents mgl64.Vec3) *actor.RigidBody {
	return actor.NewRigidBodyWithMass(actor.NewTransformAt(position, mgl64.QuatIdent()), &actor.Box{HalfExtents: halfExtents}, 1)
}

// =============================================================================
// NarrowPhase Tests
// =============================================================================

func TestNarrowPhase(t *testing.T) {
	plane := groundPlane()

	tests := []struct {
		name       string
		a, b       *actor.RigidBody
		wantHit    bool
		wantNormal mgl64.Vec3
	}{
		{"sphere in plane", plane, dropBall(mgl64.Vec3{0, 0.5, 0}), true, mgl64.Vec3{0, 1, 0}},
		{"plane second", dropBall(mgl64.Vec3{0, 0.5, 0}), plane, true, mgl64.Vec3{0, 1, 0}},
		{"sphere above plane", plane, dropBall(mgl64.Vec3{0, 3, 0}), false, mgl64.Vec3{}},
		{"overlapping spheres", dropBall(mgl64.Vec3{0, 0, 0}), dropBall(mgl64.Vec3{1.5, 0, 0}), true, mgl64.Vec3{1, 0, 0}},
		{"separate spheres", dropBall(mgl64.Vec3{0, 0, 0}), dropBall(mgl64.Vec3{3, 0, 0}), false, mgl64.Vec3{}},
		{"stacked boxes", box(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}), box(mgl64.Vec3{0, 1.9, 0}, mgl64.Vec3{1, 1, 1}), true, mgl64.Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contacts := NarrowPhase([]Pair{{BodyA: tt.a, BodyB: tt.b, IndexA: 0, IndexB: 1}}, 2)

			if got := len(contacts) == 1; got != tt.wantHit {
				t.Fatalf("contacts = %d, want hit %v", len(contacts), tt.wantHit)
			}
			if !tt.wantHit {
				return
			}

			c := contacts[0]
			if c.Normal.Dot(tt.wantNormal) < 0.95 {
				t.Errorf("normal = %v, want about %v", c.Normal, tt.wantNormal)
			}
			deepest := 0.0
			for _, p := range c.Points {
				deepest = max(deepest, p.Penetration)
			}
			if deepest <= 0 {
				t.Errorf("%d points, none penetrating", len(c.Points))
			}
		})
	}
}

func TestNarrowPhase_PlaneIsBodyA(t *testing.T) {
	plane := groundPlane()
	ball := dropBall(mgl64.Vec3{0, 0.5, 0})

	contacts := NarrowPhase([]Pair{{BodyA: ball, BodyB: plane, IndexA: 0, IndexB: 1}}, 1)

	if len(contacts) != 1 || contacts[0].BodyA != plane || contacts[0].BodyB != ball {
		t.Errorf("contacts = %+v, want the plane as BodyA", contacts)
	}
}

func TestNarrowPhase_KeepsPairOrder(t *testing.T) {
	plane := groundPlane()
	balls := []*actor.RigidBody{
		dropBall(mgl64.Vec3{0, 0.5, 0}),
		dropBall(mgl64.Vec3{10, 5, 0}),
		dropBall(mgl64.Vec3{20, 0.5, 0}),
	}

	pairs := make([]Pair, len(balls))
	for i, b := range balls {
		pairs[i] = Pair{BodyA: plane, BodyB: b, IndexA: 0, IndexB: i + 1}
	}

	contacts := NarrowPhase(pairs, 4)

	if len(contacts) != 2 || contacts[0].BodyB != balls[0] || contacts[1].BodyB != balls[2] {
		t.Errorf("contacts out of order or wrong count: %d", len(contacts))
	}
}
