package constraint

import (
	"math"
	"testing"

	"github.com/akmonengine/shatter/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const dt = 1.0 / 60.0

// ground is a static box whose top face is at y = 0
func ground() *actor.RigidBody {
	return actor.NewRigidBody(
		actor.NewTransformAt(mgl64.Vec3{0, -1, 0}, mgl64.QuatIdent()),
		&actor.Box{HalfExtents: mgl64.Vec3{10, 1, 10}},
		actor.BodyTypeStatic,
		0,
	)
}

func ball(y float64) *actor.RigidBody {
	return actor.NewRigidBodyWithMass(
		actor.NewTransformAt(mgl64.Vec3{0, y, 0}, mgl64.QuatIdent()),
		&actor.Sphere{Radius: 1},
		1,
	)
}

func restingContact(a, b *actor.RigidBody, penetration float64) *ContactConstraint {
	return &ContactConstraint{
		BodyA:  a,
		BodyB:  b,
		Normal: mgl64.Vec3{0, 1, 0},
		Points: []ContactPoint{{Position: mgl64.Vec3{0, -penetration, 0}, Penetration: penetration}},
	}
}

// =============================================================================
// ContactPoint / ContactConstraint Tests
// =============================================================================

func TestContactPoint_Distance(t *testing.T) {
	if d := (ContactPoint{Penetration: 0.25}).Distance(); d != -0.25 {
		t.Errorf("Distance() = %v, want -0.25", d)
	}
}

func TestContactConstraint_MaxAppliedImpulse(t *testing.T) {
	c := &ContactConstraint{Points: []ContactPoint{{AppliedImpulse: 3}, {AppliedImpulse: 7}, {AppliedImpulse: 5}}}

	if got := c.MaxAppliedImpulse(); got != 7 {
		t.Errorf("MaxAppliedImpulse() = %v, want 7", got)
	}
	if got := (&ContactConstraint{}).MaxAppliedImpulse(); got != 0 {
		t.Errorf("MaxAppliedImpulse() on empty manifold = %v, want 0", got)
	}
}

// =============================================================================
// SolvePosition Tests
// =============================================================================

func TestContactConstraint_SolvePosition(t *testing.T) {
	floor := ground()
	b := ball(0.9)
	c := restingContact(floor, b, 0.1)

	c.SolvePosition(dt)

	if b.Transform.Position.Y() < 0.99 {
		t.Errorf("ball y = %v, want pushed out to ~1", b.Transform.Position.Y())
	}
	if floor.Transform.Position != (mgl64.Vec3{0, -1, 0}) {
		t.Errorf("static body moved to %v", floor.Transform.Position)
	}
	if c.Points[0].AppliedImpulse <= 0 {
		t.Errorf("AppliedImpulse = %v, want > 0", c.Points[0].AppliedImpulse)
	}
}

func TestContactConstraint_SolvePosition_NoPenetration(t *testing.T) {
	b := ball(1)
	c := restingContact(ground(), b, 0)

	c.SolvePosition(dt)

	if b.Transform.Position.Y() != 1 {
		t.Errorf("ball moved to y = %v without penetration", b.Transform.Position.Y())
	}
	if c.Points[0].AppliedImpulse != 0 {
		t.Errorf("AppliedImpulse = %v, want 0", c.Points[0].AppliedImpulse)
	}
}

// =============================================================================
// SolveVelocity Tests
// =============================================================================

func TestContactConstraint_SolveVelocity(t *testing.T) {
	tests := []struct {
		name        string
		restitution float64
		wantVy      float64
	}{
		{"inelastic stops", 0, 0},
		{"elastic bounces", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floor := ground()
			b := ball(1)
			floor.Material.Restitution = tt.restitution
			b.Material.Restitution = tt.restitution
			b.Velocity = mgl64.Vec3{0, -1, 0}
			b.PresolveVelocity = b.Velocity

			c := restingContact(floor, b, 0.01)
			c.SolveVelocity(dt)

			if math.Abs(b.Velocity.Y()-tt.wantVy) > 1e-9 {
				t.Errorf("velocity.Y = %v, want %v", b.Velocity.Y(), tt.wantVy)
			}
			// mass 1: the impulse equals the velocity change
			wantImpulse := tt.wantVy + 1
			if math.Abs(c.Points[0].AppliedImpulse-wantImpulse) > 1e-9 {
				t.Errorf("AppliedImpulse = %v, want %v", c.Points[0].AppliedImpulse, wantImpulse)
			}
		})
	}
}

func TestContactConstraint_SolveVelocity_Separating(t *testing.T) {
	b := ball(1)
	b.Velocity = mgl64.Vec3{0, 2, 0}
	b.PresolveVelocity = b.Velocity

	c := restingContact(ground(), b, 0.01)
	c.SolveVelocity(dt)

	if b.Velocity.Y() != 2 {
		t.Errorf("separating velocity changed to %v", b.Velocity.Y())
	}
	if c.Points[0].AppliedImpulse != 0 {
		t.Errorf("AppliedImpulse = %v, want 0", c.Points[0].AppliedImpulse)
	}
}

func TestContactConstraint_SolveVelocity_Friction(t *testing.T) {
	floor := ground()
	b := ball(1)
	floor.Material.SetFriction(0.5)
	b.Material.SetFriction(0.5)
	b.Velocity = mgl64.Vec3{10, -1, 0}
	b.PresolveVelocity = b.Velocity

	c := restingContact(floor, b, 0.01)
	c.SolveVelocity(dt)

	if b.Velocity.X() >= 10 {
		t.Errorf("velocity.X = %v, friction should slow the ball", b.Velocity.X())
	}
}
