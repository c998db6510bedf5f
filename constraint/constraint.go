package constraint

import (
	"math"

	"github.com/akmonengine/shatter/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type Constraint interface {
	SolvePosition(dt float64)
	SolveVelocity(dt float64)
}

// ComputeRestitution averages both materials
func ComputeRestitution(matA, matB actor.Material) float64 {
	return (matA.Restitution + matB.Restitution) / 2.0
}

// ComputeStaticFriction uses the geometric mean. A static body (no friction set)
// defers to the other material.
func ComputeStaticFriction(matA, matB actor.Material) float64 {
	return mixFriction(matA.StaticFriction, matB.StaticFriction)
}

func ComputeDynamicFriction(matA, matB actor.Material) float64 {
	return mixFriction(matA.DynamicFriction, matB.DynamicFriction)
}

func mixFriction(a, b float64) float64 {
	switch {
	case a == 0:
		return b
	case b == 0:
		return a
	}
	return math.Sqrt(a * b)
}

func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	if rb.Velocity.Len() < velocityThreshold {
		rb.Velocity = mgl64.Vec3{0, 0, 0}
	}
	if rb.AngularVelocity.Len() < velocityThreshold {
		rb.AngularVelocity = mgl64.Vec3{0, 0, 0}
	}
}
