package constraint

import (
	"math"

	"github.com/akmonengine/shatter/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultCompliance controls soft constraint stiffness for contact resolution.
	// Lower values = stiffer contacts (less penetration, potential jitter)
	// Higher values = softer contacts (more penetration, smoother)
	// Typical range: 1e-10 (very stiff) to 1e-6 (soft)
	DefaultCompliance = 1e-7
)

// ContactPoint is one point of a manifold.
// Penetration is positive when the bodies overlap.
type ContactPoint struct {
	Position    mgl64.Vec3
	Penetration float64
	// AppliedImpulse accumulates the normal impulse (N⋅s) the solver applied
	// at this point during the substep
	AppliedImpulse float64
}

// Distance is the signed separation: negative when the bodies overlap
func (p ContactPoint) Distance() float64 {
	return -p.Penetration
}

// ContactConstraint is the contact manifold between two bodies.
// Normal points from BodyA toward BodyB.
type ContactConstraint struct {
	BodyA  *actor.RigidBody
	BodyB  *actor.RigidBody
	Points []ContactPoint
	Normal mgl64.Vec3
}

// MaxAppliedImpulse returns the largest impulse over all points
func (c *ContactConstraint) MaxAppliedImpulse() float64 {
	max := 0.0
	for _, p := range c.Points {
		max = math.Max(max, p.AppliedImpulse)
	}
	return max
}

// SolvePosition resolves penetration (PBD style, no lambda accumulation)
func (c *ContactConstraint) SolvePosition(dt float64) {
	if len(c.Points) == 0 {
		return
	}
	if c.BodyA.IsSleeping && c.BodyB.IsSleeping {
		return
	}

	bodyA := c.BodyA
	bodyB := c.BodyB

	// ========== 1. Calculate total effective weight ==========
	invMassA := bodyA.InverseMass()
	invMassB := bodyB.InverseMass()
	IA_inv := bodyA.GetInverseInertiaWorld()
	IB_inv := bodyB.GetInverseInertiaWorld()

	var totalWeight float64
	var totalPenetration float64

	for _, point := range c.Points {
		if point.Penetration <= 1e-8 {
			continue
		}

		rA := point.Position.Sub(bodyA.Transform.Position)
		rB := point.Position.Sub(bodyB.Transform.Position)

		rA_cross_n := rA.Cross(c.Normal)
		rB_cross_n := rB.Cross(c.Normal)

		wA := invMassA + IA_inv.Mul3x1(rA_cross_n).Dot(rA_cross_n)
		wB := invMassB + IB_inv.Mul3x1(rB_cross_n).Dot(rB_cross_n)
		totalWeight += wA + wB

		totalPenetration += point.Penetration
	}

	// ========== 2. Calculate deltaLambda (global correction) ==========
	if totalWeight <= 1e-8 {
		return
	}

	alphaTilde := DefaultCompliance / (dt * dt)
	deltaLambda := -totalPenetration / (totalWeight + alphaTilde)

	// XPBD: the impulse of a positional correction is lambda / h,
	// shared between points by penetration
	for i := range c.Points {
		if c.Points[i].Penetration <= 1e-8 {
			continue
		}
		share := c.Points[i].Penetration / totalPenetration
		c.Points[i].AppliedImpulse += -deltaLambda / dt * share
	}

	// ========== 3. Apply linear corrections ==========
	totalImpulse := c.Normal.Mul(deltaLambda)

	if bodyA.BodyType != actor.BodyTypeStatic {
		bodyA.Transform.Position = bodyA.Transform.Position.Add(totalImpulse.Mul(invMassA))
	}
	if bodyB.BodyType != actor.BodyTypeStatic {
		bodyB.Transform.Position = bodyB.Transform.Position.Sub(totalImpulse.Mul(invMassB))
	}

	// ========== 4. Apply angular corrections ==========
	// Accumulate torques from all points, then apply one single correction
	var totalTorqueA, totalTorqueB mgl64.Vec3

	for _, point := range c.Points {
		if point.Penetration <= 1e-8 {
			continue
		}

		rA := point.Position.Sub(bodyA.Transform.Position)
		rB := point.Position.Sub(bodyB.Transform.Position)

		totalTorqueA = totalTorqueA.Add(rA.Cross(totalImpulse))
		totalTorqueB = totalTorqueB.Add(rB.Cross(totalImpulse.Mul(-1)))
	}

	applyRotation(bodyA, IA_inv.Mul3x1(totalTorqueA))
	applyRotation(bodyB, IB_inv.Mul3x1(totalTorqueB))
}

// applyRotation rotates by a small angle δθ using q_delta ≈ [1, δθ/2]
func applyRotation(body *actor.RigidBody, deltaRot mgl64.Vec3) {
	if body.BodyType == actor.BodyTypeStatic || deltaRot.Len() <= 1e-10 {
		return
	}

	qDelta := mgl64.Quat{W: 1.0, V: deltaRot.Mul(0.5)}.Normalize()
	body.Transform.Rotation = qDelta.Mul(body.Transform.Rotation).Normalize()
	body.Transform.InverseRotation = body.Transform.Rotation.Inverse()
}

// SolveVelocity applies restitution and friction
func (c *ContactConstraint) SolveVelocity(dt float64) {
	if len(c.Points) == 0 {
		return
	}
	if c.BodyA.IsSleeping && c.BodyB.IsSleeping {
		return
	}

	bodyA := c.BodyA
	bodyB := c.BodyB

	invMassA := bodyA.InverseMass()
	invMassB := bodyB.InverseMass()
	IA_inv := bodyA.GetInverseInertiaWorld()
	IB_inv := bodyB.GetInverseInertiaWorld()

	restitution := ComputeRestitution(bodyA.Material, bodyB.Material)
	staticFriction := ComputeStaticFriction(bodyA.Material, bodyB.Material)
	dynamicFriction := ComputeDynamicFriction(bodyA.Material, bodyB.Material)

	var totalLinearImpulseA, totalLinearImpulseB mgl64.Vec3
	var totalAngularImpulseA, totalAngularImpulseB mgl64.Vec3

	for i, point := range c.Points {
		rA := point.Position.Sub(bodyA.Transform.Position)
		rB := point.Position.Sub(bodyB.Transform.Position)

		vA := bodyA.Velocity.Add(bodyA.AngularVelocity.Cross(rA))
		vB := bodyB.Velocity.Add(bodyB.AngularVelocity.Cross(rB))
		relativeVel := vB.Sub(vA)
		normalVel := relativeVel.Dot(c.Normal)

		vAPrev := bodyA.PresolveVelocity.Add(bodyA.PresolveAngularVelocity.Cross(rA))
		vBPrev := bodyB.PresolveVelocity.Add(bodyB.PresolveAngularVelocity.Cross(rB))
		normalVelPrev := vBPrev.Sub(vAPrev).Dot(c.Normal)

		// ========== NORMAL IMPULSE (restitution) ==========
		rA_cross_n := rA.Cross(c.Normal)
		rB_cross_n := rB.Cross(c.Normal)

		effectiveMassNormal := invMassA + invMassB +
			IA_inv.Mul3x1(rA_cross_n).Dot(rA_cross_n) +
			IB_inv.Mul3x1(rB_cross_n).Dot(rB_cross_n)
		if effectiveMassNormal < 1e-10 {
			continue
		}

		targetVel := -restitution * math.Min(normalVelPrev, 0)
		lambdaNormal := (targetVel - normalVel) / effectiveMassNormal

		// never pull the bodies together
		if lambdaNormal < 0 {
			lambdaNormal = 0
		}
		c.Points[i].AppliedImpulse += lambdaNormal

		normalImpulse := c.Normal.Mul(lambdaNormal)

		totalLinearImpulseA = totalLinearImpulseA.Sub(normalImpulse.Mul(invMassA))
		totalLinearImpulseB = totalLinearImpulseB.Add(normalImpulse.Mul(invMassB))
		totalAngularImpulseA = totalAngularImpulseA.Add(IA_inv.Mul3x1(rA.Cross(normalImpulse.Mul(-1))))
		totalAngularImpulseB = totalAngularImpulseB.Add(IB_inv.Mul3x1(rB.Cross(normalImpulse)))

		// ========== TANGENTIAL IMPULSE (friction) ==========
		if lambdaNormal <= 0 {
			continue
		}

		tangentVel := relativeVel.Sub(c.Normal.Mul(normalVel))
		tangentSpeed := tangentVel.Len()
		if tangentSpeed <= 1e-6 {
			continue
		}
		tangentDir := tangentVel.Mul(1.0 / tangentSpeed)

		rA_cross_t := rA.Cross(tangentDir)
		rB_cross_t := rB.Cross(tangentDir)
		effectiveMassTangent := invMassA + invMassB +
			IA_inv.Mul3x1(rA_cross_t).Dot(rA_cross_t) +
			IB_inv.Mul3x1(rB_cross_t).Dot(rB_cross_t)
		if effectiveMassTangent < 1e-10 {
			continue
		}

		lambdaTangent := -tangentSpeed / effectiveMassTangent

		// Coulomb: |F_friction| ≤ μ * |F_normal|
		var frictionImpulse mgl64.Vec3
		if math.Abs(lambdaTangent) <= staticFriction*lambdaNormal {
			frictionImpulse = tangentDir.Mul(lambdaTangent)
		} else {
			frictionImpulse = tangentDir.Mul(-dynamicFriction * lambdaNormal)
		}

		totalLinearImpulseA = totalLinearImpulseA.Sub(frictionImpulse.Mul(invMassA))
		totalLinearImpulseB = totalLinearImpulseB.Add(frictionImpulse.Mul(invMassB))
		totalAngularImpulseA = totalAngularImpulseA.Add(IA_inv.Mul3x1(rA.Cross(frictionImpulse.Mul(-1))))
		totalAngularImpulseB = totalAngularImpulseB.Add(IB_inv.Mul3x1(rB.Cross(frictionImpulse)))
	}

	if bodyA.BodyType != actor.BodyTypeStatic {
		bodyA.Velocity = bodyA.Velocity.Add(totalLinearImpulseA)
		bodyA.AngularVelocity = bodyA.AngularVelocity.Add(totalAngularImpulseA)
		clampSmallVelocities(bodyA)
	}
	if bodyB.BodyType != actor.BodyTypeStatic {
		bodyB.Velocity = bodyB.Velocity.Add(totalLinearImpulseB)
		bodyB.AngularVelocity = bodyB.AngularVelocity.Add(totalAngularImpulseB)
		clampSmallVelocities(bodyB)
	}
}
