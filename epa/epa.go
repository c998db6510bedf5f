// Package epa implements the Expanding Polytope Algorithm.
//
// EPA runs once GJK reports an overlap. It grows a polytope inside the
// Minkowski difference A - B until the face closest to the origin is found:
// that face gives the contact normal (from A toward B) and the penetration
// depth, from which the contact manifold is clipped.
package epa

import (
	"errors"

	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/constraint"
	"github.com/akmonengine/shatter/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMaxIterations limits the polytope expansion
	EPAMaxIterations = 32

	// EPAConvergenceTolerance: a support point closer than this to the closest
	// face ends the expansion
	EPAConvergenceTolerance = 0.001

	NormalSnapThreshold = 1e-8

	// DegeneratePenetrationEstimate is used when GJK ends with fewer than 4 points
	DegeneratePenetrationEstimate = 0.01
)

var ErrNoConvergence = errors.New("epa: polytope did not converge")

// EPA returns the contact manifold of two overlapping bodies.
// simplex is the final simplex returned by gjk.GJK.
func EPA(a, b *actor.RigidBody, simplex *gjk.Simplex) (constraint.ContactConstraint, error) {
	if simplex.Count < 4 {
		return degenerateContact(a, b, simplex), nil
	}

	poly := polytopePool.Get().(*polytope)
	defer polytopePool.Put(poly)
	poly.reset()
	poly.init(simplex.Points)

	closest, ok := poly.search(a, b, EPAMaxIterations)
	if !ok {
		return constraint.ContactConstraint{}, ErrNoConvergence
	}

	return newContact(a, b, closest.normal, closest.distance), nil
}

// search expands the polytope until the closest face stops moving. When
// maxIterations runs out first the closest face so far is the best estimate.
// It fails only when the polytope has no face left.
func (p *polytope) search(a, b *actor.RigidBody, maxIterations int) (face, bool) {
	for i := 0; i < maxIterations && len(p.faces) > 0; i++ {
		closest := p.faces[p.closest()]

		support := gjk.MinkowskiSupport(a, b, closest.normal)
		if support.Dot(closest.normal)-closest.distance < EPAConvergenceTolerance {
			return closest, true
		}

		p.expand(support)
	}

	if len(p.faces) == 0 {
		return face{}, false
	}

	return p.faces[p.closest()], true
}

func newContact(a, b *actor.RigidBody, normal mgl64.Vec3, depth float64) constraint.ContactConstraint {
	return constraint.ContactConstraint{
		BodyA:  a,
		BodyB:  b,
		Points: GenerateManifold(a, b, normal, depth),
		Normal: normal,
	}
}

// degenerateContact estimates a contact from an incomplete simplex
func degenerateContact(a, b *actor.RigidBody, simplex *gjk.Simplex) constraint.ContactConstraint {
	normal := b.Transform.Position.Sub(a.Transform.Position)
	depth := DegeneratePenetrationEstimate

	if simplex.Count >= 2 {
		closest := simplex.Points[0]
		for _, p := range simplex.Points[1:simplex.Count] {
			if p.LenSqr() < closest.LenSqr() {
				closest = p
			}
		}
		if closest.LenSqr() > 1e-12 {
			normal = closest
			depth = closest.Len()
		}
	}

	if normal.LenSqr() < NormalSnapThreshold*NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	}

	return newContact(a, b, normal.Normalize(), depth)
}
