package epa

import (
	"math"

	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxManifoldPoints caps the points kept per manifold
const MaxManifoldPoints = 4

// GenerateManifold clips the contact features of both bodies against each other
// (Sutherland-Hodgman) and returns 1 to 4 contact points.
// normal points from bodyA toward bodyB, depth is positive.
func GenerateManifold(bodyA, bodyB *actor.RigidBody, normal mgl64.Vec3, depth float64) []constraint.ContactPoint {
	featureA := worldFeature(bodyA, normal)
	featureB := worldFeature(bodyB, normal.Mul(-1))

	// the feature with more points is the reference, its outward normal
	// depends on which body owns it
	incident, reference := featureB, featureA
	outward := normal
	if len(featureB) > len(featureA) {
		incident, reference = featureA, featureB
		outward = normal.Mul(-1)
	}

	if len(incident) == 1 {
		return []constraint.ContactPoint{{Position: incident[0], Penetration: depth}}
	}

	clipped := clipIncidentAgainstReference(incident, reference, normal)

	var points []constraint.ContactPoint
	if len(reference) >= 3 {
		offset := reference[0].Dot(outward)
		for _, p := range clipped {
			if p.Dot(outward)-offset <= 1e-6 {
				points = append(points, constraint.ContactPoint{Position: p, Penetration: depth})
			}
		}
	} else {
		for _, p := range clipped {
			points = append(points, constraint.ContactPoint{Position: p, Penetration: depth})
		}
	}

	if len(points) == 0 {
		points = append(points, constraint.ContactPoint{
			Position:    bodyB.SupportWorld(normal.Mul(-1)),
			Penetration: depth,
		})
	}

	if len(points) > MaxManifoldPoints {
		points = reduceTo4Points(points, normal)
	}

	return points
}

func worldFeature(body *actor.RigidBody, direction mgl64.Vec3) []mgl64.Vec3 {
	local := body.Shape.GetContactFeature(body.Transform.InverseRotation.Rotate(direction))

	world := make([]mgl64.Vec3, len(local))
	for i, p := range local {
		world[i] = body.Transform.ToWorld(p)
	}

	return world
}

// clipIncidentAgainstReference keeps the part of incident lying inside the side
// planes of reference
func clipIncidentAgainstReference(incident, reference []mgl64.Vec3, normal mgl64.Vec3) []mgl64.Vec3 {
	if len(reference) < 3 {
		return incident
	}

	center := computeCenter(reference)
	output := incident
	for i := 0; i < len(reference) && len(output) > 0; i++ {
		v1 := reference[i]
		v2 := reference[(i+1)%len(reference)]

		side := v2.Sub(v1).Cross(normal)
		if side.LenSqr() < 1e-16 {
			continue
		}
		side = side.Normalize()
		if center.Sub(v1).Dot(side) < 0 {
			side = side.Mul(-1)
		}

		output = clipPolygonAgainstPlane(output, v1, side)
	}

	return output
}

// clipPolygonAgainstPlane keeps the part of polygon in front of the plane
func clipPolygonAgainstPlane(polygon []mgl64.Vec3, planePoint, planeNormal mgl64.Vec3) []mgl64.Vec3 {
	const tolerance = 1e-6

	var output []mgl64.Vec3
	for i := range polygon {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentDist := current.Sub(planePoint).Dot(planeNormal)
		nextDist := next.Sub(planePoint).Dot(planeNormal)

		if currentDist >= -tolerance {
			output = append(output, current)
		}
		if (currentDist >= -tolerance) != (nextDist >= -tolerance) {
			output = append(output, lineIntersectPlane(current, next, currentDist, nextDist))
		}
	}

	return output
}

func lineIntersectPlane(p1, p2 mgl64.Vec3, d1, d2 float64) mgl64.Vec3 {
	denom := d1 - d2
	if math.Abs(denom) < 1e-12 {
		return p1
	}

	t := math.Max(0, math.Min(1, d1/denom))
	return p1.Add(p2.Sub(p1).Mul(t))
}

func computeCenter(points []mgl64.Vec3) mgl64.Vec3 {
	sum := mgl64.Vec3{}
	for _, p := range points {
		sum = sum.Add(p)
	}

	return sum.Mul(1.0 / float64(len(points)))
}

// reduceTo4Points keeps the extreme points along two tangent axes
func reduceTo4Points(points []constraint.ContactPoint, normal mgl64.Vec3) []constraint.ContactPoint {
	t1 := mgl64.Vec3{1, 0, 0}
	if math.Abs(normal.X()) > 0.9 {
		t1 = mgl64.Vec3{0, 1, 0}
	}
	t1 = t1.Sub(normal.Mul(t1.Dot(normal))).Normalize()
	t2 := normal.Cross(t1)

	extremes := [4]int{}
	values := [4]float64{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for i, p := range points {
		x, y := p.Position.Dot(t1), p.Position.Dot(t2)
		if x < values[0] {
			values[0], extremes[0] = x, i
		}
		if x > values[1] {
			values[1], extremes[1] = x, i
		}
		if y < values[2] {
			values[2], extremes[2] = y, i
		}
		if y > values[3] {
			values[3], extremes[3] = y, i
		}
	}

	result := make([]constraint.ContactPoint, 0, MaxManifoldPoints)
	seen := map[int]bool{}
	for _, i := range extremes {
		if !seen[i] {
			seen[i] = true
			result = append(result, points[i])
		}
	}

	return result
}
