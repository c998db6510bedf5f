package shatter

import (
	"sync"

	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/constraint"
	"github.com/akmonengine/shatter/epa"
	"github.com/akmonengine/shatter/gjk"
)

// BroadPhase rebuilds the spatial grid and returns the candidate pairs in
// body order
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.RigidBody, workersCount int) []Pair {
	spatialGrid.Clear()
	for i, body := range bodies {
		spatialGrid.Insert(i, body)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairs(bodies, workersCount)
}

// NarrowPhase computes the contact manifold of each pair, fanning out over
// workersCount goroutines. The result keeps the order of pairs.
func NarrowPhase(pairs []Pair, workersCount int) []*constraint.ContactConstraint {
	results := make([]*constraint.ContactConstraint, len(pairs))

	indices := make(chan int, max(1, workersCount))
	var wg sync.WaitGroup
	for range max(1, workersCount) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = collide(pairs[i])
			}
		}()
	}

	for i := range pairs {
		indices <- i
	}
	close(indices)
	wg.Wait()

	contacts := make([]*constraint.ContactConstraint, 0, len(pairs))
	for _, c := range results {
		if c != nil {
			contacts = append(contacts, c)
		}
	}

	return contacts
}

func collide(pair Pair) *constraint.ContactConstraint {
	if pair.BodyA.Shape.Type() == actor.ShapeTypePlane || pair.BodyB.Shape.Type() == actor.ShapeTypePlane {
		return collidePlane(pair)
	}

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	if !gjk.GJK(pair.BodyA, pair.BodyB, simplex) {
		return nil
	}

	contact, err := epa.EPA(pair.BodyA, pair.BodyB, simplex)
	if err != nil || len(contact.Points) == 0 {
		return nil
	}

	return &contact
}

// collidePlane tests the shape of the other body against the plane in world
// space. BodyA of the result is always the plane, so the normal is the plane normal.
func collidePlane(pair Pair) *constraint.ContactConstraint {
	planeBody, object := pair.BodyA, pair.BodyB
	if planeBody.Shape.Type() != actor.ShapeTypePlane {
		planeBody, object = object, planeBody
	}
	if object.Shape.Type() == actor.ShapeTypePlane {
		return nil
	}

	plane := planeBody.Shape.(*actor.Plane)
	normal := planeBody.Transform.Rotation.Rotate(plane.Normal).Normalize()
	distance := plane.Distance - normal.Dot(planeBody.Transform.Position)

	collision, result := object.Shape.CollideWithPlane(normal, distance, object.Transform)
	if !collision {
		return nil
	}

	points := make([]constraint.ContactPoint, len(result))
	for i, point := range result {
		points[i] = constraint.ContactPoint{Position: point.Position, Penetration: point.Penetration}
	}

	return &constraint.ContactConstraint{
		BodyA:  planeBody,
		BodyB:  object,
		Normal: normal,
		Points: points,
	}
}
