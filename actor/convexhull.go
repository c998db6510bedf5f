package actor

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// ConvexHull is a collision shape defined by a cloud of local points.
// Only the extreme points matter: interior points never win a support query.
type ConvexHull struct {
	points []mgl64.Vec3

	// local bounds, refreshed by AddPoint when asked to
	localMin mgl64.Vec3
	localMax mgl64.Vec3

	aabb AABB
}

// NewConvexHull builds a hull from points, recomputing the local bounds on the last one
func NewConvexHull(points []mgl64.Vec3) *ConvexHull {
	h := &ConvexHull{points: make([]mgl64.Vec3, 0, len(points))}
	for i, p := range points {
		h.AddPoint(p, i == len(points)-1)
	}

	return h
}

func (h *ConvexHull) Type() ShapeType {
	return ShapeTypeConvexHull
}

// AddPoint appends a local point. Recomputing the local bounds is deferred until a
// call with recalcLocalBounds set, so building a hull costs one pass.
func (h *ConvexHull) AddPoint(point mgl64.Vec3, recalcLocalBounds bool) {
	h.points = append(h.points, point)
	if recalcLocalBounds {
		h.recalcLocalBounds()
	}
}

// Points returns the local points of the hull
func (h *ConvexHull) Points() []mgl64.Vec3 {
	return h.points
}

// LocalBounds returns the local min/max corners
func (h *ConvexHull) LocalBounds() (mgl64.Vec3, mgl64.Vec3) {
	return h.localMin, h.localMax
}

func (h *ConvexHull) recalcLocalBounds() {
	if len(h.points) == 0 {
		h.localMin, h.localMax = mgl64.Vec3{}, mgl64.Vec3{}
		return
	}

	h.localMin, h.localMax = h.points[0], h.points[0]
	for _, p := range h.points[1:] {
		for axis := 0; axis < 3; axis++ {
			h.localMin[axis] = math.Min(h.localMin[axis], p[axis])
			h.localMax[axis] = math.Max(h.localMax[axis], p[axis])
		}
	}
}

func (h *ConvexHull) ComputeAABB(transform Transform) {
	h.aabb = boundsOf(h.points, transform)
}

func (h *ConvexHull) GetAABB() AABB {
	return h.aabb
}

// ComputeMass approximates the volume with the local bounding box
func (h *ConvexHull) ComputeMass(density float64) float64 {
	size := h.localMax.Sub(h.localMin)

	return density * size.X() * size.Y() * size.Z()
}

// ComputeInertia approximates the hull with its local bounding box
func (h *ConvexHull) ComputeInertia(mass float64) mgl64.Mat3 {
	size := h.localMax.Sub(h.localMin)
	for axis := 0; axis < 3; axis++ {
		size[axis] = math.Max(size[axis], 1e-6)
	}

	return boxInertia(size, mass)
}

func (h *ConvexHull) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if len(h.points) == 0 {
		return mgl64.Vec3{}
	}

	best := h.points[0]
	bestDot := best.Dot(direction)
	for _, p := range h.points[1:] {
		if d := p.Dot(direction); d > bestDot {
			best, bestDot = p, d
		}
	}

	return best
}

// GetContactFeature returns the points lying on the supporting plane in direction,
// sorted counter-clockwise around direction when they form a face
func (h *ConvexHull) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	if len(h.points) == 0 {
		return nil
	}
	if direction.LenSqr() < 1e-16 {
		return []mgl64.Vec3{h.points[0]}
	}
	dir := direction.Normalize()

	maxDot := math.Inf(-1)
	for _, p := range h.points {
		maxDot = math.Max(maxDot, p.Dot(dir))
	}

	size := h.localMax.Sub(h.localMin).Len()
	tolerance := 1e-4 * math.Max(1, size)

	var feature []mgl64.Vec3
	for _, p := range h.points {
		if p.Dot(dir) >= maxDot-tolerance && !containsPoint(feature, p) {
			feature = append(feature, p)
		}
	}

	if len(feature) < 3 {
		return feature
	}

	return sortAround(feature, dir)
}

func (h *ConvexHull) CollideWithPlane(normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact) {
	return pointsBehindPlane(h.points, normal, distance, transform)
}

func containsPoint(points []mgl64.Vec3, p mgl64.Vec3) bool {
	for _, q := range points {
		if q.ApproxEqualThreshold(p, 1e-9) {
			return true
		}
	}
	return false
}

// sortAround orders coplanar points counter-clockwise around axis
func sortAround(points []mgl64.Vec3, axis mgl64.Vec3) []mgl64.Vec3 {
	center := mgl64.Vec3{}
	for _, p := range points {
		center = center.Add(p)
	}
	center = center.Mul(1.0 / float64(len(points)))

	t1, t2 := getTangentBasis(axis)
	sort.Slice(points, func(i, j int) bool {
		di, dj := points[i].Sub(center), points[j].Sub(center)
		return math.Atan2(di.Dot(t2), di.Dot(t1)) < math.Atan2(dj.Dot(t2), dj.Dot(t1))
	})

	return points
}
