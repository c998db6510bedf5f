package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned bounding box in world space
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint includes the boundary
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if point[axis] < a.Min[axis] || point[axis] > a.Max[axis] {
			return false
		}
	}
	return true
}

// Overlaps reports whether both boxes intersect on all three axes; touching counts
func (a AABB) Overlaps(other AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if a.Max[axis] < other.Min[axis] || a.Min[axis] > other.Max[axis] {
			return false
		}
	}
	return true
}

func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}
