package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
	ShapeTypeConvexHull
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeBox:
		return "box"
	case ShapeTypePlane:
		return "plane"
	case ShapeTypeConvexHull:
		return "convex hull"
	}
	return "unknown"
}

// PlaneContact is a point of a shape lying behind a plane
type PlaneContact struct {
	Position    mgl64.Vec3
	Penetration float64
}

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
	Support(direction mgl64.Vec3) mgl64.Vec3
	GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3
	// CollideWithPlane returns the world points of the shape lying behind the
	// plane normal·p + distance = 0
	CollideWithPlane(normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact)
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

// Corners returns the 8 corners in local space
func (b *Box) Corners() [8]mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	return [8]mgl64.Vec3{
		{-hx, -hy, -hz}, {+hx, -hy, -hz}, {-hx, +hy, -hz}, {+hx, +hy, -hz},
		{-hx, -hy, +hz}, {+hx, -hy, +hz}, {-hx, +hy, +hz}, {+hx, +hy, +hz},
	}
}

func (b *Box) ComputeAABB(transform Transform) {
	corners := b.Corners()
	b.aabb = boundsOf(corners[:], transform)
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

// ComputeMass calculates mass data for the box
func (b *Box) ComputeMass(density float64) float64 {
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	return boxInertia(b.HalfExtents.Mul(2), mass)
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// GetContactFeature returns the face whose normal is most aligned with direction,
// vertices ordered counter-clockwise seen from outside
func (b *Box) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	axis := 0
	best := math.Abs(direction.X())
	if math.Abs(direction.Y()) > best {
		axis, best = 1, math.Abs(direction.Y())
	}
	if math.Abs(direction.Z()) > best {
		axis = 2
	}

	switch {
	case axis == 0 && direction.X() >= 0:
		return []mgl64.Vec3{{hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}, {hx, -hy, hz}}
	case axis == 0:
		return []mgl64.Vec3{{-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}, {-hx, -hy, -hz}}
	case axis == 1 && direction.Y() >= 0:
		return []mgl64.Vec3{{-hx, hy, -hz}, {-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}}
	case axis == 1:
		return []mgl64.Vec3{{-hx, -hy, hz}, {-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}}
	case direction.Z() >= 0:
		return []mgl64.Vec3{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}
	default:
		return []mgl64.Vec3{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}
	}
}

func (b *Box) CollideWithPlane(normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact) {
	corners := b.Corners()
	return pointsBehindPlane(corners[:], normal, distance, transform)
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

// ComputeInertia uses I = (2/5) * m * r² on every axis
func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() < 1e-16 {
		return mgl64.Vec3{s.Radius, 0, 0}
	}
	return direction.Normalize().Mul(s.Radius)
}

func (s *Sphere) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return []mgl64.Vec3{s.Support(direction)}
}

func (s *Sphere) CollideWithPlane(normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact) {
	separation := normal.Dot(transform.Position) + distance - s.Radius
	if separation >= 0 {
		return false, nil
	}

	return true, []PlaneContact{{
		Position:    transform.Position.Sub(normal.Mul(s.Radius)),
		Penetration: -separation,
	}}
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal
type Plane struct {
	Normal   mgl64.Vec3 // Plane normal (must be normalized)
	Distance float64    // Plane constant (signed distance from origin)
	aabb     AABB
}

func (p *Plane) Type() ShapeType {
	return ShapeTypePlane
}

func (p *Plane) ComputeAABB(transform Transform) {
	const thickness = 1.0
	const infinity = 1e10

	planePoint := p.Normal.Mul(-p.Distance)
	min := planePoint.Sub(p.Normal.Mul(thickness)).Add(transform.Position)
	max := planePoint.Add(transform.Position)

	// only an axis-aligned normal keeps a finite extent on its own axis
	for axis := 0; axis < 3; axis++ {
		if math.Abs(p.Normal[axis]) < 1.0 {
			min[axis] = -infinity
			max[axis] = infinity
		} else if min[axis] > max[axis] {
			min[axis], max[axis] = max[axis], min[axis]
		}
	}

	p.aabb = AABB{Min: min, Max: max}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// ComputeMass is always infinite, planes are static
func (p *Plane) ComputeMass(density float64) float64 {
	return math.Inf(1)
}

func (p *Plane) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

// Support treats the plane as a thin slab of planeExtent half-width
func (p *Plane) Support(direction mgl64.Vec3) mgl64.Vec3 {
	t1, t2 := getTangentBasis(p.Normal)
	center := p.Normal.Mul(-p.Distance)

	support := center
	if direction.Dot(t1) >= 0 {
		support = support.Add(t1.Mul(planeExtent))
	} else {
		support = support.Sub(t1.Mul(planeExtent))
	}
	if direction.Dot(t2) >= 0 {
		support = support.Add(t2.Mul(planeExtent))
	} else {
		support = support.Sub(t2.Mul(planeExtent))
	}
	if direction.Dot(p.Normal) < 0 {
		support = support.Sub(p.Normal.Mul(0.5))
	}

	return support
}

// GetContactFeature returns a large square lying on the plane, in local space
func (p *Plane) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	t1, t2 := getTangentBasis(p.Normal)
	center := p.Normal.Mul(-p.Distance)

	return []mgl64.Vec3{
		center.Add(t1.Mul(-planeExtent)).Add(t2.Mul(-planeExtent)),
		center.Add(t1.Mul(-planeExtent)).Add(t2.Mul(planeExtent)),
		center.Add(t1.Mul(planeExtent)).Add(t2.Mul(planeExtent)),
		center.Add(t1.Mul(planeExtent)).Add(t2.Mul(-planeExtent)),
	}
}

// CollideWithPlane never reports plane-plane contacts
func (p *Plane) CollideWithPlane(normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact) {
	return false, nil
}

// planeExtent is the half-width used whenever a plane needs finite geometry
const planeExtent = 1e5

func getTangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}

// boxInertia uses I = (m/12) * (d1² + d2²) per axis for full dimensions size
func boxInertia(size mgl64.Vec3, mass float64) mgl64.Mat3 {
	x, y, z := size.X(), size.Y(), size.Z()
	factor := mass / 12.0

	return mgl64.Mat3{
		factor * (y*y + z*z), 0, 0,
		0, factor * (x*x + z*z), 0,
		0, 0, factor * (x*x + y*y),
	}
}

func boundsOf(points []mgl64.Vec3, transform Transform) AABB {
	if len(points) == 0 {
		return AABB{Min: transform.Position, Max: transform.Position}
	}

	first := transform.ToWorld(points[0])
	min, max := first, first
	for _, p := range points[1:] {
		w := transform.ToWorld(p)
		for axis := 0; axis < 3; axis++ {
			min[axis] = math.Min(min[axis], w[axis])
			max[axis] = math.Max(max[axis], w[axis])
		}
	}

	return AABB{Min: min, Max: max}
}

func pointsBehindPlane(points []mgl64.Vec3, normal mgl64.Vec3, distance float64, transform Transform) (bool, []PlaneContact) {
	var contacts []PlaneContact
	for _, p := range points {
		w := transform.ToWorld(p)
		if d := normal.Dot(w) + distance; d < 0 {
			contacts = append(contacts, PlaneContact{Position: w, Penetration: -d})
		}
	}

	return len(contacts) > 0, contacts
}
