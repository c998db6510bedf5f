package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// planeEpsilon is the distance under which a vertex is considered on a cutting plane
const planeEpsilon = 1e-7

// Geometry is the local-space shape of an Object: *SphereGeometry or *ConvexGeometry
type Geometry interface {
	BoundingRadius() float64
	Volume() float64
}

type SphereGeometry struct {
	Radius float64
}

func (g *SphereGeometry) BoundingRadius() float64 {
	return g.Radius
}

func (g *SphereGeometry) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * g.Radius * g.Radius * g.Radius
}

// ConvexGeometry is a convex polyhedron stored as its faces. Each face is a
// planar polygon wound counter-clockwise seen from outside.
type ConvexGeometry struct {
	Faces [][]mgl64.Vec3
}

// NewBoxGeometry returns a box centred on the origin
func NewBoxGeometry(halfExtents mgl64.Vec3) *ConvexGeometry {
	hx, hy, hz := halfExtents.X(), halfExtents.Y(), halfExtents.Z()

	return &ConvexGeometry{Faces: [][]mgl64.Vec3{
		{{hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}, {hx, -hy, hz}},
		{{-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}, {-hx, -hy, -hz}},
		{{-hx, hy, -hz}, {-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}},
		{{-hx, -hy, hz}, {-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}},
		{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}},
		{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}},
	}}
}

// Vertices returns the distinct corners of the polyhedron
func (g *ConvexGeometry) Vertices() []mgl64.Vec3 {
	var vertices []mgl64.Vec3
	for _, face := range g.Faces {
		for _, v := range face {
			if !containsVertex(vertices, v) {
				vertices = append(vertices, v)
			}
		}
	}

	return vertices
}

// Volume sums the tetrahedra joining an interior point to each face triangle
func (g *ConvexGeometry) Volume() float64 {
	volume, _ := g.massProperties()
	return volume
}

// Centroid is the centre of mass for a uniform density
func (g *ConvexGeometry) Centroid() mgl64.Vec3 {
	_, centroid := g.massProperties()
	return centroid
}

func (g *ConvexGeometry) massProperties() (float64, mgl64.Vec3) {
	vertices := g.Vertices()
	if len(vertices) == 0 {
		return 0, mgl64.Vec3{}
	}

	inner := average(vertices)

	var volume float64
	var weighted mgl64.Vec3
	for _, face := range g.Faces {
		for i := 1; i+1 < len(face); i++ {
			a, b, c := face[0].Sub(inner), face[i].Sub(inner), face[i+1].Sub(inner)
			v := math.Abs(a.Dot(b.Cross(c))) / 6

			volume += v
			weighted = weighted.Add(inner.Mul(4).Add(a).Add(b).Add(c).Mul(v / 4))
		}
	}

	if volume < 1e-12 {
		return 0, inner
	}

	return volume, weighted.Mul(1 / volume)
}

// BoundingRadius is the distance from the local origin to the farthest vertex
func (g *ConvexGeometry) BoundingRadius() float64 {
	radius := 0.0
	for _, face := range g.Faces {
		for _, v := range face {
			radius = math.Max(radius, v.Len())
		}
	}

	return radius
}

// Translate returns a copy moved by offset
func (g *ConvexGeometry) Translate(offset mgl64.Vec3) *ConvexGeometry {
	faces := make([][]mgl64.Vec3, len(g.Faces))
	for i, face := range g.Faces {
		faces[i] = make([]mgl64.Vec3, len(face))
		for j, v := range face {
			faces[i][j] = v.Add(offset)
		}
	}

	return &ConvexGeometry{Faces: faces}
}

// Cut splits the polyhedron by the plane through point with the given normal.
// front lies on the normal side. A side is nil when the plane leaves it empty.
func (g *ConvexGeometry) Cut(point, normal mgl64.Vec3) (front, back *ConvexGeometry) {
	if normal.LenSqr() < 1e-16 {
		return g, nil
	}
	normal = normal.Normalize()

	var frontFaces, backFaces [][]mgl64.Vec3
	var section []mgl64.Vec3

	for _, face := range g.Faces {
		f, b, on := splitPolygon(face, point, normal)
		if len(f) >= 3 {
			frontFaces = append(frontFaces, f)
		}
		if len(b) >= 3 {
			backFaces = append(backFaces, b)
		}
		for _, v := range on {
			if !containsVertex(section, v) {
				section = append(section, v)
			}
		}
	}

	if len(backFaces) == 0 || len(frontFaces) == 0 || len(section) < 3 {
		// the plane does not go through the polyhedron
		if len(backFaces) == 0 {
			return g, nil
		}
		return nil, g
	}

	// the cap closes each side: outward is -normal for the front piece
	backCap := sortAround(section, normal)
	frontCap := make([]mgl64.Vec3, len(backCap))
	for i, v := range backCap {
		frontCap[len(backCap)-1-i] = v
	}

	front = &ConvexGeometry{Faces: append(frontFaces, frontCap)}
	back = &ConvexGeometry{Faces: append(backFaces, backCap)}

	if front.Volume() < 1e-9 {
		return nil, g
	}
	if back.Volume() < 1e-9 {
		return g, nil
	}

	return front, back
}

// splitPolygon clips polygon on both sides of the plane and returns the
// vertices lying on it
func splitPolygon(polygon []mgl64.Vec3, point, normal mgl64.Vec3) (front, back, on []mgl64.Vec3) {
	for i := range polygon {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		dc := normal.Dot(current.Sub(point))
		dn := normal.Dot(next.Sub(point))

		switch {
		case math.Abs(dc) <= planeEpsilon:
			front = append(front, current)
			back = append(back, current)
			on = append(on, current)
		case dc > 0:
			front = append(front, current)
		default:
			back = append(back, current)
		}

		// the edge crosses the plane strictly
		if (dc > planeEpsilon && dn < -planeEpsilon) || (dc < -planeEpsilon && dn > planeEpsilon) {
			t := dc / (dc - dn)
			crossing := current.Add(next.Sub(current).Mul(t))
			front = append(front, crossing)
			back = append(back, crossing)
			on = append(on, crossing)
		}
	}

	return front, back, on
}

func average(points []mgl64.Vec3) mgl64.Vec3 {
	sum := mgl64.Vec3{}
	for _, p := range points {
		sum = sum.Add(p)
	}

	return sum.Mul(1 / float64(len(points)))
}

func containsVertex(vertices []mgl64.Vec3, v mgl64.Vec3) bool {
	for _, u := range vertices {
		if u.ApproxEqualThreshold(v, 1e-9) {
			return true
		}
	}
	return false
}

// sortAround orders coplanar points counter-clockwise around axis
func sortAround(points []mgl64.Vec3, axis mgl64.Vec3) []mgl64.Vec3 {
	center := average(points)

	t1 := mgl64.Vec3{1, 0, 0}
	if math.Abs(axis.X()) > 0.9 {
		t1 = mgl64.Vec3{0, 1, 0}
	}
	t1 = t1.Sub(axis.Mul(t1.Dot(axis))).Normalize()
	t2 := axis.Cross(t1)

	sorted := append([]mgl64.Vec3(nil), points...)
	sort.Slice(sorted, func(i, j int) bool {
		di, dj := sorted[i].Sub(center), sorted[j].Sub(center)
		return math.Atan2(di.Dot(t2), di.Dot(t1)) < math.Atan2(dj.Dot(t2), dj.Dot(t1))
	})

	return sorted
}
