package epa

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// face is a triangle of the polytope, indexing into polytope.vertices.
// Normal points away from the origin.
type face struct {
	a, b, c  int
	normal   mgl64.Vec3
	distance float64
}

type edge struct {
	a, b int
}

// polytope is the convex hull of the Minkowski difference points found so far
type polytope struct {
	vertices []mgl64.Vec3
	faces    []face
	horizon  []edge
}

var polytopePool = sync.Pool{
	New: func() interface{} {
		return &polytope{
			vertices: make([]mgl64.Vec3, 0, 16),
			faces:    make([]face, 0, 32),
			horizon:  make([]edge, 0, 16),
		}
	},
}

func (p *polytope) reset() {
	p.vertices = p.vertices[:0]
	p.faces = p.faces[:0]
	p.horizon = p.horizon[:0]
}

// init builds the 4 faces of the starting tetrahedron
func (p *polytope) init(points [4]mgl64.Vec3) {
	p.vertices = append(p.vertices, points[:]...)

	p.addFace(0, 1, 2)
	p.addFace(0, 2, 3)
	p.addFace(0, 3, 1)
	p.addFace(1, 3, 2)
}

// addFace appends triangle (a, b, c), flipping its winding when the normal
// faces the origin
func (p *polytope) addFace(a, b, c int) {
	va, vb, vc := p.vertices[a], p.vertices[b], p.vertices[c]
	normal := vb.Sub(va).Cross(vc.Sub(va))

	length := normal.Len()
	if length < 1e-12 {
		return
	}
	normal = normal.Mul(1.0 / length)

	distance := normal.Dot(va)
	if distance < 0 {
		b, c = c, b
		normal = normal.Mul(-1)
		distance = -distance
	}

	p.faces = append(p.faces, face{a: a, b: b, c: c, normal: snapNormalToAxis(normal), distance: distance})
}

func (p *polytope) closest() int {
	best := 0
	bestDistance := math.Inf(1)
	for i, f := range p.faces {
		if f.distance < bestDistance {
			best, bestDistance = i, f.distance
		}
	}

	return best
}

// expand adds support to the polytope: every face that sees it is removed and
// the hole is closed with faces joining its horizon to the new vertex
func (p *polytope) expand(support mgl64.Vec3) {
	p.vertices = append(p.vertices, support)
	index := len(p.vertices) - 1

	p.horizon = p.horizon[:0]
	kept := p.faces[:0]
	for _, f := range p.faces {
		if f.normal.Dot(support.Sub(p.vertices[f.a])) > 0 {
			p.toggleEdge(f.a, f.b)
			p.toggleEdge(f.b, f.c)
			p.toggleEdge(f.c, f.a)
			continue
		}
		kept = append(kept, f)
	}
	p.faces = kept

	for _, e := range p.horizon {
		p.addFace(e.a, e.b, index)
	}
}

// toggleEdge keeps only the edges shared by a single removed face
func (p *polytope) toggleEdge(a, b int) {
	for i, e := range p.horizon {
		if e.a == b && e.b == a {
			p.horizon[i] = p.horizon[len(p.horizon)-1]
			p.horizon = p.horizon[:len(p.horizon)-1]
			return
		}
	}
	p.horizon = append(p.horizon, edge{a: a, b: b})
}

// snapNormalToAxis clears components close to zero, then renormalizes
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for axis := 0; axis < 3; axis++ {
		if math.Abs(normal[axis]) < NormalSnapThreshold {
			normal[axis] = 0
		}
	}

	length := normal.Len()
	if length < 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}

	return normal.Mul(1.0 / length)
}
