// Package breaker splits convex objects into fragments around an impact.
//
// A radial pass cuts the object with planes containing the impact axis, each
// cut splitting an angular sector in two. Fragments close to the impact point
// then receive extra random cuts, so debris is finer where the hit landed.
package breaker

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// EarlyStopStep is the chance, per recursion level, that a radial piece stops splitting
const EarlyStopStep = 0.05

// Breaker is not safe for concurrent use
type Breaker struct {
	rng *rand.Rand
}

// New returns a Breaker whose cuts are reproducible for a given seed
func New(seed uint64) *Breaker {
	return &Breaker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type impact struct {
	point  mgl64.Vec3
	axis   mgl64.Vec3
	t1, t2 mgl64.Vec3
}

// Subdivide returns the fragments of obj. impactPoint and impactNormal are in
// world space. Geometries other than *scene.ConvexGeometry give no fragments.
func (b *Breaker) Subdivide(obj *scene.Object, impactPoint, impactNormal mgl64.Vec3, p scene.SubdivisionParams) []*scene.Object {
	geometry, ok := obj.Geometry.(*scene.ConvexGeometry)
	if !ok || len(geometry.Faces) == 0 {
		return nil
	}

	parentVolume := geometry.Volume()
	if parentVolume <= 0 {
		return nil
	}

	axis := obj.Rotation.Inverse().Rotate(impactNormal)
	if axis.LenSqr() < 1e-16 {
		axis = mgl64.Vec3{0, 1, 0}
	}
	axis = axis.Normalize()
	t1, t2 := tangents(axis)
	hit := impact{point: obj.ToLocal(impactPoint), axis: axis, t1: t1, t2: t2}

	var pieces []*scene.ConvexGeometry
	b.radial(geometry, hit, 0, 2*math.Pi, 0, p, &pieces)
	pieces = b.refineNearImpact(pieces, hit.point, geometry.BoundingRadius(), p)

	fragments := make([]*scene.Object, 0, len(pieces))
	for _, piece := range pieces {
		volume := piece.Volume()
		if volume <= 0 {
			continue
		}
		fragments = append(fragments, fragment(obj, piece, volume/parentVolume, len(fragments), p))
	}

	return fragments
}

// radial splits the sector [start, end] around the impact axis
func (b *Breaker) radial(piece *scene.ConvexGeometry, hit impact, start, end float64, depth int, p scene.SubdivisionParams, out *[]*scene.ConvexGeometry) {
	if depth > p.MaxSubdivisions || b.rng.Float64() < EarlyStopStep*float64(depth) || (depth > 0 && size(piece) < p.MinSizeForBreak) {
		*out = append(*out, piece)
		return
	}

	angle := math.Pi
	if depth > 0 {
		angle = start + (end-start)*(0.2+0.6*b.rng.Float64())
	}

	// the plane contains the impact axis and the direction at angle
	direction := hit.t1.Mul(math.Cos(angle)).Add(hit.t2.Mul(math.Sin(angle)))
	front, back := piece.Cut(hit.point, hit.axis.Cross(direction))

	if back != nil {
		b.radial(back, hit, start, angle, depth+1, p, out)
	}
	if front != nil {
		b.radial(front, hit, angle, end, depth+1, p, out)
	}
}

// refineNearImpact gives two extra cuts to pieces within radius/ImpactRadiusScale1
// of the impact point, and one to pieces within that distance times ImpactRadiusScale2
func (b *Breaker) refineNearImpact(pieces []*scene.ConvexGeometry, point mgl64.Vec3, radius float64, p scene.SubdivisionParams) []*scene.ConvexGeometry {
	if p.ImpactRadiusScale1 <= 0 {
		return pieces
	}

	inner := radius / p.ImpactRadiusScale1
	outer := 0.0
	if p.ImpactRadiusScale2 > 0 {
		outer = inner * p.ImpactRadiusScale2
	}

	refined := make([]*scene.ConvexGeometry, 0, len(pieces))
	for _, piece := range pieces {
		distance := piece.Centroid().Sub(point).Len()

		cuts := 0
		switch {
		case distance < inner:
			cuts = 2
		case distance < outer:
			cuts = 1
		}

		refined = append(refined, b.randomCuts(piece, cuts, p.MinSizeForBreak)...)
	}

	return refined
}

func (b *Breaker) randomCuts(piece *scene.ConvexGeometry, cuts int, minSize float64) []*scene.ConvexGeometry {
	current := []*scene.ConvexGeometry{piece}

	for i := 0; i < cuts; i++ {
		var next []*scene.ConvexGeometry
		for _, g := range current {
			if size(g) < minSize {
				next = append(next, g)
				continue
			}

			front, back := g.Cut(g.Centroid(), b.randomDirection())
			if front != nil {
				next = append(next, front)
			}
			if back != nil {
				next = append(next, back)
			}
		}
		current = next
	}

	return current
}

func (b *Breaker) randomDirection() mgl64.Vec3 {
	z := 2*b.rng.Float64() - 1
	phi := 2 * math.Pi * b.rng.Float64()
	r := math.Sqrt(1 - z*z)

	return mgl64.Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// fragment recentres piece on its centroid and derives the world pose,
// mass and staged velocity from the parent
func fragment(parent *scene.Object, piece *scene.ConvexGeometry, share float64, index int, p scene.SubdivisionParams) *scene.Object {
	centroid := piece.Centroid()
	local := piece.Translate(centroid.Mul(-1))

	obj := scene.NewObject(fmt.Sprintf("%s.%d", parent.Name, index), local, parent.ToWorld(centroid))
	obj.Rotation = parent.Rotation
	obj.CastShadow = parent.CastShadow
	obj.ReceiveShadow = parent.ReceiveShadow
	obj.Color = parent.Color

	obj.Mass = parent.Mass * share
	obj.Velocity = parent.Velocity
	obj.AngularVelocity = parent.AngularVelocity

	if size(local) > p.MinSizeForBreak {
		obj.Fracture = scene.Breakable{Params: p}
	} else {
		obj.Fracture = scene.Inert{}
	}

	return obj
}

// size is the largest extent of the geometry along the local axes
func size(g *scene.ConvexGeometry) float64 {
	vertices := g.Vertices()
	if len(vertices) == 0 {
		return 0
	}

	lo, hi := vertices[0], vertices[0]
	for _, v := range vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			lo[axis] = math.Min(lo[axis], v[axis])
			hi[axis] = math.Max(hi[axis], v[axis])
		}
	}

	extent := hi.Sub(lo)
	return math.Max(extent.X(), math.Max(extent.Y(), extent.Z()))
}

func tangents(axis mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	t1 := mgl64.Vec3{1, 0, 0}
	if math.Abs(axis.X()) > 0.9 {
		t1 = mgl64.Vec3{0, 1, 0}
	}
	t1 = t1.Sub(axis.Mul(t1.Dot(axis))).Normalize()

	return t1, axis.Cross(t1)
}
