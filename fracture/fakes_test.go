package fracture

import (
	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/camera"
	"github.com/akmonengine/shatter/config"
	"github.com/akmonengine/shatter/constraint"
	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

type fakeWorld struct {
	bodies    []*actor.RigidBody
	manifolds []*constraint.ContactConstraint
	steps     []float64
	// onStep runs inside Step, after the velocities were staged
	onStep func()
}

func (w *fakeWorld) Step(dt float64) {
	w.steps = append(w.steps, dt)
	if w.onStep != nil {
		w.onStep()
	}
}

func (w *fakeWorld) AddBody(body *actor.RigidBody) {
	w.bodies = append(w.bodies, body)
}

func (w *fakeWorld) RemoveBody(body *actor.RigidBody) {
	for i, b := range w.bodies {
		if b == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

func (w *fakeWorld) NumManifolds() int {
	return len(w.manifolds)
}

func (w *fakeWorld) ManifoldAt(i int) *constraint.ContactConstraint {
	return w.manifolds[i]
}

func (w *fakeWorld) contains(body *actor.RigidBody) bool {
	for _, b := range w.bodies {
		if b == body {
			return true
		}
	}
	return false
}

type subdivideCall struct {
	obj    *scene.Object
	point  mgl64.Vec3
	normal mgl64.Vec3
	params scene.SubdivisionParams
}

// fakeSubdivider splits any object into n unit cubes sharing its staged state
type fakeSubdivider struct {
	n     int
	calls []subdivideCall
}

func (s *fakeSubdivider) Subdivide(obj *scene.Object, point, normal mgl64.Vec3, p scene.SubdivisionParams) []*scene.Object {
	s.calls = append(s.calls, subdivideCall{obj: obj, point: point, normal: normal, params: p})

	fragments := make([]*scene.Object, s.n)
	for i := range fragments {
		f := scene.NewObject(obj.Name+".fragment", scene.NewBoxGeometry(mgl64.Vec3{1, 1, 1}), obj.Position.Add(mgl64.Vec3{float64(i) * 3, 0, 0}))
		f.Mass = obj.Mass / float64(s.n)
		f.Velocity = obj.Velocity
		f.AngularVelocity = obj.AngularVelocity
		fragments[i] = f
	}

	return fragments
}

type fixedRay camera.Ray

func (r fixedRay) Ray(mgl64.Vec2) camera.Ray {
	return camera.Ray(r)
}

var towerHalfExtents = mgl64.Vec3{50, 200, 50}

type fixture struct {
	world      *fakeWorld
	scene      *scene.Scene
	ctx        *Context
	subdivider *fakeSubdivider
	settings   config.Tunables
	engine     *Engine
}

func newFixture() *fixture {
	f := &fixture{
		world:      &fakeWorld{},
		scene:      scene.New(),
		subdivider: &fakeSubdivider{n: 3},
		settings:   config.Default(),
	}
	f.ctx = NewContext(f.world, f.scene)
	f.engine = NewEngine(f.ctx, f.subdivider, &f.settings.Fracture)

	return f
}

func (f *fixture) addTower(name string, x float64) (*scene.Object, *actor.RigidBody) {
	tower := scene.NewTower(name, towerHalfExtents, x, 0, 1000, f.settings.SubdivisionParams())
	body := NewBoxBody(tower, towerHalfExtents)
	f.ctx.AddDynamic(tower, body)

	return tower, body
}

func (f *fixture) addBall(name string, position mgl64.Vec3) (*scene.Object, *actor.RigidBody) {
	ball := scene.NewObject(name, &scene.SphereGeometry{Radius: 10}, position)
	ball.Mass = 100
	body := NewBody(ball, NewShape(ball.Geometry))
	f.ctx.AddDynamic(ball, body)

	return ball, body
}

type point struct {
	impulse  float64
	distance float64
	position mgl64.Vec3
}

func manifold(a, b *actor.RigidBody, points ...point) *constraint.ContactConstraint {
	m := &constraint.ContactConstraint{BodyA: a, BodyB: b, Normal: mgl64.Vec3{0, 0, -1}}
	for _, p := range points {
		m.Points = append(m.Points, constraint.ContactPoint{
			Position:       p.position,
			Penetration:    -p.distance,
			AppliedImpulse: p.impulse,
		})
	}
	return m
}
