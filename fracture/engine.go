package fracture

import (
	"log"

	"github.com/akmonengine/shatter/config"
	"github.com/akmonengine/shatter/constraint"
	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// FractureEvent describes an object replaced by its fragments
type FractureEvent struct {
	Object    *scene.Object
	Impulse   float64
	Point     mgl64.Vec3
	Normal    mgl64.Vec3
	Fragments []*scene.Object
}

// Engine steps the world and breaks objects struck harder than the configured threshold
type Engine struct {
	ctx        *Context
	subdivider Subdivider
	settings   *config.FractureConfig

	// OnFracture is called once per broken object, during Step
	OnFracture func(FractureEvent)
	// Logger defaults to the standard logger
	Logger *log.Logger
}

func NewEngine(ctx *Context, subdivider Subdivider, settings *config.FractureConfig) *Engine {
	return &Engine{ctx: ctx, subdivider: subdivider, settings: settings}
}

// Step does nothing when dt is zero or less, as on the first frame of a window
func (e *Engine) Step(dt float64) {
	if dt <= 0 {
		return
	}
	registry := e.ctx.Registry

	// fragments inherit the velocity their parent had before this step, the
	// pre-impact velocity, rather than the one the collision left them with
	for _, obj := range registry.Objects() {
		if body := e.ctx.BodyOf(obj); body != nil {
			obj.Velocity = body.Velocity
			obj.AngularVelocity = body.AngularVelocity
		}
	}

	e.ctx.World.Step(dt)

	for _, obj := range registry.Objects() {
		if body := e.ctx.BodyOf(obj); body != nil {
			obj.Position = body.Transform.Position
			obj.Rotation = body.Transform.Rotation
		}
		obj.Collided = false
	}

	// new fragments only join the world: the manifolds stay valid until the flush
	for i := 0; i < e.ctx.World.NumManifolds(); i++ {
		e.processManifold(e.ctx.World.ManifoldAt(i))
	}

	e.ctx.Flush()
}

func (e *Engine) processManifold(m *constraint.ContactConstraint) {
	sides := [2]*scene.Object{e.ctx.ObjectOf(m.BodyA), e.ctx.ObjectOf(m.BodyB)}

	breakable := [2]bool{}
	collided := [2]bool{}
	for i, obj := range sides {
		if obj != nil {
			breakable[i] = obj.IsBreakable()
			collided[i] = obj.Collided
		}
	}
	if !breakable[0] && !breakable[1] {
		return
	}
	if collided[0] && collided[1] {
		return
	}

	impulse, point, ok := strongestContact(m)
	if !ok {
		return
	}

	for i, obj := range sides {
		if breakable[i] && !obj.Collided && impulse > e.settings.ImpulseThreshold {
			e.fracture(obj, impulse, point, m.Normal)
		}
	}
}

// strongestContact returns the point with the largest impulse among the
// points actually touching, distance strictly negative
func strongestContact(m *constraint.ContactConstraint) (float64, mgl64.Vec3, bool) {
	found := false
	var impulse float64
	var point mgl64.Vec3

	for _, p := range m.Points {
		if p.Distance() >= 0 {
			continue
		}
		if !found || p.AppliedImpulse > impulse {
			found = true
			impulse = p.AppliedImpulse
			point = p.Position
		}
	}

	return impulse, point, found
}

func (e *Engine) fracture(obj *scene.Object, impulse float64, point, normal mgl64.Vec3) {
	params, _ := obj.Params()
	fragments := e.subdivider.Subdivide(obj, point, normal, params)

	for _, fragment := range fragments {
		shape := NewShape(fragment.Geometry)
		if shape == nil {
			continue
		}
		e.ctx.AddDynamic(fragment, NewBody(fragment, shape))
	}

	e.ctx.Queue.Push(obj)
	obj.Collided = true

	e.logf("Fracture: %s impulse %.1f, %d fragments", obj.Name, impulse, len(fragments))
	if e.OnFracture != nil {
		e.OnFracture(FractureEvent{Object: obj, Impulse: impulse, Point: point, Normal: normal, Fragments: fragments})
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
