// Package shatter is an XPBD rigid-body world: substepped integration, a
// spatial-hash broad phase, GJK/EPA and analytic plane narrow phase, and
// contact manifolds exposing the impulse the solver applied at each point.
package shatter

import (
	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS  = 1
	DEFAULT_SUBSTEPS = 10

	// DefaultCellSize fits bodies of a few tens of units, like spawned balls
	// and tower fragments
	DefaultCellSize = 100.0
	DefaultNumCells = 4096
)

type World struct {
	Bodies []*actor.RigidBody
	// Gravity acceleration, in units/s²
	Gravity     mgl64.Vec3
	Substeps    int
	SpatialGrid *SpatialGrid
	Workers     int

	Events Events

	// strongest manifold per pair over the last Step, in discovery order
	manifolds     []*constraint.ContactConstraint
	manifoldIndex map[pairKey]int
}

// NewWorld creates an empty world with a default spatial grid
func NewWorld(gravity mgl64.Vec3, substeps int) *World {
	if substeps <= 0 {
		substeps = DEFAULT_SUBSTEPS
	}

	return &World{
		Gravity:       gravity,
		Substeps:      substeps,
		SpatialGrid:   NewSpatialGrid(DefaultCellSize, DefaultNumCells),
		Workers:       DEFAULT_WORKERS,
		Events:        NewEvents(),
		manifoldIndex: make(map[pairKey]int),
	}
}

func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes the body and every manifold or event state referencing it
func (w *World) RemoveBody(body *actor.RigidBody) {
	for i, b := range w.Bodies {
		if b == body {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			break
		}
	}

	w.Events.forget(body)

	n := 0
	for _, c := range w.manifolds {
		if c.BodyA != body && c.BodyB != body {
			w.manifolds[n] = c
			n++
		}
	}
	clear(w.manifolds[n:])
	w.manifolds = w.manifolds[:n]
	w.reindexManifolds()
}

// NumManifolds returns the number of contact manifolds of the last Step
func (w *World) NumManifolds() int {
	return len(w.manifolds)
}

// ManifoldAt returns the i-th manifold of the last Step
func (w *World) ManifoldAt(i int) *constraint.ContactConstraint {
	return w.manifolds[i]
}

// Step advances the world by dt. A dt of zero or less leaves every body,
// manifold and event untouched: velocities are derived by dividing by dt.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.ensureInit()
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	substeps := max(1, w.Substeps)
	h := dt / float64(substeps)

	clear(w.manifolds)
	w.manifolds = w.manifolds[:0]
	clear(w.manifoldIndex)

	for range substeps {
		w.integrate(h)

		constraints := w.detectCollision()
		constraints = w.Events.recordCollisions(constraints)

		// one iteration is enough with substeps
		w.solvePosition(h, constraints)
		w.update(h)
		w.solveVelocity(h, constraints)

		for _, c := range constraints {
			w.Events.recordImpulse(c)
			w.keepStrongest(c)
		}

		w.trySleep(h)
	}

	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()
}

func (w *World) ensureInit() {
	if w.SpatialGrid == nil {
		w.SpatialGrid = NewSpatialGrid(DefaultCellSize, DefaultNumCells)
	}
	if w.manifoldIndex == nil {
		w.manifoldIndex = make(map[pairKey]int)
	}
	if w.Events.currentActivePairs == nil {
		listeners := w.Events.listeners
		w.Events = NewEvents()
		if listeners != nil {
			w.Events.listeners = listeners
		}
	}
}

func (w *World) keepStrongest(c *constraint.ContactConstraint) {
	pair := makePairKey(c.BodyA, c.BodyB)

	i, ok := w.manifoldIndex[pair]
	if !ok {
		w.manifoldIndex[pair] = len(w.manifolds)
		w.manifolds = append(w.manifolds, c)
		return
	}

	if c.MaxAppliedImpulse() > w.manifolds[i].MaxAppliedImpulse() {
		w.manifolds[i] = c
	}
}

func (w *World) reindexManifolds() {
	clear(w.manifoldIndex)
	for i, c := range w.manifolds {
		w.manifoldIndex[makePairKey(c.BodyA, c.BodyB)] = i
	}
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

func (w *World) detectCollision() []*constraint.ContactConstraint {
	return NarrowPhase(BroadPhase(w.SpatialGrid, w.Bodies, w.Workers), w.Workers)
}

// solvePosition runs in pair order: constraints sharing a body must not
// be solved concurrently
func (w *World) solvePosition(h float64, constraints []*constraint.ContactConstraint) {
	for _, c := range constraints {
		wakePair(c.BodyA, c.BodyB)
		c.SolvePosition(h)
	}
}

func (w *World) update(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Update(h)
	})
}

func (w *World) solveVelocity(h float64, constraints []*constraint.ContactConstraint) {
	for _, c := range constraints {
		c.SolveVelocity(h)
	}
}

// wakePair wakes a sleeping body touched by an awake dynamic one
func wakePair(a, b *actor.RigidBody) {
	if a.IsSleeping && !b.IsSleeping && b.BodyType == actor.BodyTypeDynamic {
		a.Awake()
	}
	if b.IsSleeping && !a.IsSleeping && a.BodyType == actor.BodyTypeDynamic {
		b.Awake()
	}
}

// trySleep is too cheap to be worth a task
func (w *World) trySleep(h float64) {
	for _, body := range w.Bodies {
		body.TrySleep(h, actor.SleepTimeThreshold, actor.SleepVelocityThreshold)
	}
}
