package shatter

import (
	"unsafe"

	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
	ON_SLEEP
	ON_WAKE
)

type pairKey struct {
	bodyA *actor.RigidBody
	bodyB *actor.RigidBody
}

// makePairKey orders the bodies so (A, B) and (B, A) share a key
func makePairKey(bodyA, bodyB *actor.RigidBody) pairKey {
	if uintptr(unsafe.Pointer(bodyB)) < uintptr(unsafe.Pointer(bodyA)) {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

func (k pairKey) involves(body *actor.RigidBody) bool {
	return k.bodyA == body || k.bodyB == body
}

type EventType uint8

type Event interface {
	Type() EventType
}

type TriggerEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// CollisionEnterEvent carries the strongest impulse seen during the step
// and the contact normal (from BodyA toward BodyB)
type CollisionEnterEvent struct {
	BodyA   *actor.RigidBody
	BodyB   *actor.RigidBody
	Normal  mgl64.Vec3
	Impulse float64
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA   *actor.RigidBody
	BodyB   *actor.RigidBody
	Normal  mgl64.Vec3
	Impulse float64
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

type EventListener func(event Event)

// Events dispatches collision, trigger and sleep events once per World.Step
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	previousActivePairs map[pairKey]bool
	// current step contacts, strongest manifold per pair
	currentActivePairs map[pairKey]*constraint.ContactConstraint

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]*constraint.ContactConstraint),
		sleepStates:         make(map[*actor.RigidBody]bool),
	}
}

func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollisions marks the pairs of this substep as active and returns the
// constraints to solve, without triggers
func (e *Events) recordCollisions(constraints []*constraint.ContactConstraint) []*constraint.ContactConstraint {
	n := 0
	for _, c := range constraints {
		pair := makePairKey(c.BodyA, c.BodyB)
		if _, ok := e.currentActivePairs[pair]; !ok {
			e.currentActivePairs[pair] = c
		}

		if !c.BodyA.IsTrigger && !c.BodyB.IsTrigger {
			constraints[n] = c
			n++
		}
	}

	return constraints[:n]
}

// recordImpulse keeps c as the pair's manifold when it was hit harder than the
// one recorded so far. Called after the constraints are solved.
func (e *Events) recordImpulse(c *constraint.ContactConstraint) {
	pair := makePairKey(c.BodyA, c.BodyB)
	if current, ok := e.currentActivePairs[pair]; !ok || current == c || c.MaxAppliedImpulse() > current.MaxAppliedImpulse() {
		e.currentActivePairs[pair] = c
	}
}

// forget drops every record of body, used when it leaves the world
func (e *Events) forget(body *actor.RigidBody) {
	delete(e.sleepStates, body)
	for pair := range e.previousActivePairs {
		if pair.involves(body) {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.involves(body) {
			delete(e.currentActivePairs, pair)
		}
	}
}

func (e *Events) processCollisionEvents() {
	for pair, c := range e.currentActivePairs {
		if pair.bodyA.IsSleeping && pair.bodyB.IsSleeping {
			continue
		}

		isTrigger := pair.bodyA.IsTrigger || pair.bodyB.IsTrigger
		stay := e.previousActivePairs[pair]

		switch {
		case isTrigger && stay:
			e.buffer = append(e.buffer, TriggerStayEvent{BodyA: c.BodyA, BodyB: c.BodyB})
		case isTrigger:
			e.buffer = append(e.buffer, TriggerEnterEvent{BodyA: c.BodyA, BodyB: c.BodyB})
		case stay:
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: c.BodyA, BodyB: c.BodyB, Normal: c.Normal, Impulse: c.MaxAppliedImpulse()})
		default:
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: c.BodyA, BodyB: c.BodyB, Normal: c.Normal, Impulse: c.MaxAppliedImpulse()})
		}
	}

	for pair := range e.previousActivePairs {
		if _, ok := e.currentActivePairs[pair]; ok {
			continue
		}

		if pair.bodyA.IsTrigger || pair.bodyB.IsTrigger {
			e.buffer = append(e.buffer, TriggerExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	clear(e.previousActivePairs)
	for pair := range e.currentActivePairs {
		e.previousActivePairs[pair] = true
	}
	clear(e.currentActivePairs)
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

// flush dispatches the buffered events to the listeners
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
