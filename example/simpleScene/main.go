// Command simpleScene throws one ball at a tower and traces the impact step
// by step: overlap test, contact manifold, collision events and fractures.
package main

import (
	"flag"
	"fmt"

	"github.com/akmonengine/shatter"
	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/config"
	"github.com/akmonengine/shatter/demo"
	"github.com/akmonengine/shatter/epa"
	"github.com/akmonengine/shatter/fracture"
	"github.com/akmonengine/shatter/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	steps    = flag.Int("steps", 60, "frames to simulate")
	distance = flag.Float64("distance", 300, "distance from the camera to the tower axis")
)

// ImpactDebugger prints what the pipeline sees around an impact
type ImpactDebugger interface {
	DebugOverlap(ball, tower *actor.RigidBody, simplex *gjk.Simplex)
	DebugManifold(ball, tower *actor.RigidBody)
	DebugFracture(event fracture.FractureEvent)
}

type SimpleDebugger struct{}

func (d *SimpleDebugger) DebugOverlap(ball, tower *actor.RigidBody, simplex *gjk.Simplex) {
	fmt.Printf("   overlap: %d simplex points\n", simplex.Count)
	for i := 0; i < simplex.Count; i++ {
		fmt.Printf("   point %d: %v (distance: %.3f)\n", i, simplex.Points[i], simplex.Points[i].Len())
	}
}

func (d *SimpleDebugger) DebugManifold(ball, tower *actor.RigidBody) {
	simplex := gjk.Simplex{}
	if !gjk.GJK(tower, ball, &simplex) {
		fmt.Printf("   no overlap\n")
		return
	}
	d.DebugOverlap(ball, tower, &simplex)

	contact, err := epa.EPA(tower, ball, &simplex)
	if err != nil {
		fmt.Printf("   epa: %v\n", err)
		return
	}
	for i, p := range contact.Points {
		fmt.Printf("   contact %d: position=%v penetration=%.4f\n", i, p.Position, p.Penetration)
	}
}

func (d *SimpleDebugger) DebugFracture(event fracture.FractureEvent) {
	fmt.Printf("Fracture of %s: impulse %.1f at %v, normal %v\n", event.Object.Name, event.Impulse, event.Point, event.Normal)
	for _, f := range event.Fragments {
		fmt.Printf("   %s: position=%v mass=%.1f breakable=%v\n", f.Name, f.Position, f.Mass, f.IsBreakable())
	}
}

func main() {
	flag.Parse()

	tunables := config.Default()
	d := demo.New(&tunables, 1)
	debugger := &SimpleDebugger{}

	tower := d.Scene.FindByName("tower.0")
	towerBody := d.Context.BodyOf(tower)

	d.Camera.Position = tower.Position.Sub(mgl64.Vec3{0, 0, *distance})
	d.Camera.LookAt(tower.Position)
	d.Controls.Sync()

	d.World.Events.Subscribe(shatter.COLLISION_ENTER, func(event shatter.Event) {
		enter := event.(shatter.CollisionEnterEvent)
		fmt.Printf("   collision enter: impulse %.1f, normal %v\n", enter.Impulse, enter.Normal)
	})
	d.Engine.OnFracture = debugger.DebugFracture

	ball := d.Throw(mgl64.Vec2{})
	fmt.Printf("Ball thrown from %v at %v, threshold %.0f\n", ball.Transform.Position, ball.Velocity, tunables.Fracture.ImpulseThreshold)

	const dt = 1.0 / 60.0
	for step := 0; step < *steps; step++ {
		fmt.Printf("--- step %d ---\n", step+1)
		fmt.Printf("   ball: position=%v velocity=%v\n", ball.Transform.Position, ball.Velocity)
		if d.Scene.Contains(tower) {
			debugger.DebugManifold(ball, towerBody)
		}

		d.Engine.Step(dt)
	}

	fmt.Println(d.Status())
}
