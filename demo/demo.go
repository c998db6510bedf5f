// Package demo assembles the tower scene shared by the example binaries:
// ground, skybox, breakable towers, a first-person camera and the fracture
// pipeline, all driven by one set of tunables.
package demo

import (
	"fmt"

	"github.com/akmonengine/shatter"
	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/breaker"
	"github.com/akmonengine/shatter/camera"
	"github.com/akmonengine/shatter/config"
	"github.com/akmonengine/shatter/fracture"
	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const TowerMass = 1000.0

var (
	TowerHalfExtents = mgl64.Vec3{50, 200, 50}

	// tower sites on the ground, (x, z)
	TowerSites = [][2]float64{{0, 0}, {-300, 250}, {300, 250}}

	CameraPosition = mgl64.Vec3{400, 400, -400}
	CameraTarget   = mgl64.Vec3{0, 400, 0}
)

type Demo struct {
	Tunables *config.Tunables

	Scene    *scene.Scene
	World    *shatter.World
	Camera   *camera.Camera
	Controls *camera.Controls

	Context *fracture.Context
	Spawner *fracture.Spawner
	Engine  *fracture.Engine
}

// New builds the scene; tunables stay shared, edits apply on the next frame
func New(t *config.Tunables, aspect float64) *Demo {
	world := shatter.NewWorld(t.Gravity(), t.Physics.Substeps)
	world.Workers = t.Physics.Workers

	s := scene.New()
	t.ApplyScene(s)
	ctx := fracture.NewContext(world, s)

	s.Add(scene.NewSkybox())
	ctx.AddStatic(scene.NewGround(), fracture.NewGroundBody())
	for i, site := range TowerSites {
		tower := scene.NewTower(fmt.Sprintf("tower.%d", i), TowerHalfExtents, site[0], site[1], TowerMass, t.SubdivisionParams())
		ctx.AddDynamic(tower, fracture.NewBoxBody(tower, TowerHalfExtents))
	}

	cam := camera.New(aspect)
	cam.Position = CameraPosition
	cam.LookAt(CameraTarget)

	return &Demo{
		Tunables: t,
		Scene:    s,
		World:    world,
		Camera:   cam,
		Controls: camera.NewControls(cam),
		Context:  ctx,
		Spawner:  fracture.NewSpawner(ctx, &t.Spawn),
		Engine:   fracture.NewEngine(ctx, breaker.New(t.Fracture.Seed), &t.Fracture),
	}
}

// Throw launches a ball through ndc
func (d *Demo) Throw(ndc mgl64.Vec2) *actor.RigidBody {
	return d.Spawner.Spawn(ndc, d.Camera)
}

func (d *Demo) Frame(dt float64, in camera.Input) {
	d.Tunables.ApplyScene(d.Scene)
	d.Controls.Update(dt, in)
	d.Engine.Step(dt)
	d.Scene.Update(dt)
}

// Status summarizes the simulation for a panel line
func (d *Demo) Status() string {
	return fmt.Sprintf("%d objects, %d bodies", d.Context.Registry.Len(), len(d.World.Bodies))
}
