package fracture

import (
	"fmt"

	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/config"
	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// SpeedScale converts the configured speed into units/s
const SpeedScale = 24.0

// Spawner throws balls along camera rays
type Spawner struct {
	ctx      *Context
	settings *config.SpawnConfig

	count int
}

// NewSpawner reads settings on every Spawn, so panel edits apply to the next ball
func NewSpawner(ctx *Context, settings *config.SpawnConfig) *Spawner {
	return &Spawner{ctx: ctx, settings: settings}
}

// Spawn launches a ball through ndc, coordinates in [-1, 1] with +Y up.
// The ball starts one unit along the ray from its origin.
func (s *Spawner) Spawn(ndc mgl64.Vec2, cam RayCaster) *actor.RigidBody {
	ray := cam.Ray(ndc)

	ball := scene.NewObject(fmt.Sprintf("ball.%d", s.count), &scene.SphereGeometry{Radius: s.settings.Radius}, ray.Origin.Add(ray.Direction))
	ball.CastShadow = true
	ball.ReceiveShadow = true
	ball.Mass = s.settings.Mass
	ball.Velocity = ray.Direction.Mul(s.settings.Speed * SpeedScale)
	ball.Fracture = scene.Inert{}
	s.count++

	body := NewBody(ball, NewShape(ball.Geometry))
	s.ctx.AddDynamic(ball, body)

	return body
}
