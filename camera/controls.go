package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultMovementSpeed = 400.0
	DefaultLookSpeed     = 0.3
	maxLatitude          = 85.0
)

// Input is the state sampled once per frame. MouseX and MouseY are offsets
// from the view center, in pixels.
type Input struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool

	MouseX, MouseY float64
}

// Controls moves a camera like a first-person walker. The mouse offset from the
// view center turns the camera, keys move it along its axes.
type Controls struct {
	Camera *Camera

	MovementSpeed float64
	LookSpeed     float64
	// NoFly keeps the height constant: vertical keys are ignored and forward
	// moves stay horizontal
	NoFly        bool
	LookVertical bool
	Enabled      bool

	lat, lon float64 // degrees
}

// NewControls starts from the current orientation of cam
func NewControls(cam *Camera) *Controls {
	c := &Controls{
		Camera:        cam,
		MovementSpeed: DefaultMovementSpeed,
		LookSpeed:     DefaultLookSpeed,
		NoFly:         true,
		Enabled:       true,
	}
	c.Sync()

	return c
}

// Sync reads the angles back from the camera, after a LookAt for instance
func (c *Controls) Sync() {
	forward := c.Camera.Forward()
	c.lat = mgl64.RadToDeg(math.Asin(mgl64.Clamp(forward.Y(), -1, 1)))
	c.lon = mgl64.RadToDeg(math.Atan2(forward.Z(), forward.X()))
}

// Angles returns latitude and longitude in degrees
func (c *Controls) Angles() (lat, lon float64) {
	return c.lat, c.lon
}

func (c *Controls) Update(dt float64, in Input) {
	if !c.Enabled || c.Camera == nil {
		return
	}

	move := dt * c.MovementSpeed
	forward := c.Camera.Forward()
	if c.NoFly {
		forward = mgl64.Vec3{forward.X(), 0, forward.Z()}
		if forward.LenSqr() > 1e-12 {
			forward = forward.Normalize()
		}
	}
	right := c.Camera.Right()

	position := c.Camera.Position
	if in.Forward {
		position = position.Add(forward.Mul(move))
	}
	if in.Backward {
		position = position.Sub(forward.Mul(move))
	}
	if in.Right {
		position = position.Add(right.Mul(move))
	}
	if in.Left {
		position = position.Sub(right.Mul(move))
	}
	if !c.NoFly {
		if in.Up {
			position = position.Add(mgl64.Vec3{0, move, 0})
		}
		if in.Down {
			position = position.Sub(mgl64.Vec3{0, move, 0})
		}
	}
	c.Camera.Position = position

	look := dt * c.LookSpeed
	c.lon += in.MouseX * look
	if c.LookVertical {
		c.lat -= in.MouseY * look
	}
	c.lat = mgl64.Clamp(c.lat, -maxLatitude, maxLatitude)

	phi := mgl64.DegToRad(90 - c.lat)
	theta := mgl64.DegToRad(c.lon)
	direction := mgl64.Vec3{
		math.Sin(phi) * math.Cos(theta),
		math.Cos(phi),
		math.Sin(phi) * math.Sin(theta),
	}
	c.Camera.LookAt(position.Add(direction))
}
