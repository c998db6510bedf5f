// Command tower opens a window on the tower scene. Left click throws a ball
// through the cursor, C toggles the first-person controls, the panel on the
// left edits the tunables.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/akmonengine/shatter/camera"
	"github.com/akmonengine/shatter/config"
	"github.com/akmonengine/shatter/demo"
	"github.com/akmonengine/shatter/scene"
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	panelWidth = 280
	rowHeight  = 22
	axesLength = 1000
)

var configPath = flag.String("config", "shatter.toml", "tunables file")

func main() {
	flag.Parse()

	tunables, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config: %v, using defaults", err)
	}

	logFile, err := config.SetupLogging(tunables.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "shatter")
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	rl.SetClipPlanes(camera.DefaultNear, 2*camera.DefaultFar)
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)

	d := demo.New(&tunables, 1280.0/720.0)
	d.Controls.Enabled = false
	bindings := config.Bindings(&tunables)

	for !rl.WindowShouldClose() {
		width, height := rl.GetScreenWidth(), rl.GetScreenHeight()
		d.Camera.SetAspect(width, height)

		if rl.IsKeyPressed(rl.KeyC) {
			d.Controls.Enabled = !d.Controls.Enabled
		}

		mouse := rl.GetMousePosition()
		inScene := mouse.X > panelWidth
		if inScene && rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			d.Throw(toNDC(mouse, width, height))
		}

		d.Frame(float64(rl.GetFrameTime()), readInput(mouse, width, height, inScene))

		rl.BeginDrawing()
		rl.ClearBackground(rl.SkyBlue)

		rl.BeginMode3D(toRaylib(d.Camera))
		drawScene(d.Scene)
		rl.EndMode3D()

		drawPanel(bindings, d.Status(), d.Controls.Enabled, height)
		rl.EndDrawing()
	}
}

func toNDC(mouse rl.Vector2, width, height int) mgl64.Vec2 {
	return mgl64.Vec2{
		float64(mouse.X)/float64(width)*2 - 1,
		1 - float64(mouse.Y)/float64(height)*2,
	}
}

// readInput looks around with the cursor offset from the window center,
// like a first-person camera without pointer lock
func readInput(mouse rl.Vector2, width, height int, inScene bool) camera.Input {
	in := camera.Input{
		Forward:  rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		Backward: rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		Left:     rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
		Right:    rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
		Up:       rl.IsKeyDown(rl.KeyR),
		Down:     rl.IsKeyDown(rl.KeyF),
	}
	if inScene {
		in.MouseX = float64(mouse.X) - float64(width)/2
		in.MouseY = float64(mouse.Y) - float64(height)/2
	}

	return in
}

func toRaylib(c *camera.Camera) rl.Camera3D {
	target := c.Position.Add(c.Forward())

	return rl.Camera3D{
		Position:   vec3(c.Position),
		Target:     vec3(target),
		Up:         vec3(c.Up()),
		Fovy:       float32(c.FovY),
		Projection: rl.CameraPerspective,
	}
}

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func drawScene(s *scene.Scene) {
	spin := s.Orientation()

	for _, obj := range s.Objects {
		switch g := obj.Geometry.(type) {
		case *scene.SphereGeometry:
			center := spin.Rotate(obj.Position)
			rl.DrawSphere(vec3(center), float32(g.Radius), shade(s, obj.Color, s.Point.Position.Sub(center).Normalize(), center))
		case *scene.ConvexGeometry:
			drawConvex(s, obj, g, spin)
		}
	}

	if s.AxesVisible {
		rl.DrawLine3D(rl.Vector3{}, vec3(spin.Rotate(mgl64.Vec3{axesLength, 0, 0})), rl.Red)
		rl.DrawLine3D(rl.Vector3{}, vec3(spin.Rotate(mgl64.Vec3{0, axesLength, 0})), rl.Green)
		rl.DrawLine3D(rl.Vector3{}, vec3(spin.Rotate(mgl64.Vec3{0, 0, axesLength})), rl.Blue)
	}
}

// drawConvex fans every face; faces are counter-clockwise seen from outside
func drawConvex(s *scene.Scene, obj *scene.Object, g *scene.ConvexGeometry, spin mgl64.Quat) {
	for _, face := range g.Faces {
		if len(face) < 3 {
			continue
		}

		world := make([]mgl64.Vec3, len(face))
		for i, v := range face {
			world[i] = spin.Rotate(obj.ToWorld(v))
		}
		normal := world[1].Sub(world[0]).Cross(world[2].Sub(world[0]))
		if normal.LenSqr() < 1e-18 {
			continue
		}
		col := shade(s, obj.Color, normal.Normalize(), world[0])

		for i := 1; i+1 < len(world); i++ {
			rl.DrawTriangle3D(vec3(world[0]), vec3(world[i]), vec3(world[i+1]), col)
		}
	}
}

// shade is a lambert term lit by the ambient and point lights
func shade(s *scene.Scene, base color.RGBA, normal, at mgl64.Vec3) color.RGBA {
	light := s.Point.Position.Sub(at)
	diffuse := 0.0
	if light.LenSqr() > 0 {
		diffuse = math.Max(0, normal.Dot(light.Normalize()))
	}
	k := math.Min(1, s.Ambient.Intensity+s.Point.Intensity*diffuse)

	return color.RGBA{
		R: uint8(float64(base.R) * k),
		G: uint8(float64(base.G) * k),
		B: uint8(float64(base.B) * k),
		A: 255,
	}
}

func drawPanel(bindings []config.Binding, status string, controls bool, height int) {
	rl.DrawRectangle(0, 0, panelWidth, int32(height), rl.ColorAlpha(rl.Black, 0.6))

	y := float32(10)
	folder := ""
	for _, b := range bindings {
		if b.Folder != folder {
			folder = b.Folder
			rl.DrawText(folder, 10, int32(y), 16, rl.RayWhite)
			y += rowHeight
		}

		switch b.Kind {
		case config.KindBool:
			checked := b.Value() != 0
			if gui.CheckBox(rl.NewRectangle(20, y, 16, 16), b.Name, checked) != checked {
				b.Nudge(1)
			}
		default:
			rl.DrawText(b.Name, 20, int32(y), 14, rl.RayWhite)
			value := float32(b.Value())
			next := gui.Slider(rl.NewRectangle(130, y, 100, 16), "", fmt.Sprintf("%.4g", b.Value()), value, float32(b.Min), float32(b.Max))
			if next != value {
				b.Set(float64(next))
			}
		}
		y += rowHeight
	}

	mode := "off (C)"
	if controls {
		mode = "on (C)"
	}
	rl.DrawText("controls "+mode, 10, int32(y)+10, 14, rl.RayWhite)
	rl.DrawText(status, 10, int32(height)-30, 14, rl.RayWhite)
	rl.DrawFPS(panelWidth+10, 10)
}
