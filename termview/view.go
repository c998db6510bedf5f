// Package termview draws the scene in a terminal through the camera, with a
// keyboard-driven panel for the tunables.
package termview

import (
	"fmt"
	"time"

	"github.com/akmonengine/shatter/camera"
	"github.com/akmonengine/shatter/config"
	"github.com/akmonengine/shatter/scene"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	PanelWidth    = 34
	FrameInterval = 16 * time.Millisecond
	// LookStep is the mouse offset, in pixels, sent by one look key press
	LookStep = 100.0
	// cells are about twice as tall as wide
	cellAspect = 2.0
	axisLength = 200.0
)

var (
	panelStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	headerStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	vertexStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

type View struct {
	screen   tcell.Screen
	scene    *scene.Scene
	camera   *camera.Camera
	controls *camera.Controls
	bindings []config.Binding
	selected int

	// OnClick receives the ndc of a left click in the scene area
	OnClick func(ndc mgl64.Vec2)
	// Status is printed at the bottom of the panel
	Status string

	input   camera.Input
	pressed bool
	quit    bool
}

func New(screen tcell.Screen, s *scene.Scene, cam *camera.Camera, controls *camera.Controls, bindings []config.Binding) *View {
	v := &View{
		screen:   screen,
		scene:    s,
		camera:   cam,
		controls: controls,
		bindings: bindings,
	}
	v.fitCamera()

	return v
}

// Run polls events on a goroutine and calls frame then Draw on every tick,
// until quit is requested
func (v *View) Run(frame func(dt float64)) {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go v.pollEvents(events, done)

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()
	last := time.Now()

	for !v.quit {
		select {
		case ev := <-events:
			v.HandleEvent(ev)
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if frame != nil {
				frame(dt)
			}
			v.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done is closed
func (v *View) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (v *View) Quit() bool {
	return v.quit
}

// TakeInput returns the movement requested since the last call
func (v *View) TakeInput() camera.Input {
	in := v.input
	v.input = camera.Input{}

	return in
}

// Selected returns the binding adjusted by +/-
func (v *View) Selected() config.Binding {
	return v.bindings[v.selected]
}

// viewport is the scene area, left of the panel
func (v *View) viewport() (int, int) {
	w, h := v.screen.Size()
	if w-PanelWidth >= 10 {
		w -= PanelWidth
	}
	return w, h
}

func (v *View) fitCamera() {
	w, h := v.viewport()
	v.camera.SetAspect(w, int(float64(h)*cellAspect))
}

// NDC converts a cell of the scene area to normalized coordinates, +Y up
func (v *View) NDC(x, y int) (mgl64.Vec2, bool) {
	w, h := v.viewport()
	if x < 0 || y < 0 || x >= w || y >= h {
		return mgl64.Vec2{}, false
	}

	return mgl64.Vec2{
		(float64(x)+0.5)/float64(w)*2 - 1,
		1 - (float64(y)+0.5)/float64(h)*2,
	}, true
}

// Cell is the inverse of NDC
func (v *View) Cell(ndc mgl64.Vec2) (int, int, bool) {
	w, h := v.viewport()
	if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 {
		return 0, 0, false
	}

	x := min(int((ndc.X()+1)/2*float64(w)), w-1)
	y := min(int((1-ndc.Y())/2*float64(h)), h-1)
	return x, y, true
}

func (v *View) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.fitCamera()
	case *tcell.EventKey:
		v.handleKey(ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			v.pressed = false
			return
		}
		if v.pressed {
			return
		}
		v.pressed = true

		if ndc, ok := v.NDC(ev.Position()); ok && v.OnClick != nil {
			v.OnClick(ndc)
		}
	}
}

func (v *View) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.quit = true
		return
	case tcell.KeyUp:
		v.selected = (v.selected + len(v.bindings) - 1) % len(v.bindings)
		return
	case tcell.KeyDown:
		v.selected = (v.selected + 1) % len(v.bindings)
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch ev.Rune() {
	case 'q':
		v.quit = true
	case '+', '=':
		v.Selected().Nudge(1)
	case '-', '_':
		v.Selected().Nudge(-1)
	case 'r':
		for _, b := range v.bindings {
			if b.Label() == "Camera/Auto rotation" {
				b.Nudge(1)
			}
		}
	case 'c':
		v.controls.Enabled = !v.controls.Enabled
	case 'w':
		v.input.Forward = true
	case 's':
		v.input.Backward = true
	case 'a':
		v.input.Left = true
	case 'd':
		v.input.Right = true
	case 'j':
		v.input.MouseX -= LookStep
	case 'l':
		v.input.MouseX += LookStep
	}
}

func (v *View) Draw() {
	v.screen.Clear()
	v.drawScene()
	v.drawPanel()
	v.screen.Show()
}

func (v *View) drawScene() {
	spin := v.scene.Orientation()

	for _, obj := range v.scene.Objects {
		// ground and skybox enclose the camera
		if obj.Geometry == nil || obj.Geometry.BoundingRadius() >= scene.SkyboxSize/2 {
			continue
		}

		if g, ok := obj.Geometry.(*scene.ConvexGeometry); ok {
			for _, vertex := range g.Vertices() {
				v.plot(spin.Rotate(obj.ToWorld(vertex)), '.', vertexStyle)
			}
		}

		r, g, b := obj.Color.R, obj.Color.G, obj.Color.B
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		v.plot(spin.Rotate(obj.Position), glyph(obj), style)
	}

	if v.scene.AxesVisible {
		v.plot(mgl64.Vec3{}, '+', panelStyle)
		for i, name := range []rune{'x', 'y', 'z'} {
			tip := mgl64.Vec3{}
			tip[i] = axisLength
			v.plot(spin.Rotate(tip), name, headerStyle)
		}
	}
}

func glyph(obj *scene.Object) rune {
	switch {
	case obj.IsBreakable():
		return '#'
	case isSphere(obj):
		return 'o'
	default:
		return '*'
	}
}

func isSphere(obj *scene.Object) bool {
	_, ok := obj.Geometry.(*scene.SphereGeometry)
	return ok
}

func (v *View) plot(world mgl64.Vec3, r rune, style tcell.Style) {
	ndc, ok := v.camera.Project(world)
	if !ok {
		return
	}
	if x, y, ok := v.Cell(ndc); ok {
		v.screen.SetContent(x, y, r, nil, style)
	}
}

func (v *View) drawPanel() {
	w, h := v.viewport()
	sw, _ := v.screen.Size()
	if w == sw {
		return
	}

	x := w + 1
	y := 0
	folder := ""
	for i, b := range v.bindings {
		if b.Folder != folder {
			folder = b.Folder
			v.drawText(x, y, folder, headerStyle)
			y++
		}

		style := panelStyle
		if i == v.selected {
			style = selectedStyle
		}
		v.drawText(x, y, fmt.Sprintf(" %-18s %10s", b.Name, formatValue(b)), style)
		y++
	}

	y++
	controls := "off"
	if v.controls.Enabled {
		controls = "on"
	}
	for _, line := range []string{
		"up/down select  +/- adjust",
		"r rotation  c controls (" + controls + ")",
		"wasd move  j/l look  q quit",
		"click to throw a ball",
	} {
		v.drawText(x, y, line, panelStyle)
		y++
	}

	if v.Status != "" {
		v.drawText(x, h-1, v.Status, headerStyle)
	}
}

func formatValue(b config.Binding) string {
	if b.Kind == config.KindBool {
		if b.Value() != 0 {
			return "on"
		}
		return "off"
	}
	return fmt.Sprintf("%.4g", b.Value())
}

func (v *View) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
