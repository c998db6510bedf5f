package config

import "github.com/go-gl/mathgl/mgl64"

type Kind int

const (
	KindFloat Kind = iota
	KindBool
)

// Binding is a panel control writing straight into a Tunables field
type Binding struct {
	Folder string
	Name   string
	Kind   Kind
	// Min and Max bound float bindings
	Min, Max float64

	float   *float64
	boolean *bool
}

func floatBinding(folder, name string, v *float64, min, max float64) Binding {
	return Binding{Folder: folder, Name: name, Kind: KindFloat, Min: min, Max: max, float: v}
}

func boolBinding(folder, name string, v *bool) Binding {
	return Binding{Folder: folder, Name: name, Kind: KindBool, Max: 1, boolean: v}
}

// Bindings lists the panel controls of t, in display order
func Bindings(t *Tunables) []Binding {
	return []Binding{
		boolBinding("Camera", "Auto rotation", &t.Camera.AutoRotation),
		floatBinding("Camera", "Rotation Speed", &t.Camera.RotationSpeed, -0.1, 0.1),
		boolBinding("Camera", "Axes Helper", &t.Camera.AxesHelper),

		floatBinding("Lights/Ambient Light", "Intensity", &t.Lights.AmbientIntensity, 0, 1),
		floatBinding("Lights/Point Light", "Intensity", &t.Lights.PointIntensity, 0, 1),
		floatBinding("Lights/Point Light", "X", &t.Lights.PointPosition[0], -5000, 5000),
		floatBinding("Lights/Point Light", "Y", &t.Lights.PointPosition[1], 0, 10000),
		floatBinding("Lights/Point Light", "Z", &t.Lights.PointPosition[2], -5000, 5000),

		floatBinding("Spawn", "Mass", &t.Spawn.Mass, 1, 1000),
		floatBinding("Spawn", "Speed", &t.Spawn.Speed, 1, 500),
		floatBinding("Spawn", "Radius", &t.Spawn.Radius, 1, 100),

		floatBinding("Fracture", "Impulse Threshold", &t.Fracture.ImpulseThreshold, 0, 2000),
	}
}

func (b Binding) Label() string {
	return b.Folder + "/" + b.Name
}

func (b Binding) Value() float64 {
	switch b.Kind {
	case KindBool:
		if *b.boolean {
			return 1
		}
		return 0
	default:
		return *b.float
	}
}

// Set clamps v into [Min, Max]. Bool bindings are set for any non-zero value.
func (b Binding) Set(v float64) {
	switch b.Kind {
	case KindBool:
		*b.boolean = v != 0
	default:
		*b.float = mgl64.Clamp(v, b.Min, b.Max)
	}
}

// Step is the increment used by keyboard-driven panels
func (b Binding) Step() float64 {
	if b.Kind == KindBool {
		return 1
	}
	return (b.Max - b.Min) / 100
}

// Nudge moves the value by n steps. Bool bindings flip instead.
func (b Binding) Nudge(n int) {
	if b.Kind == KindBool {
		if n != 0 {
			*b.boolean = !*b.boolean
		}
		return
	}
	b.Set(b.Value() + float64(n)*b.Step())
}
