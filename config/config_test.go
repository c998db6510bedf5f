package config

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shatter.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// =============================================================================
// Load Tests
// =============================================================================

func TestLoad_MissingFile(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != Default() {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
[spawn]
mass = 50.0
speed = 120.0

[fracture]
impulse_threshold = 400.0
max_subdivisions = 3

[physics]
gravity = [0.0, -9.8, 0.0]
`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.Spawn.Mass != 50 || got.Spawn.Speed != 120 {
		t.Errorf("Spawn = %+v, want mass 50 speed 120", got.Spawn)
	}
	if got.Spawn.Radius != Default().Spawn.Radius {
		t.Errorf("Spawn.Radius = %v, missing keys should keep the default", got.Spawn.Radius)
	}
	if got.Fracture.ImpulseThreshold != 400 || got.Fracture.MaxSubdivisions != 3 {
		t.Errorf("Fracture = %+v", got.Fracture)
	}
	if got.Gravity() != (mgl64.Vec3{0, -9.8, 0}) {
		t.Errorf("Gravity() = %v, want (0,-9.8,0)", got.Gravity())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"unknown key", "[spawn]\ncolour = \"red\"\n", ErrUnknownKey},
		{"invalid spawn", "[spawn]\nmass = -1.0\n", ErrSpawn},
		{"invalid light", "[lights]\nambient_intensity = 2.0\n", ErrLightRange},
		{"malformed", "[spawn\nmass = 1.0\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil, want an error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Load() error = %v, want %v", err, tt.target)
			}
			if got != Default() {
				t.Error("Load() should return the defaults on error")
			}
		})
	}
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Tunables)
		target error
	}{
		{"defaults", func(*Tunables) {}, nil},
		{"zero radius", func(c *Tunables) { c.Spawn.Radius = 0 }, ErrSpawn},
		{"negative threshold", func(c *Tunables) { c.Fracture.ImpulseThreshold = -1 }, ErrFracture},
		{"negative subdivisions", func(c *Tunables) { c.Fracture.MaxSubdivisions = -1 }, ErrFracture},
		{"negative substeps", func(c *Tunables) { c.Physics.Substeps = -2 }, ErrPhysics},
		{"point light too bright", func(c *Tunables) { c.Lights.PointIntensity = 1.5 }, ErrLightRange},
		{"debug without file", func(c *Tunables) { c.Log.Debug = true; c.Log.File = "" }, ErrLogSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)

			err := c.Validate()
			if tt.target == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("Validate() = %v, want %v", err, tt.target)
			}
		})
	}
}

// =============================================================================
// Conversion Tests
// =============================================================================

func TestTunables_SubdivisionParams(t *testing.T) {
	got := Default().SubdivisionParams()
	want := scene.SubdivisionParams{MaxSubdivisions: 1, ImpactRadiusScale1: 2, ImpactRadiusScale2: 1.5, MinSizeForBreak: 20}

	if got != want {
		t.Errorf("SubdivisionParams() = %+v, want %+v", got, want)
	}
}

func TestTunables_ApplyScene(t *testing.T) {
	c := Default()
	c.Camera.AutoRotation = true
	c.Camera.AxesHelper = true
	c.Lights.AmbientIntensity = 0.2
	c.Lights.PointPosition = [3]float64{1, 2, 3}

	s := scene.New()
	c.ApplyScene(s)

	if !s.AutoRotate || !s.AxesVisible {
		t.Error("camera flags not applied")
	}
	if s.Ambient.Intensity != 0.2 {
		t.Errorf("Ambient.Intensity = %v, want 0.2", s.Ambient.Intensity)
	}
	if s.Point.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("Point.Position = %v, want (1,2,3)", s.Point.Position)
	}
}

// =============================================================================
// Bindings Tests
// =============================================================================

func findBinding(t *testing.T, bindings []Binding, label string) Binding {
	t.Helper()

	for _, b := range bindings {
		if b.Label() == label {
			return b
		}
	}
	t.Fatalf("no binding %q", label)
	return Binding{}
}

func TestBindings_Set(t *testing.T) {
	tests := []struct {
		label string
		set   float64
		want  float64
	}{
		{"Camera/Rotation Speed", 0.05, 0.05},
		{"Camera/Rotation Speed", 1, 0.1},
		{"Lights/Point Light/Y", -10, 0},
		{"Lights/Ambient Light/Intensity", 0.3, 0.3},
		{"Spawn/Mass", 250, 250},
		{"Camera/Auto rotation", 1, 1},
		{"Camera/Axes Helper", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			c := Default()
			b := findBinding(t, Bindings(&c), tt.label)

			b.Set(tt.set)

			if got := b.Value(); got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBindings_WriteThrough(t *testing.T) {
	c := Default()
	bindings := Bindings(&c)

	findBinding(t, bindings, "Spawn/Speed").Set(42)
	findBinding(t, bindings, "Lights/Point Light/X").Set(-100)

	if c.Spawn.Speed != 42 {
		t.Errorf("Spawn.Speed = %v, want 42", c.Spawn.Speed)
	}
	if c.Lights.PointPosition[0] != -100 {
		t.Errorf("PointPosition[0] = %v, want -100", c.Lights.PointPosition[0])
	}
}

func TestBindings_Nudge(t *testing.T) {
	c := Default()
	bindings := Bindings(&c)

	intensity := findBinding(t, bindings, "Lights/Ambient Light/Intensity")
	intensity.Nudge(2)
	if got := c.Lights.AmbientIntensity; got < 0.62-1e-12 || got > 0.62+1e-12 {
		t.Errorf("AmbientIntensity = %v, want 0.62", got)
	}

	rotation := findBinding(t, bindings, "Camera/Auto rotation")
	rotation.Nudge(1)
	rotation.Nudge(-1)
	rotation.Nudge(1)
	if !c.Camera.AutoRotation {
		t.Error("three nudges should leave auto rotation on")
	}
}

// =============================================================================
// Logging Tests
// =============================================================================

func restoreLog(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})
}

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	restoreLog(t)

	f, err := SetupLogging(Default().Log)
	if err != nil || f != nil {
		t.Fatalf("SetupLogging() = %v, %v, want nil, nil", f, err)
	}
	if log.Writer() != io.Discard {
		t.Errorf("log output = %v, want io.Discard", log.Writer())
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	restoreLog(t)
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := SetupLogging(LogConfig{Debug: true, Dir: dir, File: "shatter.log"})
	if err != nil {
		t.Fatalf("SetupLogging() error = %v", err)
	}
	t.Cleanup(func() { f.Close() })

	log.Println("Fracture: test")

	info, err := os.Stat(filepath.Join(dir, "shatter.log"))
	if err != nil {
		t.Fatalf("stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("log file is empty")
	}
	if log.Writer() == os.Stdout || log.Writer() == os.Stderr {
		t.Error("log output should not be a standard stream")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	restoreLog(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "shatter.log")

	if err := os.WriteFile(path, make([]byte, MaxLogSize+1), 0o644); err != nil {
		t.Fatalf("write large log: %v", err)
	}

	f, err := SetupLogging(LogConfig{Debug: true, Dir: dir, File: "shatter.log"})
	if err != nil {
		t.Fatalf("SetupLogging() error = %v", err)
	}
	t.Cleanup(func() { f.Close() })

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("found %d files, want the rotated log and a fresh one", len(entries))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log file: %v", err)
	}
	if info.Size() > MaxLogSize {
		t.Errorf("log file size = %d, should have been rotated", info.Size())
	}
}
