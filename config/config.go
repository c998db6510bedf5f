// Package config holds the tunables of the demo: camera, lights, spawned
// projectiles, fracture and physics settings. They load from a TOML file and
// are exposed to the debug panels as bindings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/akmonengine/shatter/scene"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrUnknownKey  = errors.New("unknown key")
	ErrSpawn       = errors.New("invalid spawn settings")
	ErrFracture    = errors.New("invalid fracture settings")
	ErrPhysics     = errors.New("invalid physics settings")
	ErrLightRange  = errors.New("light intensity out of range")
	ErrLogSettings = errors.New("invalid log settings")
)

type Tunables struct {
	Camera   CameraConfig   `toml:"camera"`
	Lights   LightsConfig   `toml:"lights"`
	Spawn    SpawnConfig    `toml:"spawn"`
	Fracture FractureConfig `toml:"fracture"`
	Physics  PhysicsConfig  `toml:"physics"`
	Log      LogConfig      `toml:"log"`
}

type CameraConfig struct {
	AutoRotation  bool    `toml:"auto_rotation"`
	RotationSpeed float64 `toml:"rotation_speed"`
	AxesHelper    bool    `toml:"axes_helper"`
}

type LightsConfig struct {
	AmbientIntensity float64    `toml:"ambient_intensity"`
	PointIntensity   float64    `toml:"point_intensity"`
	PointPosition    [3]float64 `toml:"point_position"`
}

// SpawnConfig describes the balls thrown on click
type SpawnConfig struct {
	Mass   float64 `toml:"mass"`
	Speed  float64 `toml:"speed"`
	Radius float64 `toml:"radius"`
}

type FractureConfig struct {
	ImpulseThreshold   float64 `toml:"impulse_threshold"`
	MaxSubdivisions    int     `toml:"max_subdivisions"`
	ImpactRadiusScale1 float64 `toml:"impact_radius_scale1"`
	ImpactRadiusScale2 float64 `toml:"impact_radius_scale2"`
	MinSizeForBreak    float64 `toml:"min_size_for_break"`
	Seed               uint64  `toml:"seed"`
}

type PhysicsConfig struct {
	Gravity  [3]float64 `toml:"gravity"`
	Substeps int        `toml:"substeps"`
	Workers  int        `toml:"workers"`
}

type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
	File  string `toml:"file"`
}

func Default() Tunables {
	return Tunables{
		Camera: CameraConfig{
			RotationSpeed: scene.DefaultRotationSpeed,
		},
		Lights: LightsConfig{
			AmbientIntensity: 0.6,
			PointIntensity:   0.6,
			PointPosition:    [3]float64{3000, 6000, 0},
		},
		Spawn: SpawnConfig{
			Mass:   100,
			Speed:  100,
			Radius: 10,
		},
		Fracture: FractureConfig{
			ImpulseThreshold:   250,
			MaxSubdivisions:    1,
			ImpactRadiusScale1: 2,
			ImpactRadiusScale2: 1.5,
			MinSizeForBreak:    20,
			Seed:               1,
		},
		Physics: PhysicsConfig{
			Gravity:  [3]float64{0, -7.8, 0},
			Substeps: 10,
			Workers:  1,
		},
		Log: LogConfig{
			Dir:  "logs",
			File: "shatter.log",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Tunables, error) {
	t := Default()

	md, err := toml.DecodeFile(path, &t)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("config: %s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}

	if err := t.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}

	return t, nil
}

func (t Tunables) Validate() error {
	if t.Spawn.Mass <= 0 || t.Spawn.Radius <= 0 || t.Spawn.Speed < 0 {
		return fmt.Errorf("%w: mass %v, radius %v, speed %v", ErrSpawn, t.Spawn.Mass, t.Spawn.Radius, t.Spawn.Speed)
	}

	f := t.Fracture
	if f.ImpulseThreshold < 0 || f.MaxSubdivisions < 0 || f.MinSizeForBreak < 0 || f.ImpactRadiusScale1 < 0 || f.ImpactRadiusScale2 < 0 {
		return fmt.Errorf("%w: %+v", ErrFracture, f)
	}

	if t.Physics.Substeps < 0 || t.Physics.Workers < 0 {
		return fmt.Errorf("%w: substeps %d, workers %d", ErrPhysics, t.Physics.Substeps, t.Physics.Workers)
	}

	for _, intensity := range []float64{t.Lights.AmbientIntensity, t.Lights.PointIntensity} {
		if intensity < 0 || intensity > 1 {
			return fmt.Errorf("%w: %v", ErrLightRange, intensity)
		}
	}

	if t.Log.Debug && t.Log.File == "" {
		return fmt.Errorf("%w: debug logging needs a file name", ErrLogSettings)
	}

	return nil
}

func (t Tunables) SubdivisionParams() scene.SubdivisionParams {
	return scene.SubdivisionParams{
		MaxSubdivisions:    t.Fracture.MaxSubdivisions,
		ImpactRadiusScale1: t.Fracture.ImpactRadiusScale1,
		ImpactRadiusScale2: t.Fracture.ImpactRadiusScale2,
		MinSizeForBreak:    t.Fracture.MinSizeForBreak,
	}
}

func (t Tunables) Gravity() mgl64.Vec3 {
	return mgl64.Vec3(t.Physics.Gravity)
}

// ApplyScene copies the camera and light settings into s
func (t Tunables) ApplyScene(s *scene.Scene) {
	s.AutoRotate = t.Camera.AutoRotation
	s.RotationSpeed = t.Camera.RotationSpeed
	s.AxesVisible = t.Camera.AxesHelper

	s.Ambient.Intensity = t.Lights.AmbientIntensity
	s.Point.Intensity = t.Lights.PointIntensity
	s.Point.Position = mgl64.Vec3(t.Lights.PointPosition)
}
