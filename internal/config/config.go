package config

import (
	"errors"
	"fmt"
	"os"

	"sandbox3d/internal/loop"
	"sandbox3d/internal/physics"
	"sandbox3d/internal/ragdoll"
	"sandbox3d/internal/spawn"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid value")

const (
	DefaultWidth        = 1280
	DefaultHeight       = 720
	DefaultTitle        = "sandbox3d"
	DefaultTemplatePath = "assets/templates/sausage.yaml"
	DefaultBallTemplate = "assets/templates/ball.yaml"
)

type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Physics PhysicsConfig `yaml:"physics"`
	Spawn   SpawnConfig   `yaml:"spawn"`
	Chain   ChainConfig   `yaml:"chain"`
	Debug   DebugConfig   `yaml:"debug"`
	Loop    LoopConfig    `yaml:"loop"`
}

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int    `yaml:"target_fps"`
}

type PhysicsConfig struct {
	Gravity         [3]float32 `yaml:"gravity,flow"`
	Timestep        float32    `yaml:"timestep"`
	Substeps        int        `yaml:"substeps"`
	JointIterations int        `yaml:"joint_iterations"`
	Friction        float32    `yaml:"friction"`
	// GroundHalfSize is the half extents of the ground slab
	GroundHalfSize [3]float32 `yaml:"ground_half_size,flow"`
}

type SpawnConfig struct {
	Mode           string  `yaml:"mode"`
	BallRadius     float32 `yaml:"ball_radius"`
	SurfaceOffset  float32 `yaml:"surface_offset"`
	MaxRayDistance float32 `yaml:"max_ray_distance"`
	BallTemplate   string  `yaml:"ball_template"`
}

type ChainConfig struct {
	Template      string  `yaml:"template"`
	SegmentLength float32 `yaml:"segment_length"`
	Radius        float32 `yaml:"radius"`
	JointScale    float32 `yaml:"joint_scale"`
}

type DebugConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LoopConfig struct {
	StrictBindings bool `yaml:"strict_bindings"`
}

func DefaultConfig() *Config {
	p := physics.DefaultConfig()
	s := spawn.DefaultConfig()
	r := ragdoll.DefaultConfig()
	return &Config{
		Window: WindowConfig{
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			Title:     DefaultTitle,
			TargetFPS: 60,
		},
		Physics: PhysicsConfig{
			Gravity:         vec(p.Gravity),
			Timestep:        p.Timestep,
			Substeps:        p.Substeps,
			JointIterations: p.JointIterations,
			Friction:        p.Friction,
			GroundHalfSize:  vec(p.GroundHalfSize),
		},
		Spawn: SpawnConfig{
			Mode:           s.Mode.String(),
			BallRadius:     s.BallRadius,
			SurfaceOffset:  s.SurfaceOffset,
			MaxRayDistance: s.MaxRayDistance,
			BallTemplate:   DefaultBallTemplate,
		},
		Chain: ChainConfig{
			Template:      DefaultTemplatePath,
			SegmentLength: r.SegmentLength,
			Radius:        r.Radius,
			JointScale:    r.JointScale,
		},
	}
}

// Load reads path on top of the defaults, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Physics.Timestep <= 0:
		return fmt.Errorf("%w: timestep %v", ErrInvalidConfig, c.Physics.Timestep)
	case c.Physics.Substeps < 1:
		return fmt.Errorf("%w: substeps %d", ErrInvalidConfig, c.Physics.Substeps)
	case c.Physics.JointIterations < 1:
		return fmt.Errorf("%w: joint iterations %d", ErrInvalidConfig, c.Physics.JointIterations)
	case c.Spawn.BallRadius <= 0:
		return fmt.Errorf("%w: ball radius %v", ErrInvalidConfig, c.Spawn.BallRadius)
	case c.Spawn.MaxRayDistance <= 0:
		return fmt.Errorf("%w: max ray distance %v", ErrInvalidConfig, c.Spawn.MaxRayDistance)
	case c.Chain.Radius <= 0 || c.Chain.SegmentLength < 2*c.Chain.Radius:
		return fmt.Errorf("%w: chain segment %v with radius %v", ErrInvalidConfig, c.Chain.SegmentLength, c.Chain.Radius)
	case c.Chain.JointScale <= 0:
		return fmt.Errorf("%w: joint scale %v", ErrInvalidConfig, c.Chain.JointScale)
	}
	if _, err := spawn.ParseMode(c.Spawn.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) PhysicsConfig() physics.Config {
	p := physics.DefaultConfig()
	p.Gravity = toVector(c.Physics.Gravity)
	p.Timestep = c.Physics.Timestep
	p.Substeps = c.Physics.Substeps
	p.JointIterations = c.Physics.JointIterations
	p.Friction = c.Physics.Friction
	p.GroundHalfSize = toVector(c.Physics.GroundHalfSize)
	return p
}

// SpawnConfig converts the spawn section. An unparsable mode falls back to
// balls; Validate reports it.
func (c *Config) SpawnConfig() spawn.Config {
	mode, err := spawn.ParseMode(c.Spawn.Mode)
	if err != nil {
		mode = spawn.ModeBall
	}
	return spawn.Config{
		BallRadius:     c.Spawn.BallRadius,
		SurfaceOffset:  c.Spawn.SurfaceOffset,
		MaxRayDistance: c.Spawn.MaxRayDistance,
		Mode:           mode,
	}
}

func (c *Config) ChainConfig() ragdoll.Config {
	return ragdoll.Config{
		SegmentLength: c.Chain.SegmentLength,
		Radius:        c.Chain.Radius,
		JointScale:    c.Chain.JointScale,
	}
}

func (c *Config) LoopConfig() loop.Config {
	return loop.Config{StrictBindings: c.Loop.StrictBindings}
}

func vec(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func toVector(a [3]float32) rl.Vector3 {
	return rl.Vector3{X: a[0], Y: a[1], Z: a[2]}
}
