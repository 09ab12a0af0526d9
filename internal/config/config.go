// Package config loads and validates the FruitFrenzy game configuration.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every tunable the game reads at startup. Values come from an
// optional YAML file plus environment overrides; anything unset falls back to
// the defaults below.
type Config struct {
	Screen     ScreenConfig     `mapstructure:"screen"`
	Physics    PhysicsConfig    `mapstructure:"physics"`
	Spawn      SpawnConfig      `mapstructure:"spawn"`
	Difficulty DifficultyConfig `mapstructure:"difficulty"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	PowerUps   PowerUpConfig    `mapstructure:"powerups"`
	Tracker    TrackerConfig    `mapstructure:"tracker"`
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
}

// ScreenConfig describes the logical game surface and frame pacing.
type ScreenConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	FPS    int `mapstructure:"fps"`
}

// PhysicsConfig holds the per-frame kinematics constants.
type PhysicsConfig struct {
	Gravity    float64 `mapstructure:"gravity"`
	MaxFrameDT float64 `mapstructure:"max_frame_dt"`
}

// SpawnConfig holds the initial spawn policy for all entity kinds.
type SpawnConfig struct {
	InitialInterval    float64 `mapstructure:"initial_interval"`
	MinInterval        float64 `mapstructure:"min_interval"`
	InitialPerBatch    int     `mapstructure:"initial_per_batch"`
	MaxPerBatch        int     `mapstructure:"max_per_batch"`
	BombProbability    float64 `mapstructure:"bomb_probability"`
	MaxBombProbability float64 `mapstructure:"max_bomb_probability"`
	PowerUpProbability float64 `mapstructure:"powerup_probability"`
	GiantProbability   float64 `mapstructure:"giant_probability"`
}

// DifficultyConfig controls the wall-clock difficulty ramp.
type DifficultyConfig struct {
	Interval         float64 `mapstructure:"interval"`
	IntervalDecrease float64 `mapstructure:"interval_decrease"`
	PerBatchIncrease int     `mapstructure:"per_batch_increase"`
	BombProbIncrease float64 `mapstructure:"bomb_prob_increase"`
}

// ScoringConfig holds base points, combo parameters, and lives.
type ScoringConfig struct {
	ComboWindow     float64     `mapstructure:"combo_window"`
	ComboThresholds map[int]int `mapstructure:"combo_thresholds"`
	StartingLives   int         `mapstructure:"starting_lives"`
	LightningBonus  int         `mapstructure:"lightning_bonus"`
}

// PowerUpConfig holds the effect durations and magnitudes.
type PowerUpConfig struct {
	IceDuration    float64 `mapstructure:"ice_duration"`
	IceSlowFactor  float64 `mapstructure:"ice_slow_factor"`
	FireRadius     float64 `mapstructure:"fire_radius"`
	MagnetDuration float64 `mapstructure:"magnet_duration"`
	MagnetStrength float64 `mapstructure:"magnet_strength"`
	ShieldDuration float64 `mapstructure:"shield_duration"`
}

// TrackerConfig holds the hand-tracking parameters.
type TrackerConfig struct {
	CameraID        int     `mapstructure:"camera_id"`
	TrailLength     int     `mapstructure:"trail_length"`
	SmoothingFactor float64 `mapstructure:"smoothing_factor"`
	SliceMinSpeed   float64 `mapstructure:"slice_min_speed"`
	MotionThreshold float64 `mapstructure:"motion_threshold"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
}

// StoreConfig holds the persistence settings.
type StoreConfig struct {
	Path      string `mapstructure:"path"`
	MaxScores int    `mapstructure:"max_scores"`
}

// setDefaults registers the canonical game constants with viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("screen.width", 800)
	v.SetDefault("screen.height", 600)
	v.SetDefault("screen.fps", 60)

	v.SetDefault("physics.gravity", 0.35)
	v.SetDefault("physics.max_frame_dt", 0.05)

	v.SetDefault("spawn.initial_interval", 1.2)
	v.SetDefault("spawn.min_interval", 0.4)
	v.SetDefault("spawn.initial_per_batch", 2)
	v.SetDefault("spawn.max_per_batch", 6)
	v.SetDefault("spawn.bomb_probability", 0.12)
	v.SetDefault("spawn.max_bomb_probability", 0.35)
	v.SetDefault("spawn.powerup_probability", 0.06)
	v.SetDefault("spawn.giant_probability", 0.04)

	v.SetDefault("difficulty.interval", 30.0)
	v.SetDefault("difficulty.interval_decrease", 0.1)
	v.SetDefault("difficulty.per_batch_increase", 1)
	v.SetDefault("difficulty.bomb_prob_increase", 0.02)

	v.SetDefault("scoring.combo_window", 0.5)
	v.SetDefault("scoring.combo_thresholds", map[int]int{3: 2, 5: 3, 8: 5})
	v.SetDefault("scoring.starting_lives", 3)
	v.SetDefault("scoring.lightning_bonus", 50)

	v.SetDefault("powerups.ice_duration", 3.0)
	v.SetDefault("powerups.ice_slow_factor", 0.4)
	v.SetDefault("powerups.fire_radius", 120.0)
	v.SetDefault("powerups.magnet_duration", 4.0)
	v.SetDefault("powerups.magnet_strength", 0.6)
	v.SetDefault("powerups.shield_duration", 6.0)

	v.SetDefault("tracker.camera_id", 0)
	v.SetDefault("tracker.trail_length", 20)
	v.SetDefault("tracker.smoothing_factor", 0.4)
	v.SetDefault("tracker.slice_min_speed", 8.0)
	v.SetDefault("tracker.motion_threshold", 1.0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "")

	v.SetDefault("store.path", "")
	v.SetDefault("store.max_scores", 5)
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults are static and always valid; a failure here is a bug.
		panic(err)
	}
	return cfg
}

// Load reads the configuration from the given YAML file, applying defaults
// for anything unset. An empty path loads pure defaults. Environment
// variables prefixed with FRUITFRENZY_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FRUITFRENZY")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects configurations that would put the game into undefined
// territory. These are programmer errors, caught at construction time rather
// than handled at runtime.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen dimensions must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Screen.FPS)
	}
	if c.Physics.MaxFrameDT <= 0 {
		return fmt.Errorf("max_frame_dt must be positive, got %v", c.Physics.MaxFrameDT)
	}
	if c.Spawn.MinInterval > c.Spawn.InitialInterval {
		return fmt.Errorf("spawn interval floor %v above initial interval %v",
			c.Spawn.MinInterval, c.Spawn.InitialInterval)
	}
	if c.Spawn.InitialPerBatch > c.Spawn.MaxPerBatch {
		return fmt.Errorf("initial batch size %d above ceiling %d",
			c.Spawn.InitialPerBatch, c.Spawn.MaxPerBatch)
	}
	if c.Spawn.InitialPerBatch < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.Spawn.InitialPerBatch)
	}
	if c.Spawn.BombProbability > c.Spawn.MaxBombProbability {
		return fmt.Errorf("bomb probability %v above cap %v",
			c.Spawn.BombProbability, c.Spawn.MaxBombProbability)
	}
	if c.Scoring.ComboWindow <= 0 {
		return fmt.Errorf("combo window must be positive, got %v", c.Scoring.ComboWindow)
	}
	if len(c.Scoring.ComboThresholds) == 0 {
		return fmt.Errorf("combo threshold table must not be empty")
	}
	if c.Scoring.StartingLives < 1 {
		return fmt.Errorf("starting lives must be at least 1, got %d", c.Scoring.StartingLives)
	}
	if c.PowerUps.IceSlowFactor <= 0 || c.PowerUps.IceSlowFactor > 1 {
		return fmt.Errorf("ice slow factor must be in (0,1], got %v", c.PowerUps.IceSlowFactor)
	}
	if c.Tracker.TrailLength < 2 {
		return fmt.Errorf("trail length must be at least 2, got %d", c.Tracker.TrailLength)
	}
	if c.Tracker.SmoothingFactor < 0 || c.Tracker.SmoothingFactor >= 1 {
		return fmt.Errorf("smoothing factor must be in [0,1), got %v", c.Tracker.SmoothingFactor)
	}
	if c.Store.MaxScores < 1 {
		return fmt.Errorf("max scores must be at least 1, got %d", c.Store.MaxScores)
	}
	return nil
}
