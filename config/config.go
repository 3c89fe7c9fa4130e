// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Cell       CellConfig       `yaml:"cell"`
	Connection ConnectionConfig `yaml:"connection"`
	Fat        FatConfig        `yaml:"fat"`
	Food       FoodConfig       `yaml:"food"`
	Population PopulationConfig `yaml:"population"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions and the entity capacity.
// One grid unit is one bucket of the spatial index.
type WorldConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	MaxEntities int `yaml:"max_entities"` // 0 = width * height / 2
}

// PhysicsConfig holds integration and force parameters.
type PhysicsConfig struct {
	DT                float64 `yaml:"dt"`                 // Nominal seconds per tick
	MaxDT             float64 `yaml:"max_dt"`             // Frame deltas are clamped to this
	DragCoef          float64 `yaml:"drag_coef"`          // Cubic drag: dv = -sign(v) v^2 coef dt
	BoundaryForce     float64 `yaml:"boundary_force"`     // Edge confinement strength
	BoundaryMargin    float64 `yaml:"boundary_margin"`    // Distance from an edge where confinement starts
	IntersectionForce float64 `yaml:"intersection_force"` // Soft collision strength
	CollisionEpsilon  float64 `yaml:"collision_epsilon"`  // Overlaps closer than this have no direction
	PositionEpsilon   float64 `yaml:"position_epsilon"`   // Positions are clamped to [0, size-eps]
}

// CellConfig holds per-cell metabolism parameters.
type CellConfig struct {
	DefaultSize         float64 `yaml:"default_size"`
	EnergyUseRate       float64 `yaml:"energy_use_rate"`       // Energy drain per second while active
	HealingRate         float64 `yaml:"healing_rate"`          // Max health regained per second
	HealingEnergyCost   float64 `yaml:"healing_energy_cost"`   // Energy per unit of health healed
	HealingMaterialCost float64 `yaml:"healing_material_cost"` // Material per unit of health healed
	PhotosynthesisRate  float64 `yaml:"photosynthesis_rate"`   // Energy per second below full
}

// ConnectionConfig holds spring and transfer parameters for connected cells.
type ConnectionConfig struct {
	RestLength           float64 `yaml:"rest_length"`
	Spring               float64 `yaml:"spring"`                 // Restoring force per unit of stretch
	Damping              float64 `yaml:"damping"`                // Force per unit of along-axis relative speed
	EnergyTransferRate   float64 `yaml:"energy_transfer_rate"`   // Fraction of the difference moved per second
	MaterialTransferRate float64 `yaml:"material_transfer_rate"` // Fraction of the difference moved per second
	TransferThreshold    float64 `yaml:"transfer_threshold"`     // Differences at or below this are not moved
}

// FatConfig holds the defaults given to newly created fat cells.
// Release thresholds must sit below store thresholds so the band between
// them is a dead zone.
type FatConfig struct {
	EnergyStoreThreshold     float64 `yaml:"energy_store_threshold"`
	EnergyReleaseThreshold   float64 `yaml:"energy_release_threshold"`
	EnergyStoreRate          float64 `yaml:"energy_store_rate"`
	EnergyReleaseRate        float64 `yaml:"energy_release_rate"`
	MaterialStoreThreshold   float64 `yaml:"material_store_threshold"`
	MaterialReleaseThreshold float64 `yaml:"material_release_threshold"`
	MaterialStoreRate        float64 `yaml:"material_store_rate"`
	MaterialReleaseRate      float64 `yaml:"material_release_rate"`
}

// FoodConfig holds food sizing parameters.
type FoodConfig struct {
	MinSize         float64 `yaml:"min_size"`
	MaxSize         float64 `yaml:"max_size"`
	SizePerMaterial float64 `yaml:"size_per_material"` // Size grows with sqrt(material)
}

// PopulationConfig holds initial world seeding parameters.
type PopulationConfig struct {
	Scenario      string  `yaml:"scenario"` // empty, triangle, random
	Initial       int     `yaml:"initial"`
	FatChance     float64 `yaml:"fat_chance"`
	ConnectRadius float64 `yaml:"connect_radius"` // Random scenario connects cells closer than this
	SpawnMargin   float64 `yaml:"spawn_margin"`
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // Below this many cells the compute phase runs inline
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Simulation seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
	LogInterval int     `yaml:"log_interval"` // Ticks between world state log lines (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxEntities    int     // World.MaxEntities or width*height/2
	Workers        int     // Parallel.Workers or GOMAXPROCS
	WorldW, WorldH float64 // Grid size as floats
	StatsTicks     int     // Telemetry.StatsWindow in ticks of Physics.DT
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first nonsensical value found.
func (c *Config) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world size %dx%d", ErrInvalid, c.World.Width, c.World.Height)
	case c.World.MaxEntities < 0:
		return fmt.Errorf("%w: world.max_entities %d", ErrInvalid, c.World.MaxEntities)
	case c.Physics.DT <= 0:
		return fmt.Errorf("%w: physics.dt %g", ErrInvalid, c.Physics.DT)
	case c.Physics.MaxDT < c.Physics.DT:
		return fmt.Errorf("%w: physics.max_dt %g below dt %g", ErrInvalid, c.Physics.MaxDT, c.Physics.DT)
	case c.Physics.PositionEpsilon <= 0 || c.Physics.PositionEpsilon >= 1:
		return fmt.Errorf("%w: physics.position_epsilon %g", ErrInvalid, c.Physics.PositionEpsilon)
	case c.Physics.BoundaryMargin < 0 || c.Physics.BoundaryMargin > 1:
		return fmt.Errorf("%w: physics.boundary_margin %g", ErrInvalid, c.Physics.BoundaryMargin)
	case c.Fat.EnergyReleaseThreshold >= c.Fat.EnergyStoreThreshold:
		return fmt.Errorf("%w: fat energy release threshold %g not below store threshold %g",
			ErrInvalid, c.Fat.EnergyReleaseThreshold, c.Fat.EnergyStoreThreshold)
	case c.Fat.MaterialReleaseThreshold >= c.Fat.MaterialStoreThreshold:
		return fmt.Errorf("%w: fat material release threshold %g not below store threshold %g",
			ErrInvalid, c.Fat.MaterialReleaseThreshold, c.Fat.MaterialStoreThreshold)
	case c.Food.MinSize <= 0 || c.Food.MaxSize < c.Food.MinSize:
		return fmt.Errorf("%w: food size range [%g, %g]", ErrInvalid, c.Food.MinSize, c.Food.MaxSize)
	case c.Parallel.Workers < 0:
		return fmt.Errorf("%w: parallel.workers %d", ErrInvalid, c.Parallel.Workers)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxEntities = c.World.MaxEntities
	if c.Derived.MaxEntities == 0 {
		c.Derived.MaxEntities = c.World.Width * c.World.Height / 2
	}

	c.Derived.Workers = c.Parallel.Workers
	if c.Derived.Workers == 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}

	c.Derived.WorldW = float64(c.World.Width)
	c.Derived.WorldH = float64(c.World.Height)

	c.Derived.StatsTicks = int(c.Telemetry.StatsWindow / c.Physics.DT)
	if c.Derived.StatsTicks < 1 {
		c.Derived.StatsTicks = 1
	}
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
