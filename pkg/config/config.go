// Package config loads and saves the planner configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"trajplan/pkg/dynamics"
)

// Config holds the application configuration.
type Config struct {
	Planner       PlannerConfig       `yaml:"planner"`
	Dynamics      DynamicsConfig      `yaml:"dynamics"`
	Terrain       TerrainConfig       `yaml:"terrain"`
	Mission       MissionConfig       `yaml:"mission"`
	Log           LogConfig           `yaml:"log"`
	DB            DBConfig            `yaml:"db"`
	Output        OutputConfig        `yaml:"output"`
	GroundStation GroundStationConfig `yaml:"ground_station"`
}

// PlannerConfig holds search tunables.
type PlannerConfig struct {
	Neighborhood    Distance `yaml:"neighborhood"`     // goal radius
	ArenaCapacity   int      `yaml:"arena_capacity"`   // nodes reserved up front, 0 grows on demand
	ChildSpeed      float64  `yaml:"child_speed"`      // m/s for spawned nodes, 0 carries the parent speed
	MaxExpansions   int      `yaml:"max_expansions"`   // 0 is unbounded
	HeuristicWeight float64  `yaml:"heuristic_weight"` // 1 is plain A*
	ClimbWeight     float64  `yaml:"climb_weight"`     // cost per metre of altitude change
	CellResolution  int      `yaml:"cell_resolution"`  // H3 resolution for the closed set
	HeadingBin      float64  `yaml:"heading_bin"`      // degrees
	AltitudeBin     Distance `yaml:"altitude_bin"`
	Ceiling         Distance `yaml:"ceiling"` // above the origin, 0 is unbounded
}

// TerrainConfig holds the optional elevation grid used for clearance checks.
type TerrainConfig struct {
	ElevationFile string   `yaml:"elevation_file"` // ETOPO1 binary, empty disables terrain
	Clearance     Distance `yaml:"clearance"`
	SampleStep    Distance `yaml:"sample_step"`
}

// DynamicsConfig holds the sampled action set.
type DynamicsConfig struct {
	HeadingDeltas  []float64 `yaml:"heading_deltas"`  // degrees
	VerticalSpeeds []float64 `yaml:"vertical_speeds"` // m/s
	SpeedDeltas    []float64 `yaml:"speed_deltas"`    // m/s, optional
	Step           Duration  `yaml:"step"`
	MinSpeed       float64   `yaml:"min_speed"`
	MaxSpeed       float64   `yaml:"max_speed"`
}

// ActionSet converts the section into a dynamics.ActionSet.
func (d DynamicsConfig) ActionSet() dynamics.ActionSet {
	return dynamics.ActionSet{
		HeadingDeltas:  d.HeadingDeltas,
		VerticalSpeeds: d.VerticalSpeeds,
		SpeedDeltas:    d.SpeedDeltas,
		Step:           time.Duration(d.Step),
		MinSpeed:       d.MinSpeed,
		MaxSpeed:       d.MaxSpeed,
	}
}

// MissionConfig holds the home position and the start and goal states.
type MissionConfig struct {
	Origin OriginConfig `yaml:"origin"`
	Start  StateConfig  `yaml:"start"`
	Goal   StateConfig  `yaml:"goal"`
}

// OriginConfig anchors the local frame.
type OriginConfig struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
	Alt float64 `yaml:"alt"`
}

// StateConfig is a vehicle state in the local frame (x east, y north, z up).
type StateConfig struct {
	X             float64 `yaml:"x"`
	Y             float64 `yaml:"y"`
	Z             float64 `yaml:"z"`
	Heading       float64 `yaml:"heading"`
	VerticalSpeed float64 `yaml:"vertical_speed"`
	Speed         float64 `yaml:"speed"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path      string   `yaml:"path"`
	Retention Duration `yaml:"retention"` // runs older than this are pruned, 0 keeps everything
}

// OutputConfig holds export settings.
type OutputConfig struct {
	GeoJSON string `yaml:"geojson"`
}

// GroundStationConfig is the static ground-station link table.
// The planner only validates and reports it.
type GroundStationConfig struct {
	PortType string `yaml:"port_type"` // serial, socket
	BaudRate int    `yaml:"baud_rate"`
	PortIn   int    `yaml:"port_in"`
	PortOut  int    `yaml:"port_out"`
	Address  string `yaml:"address"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Planner: PlannerConfig{
			Neighborhood:    Distance(5),
			ArenaCapacity:   4096,
			MaxExpansions:   20000,
			HeuristicWeight: 1.0,
			ClimbWeight:     1.0,
			CellResolution:  15,
			HeadingBin:      10,
			AltitudeBin:     Distance(5),
		},
		Dynamics: DynamicsConfig{
			HeadingDeltas:  []float64{-15, 0, 15},
			VerticalSpeeds: []float64{-1, 0, 1},
			Step:           Duration(1 * time.Second),
		},
		Terrain: TerrainConfig{
			Clearance:  Distance(30),
			SampleStep: Distance(10),
		},
		Mission: MissionConfig{
			Origin: OriginConfig{
				Lat: 37.1021,
				Lon: -76.3872,
				Alt: 0,
			},
			Start: StateConfig{Speed: 2},
			Goal:  StateConfig{X: 60, Y: 80, Speed: 2},
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/trajplan.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path:      "./data/trajplan.db",
			Retention: Duration(30 * 24 * time.Hour),
		},
		Output: OutputConfig{
			GeoJSON: "./data/plan.geojson",
		},
		GroundStation: GroundStationConfig{
			PortType: "serial",
			BaudRate: 57600,
			Address:  "/dev/ttyUSB0",
		},
	}
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	if c.Planner.Neighborhood <= 0 {
		return fmt.Errorf("planner.neighborhood must be positive, got %v", float64(c.Planner.Neighborhood))
	}
	if c.Planner.ArenaCapacity < 0 {
		return fmt.Errorf("planner.arena_capacity must not be negative, got %d", c.Planner.ArenaCapacity)
	}
	if c.Planner.ChildSpeed < 0 {
		return fmt.Errorf("planner.child_speed must not be negative, got %v", c.Planner.ChildSpeed)
	}
	if c.Planner.MaxExpansions < 0 {
		return fmt.Errorf("planner.max_expansions must not be negative, got %d", c.Planner.MaxExpansions)
	}
	if c.Planner.HeuristicWeight < 0 || c.Planner.ClimbWeight < 0 {
		return fmt.Errorf("planner weights must not be negative")
	}
	if c.Planner.Ceiling < 0 {
		return fmt.Errorf("planner.ceiling must not be negative")
	}
	if c.Terrain.Clearance < 0 || c.Terrain.SampleStep < 0 {
		return fmt.Errorf("terrain distances must not be negative")
	}
	if c.Planner.CellResolution < 0 || c.Planner.CellResolution > 15 {
		return fmt.Errorf("planner.cell_resolution must be in [0, 15], got %d", c.Planner.CellResolution)
	}
	if err := c.Dynamics.ActionSet().Validate(); err != nil {
		return fmt.Errorf("dynamics: %w", err)
	}
	if c.Mission.Origin.Lat < -90 || c.Mission.Origin.Lat > 90 || c.Mission.Origin.Lon < -180 || c.Mission.Origin.Lon > 180 {
		return fmt.Errorf("mission.origin (%v, %v) is out of range", c.Mission.Origin.Lat, c.Mission.Origin.Lon)
	}
	if c.DB.Retention < 0 {
		return fmt.Errorf("db.retention must not be negative")
	}
	switch c.GroundStation.PortType {
	case "serial", "socket":
	default:
		return fmt.Errorf("invalid ground_station.port_type '%s': must be 'serial' or 'socket'", c.GroundStation.PortType)
	}
	return nil
}

// applyEnv overrides selected fields from the environment.
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TRAJPLAN_DB_PATH")); v != "" {
		cfg.DB.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("TRAJPLAN_LOG_LEVEL")); v != "" {
		cfg.Log.Server.Level = v
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT save back to disk.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# trajplan configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles), ft (feet)
# Local frame: x east, y north, z up (meters), heading in degrees from north.

`)
	data = append(header, data...)

	rePort := regexp.MustCompile(`(?m)^(\s+)port_type:`)
	data = rePort.ReplaceAll(data, []byte("${1}# Options: serial, socket\n${1}port_type:"))

	reRes := regexp.MustCompile(`(?m)^(\s+)cell_resolution:`)
	data = reRes.ReplaceAll(data, []byte("${1}# H3 resolution 0-15, 15 is roughly half a meter edge\n${1}cell_resolution:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
