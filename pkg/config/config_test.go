package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "trajplan.yaml")

	tests := []struct {
		name          string
		setup         func()
		validate      func(*testing.T, *Config)
		checkFile     func(*testing.T)
		expectedError bool
	}{
		{
			name:  "NewFile_Defaults",
			setup: func() {}, // No file
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Planner.Neighborhood != 5 {
					t.Errorf("expected default neighborhood 5, got %v", cfg.Planner.Neighborhood)
				}
				if time.Duration(cfg.Dynamics.Step) != time.Second {
					t.Errorf("expected default step 1s, got %v", time.Duration(cfg.Dynamics.Step))
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if !strings.Contains(string(content), "neighborhood: 5.00m") {
					t.Error("config file missing default values")
				}
				if !strings.Contains(string(content), "# Options: serial, socket") {
					t.Error("config file missing port_type comment")
				}
			},
		},
		{
			name: "ExistingFile_Override",
			setup: func() {
				err := os.WriteFile(configPath, []byte("planner:\n  neighborhood: 10m\ndynamics:\n  heading_deltas: [-30, 0, 30]\n  step: 2s\n"), 0o644)
				if err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Planner.Neighborhood != 10 {
					t.Errorf("expected neighborhood 10, got %v", cfg.Planner.Neighborhood)
				}
				if len(cfg.Dynamics.HeadingDeltas) != 3 || cfg.Dynamics.HeadingDeltas[0] != -30 {
					t.Errorf("unexpected heading deltas %v", cfg.Dynamics.HeadingDeltas)
				}
				if time.Duration(cfg.Dynamics.Step) != 2*time.Second {
					t.Errorf("expected step 2s, got %v", time.Duration(cfg.Dynamics.Step))
				}
				// untouched sections keep defaults
				if cfg.GroundStation.BaudRate != 57600 {
					t.Errorf("expected default baud rate, got %d", cfg.GroundStation.BaudRate)
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if strings.Contains(string(content), "ground_station") {
					t.Error("existing config file should not be rewritten")
				}
			},
		},
		{
			name: "Invalid_Neighborhood",
			setup: func() {
				if err := os.WriteFile(configPath, []byte("planner:\n  neighborhood: 0\n"), 0o644); err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			expectedError: true,
		},
		{
			name: "Invalid_EmptyActionSet",
			setup: func() {
				if err := os.WriteFile(configPath, []byte("dynamics:\n  vertical_speeds: []\n"), 0o644); err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			expectedError: true,
		},
		{
			name: "Invalid_YAML",
			setup: func() {
				if err := os.WriteFile(configPath, []byte("planner: [unclosed"), 0o644); err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(configPath)
			tt.setup()

			cfg, err := Load(configPath)
			if (err != nil) != tt.expectedError {
				t.Fatalf("Load() error = %v, expectedError %v", err, tt.expectedError)
			}
			if tt.expectedError {
				return
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
			if tt.checkFile != nil {
				tt.checkFile(t)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRAJPLAN_DB_PATH", "/tmp/override.db")
	t.Setenv("TRAJPLAN_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "trajplan.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Log.Server.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "Defaults", mutate: func(c *Config) {}},
		{name: "NegativeCapacity", mutate: func(c *Config) { c.Planner.ArenaCapacity = -1 }, wantErr: "arena_capacity"},
		{name: "NegativeChildSpeed", mutate: func(c *Config) { c.Planner.ChildSpeed = -2 }, wantErr: "child_speed"},
		{name: "Resolution", mutate: func(c *Config) { c.Planner.CellResolution = 16 }, wantErr: "cell_resolution"},
		{name: "ZeroStep", mutate: func(c *Config) { c.Dynamics.Step = 0 }, wantErr: "dynamics"},
		{name: "Origin", mutate: func(c *Config) { c.Mission.Origin.Lat = 91 }, wantErr: "origin"},
		{name: "NegativeCeiling", mutate: func(c *Config) { c.Planner.Ceiling = -1 }, wantErr: "ceiling"},
		{name: "NegativeClearance", mutate: func(c *Config) { c.Terrain.Clearance = -1 }, wantErr: "terrain"},
		{name: "NegativeRetention", mutate: func(c *Config) { c.DB.Retention = -1 }, wantErr: "retention"},
		{name: "PortType", mutate: func(c *Config) { c.GroundStation.PortType = "usb" }, wantErr: "port_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDynamicsConfig_ActionSet(t *testing.T) {
	d := DefaultConfig().Dynamics
	a := d.ActionSet()
	assert.Equal(t, d.HeadingDeltas, a.HeadingDeltas)
	assert.Equal(t, d.VerticalSpeeds, a.VerticalSpeeds)
	assert.Equal(t, time.Second, a.Step)
	assert.Equal(t, 9, a.Size())
}

func TestGenerateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trajplan.yaml")
	require.NoError(t, GenerateDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Mission, cfg.Mission)

	// Existing files are left alone
	require.NoError(t, os.WriteFile(path, []byte("db:\n  path: custom.db\n"), 0o644))
	require.NoError(t, GenerateDefault(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "db:\n  path: custom.db\n", string(data))
}
