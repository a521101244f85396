package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trajplan/pkg/config"
	"trajplan/pkg/db"
	"trajplan/pkg/db/maintenance"
	"trajplan/pkg/geo"
	"trajplan/pkg/logging"
	"trajplan/pkg/model"
	"trajplan/pkg/oracle"
	"trajplan/pkg/probe"
	"trajplan/pkg/search"
	"trajplan/pkg/store"
	"trajplan/pkg/terrain"
	"trajplan/pkg/tracker"
	"trajplan/pkg/version"
)

var (
	configPath = flag.String("config", "configs/trajplan.yaml", "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Planning failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	// .env is optional, the environment may already carry the overrides
	envErr := godotenv.Load()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("trajplan started", "version", version.Version, "config", configPath)
	if envErr != nil {
		slog.Debug("No .env file found (using environment variables)")
	}

	dbConn, st, err := initDB(appCfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := maintenance.Run(ctx, st, dbConn, time.Duration(appCfg.DB.Retention)); err != nil {
		slog.Error("Maintenance tasks failed", "error", err)
	}

	probes := []probe.Probe{
		probe.Database(dbConn),
		probe.GroundStation(appCfg.GroundStation),
	}
	if appCfg.Output.GeoJSON != "" {
		probes = append(probes, probe.OutputDir("GeoJSON Output", appCfg.Output.GeoJSON, false))
	}
	if path := appCfg.Terrain.ElevationFile; path != "" {
		probes = append(probes, probe.Probe{
			Name: "Terrain Data (ETOPO1)",
			Check: func(context.Context) error {
				_, err := os.Stat(path)
				return err
			},
			Critical: false, // planning runs without it
		})
	}
	if err := probe.AnalyzeResults(probe.Run(ctx, probe.DefaultTimeout, probes)); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	logGroundStation(appCfg.GroundStation)

	planned, err := planRun(ctx, appCfg, st)
	if err != nil {
		return err
	}
	slog.Info("Plan complete", "run", planned.ID, "cost", planned.Cost, "duration", planned.Duration().Round(time.Millisecond))
	return nil
}

func initDB(appCfg *config.Config) (*db.DB, store.Store, error) {
	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return dbConn, store.NewSQLiteStore(dbConn), nil
}

// planRun plans the configured mission and records it. The run is persisted
// even when planning fails; the planning error is returned afterwards.
func planRun(ctx context.Context, cfg *config.Config, st store.Store) (*model.Run, error) {
	// Persistence must survive a cancelled plan.
	saveCtx := context.WithoutCancel(ctx)

	run := &model.Run{
		StartedAt: time.Now(),
		OriginLat: cfg.Mission.Origin.Lat,
		OriginLon: cfg.Mission.Origin.Lon,
		OriginAlt: cfg.Mission.Origin.Alt,
	}
	if err := st.SaveRun(saveCtx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	logger := slog.With("component", "planner", "run", run.ID)

	arena, err := search.NewArena(
		search.WithCapacity(cfg.Planner.ArenaCapacity),
		search.WithNeighborhood(cfg.Planner.Neighborhood.Meters()),
		search.WithChildSpeed(cfg.Planner.ChildSpeed),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create arena: %w", err)
	}

	frame := geo.NewLocalFrame(cfg.Mission.Origin)
	keyer := geo.CellKeyer{
		Frame:       frame,
		Resolution:  cfg.Planner.CellResolution,
		HeadingBin:  cfg.Planner.HeadingBin,
		AltitudeBin: cfg.Planner.AltitudeBin.Meters(),
	}

	orc, closeTerrain := initOracle(cfg, frame)
	defer closeTerrain()

	tr := tracker.New()
	planner, err := search.NewPlanner(arena, cfg.Dynamics.ActionSet(), orc, keyer,
		search.WithMaxExpansions(cfg.Planner.MaxExpansions),
		search.WithLogger(logger),
		search.WithTracker(tr, run.ID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}

	logger.Info("Planning", "start", cfg.Mission.Start, "goal", cfg.Mission.Goal, "actions", cfg.Dynamics.ActionSet().Size())
	res, planErr := planner.Plan(ctx, toState(cfg.Mission.Start), toState(cfg.Mission.Goal))

	run.FinishedAt = time.Now()
	run.NodeCount = arena.Len()
	if res != nil {
		run.Found = res.Found
		run.Cost = res.Cost
		run.Expanded = res.Expanded
		run.Generated = res.Generated
		run.Pruned = res.Pruned
		run.Revisited = res.Revisited
		run.Relaxed = res.Relaxed
	}
	if planErr != nil {
		run.Error = planErr.Error()
	}

	var waypoints []model.Waypoint
	if run.Found {
		waypoints = frame.Waypoints(res.Path)
		if err := st.SaveWaypoints(saveCtx, run.ID, waypoints); err != nil {
			return run, fmt.Errorf("failed to save waypoints: %w", err)
		}
	}
	if err := st.SaveRun(saveCtx, run); err != nil {
		return run, fmt.Errorf("failed to record run: %w", err)
	}

	stats := tr.Snapshot()[run.ID]
	logger.Info("Search statistics",
		"found", run.Found,
		"nodes", run.NodeCount,
		"expanded", stats.Expanded,
		"generated", stats.Generated,
		"pruned", stats.Pruned,
		"revisited", stats.Revisited,
		"relaxed", stats.Relaxed,
	)

	if run.Found && cfg.Output.GeoJSON != "" {
		if err := geo.WriteGeoJSON(cfg.Output.GeoJSON, geo.PathFeatureCollection(run, waypoints)); err != nil {
			return run, err
		}
		logger.Info("Wrote path", "path", cfg.Output.GeoJSON, "waypoints", len(waypoints))
	}

	if planErr != nil {
		return run, fmt.Errorf("plan run %s: %w", run.ID, planErr)
	}
	return run, nil
}

// initOracle builds the planner oracle. Terrain clearance is added when an
// elevation file is configured and readable; otherwise planning runs without it.
func initOracle(cfg *config.Config, frame geo.LocalFrame) (search.Oracle, func()) {
	base := oracle.New(cfg.Planner)
	path := cfg.Terrain.ElevationFile
	if path == "" {
		return base, func() {}
	}

	grid, err := terrain.OpenETOPO1(path)
	if err != nil {
		slog.Warn("Terrain data unavailable, planning without clearance checks", "path", path, "error", err)
		return base, func() {}
	}
	slog.Info("Terrain clearance enabled", "path", path, "clearance", cfg.Terrain.Clearance.Meters())

	checker := terrain.NewChecker(grid, cfg.Terrain.Clearance.Meters(), cfg.Terrain.SampleStep.Meters())
	return oracle.NewTerrainAware(base, frame, checker), func() { grid.Close() }
}

func toState(s config.StateConfig) search.State {
	return search.State{
		X:     s.X,
		Y:     s.Y,
		Z:     s.Z,
		Psi:   s.Heading,
		VS:    s.VerticalSpeed,
		Speed: s.Speed,
	}
}

func logGroundStation(gs config.GroundStationConfig) {
	switch gs.PortType {
	case "socket":
		slog.Info("Ground station link", "type", gs.PortType, "address", gs.Address, "port_in", gs.PortIn, "port_out", gs.PortOut)
	default:
		slog.Info("Ground station link", "type", gs.PortType, "device", gs.Address, "baud", gs.BaudRate)
	}
}
