// Package probe runs startup checks before a planning run.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"trajplan/pkg/config"
)

// DefaultTimeout bounds a single check.
const DefaultTimeout = 5 * time.Second

// CheckFunc is a function that performs a health check.
// It returns nil if the check passes, or an error if it fails.
type CheckFunc func(ctx context.Context) error

// Probe represents a single startup check.
type Probe struct {
	Name     string
	Check    CheckFunc
	Critical bool // a failure prevents the run
}

// Result holds the outcome of a single probe.
type Result struct {
	Probe    Probe
	Error    error
	Duration time.Duration
}

// Run executes the probes in order, each under its own timeout.
func Run(ctx context.Context, timeout time.Duration, probes []Probe) []Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	results := make([]Result, len(probes))

	for i, p := range probes {
		start := time.Now()

		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		err := p.Check(checkCtx)
		cancel()

		results[i] = Result{
			Probe:    p,
			Error:    err,
			Duration: time.Since(start),
		}
	}

	return results
}

// AnalyzeResults logs every result and joins the errors of failed critical probes.
func AnalyzeResults(results []Result) error {
	var criticalErrors []error

	slog.Info("Startup Checks Summary")

	for _, r := range results {
		status := "PASS"
		if r.Error != nil {
			status = "FAIL"
		}

		msg := fmt.Sprintf("[%s] %-20s (%v)", status, r.Probe.Name, r.Duration.Round(time.Millisecond))

		if r.Error != nil {
			slog.Error(msg, "error", r.Error)
			if r.Probe.Critical {
				criticalErrors = append(criticalErrors, fmt.Errorf("%s: %w", r.Probe.Name, r.Error))
			}
		} else {
			slog.Info(msg)
		}
	}

	return errors.Join(criticalErrors...)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Database checks that the run log answers.
func Database(p Pinger) Probe {
	return Probe{
		Name:     "Run Log",
		Check:    p.PingContext,
		Critical: true,
	}
}

// OutputDir checks that the directory of path exists (creating it) and is writable.
func OutputDir(name, path string, critical bool) Probe {
	return Probe{
		Name:     name,
		Critical: critical,
		Check: func(context.Context) error {
			dir := filepath.Dir(path)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			f, err := os.CreateTemp(dir, ".probe-*")
			if err != nil {
				return fmt.Errorf("directory %s is not writable: %w", dir, err)
			}
			tmp := f.Name()
			f.Close()
			return os.Remove(tmp)
		},
	}
}

// GroundStation reports whether the configured link endpoint looks usable.
// It never blocks a run.
func GroundStation(gs config.GroundStationConfig) Probe {
	return Probe{
		Name: "Ground Station",
		Check: func(context.Context) error {
			switch gs.PortType {
			case "serial":
				if _, err := os.Stat(gs.Address); err != nil {
					return fmt.Errorf("serial device %s: %w", gs.Address, err)
				}
				if gs.BaudRate <= 0 {
					return fmt.Errorf("baud rate %d must be positive", gs.BaudRate)
				}
			case "socket":
				if gs.Address == "" || gs.PortIn <= 0 || gs.PortOut <= 0 {
					return fmt.Errorf("socket link needs an address and both ports")
				}
			default:
				return fmt.Errorf("unknown port type %q", gs.PortType)
			}
			return nil
		},
	}
}
