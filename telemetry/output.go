package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/cellgrid/config"
)

// Output file names inside the run directory.
const (
	TelemetryFile = "telemetry.csv"
	PerfFile      = "perf.csv"
	ConfigFile    = "config.yaml"
)

// csvSink is an append-only CSV file that writes its header once.
type csvSink struct {
	f             *os.File
	headerWritten bool
}

func createSink(dir, name string) (*csvSink, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink{f: f}, nil
}

func writeRow[T any](s *csvSink, row T) error {
	records := []T{row}
	var err error
	if s.headerWritten {
		err = gocsv.MarshalWithoutHeaders(records, s.f)
	} else {
		err = gocsv.Marshal(records, s.f)
		s.headerWritten = err == nil
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(s.f.Name()), err)
	}
	return nil
}

// OutputManager writes a run's telemetry as CSV plus the effective config.
// A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvSink
	perf      *csvSink
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	telemetry, err := createSink(dir, TelemetryFile)
	if err != nil {
		return nil, err
	}
	perf, err := createSink(dir, PerfFile)
	if err != nil {
		telemetry.f.Close()
		return nil, err
	}
	return &OutputManager{dir: dir, telemetry: telemetry, perf: perf}, nil
}

// WriteConfig saves the configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends a window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return writeRow(om.telemetry, stats)
}

// WritePerf appends a performance window to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return writeRow(om.perf, stats.ToCSV(windowEnd))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.f.Close(), om.perf.f.Close())
}
