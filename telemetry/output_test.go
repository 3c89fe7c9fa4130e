package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cellgrid/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)

	// A nil manager accepts writes.
	assert.NoError(t, om.WriteTelemetry(WindowStats{}))
	assert.NoError(t, om.WritePerf(PerfStats{}, 0))
	assert.NoError(t, om.WriteConfig(config.Default()))
	assert.NoError(t, om.Close())
	assert.Empty(t, om.Dir())
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	require.NoError(t, err)

	require.NoError(t, om.WriteTelemetry(WindowStats{WindowEndTick: 10, Cells: 5, Deaths: 1}))
	require.NoError(t, om.WriteTelemetry(WindowStats{WindowEndTick: 20, Cells: 4}))
	require.NoError(t, om.WritePerf(PerfStats{PhasePct: map[string]float64{PhaseCompute: 60}}, 20))
	require.NoError(t, om.WriteConfig(config.Default()))
	require.NoError(t, om.Close())

	data, err := os.ReadFile(filepath.Join(dir, TelemetryFile))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "window_end"), "header written once")

	var rows []WindowStats
	require.NoError(t, gocsv.UnmarshalBytes(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, int32(20), rows[1].WindowEndTick)
	assert.Equal(t, 1, rows[0].Deaths)

	perf, err := os.ReadFile(filepath.Join(dir, PerfFile))
	require.NoError(t, err)
	assert.Contains(t, string(perf), "compute_pct")

	_, err = config.Load(filepath.Join(dir, ConfigFile))
	assert.NoError(t, err, "written config loads back")
}
