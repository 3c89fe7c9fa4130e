package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cellgrid/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(config.Default())
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		assert.InDelta(t, raw[i], back[i], 1e-9, pv.Specs[i].Name)
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)
	pv.ApplyToConfig(cfg, []float64{1000, -5, 0.5})

	assert.Equal(t, 80.0, cfg.Connection.Spring)
	assert.Equal(t, 0.0, cfg.Connection.Damping)
	assert.Equal(t, 0.5, cfg.Physics.DragCoef)
	require.NoError(t, cfg.Refresh())
}

func TestEvaluateDefaultsHoldRestLength(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, 200, []int64{1, 2}, "", 0.5)

	f := fe.Evaluate(pv.DefaultVector())
	assert.Less(t, f, 0.3)
	assert.Equal(t, f, fe.BestFitness())
}
