package main

import (
	"github.com/pthm-cable/cellgrid/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of connection parameters.
func NewParamVector(cfg *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "spring", Path: "connection.spring", Min: 1, Max: 80, Default: cfg.Connection.Spring},
			{Name: "damping", Path: "connection.damping", Min: 0, Max: 30, Default: cfg.Connection.Damping},
			{Name: "drag_coef", Path: "physics.drag_coef", Min: 0, Max: 2, Default: cfg.Physics.DragCoef},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize maps raw values to [0,1].
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize maps [0,1] values back to raw values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return out
}

// Clamp keeps every value within its bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return out
}

// ApplyToConfig writes clamped values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Connection.Spring = c[0]
	cfg.Connection.Damping = c[1]
	cfg.Physics.DragCoef = c[2]
}
