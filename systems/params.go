package systems

import (
	"github.com/pthm-cable/cellgrid/components"
	"github.com/pthm-cable/cellgrid/config"
)

// Params is the flattened view of the config used on the hot path.
type Params struct {
	DragCoef          float64
	BoundaryForce     float64
	BoundaryMargin    float64
	IntersectionForce float64
	CollisionEpsilon  float64
	PositionEpsilon   float64

	EnergyUseRate       float64
	HealingRate         float64
	HealingEnergyCost   float64
	HealingMaterialCost float64
	PhotosynthesisRate  float64

	RestLength           float64
	Spring               float64
	Damping              float64
	EnergyTransferRate   float64
	MaterialTransferRate float64
	TransferThreshold    float64

	Food config.FoodConfig
}

// NewParams copies the relevant config sections.
func NewParams(cfg *config.Config) Params {
	return Params{
		DragCoef:          cfg.Physics.DragCoef,
		BoundaryForce:     cfg.Physics.BoundaryForce,
		BoundaryMargin:    cfg.Physics.BoundaryMargin,
		IntersectionForce: cfg.Physics.IntersectionForce,
		CollisionEpsilon:  cfg.Physics.CollisionEpsilon,
		PositionEpsilon:   cfg.Physics.PositionEpsilon,

		EnergyUseRate:       cfg.Cell.EnergyUseRate,
		HealingRate:         cfg.Cell.HealingRate,
		HealingEnergyCost:   cfg.Cell.HealingEnergyCost,
		HealingMaterialCost: cfg.Cell.HealingMaterialCost,
		PhotosynthesisRate:  cfg.Cell.PhotosynthesisRate,

		RestLength:           cfg.Connection.RestLength,
		Spring:               cfg.Connection.Spring,
		Damping:              cfg.Connection.Damping,
		EnergyTransferRate:   cfg.Connection.EnergyTransferRate,
		MaterialTransferRate: cfg.Connection.MaterialTransferRate,
		TransferThreshold:    cfg.Connection.TransferThreshold,

		Food: cfg.Food,
	}
}

// View is the read-only access the model needs into the entity store.
type View interface {
	MustGet(id components.EntityID) *components.Entity
	NeighborsInto(dst []components.EntityID, gx, gy int) []components.EntityID
	Bounds() (float64, float64)
}
