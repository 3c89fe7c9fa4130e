package systems

import (
	"math"

	"github.com/pthm-cable/cellgrid/components"
)

// Metabolism applies the upkeep of an active cell: a constant energy drain
// plus healing toward full health. Healing is limited by HealingRate and by
// the material available to pay for it.
func Metabolism(c *components.Cell, p *Params, dt float64, acc *CellChanges) {
	acc.Energy -= p.EnergyUseRate * dt

	if c.Health >= 1 {
		return
	}
	amount := math.Min(1-c.Health, p.HealingRate*dt)
	if p.HealingMaterialCost > 0 {
		amount = math.Min(amount, math.Max(c.Material, 0)/p.HealingMaterialCost)
	}
	if amount <= 0 {
		return
	}
	acc.Health += amount
	acc.Energy -= amount * p.HealingEnergyCost
	acc.Material -= amount * p.HealingMaterialCost
}

// FatActivity reports which fat bands fired on a tick.
type FatActivity struct {
	StoredEnergy     bool
	ReleasedEnergy   bool
	StoredMaterial   bool
	ReleasedMaterial bool
}

// FatMetabolism moves resources between a fat cell's main and buffered
// stores. Each resource has a store band above StoreThreshold and a release
// band below ReleaseThreshold; between the two nothing moves.
func FatMetabolism(c *components.Cell, dt float64, acc *CellChanges) FatActivity {
	f := &c.Raw.Fat
	var act FatActivity

	moved := band(c.Energy, f.ExtraEnergy,
		f.EnergyStoreThreshold, f.EnergyStoreRate,
		f.EnergyReleaseThreshold, f.EnergyReleaseRate, dt)
	if moved != 0 {
		acc.Energy -= moved
		acc.FatEnergy += moved
		act.StoredEnergy, act.ReleasedEnergy = moved > 0, moved < 0
	}

	moved = band(c.Material, f.ExtraMaterial,
		f.MaterialStoreThreshold, f.MaterialStoreRate,
		f.MaterialReleaseThreshold, f.MaterialReleaseRate, dt)
	if moved != 0 {
		acc.Material -= moved
		acc.FatMaterial += moved
		act.StoredMaterial, act.ReleasedMaterial = moved > 0, moved < 0
	}
	return act
}

// band returns how much to move from main into extra (negative releases).
// Stores never overshoot the threshold they are moving toward.
func band(main, extra, storeAt, storeRate, releaseAt, releaseRate, dt float64) float64 {
	switch {
	case main > storeAt:
		return math.Min(main-storeAt, storeRate*dt)
	case main < releaseAt:
		return -math.Max(math.Min(math.Min(releaseAt-main, releaseRate*dt), extra), 0)
	}
	return 0
}

// Photosynthesis adds energy at a fixed rate while below full, never past 1.
func Photosynthesis(c *components.Cell, p *Params, dt float64, acc *CellChanges) {
	if c.Energy >= 1 {
		return
	}
	acc.Energy += math.Min(1-c.Energy, p.PhotosynthesisRate*dt)
}
