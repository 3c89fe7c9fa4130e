package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/cellgrid/components"
	"github.com/pthm-cable/cellgrid/config"
)

func testParams() Params {
	return NewParams(config.Default())
}

func TestMetabolismDrainsAndHeals(t *testing.T) {
	p := testParams()
	c := components.NewCell(components.NewPhotosynthesiserCell(), 1, 1, 0.5, 1, 1)

	var acc CellChanges
	Metabolism(&c, &p, 1, &acc)

	healed := p.HealingRate
	assert.InDelta(t, healed, acc.Health, 1e-12)
	assert.InDelta(t, -p.EnergyUseRate-healed*p.HealingEnergyCost, acc.Energy, 1e-12)
	assert.InDelta(t, -healed*p.HealingMaterialCost, acc.Material, 1e-12)
}

func TestHealingLimitedByMaterial(t *testing.T) {
	p := testParams()
	c := components.NewCell(components.NewPhotosynthesiserCell(), 1, 1, 0.5, 1, 0.01)

	var acc CellChanges
	Metabolism(&c, &p, 1, &acc)
	assert.InDelta(t, 0.01/p.HealingMaterialCost, acc.Health, 1e-12)
	assert.InDelta(t, -0.01, acc.Material, 1e-12)

	c.Material = 0
	acc = CellChanges{}
	Metabolism(&c, &p, 1, &acc)
	assert.Zero(t, acc.Health)
	assert.InDelta(t, -p.EnergyUseRate*1, acc.Energy, 1e-12, "drain still applies")
}

func TestHealingStopsAtFull(t *testing.T) {
	p := testParams()
	c := components.NewCell(components.NewPhotosynthesiserCell(), 1, 1, 0.99, 1, 1)

	var acc CellChanges
	Metabolism(&c, &p, 1, &acc)
	assert.InDelta(t, 1.0, c.Health+acc.Health, 1e-12)
}

func TestFatMetabolism(t *testing.T) {
	fat := config.Default().Fat
	const dt = 0.5

	tests := []struct {
		name          string
		energy, extra float64
		wantMove      float64 // main -> extra
		want          FatActivity
	}{
		{"dead band", 0.6, 0.2, 0, FatActivity{}},
		{"store capped by rate", 1.0, 0, fat.EnergyStoreRate * dt, FatActivity{StoredEnergy: true}},
		{"store capped by threshold", 0.81, 0, 0.01, FatActivity{StoredEnergy: true}},
		{"release capped by rate", 0.1, 0.5, -fat.EnergyReleaseRate * dt, FatActivity{ReleasedEnergy: true}},
		{"release capped by threshold", 0.39, 0.5, -0.01, FatActivity{ReleasedEnergy: true}},
		{"release capped by stores", 0.1, 0.02, -0.02, FatActivity{ReleasedEnergy: true}},
		{"nothing to release", 0.1, 0, 0, FatActivity{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := components.NewCell(components.NewFatCell(fat), 1, 1, 1, tc.energy, 0.6)
			c.Raw.Fat.ExtraEnergy = tc.extra

			var acc CellChanges
			got := FatMetabolism(&c, dt, &acc)
			assert.Equal(t, tc.want, got)
			assert.InDelta(t, -tc.wantMove, acc.Energy, 1e-12)
			assert.InDelta(t, tc.wantMove, acc.FatEnergy, 1e-12)
		})
	}
}

// TestFatSettlesWithoutChatter feeds the result of each step back in and
// checks that a cell starting above the store band settles at the
// threshold instead of bouncing between storing and releasing.
func TestFatSettlesWithoutChatter(t *testing.T) {
	fat := config.Default().Fat
	c := components.NewCell(components.NewFatCell(fat), 1, 1, 1, 0.95, 0.6)

	var stores, releases int
	for i := 0; i < 20; i++ {
		var acc CellChanges
		act := FatMetabolism(&c, 1, &acc)
		if act.StoredEnergy {
			stores++
		}
		if act.ReleasedEnergy {
			releases++
		}
		c.Energy += acc.Energy
		c.Raw.Fat.ExtraEnergy += acc.FatEnergy
	}

	assert.Equal(t, 2, stores)
	assert.Zero(t, releases)
	assert.InDelta(t, fat.EnergyStoreThreshold, c.Energy, 1e-12)
	assert.InDelta(t, 0.15, c.Raw.Fat.ExtraEnergy, 1e-12)
}

// TestFatBandOscillation drives the energy store along a scripted trace
// around the middle of the dead band and bounds how often each band fires.
func TestFatBandOscillation(t *testing.T) {
	fat := config.Default().Fat
	mid := (fat.EnergyReleaseThreshold + fat.EnergyStoreThreshold) / 2
	halfBand := (fat.EnergyStoreThreshold - fat.EnergyReleaseThreshold) / 2
	const steps = 200

	tests := []struct {
		name        string
		amplitude   float64 // fraction of the half band
		maxStores   int
		maxReleases int
	}{
		{"tight around midpoint", 0.05, 0, 0},
		{"half band", 0.5, 0, 0},
		{"just inside thresholds", 0.95, 0, 0},
		{"crossing both thresholds", 1.5, steps / 2, steps / 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := components.NewCell(components.NewFatCell(fat), 1, 1, 1, mid, 0.6)
			c.Raw.Fat.ExtraEnergy = 0.5

			var stores, releases, outside int
			for i := 0; i < steps; i++ {
				c.Energy = mid + tc.amplitude*halfBand*math.Sin(float64(i)*0.7)
				if c.Energy > fat.EnergyStoreThreshold || c.Energy < fat.EnergyReleaseThreshold {
					outside++
				}
				var acc CellChanges
				act := FatMetabolism(&c, 0.016, &acc)
				if act.StoredEnergy {
					stores++
				}
				if act.ReleasedEnergy {
					releases++
				}
				c.Raw.Fat.ExtraEnergy += acc.FatEnergy
			}

			assert.LessOrEqual(t, stores, tc.maxStores)
			assert.LessOrEqual(t, releases, tc.maxReleases)
			assert.LessOrEqual(t, stores+releases, outside, "a band fires only outside the dead band")
		})
	}
}

func TestPhotosynthesisSaturates(t *testing.T) {
	p := testParams()
	c := components.NewCell(components.NewPhotosynthesiserCell(), 1, 1, 1, 0.999, 0)

	var acc CellChanges
	Photosynthesis(&c, &p, 1, &acc)
	assert.Equal(t, 1.0, c.Energy+acc.Energy)

	c.Energy = 0.5
	acc = CellChanges{}
	Photosynthesis(&c, &p, 1, &acc)
	assert.InDelta(t, p.PhotosynthesisRate, acc.Energy, 1e-12)

	c.Energy = 1
	acc = CellChanges{}
	Photosynthesis(&c, &p, 1, &acc)
	assert.Zero(t, acc.Energy)
}
