package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/cellgrid/components"
	"github.com/pthm-cable/cellgrid/config"
)

func TestFlushToSkipsZeroDeltas(t *testing.T) {
	var out Updates
	acc := CellChanges{Energy: -0.1, FatMaterial: 0.2}
	acc.FlushTo(&out, 4)

	assert.Equal(t, []Change{
		{Kind: ChangeEnergy, Slot: 4, X: -0.1},
		{Kind: ChangeFatMaterial, Slot: 4, X: 0.2},
	}, out.Changes)

	out.Reset()
	acc = CellChanges{Vel: r2.Vec{Y: 1}}
	acc.FlushTo(&out, 2)
	assert.Equal(t, []Change{{Kind: ChangeVel, Slot: 2, Y: 1}}, out.Changes)
}

func TestApplyChange(t *testing.T) {
	c := components.NewCell(components.NewFatCell(config.Default().Fat), 1, 1, 1, 0.5, 0.5)

	for _, ch := range []Change{
		{Kind: ChangeHealth, X: -0.25},
		{Kind: ChangeEnergy, X: 0.1},
		{Kind: ChangeEnergy, X: 0.1},
		{Kind: ChangeMaterial, X: -0.5},
		{Kind: SetPos, X: 2, Y: 3},
		{Kind: ChangeVel, X: 1, Y: -1},
		{Kind: SetActive, Flag: false},
		{Kind: SetRemoved, Flag: true},
		{Kind: ChangeFatEnergy, X: 0.3},
		{Kind: ChangeFatMaterial, X: 0.4},
	} {
		ApplyChange(&c, ch)
	}

	assert.InDelta(t, 0.75, c.Health, 1e-12)
	assert.InDelta(t, 0.7, c.Energy, 1e-12)
	assert.Zero(t, c.Material)
	assert.Equal(t, 2.0, c.X)
	assert.Equal(t, 3.0, c.Y)
	assert.Equal(t, 1.0, c.XVel)
	assert.Equal(t, -1.0, c.YVel)
	assert.False(t, c.IsActive)
	assert.True(t, c.ShouldBeRemoved)
	assert.InDelta(t, 0.3, c.Raw.Fat.ExtraEnergy, 1e-12)
	assert.InDelta(t, 0.4, c.Raw.Fat.ExtraMaterial, 1e-12)

	assert.Panics(t, func() { ApplyChange(&c, Change{Kind: ChangeKind(99)}) })
	assert.Equal(t, "change(99)", ChangeKind(99).String())
}
