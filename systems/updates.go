package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/cellgrid/components"
)

// ChangeKind names the field a Change touches.
type ChangeKind uint8

const (
	ChangeHealth ChangeKind = iota
	ChangeEnergy
	ChangeMaterial
	SetPos
	ChangeVel
	SetActive
	SetRemoved
	ChangeFatEnergy
	ChangeFatMaterial
)

var changeKindNames = [...]string{
	ChangeHealth:      "health",
	ChangeEnergy:      "energy",
	ChangeMaterial:    "material",
	SetPos:            "set_pos",
	ChangeVel:         "vel",
	SetActive:         "set_active",
	SetRemoved:        "set_removed",
	ChangeFatEnergy:   "fat_energy",
	ChangeFatMaterial: "fat_material",
}

func (k ChangeKind) String() string {
	if int(k) < len(changeKindNames) {
		return changeKindNames[k]
	}
	return fmt.Sprintf("change(%d)", k)
}

// Change is one scalar update addressed to a cell by slot index. Deltas are
// commutative; Set* kinds are only ever issued by the cell that owns the slot.
// Scalar kinds carry their value in X.
type Change struct {
	Kind ChangeKind
	Slot uint32
	X, Y float64
	Flag bool
}

// Addition is an entity to insert once the tick's changes are merged.
type Addition struct {
	Food components.Food
}

// Updates collects the intents produced while the store is read-only.
type Updates struct {
	Changes   []Change
	Additions []Addition
}

// Reset empties the buffers, keeping their capacity.
func (u *Updates) Reset() {
	u.Changes = u.Changes[:0]
	u.Additions = u.Additions[:0]
}

// Push appends a change.
func (u *Updates) Push(c Change) {
	u.Changes = append(u.Changes, c)
}

// AddFood queues a food pellet for insertion.
func (u *Updates) AddFood(f components.Food) {
	u.Additions = append(u.Additions, Addition{Food: f})
}

// CellChanges accumulates a cell's own deltas so each field costs at most
// one Change.
type CellChanges struct {
	Vel         r2.Vec
	Health      float64
	Energy      float64
	Material    float64
	FatEnergy   float64
	FatMaterial float64
}

// FlushTo emits the non-zero accumulated deltas for slot.
func (c *CellChanges) FlushTo(u *Updates, slot uint32) {
	if c.Vel.X != 0 || c.Vel.Y != 0 {
		u.Push(Change{Kind: ChangeVel, Slot: slot, X: c.Vel.X, Y: c.Vel.Y})
	}
	scalars := [...]struct {
		kind ChangeKind
		v    float64
	}{
		{ChangeHealth, c.Health},
		{ChangeEnergy, c.Energy},
		{ChangeMaterial, c.Material},
		{ChangeFatEnergy, c.FatEnergy},
		{ChangeFatMaterial, c.FatMaterial},
	}
	for _, s := range scalars {
		if s.v != 0 {
			u.Push(Change{Kind: s.kind, Slot: slot, X: s.v})
		}
	}
}

// ApplyChange folds one change into a cell.
func ApplyChange(c *components.Cell, ch Change) {
	switch ch.Kind {
	case ChangeHealth:
		c.Health += ch.X
	case ChangeEnergy:
		c.Energy += ch.X
	case ChangeMaterial:
		c.Material += ch.X
	case SetPos:
		c.X, c.Y = ch.X, ch.Y
	case ChangeVel:
		c.XVel += ch.X
		c.YVel += ch.Y
	case SetActive:
		c.IsActive = ch.Flag
	case SetRemoved:
		c.ShouldBeRemoved = ch.Flag
	case ChangeFatEnergy:
		c.Raw.Fat.ExtraEnergy += ch.X
	case ChangeFatMaterial:
		c.Raw.Fat.ExtraMaterial += ch.X
	default:
		panic(fmt.Sprintf("systems: unknown change kind %d", ch.Kind))
	}
}
