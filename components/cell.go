package components

import (
	"slices"

	"github.com/pthm-cable/cellgrid/config"
)

// CellType selects the type-specific metabolism of a cell.
type CellType uint8

const (
	CellFat CellType = iota
	CellPhotosynthesiser
)

// String returns the display name for a CellType.
func (t CellType) String() string {
	switch t {
	case CellFat:
		return "fat"
	case CellPhotosynthesiser:
		return "photosynthesiser"
	default:
		return "unknown"
	}
}

// FatStores is the extra state carried by fat cells: buffered resources and
// the two hysteresis bands (store above, release below) per resource.
type FatStores struct {
	ExtraEnergy   float64
	ExtraMaterial float64

	EnergyStoreThreshold   float64
	EnergyReleaseThreshold float64
	EnergyStoreRate        float64
	EnergyReleaseRate      float64

	MaterialStoreThreshold   float64
	MaterialReleaseThreshold float64
	MaterialStoreRate        float64
	MaterialReleaseRate      float64
}

// RawCell is the type-specific part of a cell. Fat is only meaningful when
// Type is CellFat; photosynthesisers carry no extra state.
type RawCell struct {
	Type CellType
	Fat  FatStores
}

// NewFatCell returns a fat RawCell with empty stores and the configured bands.
func NewFatCell(cfg config.FatConfig) RawCell {
	return RawCell{
		Type: CellFat,
		Fat: FatStores{
			EnergyStoreThreshold:     cfg.EnergyStoreThreshold,
			EnergyReleaseThreshold:   cfg.EnergyReleaseThreshold,
			EnergyStoreRate:          cfg.EnergyStoreRate,
			EnergyReleaseRate:        cfg.EnergyReleaseRate,
			MaterialStoreThreshold:   cfg.MaterialStoreThreshold,
			MaterialReleaseThreshold: cfg.MaterialReleaseThreshold,
			MaterialStoreRate:        cfg.MaterialStoreRate,
			MaterialReleaseRate:      cfg.MaterialReleaseRate,
		},
	}
}

// NewPhotosynthesiserCell returns a photosynthesiser RawCell.
func NewPhotosynthesiserCell() RawCell {
	return RawCell{Type: CellPhotosynthesiser}
}

// Cell is the primary simulated organism.
type Cell struct {
	Body

	IsActive bool
	Health   float64
	Energy   float64
	Material float64
	XVel     float64
	YVel     float64

	Raw RawCell

	// Connected holds undirected edges; each edge is stored on both endpoints.
	// Entries may go stale when the other cell is removed and are pruned at
	// the start of the next tick.
	Connected []EntityID
}

// NewCell creates an active unit-sized cell at rest.
func NewCell(raw RawCell, x, y, health, energy, material float64) Cell {
	return NewCellWithVel(raw, x, y, health, energy, material, 0, 0)
}

// NewCellWithVel creates an active unit-sized cell with an initial velocity.
func NewCellWithVel(raw RawCell, x, y, health, energy, material, xVel, yVel float64) Cell {
	return Cell{
		Body:     NewBody(x, y, 1, 1),
		IsActive: true,
		Health:   health,
		Energy:   energy,
		Material: material,
		XVel:     xVel,
		YVel:     yVel,
		Raw:      raw,
	}
}

// IsConnectedTo reports whether id is among the cell's connections.
func (c *Cell) IsConnectedTo(id EntityID) bool {
	return slices.Contains(c.Connected, id)
}

// StoredEnergy returns main plus buffered energy.
func (c *Cell) StoredEnergy() float64 {
	if c.Raw.Type == CellFat {
		return c.Energy + c.Raw.Fat.ExtraEnergy
	}
	return c.Energy
}

// StoredMaterial returns main plus buffered material.
func (c *Cell) StoredMaterial() float64 {
	if c.Raw.Type == CellFat {
		return c.Material + c.Raw.Fat.ExtraMaterial
	}
	return c.Material
}
