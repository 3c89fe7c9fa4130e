package components

import (
	"math"

	"github.com/pthm-cable/cellgrid/config"
)

// Food is a passive pellet left behind when a cell dies.
type Food struct {
	Body

	Energy   float64
	Material float64
}

// NewFood creates a food pellet whose size follows its material.
func NewFood(cfg config.FoodConfig, x, y, energy, material float64) Food {
	size := FoodSize(cfg, material)
	return Food{
		Body:     NewBody(x, y, size, size),
		Energy:   energy,
		Material: material,
	}
}

// FoodFromCell converts a dead cell into food carrying all of its stored resources.
func FoodFromCell(cfg config.FoodConfig, c *Cell) Food {
	return NewFood(cfg, c.X, c.Y, math.Max(c.StoredEnergy(), 0), math.Max(c.StoredMaterial(), 0))
}

// FoodSize maps material to a side length within [MinSize, MaxSize].
func FoodSize(cfg config.FoodConfig, material float64) float64 {
	size := cfg.MinSize + cfg.SizePerMaterial*math.Sqrt(math.Max(material, 0))
	return math.Min(math.Max(size, cfg.MinSize), cfg.MaxSize)
}
