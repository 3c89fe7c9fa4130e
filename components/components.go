// Package components defines the entity data owned by the world store.
package components

import "fmt"

// EntityID identifies an entity by slot and generation. A slot's generation
// is bumped whenever its entity is removed, so an id captured before the
// removal never resolves to whatever is inserted into the slot later.
type EntityID struct {
	Slot       uint32
	Generation uint32
}

// Pack returns the id as a single integer key.
func (id EntityID) Pack() uint64 {
	return uint64(id.Generation)<<32 | uint64(id.Slot)
}

// UnpackEntityID is the inverse of Pack.
func UnpackEntityID(v uint64) EntityID {
	return EntityID{Slot: uint32(v), Generation: uint32(v >> 32)}
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d@%d", id.Slot, id.Generation)
}

// Kind tags which variant an Entity holds.
type Kind uint8

const (
	KindCell Kind = iota
	KindFood
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindCell:
		return "cell"
	case KindFood:
		return "food"
	default:
		return "unknown"
	}
}

// Entity is the closed variant stored in every slot. Only the field matching
// Kind is meaningful.
type Entity struct {
	Kind Kind
	Cell Cell
	Food Food
}

// CellEntity wraps a cell.
func CellEntity(c Cell) Entity {
	return Entity{Kind: KindCell, Cell: c}
}

// FoodEntity wraps a food pellet.
func FoodEntity(f Food) Entity {
	return Entity{Kind: KindFood, Food: f}
}

// Body returns the positional record of whichever variant is held.
func (e *Entity) Body() *Body {
	switch e.Kind {
	case KindCell:
		return &e.Cell.Body
	case KindFood:
		return &e.Food.Body
	default:
		panic(fmt.Sprintf("components: entity has unknown kind %d", e.Kind))
	}
}

// IsCell reports whether the entity is a cell.
func (e *Entity) IsCell() bool {
	return e.Kind == KindCell
}
