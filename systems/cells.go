package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/cellgrid/components"
)

// Scratch holds per-worker buffers reused across cells.
type Scratch struct {
	neighbors []components.EntityID
}

// UpdateCell runs one tick of the cell model for id against a read-only
// view and appends the resulting intents to out. Steps run in a fixed
// order: integrate, drag, boundary, liveness, death, upkeep, type-specific
// metabolism, connections, collision. Every read sees the state from the
// start of the tick.
func UpdateCell(v View, id components.EntityID, p *Params, dt float64, scratch *Scratch, out *Updates) {
	e := v.MustGet(id)
	if !e.IsCell() {
		panic(fmt.Sprintf("systems: UpdateCell on %s entity %v", e.Kind, id))
	}
	c := &e.Cell
	w, h := v.Bounds()
	slot := id.Slot

	var acc CellChanges

	pos := Integrate(cellPos(c), cellVel(c), dt, w, h, p.PositionEpsilon)
	out.Push(Change{Kind: SetPos, Slot: slot, X: pos.X, Y: pos.Y})

	vel := cellVel(c)
	acc.Vel = Drag(vel, p.DragCoef, dt)
	dv := Boundary(cellPos(c), w, h, p.BoundaryMargin, p.BoundaryForce, dt)
	acc.Vel = r2.Add(acc.Vel, dv)

	active := c.Energy > 0
	if active != c.IsActive {
		out.Push(Change{Kind: SetActive, Slot: slot, Flag: active})
	}

	if c.Health <= 0 {
		out.Push(Change{Kind: SetRemoved, Slot: slot, Flag: true})
		out.AddFood(components.FoodFromCell(p.Food, c))
		return
	}

	if active {
		Metabolism(c, p, dt, &acc)
		switch c.Raw.Type {
		case components.CellFat:
			FatMetabolism(c, dt, &acc)
		case components.CellPhotosynthesiser:
			Photosynthesis(c, p, dt, &acc)
		}
	}

	for _, oid := range c.Connected {
		oe := v.MustGet(oid)
		if !oe.IsCell() {
			panic(fmt.Sprintf("systems: cell %v connected to %s %v", id, oe.Kind, oid))
		}
		other := &oe.Cell
		dv := SpringForce(c, other, p, dt)
		acc.Vel = r2.Add(acc.Vel, dv)
		if active {
			Transfer(c, other, oid.Slot, p, dt, &acc, out)
		}
	}

	dv, scratch.neighbors = Intersection(v, id, c, p, dt, scratch.neighbors)
	acc.Vel = r2.Add(acc.Vel, dv)

	acc.FlushTo(out, slot)
}
