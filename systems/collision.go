package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/cellgrid/components"
)

// Intersection sums the soft repulsion from every other cell closer than one
// unit. Candidates come from the 3x3 bucket neighborhood; buf is scratch
// space and is returned for reuse.
func Intersection(v View, id components.EntityID, self *components.Cell, p *Params, dt float64, buf []components.EntityID) (r2.Vec, []components.EntityID) {
	buf = v.NeighborsInto(buf[:0], self.GridX, self.GridY)

	pos := cellPos(self)
	var dv r2.Vec
	for _, nid := range buf {
		if nid == id {
			continue
		}
		e := v.MustGet(nid)
		if !e.IsCell() {
			continue
		}
		delta := r2.Sub(pos, cellPos(&e.Cell))
		dist := r2.Norm(delta)
		if dist >= 1 || dist < p.CollisionEpsilon {
			continue
		}
		push := penalty(dist) * p.IntersectionForce * dt
		dv = r2.Add(dv, r2.Scale(push/dist, delta))
	}
	return dv, buf
}
