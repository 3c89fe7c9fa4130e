package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/cellgrid/components"
)

func cellPos(c *components.Cell) r2.Vec { return r2.Vec{X: c.X, Y: c.Y} }
func cellVel(c *components.Cell) r2.Vec { return r2.Vec{X: c.XVel, Y: c.YVel} }

// SpringForce returns the velocity change on self from the damped spring
// joining it to other. Only the relative velocity along the connecting line
// is damped; orbital motion is left alone.
func SpringForce(self, other *components.Cell, p *Params, dt float64) r2.Vec {
	delta := r2.Sub(cellPos(other), cellPos(self))
	dist := r2.Norm(delta)
	if dist < p.CollisionEpsilon {
		return r2.Vec{}
	}
	u := r2.Scale(1/dist, delta)
	along := r2.Dot(r2.Sub(cellVel(other), cellVel(self)), u)

	f := (dist-p.RestLength)*p.Spring + along*p.Damping
	return r2.Scale(f*dt, u)
}

// Transfer moves energy and material downhill from self to other, only
// where self is richer by more than the threshold. Callers skip inactive
// donors. The debit lands in acc and the matching credit is addressed
// to otherSlot, so the pair total is unchanged. A receiver dying this tick
// gets nothing: its food is built from the snapshot.
func Transfer(self, other *components.Cell, otherSlot uint32, p *Params, dt float64, acc *CellChanges, out *Updates) {
	if other.Health <= 0 {
		return
	}
	if amt := transferAmount(self.Energy, other.Energy, p.EnergyTransferRate, p.TransferThreshold, dt); amt > 0 {
		acc.Energy -= amt
		out.Push(Change{Kind: ChangeEnergy, Slot: otherSlot, X: amt})
	}
	if amt := transferAmount(self.Material, other.Material, p.MaterialTransferRate, p.TransferThreshold, dt); amt > 0 {
		acc.Material -= amt
		out.Push(Change{Kind: ChangeMaterial, Slot: otherSlot, X: amt})
	}
}

// transferAmount never moves more than half the gap, so a donor cannot end
// up poorer than its receiver.
func transferAmount(from, to, rate, threshold, dt float64) float64 {
	diff := from - to
	if diff <= threshold {
		return 0
	}
	return min(diff*rate*dt, diff/2)
}
