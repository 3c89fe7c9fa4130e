package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Integrate advances pos by vel*dt and clamps the result into
// [0, w-eps] x [0, h-eps]. A non-finite result means the model blew up and
// is not recoverable.
func Integrate(pos, vel r2.Vec, dt, w, h, eps float64) r2.Vec {
	next := r2.Add(pos, r2.Scale(dt, vel))
	if !finite(next.X) || !finite(next.Y) {
		panic(fmt.Sprintf("systems: non-finite position (%g, %g) from pos %v vel %v dt %g", next.X, next.Y, pos, vel, dt))
	}
	return r2.Vec{
		X: clamp(next.X, 0, w-eps),
		Y: clamp(next.Y, 0, h-eps),
	}
}

// Drag returns the velocity change from cubic drag: -sign(v) v^2 coef dt per axis.
func Drag(vel r2.Vec, coef, dt float64) r2.Vec {
	return r2.Vec{
		X: -vel.X * math.Abs(vel.X) * coef * dt,
		Y: -vel.Y * math.Abs(vel.Y) * coef * dt,
	}
}

// Boundary returns the velocity change pushing a cell that is within margin
// of an edge back toward the interior. The push is sqrt(1-penetration)*force
// scaled by dt.
func Boundary(pos r2.Vec, w, h, margin, force, dt float64) r2.Vec {
	return r2.Vec{
		X: edgePush(pos.X, w, margin, force) * dt,
		Y: edgePush(pos.Y, h, margin, force) * dt,
	}
}

func edgePush(v, size, margin, force float64) float64 {
	var push float64
	if v < margin {
		push += penalty(margin-v) * force
	}
	if v > size-margin {
		push -= penalty(v-(size-margin)) * force
	}
	return push
}

// penalty is the soft force profile shared by confinement and collision.
func penalty(depth float64) float64 {
	return math.Sqrt(math.Max(1-depth, 0))
}
