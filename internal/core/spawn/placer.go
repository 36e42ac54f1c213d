package spawn

import "math/rand"

// Placement is the world position and orientation computed for one spawned
// unit. Initializers translate it into whatever components the simulation
// actually uses.
type Placement struct {
	X, Y  float64
	Angle float64
}

// Placer computes the placement of unit i out of n granted this tick.
type Placer interface {
	Place(i, n int, rng *rand.Rand) Placement
}

// PlacerFunc adapts a function to Placer.
type PlacerFunc func(i, n int, rng *rand.Rand) Placement

func (f PlacerFunc) Place(i, n int, rng *rand.Rand) Placement { return f(i, n, rng) }

// RandomInBounds places units uniformly inside an axis-aligned rectangle with
// a random orientation.
type RandomInBounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (p RandomInBounds) Place(_, _ int, rng *rand.Rand) Placement {
	return Placement{
		X:     p.MinX + rng.Float64()*(p.MaxX-p.MinX),
		Y:     p.MinY + rng.Float64()*(p.MaxY-p.MinY),
		Angle: rng.Float64() * 360,
	}
}

// Line distributes units evenly along a horizontal line at Y, from X1 to X2.
type Line struct {
	Y, X1, X2 float64
	Angle     float64
}

func (p Line) Place(i, n int, _ *rand.Rand) Placement {
	return Placement{X: lerp(p.X1, p.X2, fraction(i, n)), Y: p.Y, Angle: p.Angle}
}

// Column distributes units evenly along a vertical line at X, from Y1 to Y2.
type Column struct {
	X, Y1, Y2 float64
	Angle     float64
}

func (p Column) Place(i, n int, _ *rand.Rand) Placement {
	return Placement{X: p.X, Y: lerp(p.Y1, p.Y2, fraction(i, n)), Angle: p.Angle}
}

// Corners cycles units through the four corners of a rectangle, inset by
// Inset, with per-unit jitter of up to Jitter on each axis.
type Corners struct {
	MinX, MinY, MaxX, MaxY float64
	Inset                  float64
	Jitter                 float64
}

func (p Corners) Place(i, _ int, rng *rand.Rand) Placement {
	corners := [4][2]float64{
		{p.MinX + p.Inset, p.MinY + p.Inset},
		{p.MaxX - p.Inset, p.MinY + p.Inset},
		{p.MinX + p.Inset, p.MaxY - p.Inset},
		{p.MaxX - p.Inset, p.MaxY - p.Inset},
	}
	c := corners[i%4]
	pl := Placement{X: c[0], Y: c[1]}
	if p.Jitter > 0 && rng != nil {
		pl.X += (rng.Float64()*2 - 1) * p.Jitter
		pl.Y += (rng.Float64()*2 - 1) * p.Jitter
	}
	return pl
}

// EmitterRelative places units at an offset from a moving emitter. Source is
// read at placement time so the emitter's current position applies.
type EmitterRelative struct {
	Source  func() (x, y, angle float64)
	OffsetX float64
	OffsetY float64
	Spread  float64
}

func (p EmitterRelative) Place(_, _ int, rng *rand.Rand) Placement {
	x, y, angle := 0.0, 0.0, 0.0
	if p.Source != nil {
		x, y, angle = p.Source()
	}
	if p.Spread > 0 && rng != nil {
		angle += (rng.Float64()*2 - 1) * p.Spread
	}
	return Placement{X: x + p.OffsetX, Y: y + p.OffsetY, Angle: angle}
}

func fraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
