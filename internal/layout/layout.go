// Package layout computes non-overlapping positions for overlay bubbles.
//
// Bubbles are modelled as disks. Placement is iterative: while the target
// disk overlaps any other disk by more than the tolerance, it is pushed away
// along the line between the two centers and clamped back into the
// container. The iteration budget is fixed, so placement always terminates;
// in dense layouts the best position seen so far is returned even if some
// overlap remains.
package layout

import "math"

// Disk is a bubble footprint as seen by the solver.
type Disk struct {
	X, Y float64
	R    float64
}

// Solver parameters. The tolerance and push fraction are empirical tuning
// constants, not load-bearing values.
type Solver struct {
	// MaxIterations bounds the push loop.
	MaxIterations int
	// Tolerance is the fraction of combined radii below which two center
	// distances count as overlapping. 0.8 allows 20% overlap.
	Tolerance float64
	// PushFraction scales each push step relative to the required
	// separation distance.
	PushFraction float64
}

// NewSolver returns a solver with the default tuning.
func NewSolver() Solver {
	return Solver{
		MaxIterations: 10,
		Tolerance:     0.8,
		PushFraction:  0.6,
	}
}

// Place returns a position for target that avoids the other disks, starting
// from the target's requested position and staying within the width×height
// container.
//
// An unmeasured container (zero on either axis) and an empty neighbour set
// both return the requested position unchanged.
func (s Solver) Place(target Disk, others []Disk, width, height float64) (float64, float64) {
	if width <= 0 || height <= 0 || len(others) == 0 {
		return target.X, target.Y
	}

	x, y := clamp(target.X, target.R, width), clamp(target.Y, target.R, height)
	bestX, bestY := x, y
	bestOverlap := math.Inf(1)

	for i := 0; ; i++ {
		worst, amount, found := s.worstOverlap(x, y, target.R, others)
		if !found {
			return x, y
		}
		if amount < bestOverlap {
			bestOverlap, bestX, bestY = amount, x, y
		}
		if i == s.MaxIterations {
			// Budget exhausted; accept the least-overlapping position seen.
			return bestX, bestY
		}

		x, y = s.push(x, y, target.R, worst)
		x, y = clamp(x, target.R, width), clamp(y, target.R, height)
	}
}

// worstOverlap returns the neighbour overlapping the target the most, if any.
func (s Solver) worstOverlap(x, y, r float64, others []Disk) (Disk, float64, bool) {
	var worst Disk
	worstAmount := 0.0
	found := false
	for _, o := range others {
		a := overlapAmount(x, y, r, o, s.Tolerance)
		if a > 0 && (!found || a > worstAmount) {
			worst, worstAmount, found = o, a, true
		}
	}
	return worst, worstAmount, found
}

// push moves (x, y) away from the other disk's center by PushFraction of
// the required separation. Coincident centers get a fixed eastward push so
// the loop always makes progress.
func (s Solver) push(x, y, r float64, other Disk) (float64, float64) {
	dx, dy := x-other.X, y-other.Y
	dist := math.Hypot(dx, dy)
	sep := s.Tolerance * (r + other.R)
	step := s.PushFraction * sep
	if dist == 0 {
		return x + step, y
	}
	return x + dx/dist*step, y + dy/dist*step
}

// overlapAmount is how far inside the tolerated separation the target sits
// relative to other; <= 0 means no overlap.
func overlapAmount(x, y, r float64, other Disk, tolerance float64) float64 {
	return tolerance*(r+other.R) - math.Hypot(x-other.X, y-other.Y)
}

// clamp keeps a center coordinate at least r away from both container
// edges. Containers narrower than the disk collapse to the midpoint.
func clamp(v, r, dim float64) float64 {
	lo, hi := r, dim-r
	if lo > hi {
		return dim / 2
	}
	return math.Min(math.Max(v, lo), hi)
}
