package services

// improveTwoOpt shortens a trip by reversing stop segments, keeping only
// feasible orders that are strictly shorter. The depot stays fixed at both
// ends. Each iteration is one full sweep over segment pairs.
func improveTwoOpt(c *FeasibilityChecker, tr *plannedTrip, iterations int) {
	n := len(tr.route)
	if n < 2 || iterations <= 0 {
		return
	}

	best := tr.route
	bestSched := tr.sched
	for it := 0; it < iterations; it++ {
		improved := false
		for i := 0; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				cand := twoOptSwap(best, i, k)
				// Cheap distance check before timing the route.
				if c.RouteMeters(cand) >= bestSched.DistanceMeters {
					continue
				}
				s, ok := c.Evaluate(cand)
				if !ok {
					continue
				}
				best, bestSched = cand, s
				improved = true
			}
		}
		if !improved {
			break
		}
	}

	tr.route, tr.sched = best, bestSched
}

func twoOptSwap(ord []int, i, k int) []int {
	out := make([]int, len(ord))
	copy(out, ord[:i])
	// reverse i..k
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = ord[j]
		pos++
	}
	copy(out[pos:], ord[k+1:])
	return out
}
