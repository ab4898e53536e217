package layout

import (
	"math"
	"sort"
)

// centi converts points to hundredths of a point, rounding down so allocated
// widths never exceed the usable width.
func centi(pt float64) int64 {
	return int64(math.Floor(pt*100 + 1e-6))
}

// allocate assigns widths to a band of columns with the given natural widths.
//
// When the natural widths fit they are returned unchanged. Otherwise usable
// is shared in proportion to natural width, any column whose share falls
// below floor is fixed at floor, and the remainder is shared again among the
// others. Shares are computed in hundredths of a point; the units lost to
// rounding go one at a time to the widest columns, lower index first on ties,
// so the widths sum to usable exactly.
//
// The caller guarantees len(natural) * floor <= usable.
func allocate(natural []float64, usable, floor float64) []float64 {
	widths := make([]float64, len(natural))
	if sum(natural) <= usable+widthSlack {
		copy(widths, natural)
		return widths
	}

	total := centi(usable)
	minW := int64(math.Ceil(floor*100 - 1e-6))
	cents := make([]int64, len(natural))
	fixed := make([]bool, len(natural))

	remaining := total
	for {
		weight := 0.0
		active := 0
		for j, w := range natural {
			if !fixed[j] {
				weight += w
				active++
			}
		}
		if active == 0 {
			break
		}

		clamped := false
		for j, w := range natural {
			if fixed[j] {
				continue
			}
			share := float64(remaining) / float64(active)
			if weight > 0 {
				share = float64(remaining) * w / weight
			}
			if share < float64(minW) {
				fixed[j] = true
				cents[j] = minW
				clamped = true
			}
		}
		if !clamped {
			for j, w := range natural {
				if fixed[j] {
					continue
				}
				share := float64(remaining) / float64(active)
				if weight > 0 {
					share = float64(remaining) * w / weight
				}
				cents[j] = int64(math.Floor(share))
			}
			break
		}

		remaining = total
		for j := range natural {
			if fixed[j] {
				remaining -= cents[j]
			}
		}
	}

	var used int64
	for _, c := range cents {
		used += c
	}
	if leftover := total - used; leftover > 0 {
		order := leftoverOrder(natural, fixed)
		if len(order) == 0 {
			order = leftoverOrder(natural, nil)
		}
		for k := int64(0); k < leftover; k++ {
			cents[order[int(k)%len(order)]]++
		}
	}

	for j, c := range cents {
		widths[j] = float64(c) / 100
	}
	return widths
}

// leftoverOrder returns the indices of columns not in skip, widest first,
// lower index first on exact ties.
func leftoverOrder(natural []float64, skip []bool) []int {
	var order []int
	for j := range natural {
		if skip == nil || !skip[j] {
			order = append(order, j)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return natural[order[a]] > natural[order[b]]
	})
	return order
}

// columnSpans partitions n columns left to right into the fewest contiguous
// bands whose floor widths fit usable.
func columnSpans(n int, usable, floor float64) [][2]int {
	per := int(centi(usable) / int64(math.Ceil(floor*100-1e-6)))
	if per < 1 {
		per = 1
	}
	var spans [][2]int
	for start := 0; start < n; start += per {
		end := start + per
		if end > n {
			end = n
		}
		spans = append(spans, [2]int{start, end})
	}
	return spans
}
