package collage

import "math"

// columnCount balances total cell area against the target canvas shape.
// targetRatio is output height over width. The virtual image count doubles
// the photo count so cells come out taller than square on average.
func columnCount(photos []*Photo, targetRatio float64) int {
	avg := 0.0
	for _, p := range photos {
		avg += float64(p.Height) / float64(p.Width)
	}
	avg /= float64(len(photos))

	n := int(math.Round(math.Sqrt(avg / targetRatio * float64(2*len(photos)))))
	if n < 1 {
		n = 1
	}
	if n > len(photos) {
		n = len(photos)
	}
	return n
}

// buildColumns fills cols columns greedily: each photo joins whichever
// column is currently shortest (heights compared at equal unit widths).
// Columns left empty are dropped.
func buildColumns(photos []*Photo, cols int) [][]*Photo {
	heights := make([]float64, cols)
	columns := make([][]*Photo, cols)

	for _, p := range photos {
		best := 0
		for i := 1; i < cols; i++ {
			if heights[i] < heights[best] {
				best = i
			}
		}
		columns[best] = append(columns[best], p)
		heights[best] += float64(p.Height) / float64(p.Width)
	}

	out := columns[:0]
	for _, col := range columns {
		if len(col) > 0 {
			out = append(out, col)
		}
	}
	return out
}

// columnWeights returns, per column, the stacked height at unit width.
func columnWeights(columns [][]*Photo) []float64 {
	weights := make([]float64, len(columns))
	for i, col := range columns {
		for _, p := range col {
			weights[i] += float64(p.Height) / float64(p.Width)
		}
	}
	return weights
}
