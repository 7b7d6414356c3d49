package chart

import "math"

// DefaultTickCount is the target number of ticks per axis.
const DefaultTickCount = 6

var niceSteps = []float64{1, 2, 5, 10}

// NiceStep returns the human-friendly step for covering span with count ticks.
func NiceStep(span float64, count int) float64 {
	if count < 2 {
		count = 2
	}
	raw := span / float64(count-1)
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	norm := raw / mag

	best := niceSteps[0]
	for _, s := range niceSteps[1:] {
		if math.Abs(norm-s) < math.Abs(norm-best) {
			best = s
		}
	}
	return best * mag
}

// NiceTicks returns evenly spaced ticks on multiples of a nice step between
// lo and hi. A tick within step*0.01 of hi is kept. When fewer than two ticks
// fall in range the endpoints are returned instead.
func NiceTicks(lo, hi float64, count int) []float64 {
	if !(hi > lo) {
		return []float64{lo, hi}
	}
	step := NiceStep(hi-lo, count)
	eps := step * 0.01
	decimals := stepDecimals(step)

	start := math.Ceil(lo/step-1e-9) * step
	var ticks []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > hi+eps {
			break
		}
		ticks = append(ticks, roundTo(v, decimals))
	}
	if len(ticks) < 2 {
		return []float64{lo, hi}
	}
	return ticks
}

func stepDecimals(step float64) int {
	d := -int(math.Floor(math.Log10(step)))
	if d < 0 {
		return 0
	}
	return d
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
