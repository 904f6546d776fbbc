package rules

import "math"

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func stdDev(vs []float64, m float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range vs {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(vs)))
}

func max(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func min(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
