package util

import "gonum.org/v1/gonum/floats"

// Normalize scales data in place so that it sums to 1. When the sum is
// zero every entry is set to 1/len(data) instead. It returns the sum
// before normalization.
func Normalize(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := floats.Sum(data)
	if sum == 0 {
		uniform := 1.0 / float64(len(data))
		for i := range data {
			data[i] = uniform
		}
		return sum
	}
	floats.Scale(1/sum, data)
	return sum
}

// ArgMax returns the index of the largest element after flooring every
// element at floor. Ties go to the lowest index.
func ArgMax(data []float64, floor float64) int {
	best, bestVal := 0, 0.0
	for i, v := range data {
		if v < floor {
			v = floor
		}
		if i == 0 || v > bestVal {
			best, bestVal = i, v
		}
	}
	return best
}

// RankOf returns how many elements are strictly ranked ahead of data[idx],
// i.e. the number of elements larger than it plus the number of equal
// elements with a lower index. Elements are floored at floor.
func RankOf(data []float64, idx int, floor float64) int {
	target := data[idx]
	if target < floor {
		target = floor
	}
	rank := 0
	for i, v := range data {
		if v < floor {
			v = floor
		}
		if v > target || (v == target && i < idx) {
			rank += 1
		}
	}
	return rank
}
