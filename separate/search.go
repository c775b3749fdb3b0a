package separate

import (
	"math"

	"github.com/jsphweid/voicedex/model"
)

// bestAssignment enumerates every injective mapping of rows onto numVoices
// columns: each voice subset in lexicographic order, then each permutation
// of it in lexicographic order. The first strictly cheapest mapping wins,
// which keeps ties deterministic.
func bestAssignment(costs [][]float64, numVoices int) ([]int, float64) {
	k := len(costs)
	best := make([]int, k)
	bestCost := math.Inf(1)
	if k == 0 || k > numVoices {
		return best, bestCost
	}

	subset := make([]int, k)
	for i := range subset {
		subset[i] = i
	}
	perm := make([]int, k)
	for {
		copy(perm, subset)
		for {
			var total float64
			for row, v := range perm {
				total += costs[row][v]
			}
			if total < bestCost {
				bestCost = total
				copy(best, perm)
			}
			if !nextPermutation(perm) {
				break
			}
		}
		if !nextCombination(subset, numVoices) {
			break
		}
	}
	return best, bestCost
}

// nextCombination advances a sorted k-subset of [0, n) in lexicographic order.
func nextCombination(c []int, n int) bool {
	k := len(c)
	i := k - 1
	for i >= 0 && c[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	c[i]++
	for j := i + 1; j < k; j++ {
		c[j] = c[j-1] + 1
	}
	return true
}

func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}

// selectSpread picks k candidates covering the widest pitch range. cands
// must be ordered by descending pitch. The highest and lowest are always
// kept, then the candidate nearest the middle of the widest remaining gap
// is added until k are chosen. Both returned slices keep input order.
func selectSpread(cands []model.NormalizedNote, k int) (selected, rest []model.NormalizedNote) {
	if k >= len(cands) {
		return cands, nil
	}

	picked := make([]bool, len(cands))
	count := 0
	if k >= 1 {
		picked[0] = true
		count++
	}
	if k >= 2 {
		picked[len(cands)-1] = true
		count++
	}

	for count < k {
		choice := -1
		widest := -1
		prev := -1
		for i := range cands {
			if !picked[i] {
				continue
			}
			if prev >= 0 && i-prev > 1 {
				width := cands[prev].Pitch - cands[i].Pitch
				if width > widest {
					widest = width
					choice = nearestToMiddle(cands, prev, i)
				}
			}
			prev = i
		}
		if choice < 0 {
			break
		}
		picked[choice] = true
		count++
	}

	for i, c := range cands {
		if picked[i] {
			selected = append(selected, c)
		} else {
			rest = append(rest, c)
		}
	}
	return selected, rest
}

func nearestToMiddle(cands []model.NormalizedNote, upper, lower int) int {
	mid := float64(cands[upper].Pitch+cands[lower].Pitch) / 2
	best := -1
	bestDist := math.Inf(1)
	for i := upper + 1; i < lower; i++ {
		d := math.Abs(float64(cands[i].Pitch) - mid)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
