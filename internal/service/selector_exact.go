package service

import (
	"context"
	"math"
	"sort"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// maxExactCeilingCents bounds the subset-sum table. Beyond this the
// table cost outweighs the precision benefit and greedy takes over.
const maxExactCeilingCents = 20_000_000 // $200,000

// selectExact solves the whole-lot selection exactly as a subset-sum
// over cent-quantized gains, maximizing closeness to the need subject
// to the overshoot ceiling. It reports ok=false when the pool or the
// ceiling is too large, the context expires, or nothing is selectable,
// in which case the caller falls back to greedy.
//
// Partial shares are deliberately out of scope here: the exact strategy
// exists to pick the best whole-lot combination for small pools.
func (s *SelectorService) selectExact(
	ctx context.Context,
	need float64,
	candidates []model.TaxLot,
	tol float64,
) ([]model.Recommendation, bool) {

	if len(candidates) == 0 || len(candidates) > s.cfg.ExactLotLimit {
		return nil, false
	}

	absNeed := math.Abs(need)
	needCents := int64(math.Round(absNeed * 100))
	ceilingCents := int64(math.Floor(absNeed * (1 + tol) * 100))
	if ceilingCents <= 0 || ceilingCents > maxExactCeilingCents {
		return nil, false
	}

	gains := make([]int64, len(candidates))
	for i, lot := range candidates {
		gains[i] = int64(math.Round(math.Abs(lot.UnrealizedGain) * 100))
	}

	// reach maps an achievable sum to the lot that reached it and the
	// sum before that lot. sums keeps insertion order so iteration and
	// therefore reconstruction stay deterministic.
	type dpEntry struct {
		lot  int
		prev int64
	}
	reach := map[int64]dpEntry{0: {lot: -1}}
	sums := []int64{0}

	for i := range candidates {
		select {
		case <-ctx.Done():
			return nil, false
		default:
		}

		// Snapshot the frontier: each lot may be used at most once.
		frontier := sums
		for _, sum := range frontier {
			next := sum + gains[i]
			if next > ceilingCents {
				continue
			}
			if _, seen := reach[next]; seen {
				continue
			}
			reach[next] = dpEntry{lot: i, prev: sum}
			sums = append(sums, next)
		}
	}

	best := int64(-1)
	var bestDist int64 = math.MaxInt64
	for _, sum := range sums {
		if sum == 0 {
			continue
		}
		dist := needCents - sum
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist || (dist == bestDist && sum < best) {
			best = sum
			bestDist = dist
		}
	}
	if best <= 0 {
		return nil, false
	}

	chosen := []int{}
	for sum := best; sum != 0; {
		entry := reach[sum]
		chosen = append(chosen, entry.lot)
		sum = entry.prev
	}
	sort.Ints(chosen)

	recs := make([]model.Recommendation, 0, len(chosen))
	for _, idx := range chosen {
		recs = append(recs, s.wholeLotRecommendation(candidates[idx], need))
	}
	return recs, true
}
