package services

import "context"

// Bound on full 2-opt passes over one path.
const maxTwoOptPasses = 50

// costFunc returns the travel cost from stop i to stop j. It may be asymmetric.
type costFunc func(i, j int) float64

func pathCost(path []int, cost costFunc) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += cost(path[i], path[i+1])
	}
	return total
}

// sequence orders stops into an open path with low total cost: a greedy
// nearest-neighbor tour from the most peripheral stop, refined by 2-opt.
// stops are indexes understood by cost; ties resolve to the earlier stop.
func sequence(ctx context.Context, stops []int, cost costFunc) ([]int, error) {
	if len(stops) <= 1 {
		return append([]int(nil), stops...), nil
	}

	// The most peripheral stop has the largest summed cost to every other stop.
	start, worst := 0, -1.0
	for i, s := range stops {
		sum := 0.0
		for j, o := range stops {
			if i != j {
				sum += cost(s, o)
			}
		}
		if sum > worst {
			start, worst = i, sum
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := nearestNeighborPath(stops, start, cost)
	return twoOpt(ctx, path, cost)
}

// nearestNeighborPath visits stops greedily starting from stops[start].
func nearestNeighborPath(stops []int, start int, cost costFunc) []int {
	visited := make([]bool, len(stops))
	path := make([]int, 0, len(stops))

	cur := start
	visited[cur] = true
	path = append(path, stops[cur])

	for len(path) < len(stops) {
		next, best := -1, 0.0
		for j, s := range stops {
			if visited[j] {
				continue
			}
			// Tie-breaker keeps the order deterministic when costs are equal.
			if c := cost(stops[cur], s); next == -1 || c < best {
				next, best = j, c
			}
		}
		visited[next] = true
		path = append(path, stops[next])
		cur = next
	}

	return path
}

// twoOpt reverses sub-paths while that shortens the open path. Endpoints may
// move; the full cost is recomputed so asymmetric costs are handled.
func twoOpt(ctx context.Context, path []int, cost costFunc) ([]int, error) {
	if len(path) < 3 {
		return path, nil
	}

	best := pathCost(path, cost)
	candidate := make([]int, len(path))

	for pass := 0; pass < maxTwoOptPasses; pass++ {
		improved := false

		for i := 0; i < len(path)-1; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for j := i + 1; j < len(path); j++ {
				copy(candidate, path)
				reverse(candidate[i : j+1])

				if c := pathCost(candidate, cost); c < best-swapEpsilon {
					copy(path, candidate)
					best = c
					improved = true
				}
			}
		}

		if !improved {
			break
		}
	}

	return path, nil
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
