package services

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Bound on improvement rounds of the swap pass.
const maxSwapRounds = 20

// Minimum gain in metres for a swap to count.
const swapEpsilon = 1e-6

// bucketSizes splits n items into k sizes differing by at most one;
// the first n%k buckets carry the extra item.
func bucketSizes(n, k int) []int {
	sizes := make([]int, k)
	if k == 0 {
		return sizes
	}
	base, extra := n/k, n%k
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}

func centroid(points []orb.Point, idx []int) orb.Point {
	if len(idx) == 0 {
		return orb.Point{}
	}
	var x, y float64
	for _, i := range idx {
		x += points[i][0]
		y += points[i][1]
	}
	n := float64(len(idx))
	return orb.Point{x / n, y / n}
}

// partition groups points into k geographically compact buckets whose sizes
// follow bucketSizes. Buckets hold indexes into points. Ties resolve to the
// lower index, so the result depends only on the order of points.
// The only error is ctx's.
func partition(ctx context.Context, points []orb.Point, k int) ([][]int, error) {
	sizes := bucketSizes(len(points), k)
	buckets := make([][]int, k)

	assigned := make([]bool, len(points))
	remaining := make([]int, len(points))
	for i := range remaining {
		remaining[i] = i
	}

	for b := 0; b < k; b++ {
		if sizes[b] == 0 {
			buckets[b] = []int{}
			continue
		}

		// Seed: the unassigned point farthest from the unassigned centroid.
		c := centroid(points, remaining)
		seed, best := -1, -1.0
		for _, i := range remaining {
			if d := geo.DistanceHaversine(c, points[i]); d > best {
				seed, best = i, d
			}
		}

		bucket := []int{seed}
		assigned[seed] = true
		remaining = unassignedOf(assigned)

		for len(bucket) < sizes[b] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			bc := centroid(points, bucket)
			next, nearest := -1, 0.0
			for _, i := range remaining {
				d := geo.DistanceHaversine(bc, points[i])
				if next == -1 || d < nearest {
					next, nearest = i, d
				}
			}
			bucket = append(bucket, next)
			assigned[next] = true
			remaining = unassignedOf(assigned)
		}

		buckets[b] = bucket
	}

	if err := improveBySwaps(ctx, points, buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func unassignedOf(assigned []bool) []int {
	out := make([]int, 0, len(assigned))
	for i, a := range assigned {
		if !a {
			out = append(out, i)
		}
	}
	return out
}

// improveBySwaps exchanges points between buckets while doing so lowers the
// summed distance of each point to its bucket centroid. Bucket sizes never change.
func improveBySwaps(ctx context.Context, points []orb.Point, buckets [][]int) error {
	centroids := make([]orb.Point, len(buckets))
	for b := range buckets {
		centroids[b] = centroid(points, buckets[b])
	}

	for round := 0; round < maxSwapRounds; round++ {
		improved := false

		for a := 0; a < len(buckets); a++ {
			for b := a + 1; b < len(buckets); b++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for ia := 0; ia < len(buckets[a]); ia++ {
					for ib := 0; ib < len(buckets[b]); ib++ {
						pa, pb := points[buckets[a][ia]], points[buckets[b][ib]]
						before := geo.DistanceHaversine(pa, centroids[a]) + geo.DistanceHaversine(pb, centroids[b])
						after := geo.DistanceHaversine(pa, centroids[b]) + geo.DistanceHaversine(pb, centroids[a])
						if after < before-swapEpsilon {
							buckets[a][ia], buckets[b][ib] = buckets[b][ib], buckets[a][ia]
							centroids[a] = centroid(points, buckets[a])
							centroids[b] = centroid(points, buckets[b])
							improved = true
						}
					}
				}
			}
		}

		if !improved {
			return nil
		}
	}
	return nil
}
