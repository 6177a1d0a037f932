package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"phoenix/domain/frame"
	"phoenix/domain/insight"
)

const (
	clusteringSeed = 42
	maxClusters    = 3
	kmeansMaxIter  = 100
)

// ClusteringGenerator partitions the complete numeric rows with seeded
// k-means and reports the natural groupings. Fewer than two numeric columns
// means the dataset has no clustering story to tell.
type ClusteringGenerator struct{}

func NewClusteringGenerator() *ClusteringGenerator { return &ClusteringGenerator{} }

func (g *ClusteringGenerator) Kind() insight.Type { return insight.TypeClustering }

func (g *ClusteringGenerator) Generate(ctx context.Context, f *frame.Frame) (insight.Finding, error) {
	numeric := f.NumericColumns()
	if len(numeric) < 2 {
		return nil, nil
	}

	matrix := f.NumericMatrix(numeric)
	if len(matrix) == 0 {
		return nil, fmt.Errorf("no complete numeric rows to cluster")
	}

	k := maxClusters
	if len(matrix) < k {
		k = len(matrix)
	}

	assignments := kmeans(matrix, k, clusteringSeed)

	sizes := make([]int, k)
	for _, c := range assignments {
		sizes[c]++
	}

	clusterCount := 0
	for _, size := range sizes {
		if size > 0 {
			clusterCount++
		}
	}

	return &insight.ClusteringFinding{
		ClusterCount: clusterCount,
		ClusterSizes: sizes,
		Message:      fmt.Sprintf("Found %d natural clusters in the data", clusterCount),
	}, nil
}

// kmeans runs Lloyd's algorithm with a fixed seed so repeated analyses of the
// same dataset agree. Centroids are seeded farthest-point style: one random
// row, then repeatedly the row farthest from the chosen set, which lands one
// centroid in each well-separated group. An emptied cluster keeps its
// previous centroid.
func kmeans(points [][]float64, k int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))

	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), points[rng.Intn(len(points))]...))
	for len(centroids) < k {
		farthest, farthestDist := 0, -1.0
		for i, p := range points {
			d := math.MaxFloat64
			for _, c := range centroids {
				if dc := floats.Distance(p, c, 2); dc < d {
					d = dc
				}
			}
			if d > farthestDist {
				farthest, farthestDist = i, d
			}
		}
		centroids = append(centroids, append([]float64(nil), points[farthest]...))
	}

	assignments := make([]int, len(points))
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		dims := len(points[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := assignments[i]
			floats.Add(sums[c], p)
			counts[c]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			floats.ScaleTo(centroids[c], 1/float64(counts[c]), sums[c])
		}
	}
	return assignments
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := floats.Distance(p, centroids[0], 2)
	for c := 1; c < len(centroids); c++ {
		if d := floats.Distance(p, centroids[c], 2); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}
