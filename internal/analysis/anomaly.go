package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"

	"phoenix/domain/frame"
	"phoenix/domain/insight"
)

const (
	anomalySeed      = 42
	forestTrees      = 100
	forestSampleSize = 256
	contamination    = 0.1

	// scoreFloor keeps uniform data from producing anomalies: the quantile
	// threshold alone would always flag the top decile, even when every point
	// scores as ordinary.
	scoreFloor = 0.5
)

// AnomalyGenerator flags outlier rows with a seeded isolation forest over the
// complete numeric rows. Zero flagged rows yield no finding.
type AnomalyGenerator struct{}

func NewAnomalyGenerator() *AnomalyGenerator { return &AnomalyGenerator{} }

func (g *AnomalyGenerator) Kind() insight.Type { return insight.TypeAnomaly }

func (g *AnomalyGenerator) Generate(ctx context.Context, f *frame.Frame) (insight.Finding, error) {
	numeric := f.NumericColumns()
	if len(numeric) == 0 {
		return nil, nil
	}

	matrix := f.NumericMatrix(numeric)
	if len(matrix) == 0 {
		return nil, fmt.Errorf("no complete numeric rows to score")
	}

	scores := isolationScores(matrix, anomalySeed)

	threshold, err := stats.Percentile(scores, (1-contamination)*100)
	if err != nil {
		threshold = scoreFloor
	}
	if threshold < scoreFloor {
		threshold = scoreFloor
	}

	count := 0
	for _, s := range scores {
		if s > threshold {
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}

	percentage := float64(count) / float64(len(matrix)) * 100
	return &insight.AnomalyFinding{
		AnomalyCount:      count,
		AnomalyPercentage: percentage,
		Message:           fmt.Sprintf("Detected %d potential anomalies (%.1f%% of data)", count, percentage),
	}, nil
}

// isolationScores computes the per-row isolation forest anomaly score in
// [0, 1]. Higher means easier to isolate, i.e. more anomalous.
func isolationScores(points [][]float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))

	sampleSize := forestSampleSize
	if len(points) < sampleSize {
		sampleSize = len(points)
	}
	depthLimit := int(math.Ceil(math.Log2(float64(sampleSize) + 1)))

	trees := make([]*isoNode, forestTrees)
	for t := range trees {
		sample := make([][]float64, sampleSize)
		for i, idx := range rng.Perm(len(points))[:sampleSize] {
			sample[i] = points[idx]
		}
		trees[t] = buildIsoTree(sample, 0, depthLimit, rng)
	}

	norm := avgPathLength(sampleSize)
	scores := make([]float64, len(points))
	for i, p := range points {
		var total float64
		for _, tree := range trees {
			total += pathLength(tree, p, 0)
		}
		mean := total / float64(len(trees))
		scores[i] = math.Pow(2, -mean/norm)
	}
	return scores
}

type isoNode struct {
	left, right *isoNode
	splitAttr   int
	splitVal    float64
	size        int
}

func buildIsoTree(points [][]float64, depth, limit int, rng *rand.Rand) *isoNode {
	if depth >= limit || len(points) <= 1 {
		return &isoNode{size: len(points)}
	}

	// Splittable attributes are those with spread in this partition
	dims := len(points[0])
	var candidates []int
	for d := 0; d < dims; d++ {
		lo, hi := points[0][d], points[0][d]
		for _, p := range points[1:] {
			if p[d] < lo {
				lo = p[d]
			}
			if p[d] > hi {
				hi = p[d]
			}
		}
		if hi > lo {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return &isoNode{size: len(points)}
	}

	attr := candidates[rng.Intn(len(candidates))]
	lo, hi := points[0][attr], points[0][attr]
	for _, p := range points[1:] {
		if p[attr] < lo {
			lo = p[attr]
		}
		if p[attr] > hi {
			hi = p[attr]
		}
	}
	split := lo + rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, p := range points {
		if p[attr] < split {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}

	return &isoNode{
		splitAttr: attr,
		splitVal:  split,
		size:      len(points),
		left:      buildIsoTree(left, depth+1, limit, rng),
		right:     buildIsoTree(right, depth+1, limit, rng),
	}
}

func pathLength(node *isoNode, p []float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if p[node.splitAttr] < node.splitVal {
		return pathLength(node.left, p, depth+1)
	}
	return pathLength(node.right, p, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points. It normalizes tree depths into comparable scores.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	if n == 2 {
		return 1
	}
	h := math.Log(float64(n-1)) + 0.5772156649
	return 2*h - 2*float64(n-1)/float64(n)
}
