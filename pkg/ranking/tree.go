package ranking

import (
	"math/rand"
	"sort"
)

type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	dist      []float64 // class proportions, leaves only
}

func (n *node) leaf() bool {
	return n.left == nil
}

type treeBuilder struct {
	X           [][]float64
	y           []int
	numClasses  int
	maxFeatures int
	minSplit    int
	maxDepth    int
	rng         *rand.Rand
}

// build grows a CART classification tree on the given sample indices, which may repeat
// (bootstrap multiplicity acts as sample weight).
func (b *treeBuilder) build(idx []int, depth int) *node {
	counts := b.counts(idx)
	if len(idx) < b.minSplit || pure(counts) || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return b.leafNode(counts, len(idx))
	}

	feature, threshold, ok := b.bestSplit(idx, counts)
	if !ok {
		return b.leafNode(counts, len(idx))
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

// bestSplit tries a random subset of features first and, if none of them can split
// the node, the remaining features.
func (b *treeBuilder) bestSplit(idx []int, parent []int) (int, float64, bool) {
	nFeatures := len(b.X[idx[0]])
	order := b.rng.Perm(nFeatures)

	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := gini(parent, len(idx))
	found := false

	for visited, f := range order {
		if visited >= b.maxFeatures && found {
			break
		}
		threshold, impurity, ok := b.splitOn(idx, f)
		if ok && impurity < bestImpurity {
			bestFeature, bestThreshold, bestImpurity = f, threshold, impurity
			found = true
		}
	}
	return bestFeature, bestThreshold, found
}

// splitOn returns the threshold minimising weighted child Gini impurity for feature f.
func (b *treeBuilder) splitOn(idx []int, f int) (float64, float64, bool) {
	sorted := make([]int, len(idx))
	copy(sorted, idx)
	sort.SliceStable(sorted, func(i, j int) bool {
		return b.X[sorted[i]][f] < b.X[sorted[j]][f]
	})

	total := len(sorted)
	left := make([]int, b.numClasses)
	right := b.counts(sorted)

	bestThreshold, bestImpurity := 0.0, 0.0
	found := false
	for i := 0; i < total-1; i++ {
		c := b.y[sorted[i]]
		left[c]++
		right[c]--

		cur, next := b.X[sorted[i]][f], b.X[sorted[i+1]][f]
		if cur == next {
			continue
		}
		nl, nr := i+1, total-i-1
		impurity := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(total)
		if !found || impurity < bestImpurity {
			bestThreshold = cur + (next-cur)/2
			bestImpurity = impurity
			found = true
		}
	}
	return bestThreshold, bestImpurity, found
}

func (b *treeBuilder) counts(idx []int) []int {
	c := make([]int, b.numClasses)
	for _, i := range idx {
		c[b.y[i]]++
	}
	return c
}

func (b *treeBuilder) leafNode(counts []int, n int) *node {
	dist := make([]float64, b.numClasses)
	if n > 0 {
		for k, c := range counts {
			dist[k] = float64(c) / float64(n)
		}
	}
	return &node{dist: dist}
}

func (n *node) predict(x []float64) []float64 {
	cur := n
	for !cur.leaf() {
		if x[cur.feature] <= cur.threshold {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return cur.dist
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func pure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}
