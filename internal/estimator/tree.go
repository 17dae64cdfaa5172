package estimator

import "sort"

// node is a regression tree node; leaves carry the mean target of their samples
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     float64
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

func (n *node) predict(x []float64) float64 {
	for !n.isLeaf() {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// buildTree grows a CART regression tree over the sample indices idx,
// choosing at each node the split with the lowest total squared error.
func buildTree(x [][]float64, y []float64, idx []int, depth int, opts Options) *node {
	n := &node{value: mean(y, idx)}

	if len(idx) < 2*opts.MinSamplesLeaf {
		return n
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return n
	}

	feature, threshold, ok := bestSplit(x, y, idx, opts.MinSamplesLeaf)
	if !ok {
		return n
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	n.feature = feature
	n.threshold = threshold
	n.left = buildTree(x, y, left, depth+1, opts)
	n.right = buildTree(x, y, right, depth+1, opts)
	return n
}

// bestSplit scans every feature for the threshold minimizing left SSE + right SSE.
// Returns ok=false when no split reduces the node's error.
func bestSplit(x [][]float64, y []float64, idx []int, minLeaf int) (int, float64, bool) {
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	total := float64(len(idx))
	bestErr := sumSq - sum*sum/total
	if bestErr <= 1e-12 {
		return 0, 0, false
	}

	bestFeature, bestThreshold, found := 0, 0.0, false
	sorted := make([]int, len(idx))

	for f := range x[idx[0]] {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return x[sorted[a]][f] < x[sorted[b]][f]
		})

		var leftSum, leftSq float64
		for k := 0; k < len(sorted)-1; k++ {
			v := y[sorted[k]]
			leftSum += v
			leftSq += v * v

			cur, next := x[sorted[k]][f], x[sorted[k+1]][f]
			if cur == next {
				continue
			}
			nl := float64(k + 1)
			nr := total - nl
			if int(nl) < minLeaf || int(nr) < minLeaf {
				continue
			}

			rightSum := sum - leftSum
			rightSq := sumSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestErr-1e-12 {
				bestErr = sse
				bestFeature = f
				bestThreshold = (cur + next) / 2
				found = true
			}
		}
	}

	return bestFeature, bestThreshold, found
}

func mean(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var s float64
	for _, i := range idx {
		s += y[i]
	}
	return s / float64(len(idx))
}
