package estimator

import "math/rand"

// forest is a bagged ensemble of regression trees
type forest struct {
	trees []*node
}

// fitForest grows opts.NumTrees trees, each on a bootstrap sample of trainIdx
func fitForest(x [][]float64, y []float64, trainIdx []int, opts Options) *forest {
	rng := rand.New(rand.NewSource(opts.Seed))

	f := &forest{trees: make([]*node, opts.NumTrees)}
	sample := make([]int, len(trainIdx))
	for t := range f.trees {
		for i := range sample {
			sample[i] = trainIdx[rng.Intn(len(trainIdx))]
		}
		f.trees[t] = buildTree(x, y, append([]int(nil), sample...), 0, opts)
	}
	return f
}

// predict averages the trees' estimates
func (f *forest) predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}
