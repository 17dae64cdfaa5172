package estimator

import (
	"math"
	"testing"
)

func TestBuildTreeFitsStepFunction(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []float64{1, 1, 1, 5, 5, 5}
	idx := []int{0, 1, 2, 3, 4, 5}

	root := buildTree(x, y, idx, 0, Options{MinSamplesLeaf: 1})
	if root.isLeaf() {
		t.Fatal("expected a split at the root")
	}
	if root.feature != 0 || root.threshold != 3.5 {
		t.Errorf("root split = x[%d] <= %v, want x[0] <= 3.5", root.feature, root.threshold)
	}

	tests := []struct {
		in   float64
		want float64
	}{
		{0, 1}, {2.5, 1}, {3.5, 1}, {3.6, 5}, {100, 5},
	}
	for _, tt := range tests {
		if got := root.predict([]float64{tt.in}); got != tt.want {
			t.Errorf("predict(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuildTreeRespectsMaxDepth(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 2, 3, 4}

	root := buildTree(x, y, []int{0, 1, 2, 3}, 0, Options{MinSamplesLeaf: 1, MaxDepth: 1})
	if root.isLeaf() || !root.left.isLeaf() || !root.right.isLeaf() {
		t.Fatal("expected exactly one split with MaxDepth=1")
	}

	full := buildTree(x, y, []int{0, 1, 2, 3}, 0, Options{MinSamplesLeaf: 1, MaxDepth: 0})
	if got := full.predict([]float64{1}); got != 1 {
		t.Errorf("unlimited tree predict(1) = %v, want 1", got)
	}
}

func TestBuildTreePureNodeIsLeaf(t *testing.T) {
	x := [][]float64{{1, 9}, {2, 8}, {3, 7}}
	y := []float64{4, 4, 4}

	root := buildTree(x, y, []int{0, 1, 2}, 0, Options{MinSamplesLeaf: 1})
	if !root.isLeaf() {
		t.Fatal("pure node should not split")
	}
	if math.Abs(root.value-4) > 1e-12 {
		t.Errorf("leaf value = %v, want 4", root.value)
	}
}

func TestForestPredictionWithinTargetRange(t *testing.T) {
	x := make([][]float64, 20)
	y := make([]float64, 20)
	idx := make([]int, 20)
	for i := range x {
		x[i] = []float64{float64(i), float64(i % 3)}
		y[i] = float64(3 * i)
		idx[i] = i
	}

	f := fitForest(x, y, idx, DefaultOptions())
	for _, row := range [][]float64{{-10, 0}, {7, 1}, {500, 2}} {
		got := f.predict(row)
		if got < 0 || got > 57 {
			t.Errorf("predict(%v) = %v, outside observed target range [0, 57]", row, got)
		}
	}
}
