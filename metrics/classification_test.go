package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
)

func TestAccuracyScore(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []int
		yPred   []int
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []int{0, 1, 2, 1, 0},
			yPred: []int{0, 1, 2, 1, 0},
			want:  1.0,
		},
		{
			name:  "80% accuracy",
			yTrue: []int{0, 1, 2, 1, 0},
			yPred: []int{0, 1, 1, 1, 0},
			want:  0.8,
		},
		{
			name:  "No prediction counts as incorrect",
			yTrue: []int{0, 1},
			yPred: []int{0, -1},
			want:  0.5,
		},
		{
			name:  "Zero accuracy",
			yTrue: []int{0, 0, 0},
			yPred: []int{1, 1, 1},
			want:  0.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []int{},
			yPred:   []int{},
			wantErr: true,
		},
		{
			name:    "Length mismatch",
			yTrue:   []int{0, 1},
			yPred:   []int{0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AccuracyScore(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("AccuracyScore() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AccuracyScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []int{0, 0, 1, 1, 2, 2}
	yPred := []int{0, 1, 1, 1, -1, 0}

	cm, unmatched, err := ConfusionMatrix(yTrue, yPred, 3)
	if err != nil {
		t.Fatalf("ConfusionMatrix() error = %v", err)
	}
	if unmatched != 1 {
		t.Errorf("unmatched = %d, want 1", unmatched)
	}

	want := [][]float64{
		{1, 1, 0},
		{0, 2, 0},
		{1, 0, 0},
	}
	for i, row := range want {
		for j, v := range row {
			if got := cm.At(i, j); got != v {
				t.Errorf("cm[%d][%d] = %v, want %v", i, j, got, v)
			}
		}
	}
}

func TestConfusionMatrix_Errors(t *testing.T) {
	if _, _, err := ConfusionMatrix([]int{0}, []int{0}, 0); err == nil {
		t.Error("expected error for zero classes")
	}
	if _, _, err := ConfusionMatrix([]int{0, 1}, []int{0}, 2); err == nil {
		t.Error("expected error for length mismatch")
	}

	_, _, err := ConfusionMatrix([]int{5}, []int{0}, 2)
	var ve *errors.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for out-of-range label, got %v", err)
	}
}

func TestClassDistribution(t *testing.T) {
	ds, err := dataset.New(4, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, label := range []int{0, 2, 2, 2} {
		if err := ds.Append([]float64{0}, label); err != nil {
			t.Fatal(err)
		}
	}

	dist, err := ClassDistribution(ds)
	if err != nil {
		t.Fatalf("ClassDistribution() error = %v", err)
	}

	want := []ClassCount{
		{Class: 0, Count: 1, Percent: 25},
		{Class: 1, Count: 0, Percent: 0},
		{Class: 2, Count: 3, Percent: 75},
	}
	if len(dist) != len(want) {
		t.Fatalf("len = %d, want %d", len(dist), len(want))
	}
	for i := range want {
		if dist[i] != want[i] {
			t.Errorf("dist[%d] = %+v, want %+v", i, dist[i], want[i])
		}
	}

	empty, _ := dataset.New(1, 1, 1)
	if _, err := ClassDistribution(empty); err == nil {
		t.Error("expected error for empty dataset")
	}
}

func BenchmarkAccuracyScore(b *testing.B) {
	n := 1000
	yTrue := make([]int, n)
	yPred := make([]int, n)
	for i := 0; i < n; i++ {
		yTrue[i] = i % 5
		yPred[i] = (i * 7) % 5
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = AccuracyScore(yTrue, yPred)
	}
}
