package model_selection

import (
	"slices"
	"testing"

	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequential はサンプル i の特徴量が {i, -i}、ラベルが i%nClasses のデータセットを返す
func sequential(t *testing.T, n, nClasses int) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(n, 2, nClasses)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, ds.Append([]float64{float64(i), -float64(i)}, i%nClasses))
	}
	return ds
}

func ids(ds *dataset.Dataset) []int {
	out := make([]int, ds.Len())
	for i := range out {
		out[i] = int(ds.Features(i)[0])
	}
	return out
}

func TestShuffle_IsPermutation(t *testing.T) {
	ds := sequential(t, 50, 3)
	require.NoError(t, Shuffle(ds, NewRand(42)))

	got := ids(ds)
	sorted := slices.Clone(got)
	slices.Sort(sorted)
	for i, v := range sorted {
		require.Equal(t, i, v)
	}

	// 特徴量とラベルは一緒に移動する
	for i := 0; i < ds.Len(); i++ {
		f := ds.Features(i)
		assert.Equal(t, -f[0], f[1])
		assert.Equal(t, int(f[0])%3, ds.Label(i))
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	a := sequential(t, 30, 2)
	b := sequential(t, 30, 2)
	require.NoError(t, Shuffle(a, NewRand(7)))
	require.NoError(t, Shuffle(b, NewRand(7)))
	assert.Equal(t, ids(a), ids(b))
}

func TestShuffle_ChangesOrder(t *testing.T) {
	original := ids(sequential(t, 20, 2))

	changed := false
	for seed := int64(0); seed < 5 && !changed; seed++ {
		ds := sequential(t, 20, 2)
		require.NoError(t, Shuffle(ds, NewRand(seed)))
		changed = !slices.Equal(ids(ds), original)
	}
	assert.True(t, changed, "no seed produced a different order")
}

func TestShuffle_SmallInputs(t *testing.T) {
	empty, err := dataset.New(3, 2, 2)
	require.NoError(t, err)
	require.NoError(t, Shuffle(empty, NewRand(1)))
	assert.Equal(t, 0, empty.Len())

	one := sequential(t, 1, 2)
	require.NoError(t, Shuffle(one, NewRand(1)))
	assert.Equal(t, []int{0}, ids(one))
}

func TestShuffle_RequiresRand(t *testing.T) {
	var ve *errors.ValidationError
	assert.True(t, errors.As(Shuffle(sequential(t, 3, 2), nil), &ve))
}

func TestNewRand_TimeSeeded(t *testing.T) {
	assert.NotNil(t, NewRand(-1))
}

func TestTrainTestSplit(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		ratio     float64
		wantTrain int
	}{
		{"default ratio", 10, 0.8, 8},
		{"floor", 7, 0.8, 5},
		{"half", 4, 0.5, 2},
		{"tiny ratio", 3, 0.1, 0},
		{"large ratio", 3, 0.99, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := sequential(t, tt.n, 3)
			train, test, err := TrainTestSplit(ds, tt.ratio)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTrain, train.Len())
			assert.Equal(t, tt.n-tt.wantTrain, test.Len())
			assert.Equal(t, train.Len(), train.Capacity())
			assert.Equal(t, test.Len(), test.Capacity())
			assert.Equal(t, ds.NumFeatures(), train.NumFeatures())
			assert.Equal(t, ds.NumClasses(), test.NumClasses())

			all := append(ids(train), ids(test)...)
			assert.Equal(t, ids(ds), all, "split must preserve order")
		})
	}
}

func TestTrainTestSplit_InvalidRatio(t *testing.T) {
	ds := sequential(t, 4, 2)
	for _, ratio := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := TrainTestSplit(ds, ratio)
		var ve *errors.ValidationError
		assert.True(t, errors.As(err, &ve), "ratio %v", ratio)
	}
}

func TestTrainTestSplit_CopiesData(t *testing.T) {
	ds := sequential(t, 4, 2)
	train, _, err := TrainTestSplit(ds, 0.5)
	require.NoError(t, err)

	train.Features(0)[0] = 100
	assert.Equal(t, 0.0, ds.Features(0)[0])
}
