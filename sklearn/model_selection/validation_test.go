package model_selection

import (
	"testing"

	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusters(t *testing.T, centers []float64, perClass int) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(len(centers)*perClass, 1, len(centers))
	require.NoError(t, err)
	for c, center := range centers {
		for i := 0; i < perClass; i++ {
			require.NoError(t, ds.Append([]float64{center + 0.1*float64(i)}, c))
		}
	}
	return ds
}

func TestValidationCurve(t *testing.T) {
	train := clusters(t, []float64{0, 10}, 4)
	test := clusters(t, []float64{0.05, 10.05}, 2)

	scores, err := ValidationCurve(train, test, []int{1, 3, 8})
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.Equal(t, KScore{K: 1, Accuracy: 1}, scores[0])
	assert.Equal(t, KScore{K: 3, Accuracy: 1}, scores[1])
	// k = n では全体の多数決（同票でクラス 0）
	assert.Equal(t, KScore{K: 8, Accuracy: 0.5}, scores[2])

	best, ok := BestK(scores)
	require.True(t, ok)
	assert.Equal(t, 1, best.K)
}

func TestValidationCurve_Errors(t *testing.T) {
	train := clusters(t, []float64{0, 10}, 2)
	test := clusters(t, []float64{0, 10}, 1)

	_, err := ValidationCurve(train, test, nil)
	assert.Error(t, err)

	_, err = ValidationCurve(train, test, []int{1, 5})
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	empty, _ := dataset.New(1, 1, 2)
	_, err = ValidationCurve(train, empty, []int{1})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestBestK_Empty(t *testing.T) {
	_, ok := BestK(nil)
	assert.False(t, ok)
}
