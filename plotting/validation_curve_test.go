package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/knnlite/sklearn/model_selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveValidationCurve(t *testing.T) {
	scores := []model_selection.KScore{
		{K: 1, Accuracy: 0.7},
		{K: 3, Accuracy: 0.82},
		{K: 5, Accuracy: 0.8},
	}

	for _, name := range []string{"curve.png", "curve.svg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveValidationCurve(scores, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestSaveValidationCurve_Errors(t *testing.T) {
	assert.Error(t, SaveValidationCurve(nil, filepath.Join(t.TempDir(), "x.png")))

	scores := []model_selection.KScore{{K: 1, Accuracy: 1}}
	assert.Error(t, SaveValidationCurve(scores, filepath.Join(t.TempDir(), "x.unknown")))
}
