package model_selection

import (
	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/YuminosukeSato/knnlite/pkg/log"
	"github.com/YuminosukeSato/knnlite/sklearn/neighbors"
)

// KScore は近傍数 k での評価データに対する正解率
type KScore struct {
	K        int
	Accuracy float64
}

// ValidationCurve は ks の各値で分類器を学習し、評価データの正解率を返す
//
// 訓練データ数を超える k は ValidationError になる。
func ValidationCurve(train, test *dataset.Dataset, ks []int) ([]KScore, error) {
	if len(ks) == 0 {
		return nil, errors.NewValidationError("ks", "at least one k is required", ks)
	}
	if test == nil || test.Len() == 0 {
		return nil, errors.NewModelError("ValidationCurve", "empty evaluation set", errors.ErrEmptyData)
	}

	logger := log.GetLoggerWithName("model_selection")
	scores := make([]KScore, 0, len(ks))
	for _, k := range ks {
		clf := neighbors.NewKNeighborsClassifier(neighbors.WithK(k), neighbors.WithLogger(logger))
		if err := clf.Fit(train); err != nil {
			return nil, errors.Wrapf(err, "k=%d", k)
		}
		acc, err := clf.Score(test)
		if err != nil {
			return nil, errors.Wrapf(err, "k=%d", k)
		}
		logger.Debug("validation score", log.KKey, k, log.AccuracyKey, acc)
		scores = append(scores, KScore{K: k, Accuracy: acc})
	}
	return scores, nil
}

// BestK は正解率が最大の KScore を返す。同率なら先に現れたもの
func BestK(scores []KScore) (KScore, bool) {
	if len(scores) == 0 {
		return KScore{}, false
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Accuracy > best.Accuracy {
			best = s
		}
	}
	return best, true
}
