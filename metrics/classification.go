// Package metrics は分類結果の評価指標を提供する。
package metrics

import (
	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// AccuracyScore は予測が正解と一致した割合を返す
//
// 有効なクラスでない予測（予測なしを含む）は不正解として数える。
func AccuracyScore(yTrue, yPred []int) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("AccuracyScore", "empty label vector")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("AccuracyScore", n, len(yPred), 0)
	}

	correct := 0
	for i, y := range yTrue {
		if yPred[i] == y {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ConfusionMatrix は nClasses × nClasses の混同行列を返す（行: 正解、列: 予測）
//
// 予測が [0, nClasses) の範囲外のサンプルは行列に含めず、その件数を unmatched として返す。
func ConfusionMatrix(yTrue, yPred []int, nClasses int) (cm *mat.Dense, unmatched int, err error) {
	if nClasses < 1 {
		return nil, 0, errors.NewValidationError("n_classes", "must be at least 1", nClasses)
	}
	if len(yTrue) == 0 {
		return nil, 0, errors.NewValueError("ConfusionMatrix", "empty label vector")
	}
	if len(yPred) != len(yTrue) {
		return nil, 0, errors.NewDimensionError("ConfusionMatrix", len(yTrue), len(yPred), 0)
	}

	cm = mat.NewDense(nClasses, nClasses, nil)
	for i, y := range yTrue {
		if y < 0 || y >= nClasses {
			return nil, 0, errors.NewValidationError("y_true", "label out of range", y)
		}
		p := yPred[i]
		if p < 0 || p >= nClasses {
			unmatched++
			continue
		}
		cm.Set(y, p, cm.At(y, p)+1)
	}
	return cm, unmatched, nil
}

// ClassCount はクラスごとのサンプル数と全体に占める割合（%）
type ClassCount struct {
	Class   int
	Count   int
	Percent float64
}

// ClassDistribution はデータセットのクラス分布を返す
func ClassDistribution(ds *dataset.Dataset) ([]ClassCount, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.NewValueError("ClassDistribution", "empty dataset")
	}

	counts := ds.ClassCounts()
	total := float64(ds.Len())
	out := make([]ClassCount, len(counts))
	for c, n := range counts {
		out[c] = ClassCount{
			Class:   c,
			Count:   n,
			Percent: 100 * float64(n) / total,
		}
	}
	return out, nil
}
