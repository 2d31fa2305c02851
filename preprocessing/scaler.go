// Package preprocessing は特徴量ごとの z-score 正規化を提供する。
//
// 統計量は訓練データのみから計算し、同じ値を訓練・評価の両方に適用する。
// 変換はすべてデータセットをその場で書き換える。
package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/knnlite/core/model"
	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ComputeMeanStd は特徴量ごとの平均と母標準偏差（N で割る）を計算する
//
// 定数の特徴量は平均をその値、標準偏差を 1 とするため、適用後はちょうど 0 になる。
// 返される標準偏差はすべて正。
func ComputeMeanStd(ds *dataset.Dataset) (mean, std []float64, err error) {
	if ds == nil || ds.Len() == 0 {
		return nil, nil, errors.NewValueError("ComputeMeanStd", "cannot compute statistics of an empty dataset")
	}

	n, f := ds.Len(), ds.NumFeatures()
	mean = make([]float64, f)
	std = make([]float64, f)
	col := make([]float64, n)

	for j := 0; j < f; j++ {
		for i := 0; i < n; i++ {
			col[i] = ds.Features(i)[j]
		}

		if floats.Min(col) == floats.Max(col) {
			mean[j], std[j] = col[0], 1
			continue
		}

		mean[j], std[j] = stat.PopMeanStdDev(col, nil)
		if std[j] == 0 {
			std[j] = 1
		}
		if err := errors.CheckScalar("ComputeMeanStd", mean[j], j); err != nil {
			return nil, nil, err
		}
	}
	return mean, std, nil
}

// ApplyNormalization は各特徴量を (x - mean[j]) / std[j] にその場で置き換える
func ApplyNormalization(ds *dataset.Dataset, mean, std []float64) error {
	if ds == nil {
		return errors.NewValueError("ApplyNormalization", "dataset is nil")
	}
	f := ds.NumFeatures()
	if len(mean) != f {
		return errors.NewDimensionError("ApplyNormalization", f, len(mean), 1)
	}
	if len(std) != f {
		return errors.NewDimensionError("ApplyNormalization", f, len(std), 1)
	}
	for j, s := range std {
		if !(s > 0) {
			return errors.NewValidationError(fmt.Sprintf("std[%d]", j), "must be positive", s)
		}
	}

	for i := 0; i < ds.Len(); i++ {
		x := ds.Features(i)
		floats.Sub(x, mean)
		floats.Div(x, std)
	}
	return nil
}

// StandardScaler は学習した平均・標準偏差でデータセットを標準化する
type StandardScaler struct {
	model.BaseEstimator

	mean []float64
	std  []float64

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

var (
	_ model.Transformer     = (*StandardScaler)(nil)
	_ model.ParameterGetter = (*StandardScaler)(nil)
)

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(train)
//	err = scaler.Transform(test)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
func (s *StandardScaler) Fit(ds *dataset.Dataset) error {
	mean, std, err := ComputeMeanStd(ds)
	if err != nil {
		return errors.NewModelError("StandardScaler.Fit", "cannot compute statistics", err)
	}

	if !s.WithMean {
		for j := range mean {
			mean[j] = 0
		}
	}
	if !s.WithStd {
		for j := range std {
			std[j] = 1
		}
	}

	s.mean, s.std = mean, std
	s.SetFitted(ds.Len(), ds.NumFeatures())
	return nil
}

// Transform は学習済みの統計情報でデータセットをその場で標準化する
func (s *StandardScaler) Transform(ds *dataset.Dataset) error {
	if err := s.check(ds, "Transform"); err != nil {
		return err
	}
	return ApplyNormalization(ds, s.mean, s.std)
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(ds *dataset.Dataset) error {
	if err := s.Fit(ds); err != nil {
		return err
	}
	return s.Transform(ds)
}

// InverseTransform は標準化されたデータセットをその場で元のスケールに戻す
func (s *StandardScaler) InverseTransform(ds *dataset.Dataset) error {
	if err := s.check(ds, "InverseTransform"); err != nil {
		return err
	}
	for i := 0; i < ds.Len(); i++ {
		x := ds.Features(i)
		floats.Mul(x, s.std)
		floats.Add(x, s.mean)
	}
	return nil
}

// Mean は学習した平均のコピーを返す
func (s *StandardScaler) Mean() []float64 {
	return append([]float64(nil), s.mean...)
}

// Std は学習した標準偏差のコピーを返す
func (s *StandardScaler) Std() []float64 {
	return append([]float64(nil), s.std...)
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	nFeatures, _ := s.Dimensions()
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, nFeatures)
}

func (s *StandardScaler) check(ds *dataset.Dataset, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError("StandardScaler", method)
	}
	if ds == nil {
		return errors.NewValueError("StandardScaler."+method, "dataset is nil")
	}
	if nFeatures, _ := s.Dimensions(); ds.NumFeatures() != nFeatures {
		return errors.NewDimensionError("StandardScaler."+method, nFeatures, ds.NumFeatures(), 1)
	}
	return nil
}
