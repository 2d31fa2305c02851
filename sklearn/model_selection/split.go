// Package model_selection はデータセットのシャッフルと訓練・評価分割、
// および近傍数 k の検証曲線を提供する。
package model_selection

import (
	"math/rand/v2"
	"time"

	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
)

// DefaultTrainRatio は訓練データに割り当てる割合の既定値
const DefaultTrainRatio = 0.8

// NewRand は乱数生成器を作成する
//
// seed が負の場合は現在時刻から初期化する。それ以外は同じ seed で同じ系列を返す。
func NewRand(seed int64) *rand.Rand {
	if seed < 0 {
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, now>>1))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Shuffle はデータセットのサンプル順をその場で一様ランダムに並べ替える（Fisher–Yates）
func Shuffle(ds *dataset.Dataset, rng *rand.Rand) error {
	if ds == nil {
		return errors.NewValueError("Shuffle", "dataset is nil")
	}
	if rng == nil {
		return errors.NewValidationError("rng", "random source is required", nil)
	}
	for i := ds.Len() - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		ds.Swap(i, j)
	}
	return nil
}

// TrainTestSplit は先頭 floor(n*ratio) 件を訓練、残りを評価データとして新しいデータセットにコピーする
//
// 各出力はちょうど自身のサンプル数の容量を持ち、特徴量数とクラス数を引き継ぐ。
// 入力は変更しない。
func TrainTestSplit(ds *dataset.Dataset, ratio float64) (train, test *dataset.Dataset, err error) {
	if ds == nil {
		return nil, nil, errors.NewValueError("TrainTestSplit", "dataset is nil")
	}
	if !(ratio > 0 && ratio < 1) {
		return nil, nil, errors.NewValidationError("train_ratio", "must be in the open interval (0, 1)", ratio)
	}

	n := ds.Len()
	trainSize := int(float64(n) * ratio)

	if train, err = ds.Slice(0, trainSize); err != nil {
		return nil, nil, err
	}
	if test, err = ds.Slice(trainSize, n); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
