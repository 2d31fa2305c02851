// Package model はデータセット上で動く推定器の共通インターフェースを定義する。
package model

import "github.com/YuminosukeSato/knnlite/dataset"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(train *dataset.Dataset) error
}

// Predictor は1件のクエリに対してクラスを予測するインターフェース
type Predictor interface {
	// Predict はクエリの特徴量ベクトルに対するクラスを返す
	Predict(query []float64) (int, error)
}

// Scorer は評価データに対するスコアを計算するインターフェース
type Scorer interface {
	// Score は正解率を [0, 1] で返す
	Score(test *dataset.Dataset) (float64, error)
}

// Classifier は分類モデルのインターフェース
type Classifier interface {
	Fitter
	Predictor
	Scorer
}

// Transformer はデータセットをその場で変換するインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(ds *dataset.Dataset) error

	// Transform はデータセットをその場で変換する
	Transform(ds *dataset.Dataset) error

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(ds *dataset.Dataset) error
}

// ParameterGetter はハイパーパラメータを公開するモデルのインターフェース
type ParameterGetter interface {
	// GetParams はモデルのハイパーパラメータを返す
	GetParams() map[string]interface{}
}
