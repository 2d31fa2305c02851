package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// String は状態名を返す
func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not_fitted"
}

// BaseEstimator は全てのモデルの基底となる構造体
//
// 学習時に観測した特徴量数とサンプル数を保持し、推論時の次元検査に使う。
type BaseEstimator struct {
	state     EstimatorState
	nFeatures int
	nSamples  int
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// State は現在の学習状態を返す
func (e *BaseEstimator) State() EstimatorState {
	return e.state
}

// SetFitted はモデルを学習済み状態に設定し、学習データの形状を記録する
func (e *BaseEstimator) SetFitted(nSamples, nFeatures int) {
	e.state = Fitted
	e.nSamples = nSamples
	e.nFeatures = nFeatures
}

// Dimensions は学習時の特徴量数とサンプル数を返す
func (e *BaseEstimator) Dimensions() (nFeatures, nSamples int) {
	return e.nFeatures, e.nSamples
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
	e.nFeatures = 0
	e.nSamples = 0
}
