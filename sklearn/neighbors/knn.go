// Package neighbors は総当たりの k 近傍法による分類を提供する。
//
// 学習はデータセットを保持するだけで、推論のたびに全訓練サンプルとの
// ユークリッド距離を計算し、近い順に k 件のラベルで多数決を取る。
// 同票の場合は小さいクラス番号が勝つ。
package neighbors

import (
	"cmp"
	"slices"

	"github.com/YuminosukeSato/knnlite/core/model"
	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/metrics"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/YuminosukeSato/knnlite/pkg/log"
	"gonum.org/v1/gonum/floats"
)

const (
	// NoPrediction は予測を決められなかったことを表すラベル
	NoPrediction = -1

	// DefaultK は近傍数の既定値
	DefaultK = 15
)

// Neighbor は訓練サンプル1件までの距離とそのラベル
//
// 順序は距離のみで決まり、等距離のもの同士の並びは規定しない。
type Neighbor struct {
	Distance float64
	Label    int
}

// EuclideanDistance は a と b のユークリッド距離を返す
//
// 長さが異なる場合は panic する。
func EuclideanDistance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Classify は train に対する query のクラスを k 近傍の多数決で予測する
//
// 呼び出しごとに訓練サンプル数分の Neighbor を確保する。繰り返し推論する場合は
// KNeighborsClassifier を使う。
func Classify(query []float64, train *dataset.Dataset, k int) (int, error) {
	if err := validate(query, train, k, "Classify"); err != nil {
		return NoPrediction, err
	}
	buf := make([]Neighbor, train.Len())
	votes := make([]int, train.NumClasses())
	return vote(query, train, train.Len(), k, buf, votes)
}

func validate(query []float64, train *dataset.Dataset, k int, op string) error {
	if train == nil || train.Len() == 0 {
		return errors.NewModelError(op, "empty training set", errors.ErrEmptyData)
	}
	if k < 1 || k > train.Len() {
		return errors.NewValidationError("k", "must satisfy 1 <= k <= number of training samples", k)
	}
	return validateQuery(query, train.NumFeatures(), op)
}

func validateQuery(query []float64, nFeatures int, op string) error {
	if len(query) != nFeatures {
		return errors.NewDimensionError(op, nFeatures, len(query), 1)
	}
	return errors.CheckNumericalStability(op, query, 0)
}

// vote は事前検証済みの入力に対して先頭 n 件の訓練サンプルで距離計算・整列・投票を行う
func vote(query []float64, train *dataset.Dataset, n, k int, buf []Neighbor, votes []int) (int, error) {
	buf = buf[:n]
	for i := 0; i < n; i++ {
		buf[i] = Neighbor{
			Distance: EuclideanDistance(query, train.Features(i)),
			Label:    train.Label(i),
		}
	}
	slices.SortStableFunc(buf, func(a, b Neighbor) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	clear(votes)
	for _, nb := range buf[:k] {
		votes[nb.Label]++
	}

	predicted, maxVotes := NoPrediction, 0
	for class, count := range votes {
		if count > maxVotes {
			predicted, maxVotes = class, count
		}
	}
	if predicted == NoPrediction {
		return NoPrediction, errors.ErrNoPrediction
	}
	return predicted, nil
}

// KNeighborsClassifier は訓練データを保持して k 近傍で分類するモデル
//
// 推論用の作業領域を1つだけ持つため、並行に使ってはならない。
type KNeighborsClassifier struct {
	model.BaseEstimator

	k      int
	logger log.Logger

	train   *dataset.Dataset
	scratch []Neighbor
	votes   []int
}

var (
	_ model.Classifier      = (*KNeighborsClassifier)(nil)
	_ model.ParameterGetter = (*KNeighborsClassifier)(nil)
)

// Option はKNeighborsClassifierの設定オプション
type Option func(*KNeighborsClassifier)

// WithK は近傍数を設定（デフォルト: 15）
func WithK(k int) Option {
	return func(c *KNeighborsClassifier) {
		c.k = k
	}
}

// WithLogger はロガーを設定
func WithLogger(logger log.Logger) Option {
	return func(c *KNeighborsClassifier) {
		c.logger = logger
	}
}

// NewKNeighborsClassifier は新しいKNeighborsClassifierを作成する
//
// 使用例:
//
//	clf := neighbors.NewKNeighborsClassifier(neighbors.WithK(5))
//	err := clf.Fit(train)
//	label, err := clf.Predict(query)
func NewKNeighborsClassifier(options ...Option) *KNeighborsClassifier {
	c := &KNeighborsClassifier{k: DefaultK}
	for _, opt := range options {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.GetLoggerWithName("neighbors")
	}
	c.logger = c.logger.With(log.ModelNameKey, "KNeighborsClassifier")
	return c
}

// K は近傍数を返す
func (c *KNeighborsClassifier) K() int { return c.k }

// Fit は訓練データを保持する（コピーはしない）
//
// 推論に使うのは Fit 時点のサンプルのみで、その後 train に Append されたサンプルは無視される。
func (c *KNeighborsClassifier) Fit(train *dataset.Dataset) error {
	if train == nil || train.Len() == 0 {
		return errors.NewModelError("KNeighborsClassifier.Fit", "empty training set", errors.ErrEmptyData)
	}
	if c.k < 1 || c.k > train.Len() {
		return errors.NewValidationError("k", "must satisfy 1 <= k <= number of training samples", c.k)
	}

	c.train = train
	c.scratch = make([]Neighbor, train.Len())
	c.votes = make([]int, train.NumClasses())
	c.SetFitted(train.Len(), train.NumFeatures())

	c.logger.Debug("model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, train.Len(),
		log.FeaturesKey, train.NumFeatures(),
		log.KKey, c.k,
	)
	return nil
}

// Predict は query のクラスを返す
//
// 票を得たクラスがない場合は (NoPrediction, errors.ErrNoPrediction) を返す。
func (c *KNeighborsClassifier) Predict(query []float64) (int, error) {
	if !c.IsFitted() {
		return NoPrediction, errors.NewNotFittedError("KNeighborsClassifier", "Predict")
	}
	if err := validateQuery(query, c.train.NumFeatures(), "KNeighborsClassifier.Predict"); err != nil {
		return NoPrediction, err
	}
	_, nSamples := c.Dimensions()
	return vote(query, c.train, nSamples, c.k, c.scratch, c.votes)
}

// PredictDataset は ds の全サンプルを分類する
//
// 予測できなかったサンプルには NoPrediction が入る。
func (c *KNeighborsClassifier) PredictDataset(ds *dataset.Dataset) ([]int, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsClassifier", "PredictDataset")
	}
	if ds == nil {
		return nil, errors.NewValueError("KNeighborsClassifier.PredictDataset", "dataset is nil")
	}
	if nFeatures, _ := c.Dimensions(); ds.NumFeatures() != nFeatures {
		return nil, errors.NewDimensionError("KNeighborsClassifier.PredictDataset", nFeatures, ds.NumFeatures(), 1)
	}

	preds := make([]int, ds.Len())
	failures := 0
	for i := range preds {
		p, err := c.Predict(ds.Features(i))
		if err != nil {
			if !errors.Is(err, errors.ErrNoPrediction) {
				return nil, errors.Wrapf(err, "sample %d", i)
			}
			failures++
		}
		preds[i] = p
	}

	c.logger.Debug("dataset classified",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, len(preds),
		log.FailuresKey, failures,
	)
	return preds, nil
}

// Score は ds に対する正解率を返す
func (c *KNeighborsClassifier) Score(ds *dataset.Dataset) (float64, error) {
	preds, err := c.PredictDataset(ds)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(ds.Labels(), preds)
}

// GetParams はモデルのハイパーパラメータを返す
func (c *KNeighborsClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": c.k,
		"metric":      "euclidean",
	}
}
