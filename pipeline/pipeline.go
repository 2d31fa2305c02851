// Package pipeline は読み込みから評価までの一連の処理を順に実行する。
//
//	Load → Shuffle → Split → Fit(train) → Transform(train, test) → Classify(test)
//
// 正規化の統計量は訓練データのみから計算する。
package pipeline

import (
	"context"
	"time"

	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/metrics"
	"github.com/YuminosukeSato/knnlite/performance"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/YuminosukeSato/knnlite/pkg/log"
	"github.com/YuminosukeSato/knnlite/preprocessing"
	"github.com/YuminosukeSato/knnlite/sklearn/model_selection"
	"github.com/YuminosukeSato/knnlite/sklearn/neighbors"
	"github.com/YuminosukeSato/knnlite/source"
	"gonum.org/v1/gonum/mat"
)

// Pipeline は1回の学習・評価の設定
type Pipeline struct {
	uri        string
	delimiter  rune
	capacity   int
	nFeatures  int
	nClasses   int
	trainRatio float64
	k          int
	seed       int64
	lenient    bool
	budget     int64

	opener source.Opener
	logger log.Logger
}

// Option はPipelineの設定オプション
type Option func(*Pipeline)

// WithSource は読み込むデータのURIを設定
func WithSource(uri string) Option {
	return func(p *Pipeline) {
		p.uri = uri
	}
}

// WithDelimiter はフィールドの区切り文字を設定
func WithDelimiter(d rune) Option {
	return func(p *Pipeline) {
		p.delimiter = d
	}
}

// WithShape はデータセットの容量・特徴量数・クラス数を設定
func WithShape(capacity, nFeatures, nClasses int) Option {
	return func(p *Pipeline) {
		p.capacity = capacity
		p.nFeatures = nFeatures
		p.nClasses = nClasses
	}
}

// WithTrainRatio は訓練データの割合を設定（デフォルト: 0.8）
func WithTrainRatio(ratio float64) Option {
	return func(p *Pipeline) {
		p.trainRatio = ratio
	}
}

// WithK は近傍数を設定（デフォルト: 15）
func WithK(k int) Option {
	return func(p *Pipeline) {
		p.k = k
	}
}

// WithSeed はシャッフルの乱数シードを設定（負の値は時刻から初期化）
func WithSeed(seed int64) Option {
	return func(p *Pipeline) {
		p.seed = seed
	}
}

// WithLenient は不正な行を読み飛ばすかどうかを設定
func WithLenient(lenient bool) Option {
	return func(p *Pipeline) {
		p.lenient = lenient
	}
}

// WithMemoryBudget はデータ領域の上限バイト数を設定（0 は無制限）
func WithMemoryBudget(bytes int64) Option {
	return func(p *Pipeline) {
		p.budget = bytes
	}
}

// WithOpener はデータの取得元を設定
func WithOpener(o source.Opener) Option {
	return func(p *Pipeline) {
		p.opener = o
	}
}

// WithLogger はロガーを設定
func WithLogger(logger log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Result は1回の実行結果
type Result struct {
	Report       *dataset.LoadReport
	Distribution []metrics.ClassCount

	Train *dataset.Dataset
	Test  *dataset.Dataset

	Scaler     *preprocessing.StandardScaler
	Classifier *neighbors.KNeighborsClassifier

	// Predictions は評価データの各サンプルの予測。予測なしは neighbors.NoPrediction
	Predictions []int
	Failures    int
	Accuracy    float64
	Confusion   *mat.Dense

	Duration time.Duration
}

// New は設定を検証してPipelineを作成する
func New(options ...Option) (*Pipeline, error) {
	p := &Pipeline{
		delimiter:  ',',
		capacity:   dataset.DefaultCapacity,
		nFeatures:  dataset.DefaultNumFeatures,
		nClasses:   dataset.DefaultNumClasses,
		trainRatio: model_selection.DefaultTrainRatio,
		k:          neighbors.DefaultK,
		seed:       -1,
	}
	for _, opt := range options {
		opt(p)
	}

	if p.uri == "" {
		return nil, errors.NewValidationError("source", "must not be empty", p.uri)
	}
	if p.k < 1 {
		return nil, errors.NewValidationError("k", "must be at least 1", p.k)
	}
	if !(p.trainRatio > 0 && p.trainRatio < 1) {
		return nil, errors.NewValidationError("train_ratio", "must be in the open interval (0, 1)", p.trainRatio)
	}
	if p.budget < 0 {
		return nil, errors.NewValidationError("memory_budget", "must be non-negative", p.budget)
	}
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("pipeline")
	}
	if p.opener == nil {
		p.opener = source.NewRouter()
	}
	return p, nil
}

// Run は読み込みから評価までを実行する
//
// ctx のキャンセルは各段階の間で確認する。
func (p *Pipeline) Run(ctx context.Context) (res *Result, err error) {
	defer errors.Recover(&err, "Pipeline.Run")

	start := time.Now()
	logger := p.logger.With(log.SourceKey, p.uri, log.KKey, p.k)

	// 各段階で確保する領域を上限と突き合わせる（0 は無制限）
	var mem *performance.MemoryBudget
	if p.budget > 0 {
		mem = performance.NewMemoryBudget(p.budget)
	}
	reserve := func(stage string, bytes int64) error {
		if mem == nil {
			return nil
		}
		if err := mem.Allocate(bytes); err != nil {
			return errors.NewModelError("Pipeline.Run", stage+" does not fit the memory budget", err)
		}
		return nil
	}

	loadBytes := performance.DatasetFootprint(p.capacity, p.nFeatures)
	if err := reserve("load", loadBytes); err != nil {
		return nil, err
	}

	// 読み込み
	loader := dataset.NewLoader(
		dataset.WithDelimiter(p.delimiter),
		dataset.WithCapacity(p.capacity),
		dataset.WithNumFeatures(p.nFeatures),
		dataset.WithNumClasses(p.nClasses),
		dataset.WithLenient(p.lenient),
		dataset.WithOpener(p.opener),
		dataset.WithLogger(logger),
	)
	ds, report, err := loader.Load(ctx, p.uri)
	if err != nil {
		return nil, err
	}
	res = &Result{Report: report}

	if res.Distribution, err = metrics.ClassDistribution(ds); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 分割
	if err := model_selection.Shuffle(ds, model_selection.NewRand(p.seed)); err != nil {
		return nil, err
	}
	if err := reserve("split", performance.DatasetFootprint(ds.Len(), p.nFeatures)); err != nil {
		return nil, err
	}
	if res.Train, res.Test, err = model_selection.TrainTestSplit(ds, p.trainRatio); err != nil {
		return nil, err
	}
	// 分割後は読み込み用データセットを参照しない
	if mem != nil {
		mem.Free(loadBytes)
	}
	logger.Info("dataset split",
		log.OperationKey, log.OperationSplit,
		log.TrainRatioKey, p.trainRatio,
		log.RandomSeedKey, p.seed,
		log.TrainSizeKey, res.Train.Len(),
		log.TestSizeKey, res.Test.Len(),
	)
	if res.Train.Len() == 0 {
		return nil, errors.NewModelError("Pipeline.Run", "training set is empty", errors.ErrEmptyData)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 正規化（統計量は訓練データのみ）
	res.Scaler = preprocessing.NewStandardScalerDefault()
	if err := res.Scaler.FitTransform(res.Train); err != nil {
		return nil, err
	}
	if err := res.Scaler.Transform(res.Test); err != nil {
		return nil, err
	}
	logger.Debug("features normalized", log.PhaseKey, log.PhasePreprocessing, log.FeaturesKey, res.Train.NumFeatures())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 分類・評価
	if err := reserve("classify", performance.ScratchFootprint(res.Train.Len(), p.nClasses)); err != nil {
		return nil, err
	}
	res.Classifier = neighbors.NewKNeighborsClassifier(neighbors.WithK(p.k), neighbors.WithLogger(logger))
	if err := res.Classifier.Fit(res.Train); err != nil {
		return nil, err
	}
	if res.Predictions, err = res.Classifier.PredictDataset(res.Test); err != nil {
		return nil, err
	}

	labels := res.Test.Labels()
	if res.Accuracy, err = metrics.AccuracyScore(labels, res.Predictions); err != nil {
		return nil, err
	}
	if res.Confusion, res.Failures, err = metrics.ConfusionMatrix(labels, res.Predictions, p.nClasses); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	if mem != nil {
		used, limit := mem.Usage()
		logger.Debug("memory budget", log.MemoryPeakKey, mem.Peak(), "used", used, "budget", limit)
	}
	logger.Info("evaluation finished",
		log.PhaseKey, log.PhaseEvaluation,
		log.PredsKey, len(res.Predictions),
		log.FailuresKey, res.Failures,
		log.AccuracyKey, res.Accuracy,
		log.DurationMsKey, res.Duration.Milliseconds(),
	)
	return res, nil
}
