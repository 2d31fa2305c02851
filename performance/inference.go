// Package performance は推論時間の計測と消費エネルギーの見積もり、
// および固定容量データセットのメモリ見積もりを提供する。
package performance

import (
	"time"

	"github.com/YuminosukeSato/knnlite/core/model"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// PowerProfile は対象デバイスの動作電圧（V）と平均電流（A）
type PowerProfile struct {
	Voltage float64
	Current float64
}

// DefaultPowerProfile は 3.3 V / 80 mA のマイコンを想定したプロファイルを返す
func DefaultPowerProfile() PowerProfile {
	return PowerProfile{Voltage: 3.3, Current: 0.08}
}

// Watts は消費電力（W）を返す
func (p PowerProfile) Watts() float64 {
	return p.Voltage * p.Current
}

// EstimateEnergy は d の間 p で動作したときの消費エネルギー（J）を返す
func EstimateEnergy(p PowerProfile, d time.Duration) float64 {
	return p.Watts() * d.Seconds()
}

// InferenceStats は繰り返し推論の計測結果
type InferenceStats struct {
	Runs  int
	Label int
	Total time.Duration
	Mean  time.Duration
	Min   time.Duration
	Max   time.Duration
	// StdDev は1回あたりの所要時間の標準偏差
	StdDev time.Duration
}

// Energy は1回の推論あたりの消費エネルギー（J）を返す
func (s InferenceStats) Energy(p PowerProfile) float64 {
	return EstimateEnergy(p, s.Mean)
}

// MeasureInference は query に対する推論を runs 回実行して所要時間を計測する
//
// すべての実行で同じラベルが返ることも確認する。
func MeasureInference(clf model.Predictor, query []float64, runs int) (InferenceStats, error) {
	if clf == nil {
		return InferenceStats{}, errors.NewValueError("MeasureInference", "predictor is nil")
	}
	if runs < 1 {
		return InferenceStats{}, errors.NewValidationError("runs", "must be at least 1", runs)
	}

	samples := make([]float64, runs)
	stats := InferenceStats{Runs: runs}
	for i := 0; i < runs; i++ {
		start := time.Now()
		label, err := clf.Predict(query)
		elapsed := time.Since(start)
		if err != nil {
			return InferenceStats{}, errors.Wrapf(err, "run %d", i)
		}
		if i == 0 {
			stats.Label = label
			stats.Min, stats.Max = elapsed, elapsed
		} else if label != stats.Label {
			return InferenceStats{}, errors.Newf("inference is not repeatable: run %d returned %d, first run returned %d", i, label, stats.Label)
		}

		stats.Total += elapsed
		stats.Min = min(stats.Min, elapsed)
		stats.Max = max(stats.Max, elapsed)
		samples[i] = float64(elapsed)
	}

	mean, std := stat.MeanStdDev(samples, nil)
	stats.Mean = time.Duration(mean)
	if runs > 1 {
		stats.StdDev = time.Duration(std)
	}
	return stats, nil
}
