package performance

import (
	"strconv"

	"github.com/YuminosukeSato/knnlite/pkg/errors"
)

const (
	float64Size  = 8
	intSize      = strconv.IntSize / 8
	neighborSize = float64Size + intSize
)

// DatasetFootprint は容量 capacity、特徴量数 nFeatures のデータセットが確保するバイト数を返す
func DatasetFootprint(capacity, nFeatures int) int64 {
	return int64(capacity) * (int64(nFeatures)*float64Size + intSize)
}

// ScratchFootprint は nSamples 件の訓練データに対する近傍の作業領域と投票用ヒストグラムのバイト数を返す
func ScratchFootprint(nSamples, nClasses int) int64 {
	return int64(nSamples)*neighborSize + int64(nClasses)*intSize
}

// MemoryBudget は段階ごとの確保と解放を上限と突き合わせて記録する
//
// 並行に使ってはならない。
type MemoryBudget struct {
	maxMemory   int64
	currentUsed int64
	peak        int64
}

// NewMemoryBudget は上限 maxBytes のMemoryBudgetを作成する
func NewMemoryBudget(maxBytes int64) *MemoryBudget {
	return &MemoryBudget{
		maxMemory: maxBytes,
	}
}

// Allocate は確保を記録する。上限を超える場合は何も記録せずエラーを返す
func (m *MemoryBudget) Allocate(bytes int64) error {
	if m.currentUsed+bytes > m.maxMemory {
		return errors.Newf("memory budget exceeded: %d + %d > %d",
			m.currentUsed, bytes, m.maxMemory)
	}

	m.currentUsed += bytes
	if m.currentUsed > m.peak {
		m.peak = m.currentUsed
	}
	return nil
}

// Free は解放を記録する
func (m *MemoryBudget) Free(bytes int64) {
	m.currentUsed -= bytes
	if m.currentUsed < 0 {
		m.currentUsed = 0
	}
}

// Usage は現在の使用量と上限を返す
func (m *MemoryBudget) Usage() (used, max int64) {
	return m.currentUsed, m.maxMemory
}

// Peak はこれまでの最大使用量を返す
func (m *MemoryBudget) Peak() int64 {
	return m.peak
}
