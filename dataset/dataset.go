// Package dataset は固定容量のラベル付き特徴量ベクトルのストアと、
// 区切り文字付きテキストからの読み込みを提供する。
//
// Dataset は生成時に capacity × nFeatures の領域を一度だけ確保し、
// 以後は決して拡張しない。容量に達した状態での Append は CapacityError を返す。
package dataset

import (
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultNumFeatures はサンプルあたりの特徴量数の既定値
	DefaultNumFeatures = 12
	// DefaultCapacity はデータセットに格納できるサンプル数の既定値
	DefaultCapacity = 1500
	// DefaultNumClasses はラベル空間 {0 … C-1} の大きさの既定値
	DefaultNumClasses = 5
)

// Sample は1件のラベル付きサンプル
type Sample struct {
	Features []float64
	Label    int
}

// Dataset は固定容量のサンプル列
//
// 特徴量は行優先の連続領域に格納される。Features(i) が返すスライスは
// ストアと領域を共有するため、書き換えはそのまま反映される。
type Dataset struct {
	features  []float64
	labels    []int
	n         int
	nFeatures int
	nClasses  int
}

// New は容量 capacity、特徴量数 nFeatures、クラス数 nClasses の空のデータセットを作成する
func New(capacity, nFeatures, nClasses int) (*Dataset, error) {
	if capacity < 0 {
		return nil, errors.NewValidationError("capacity", "must be non-negative", capacity)
	}
	if nFeatures < 1 {
		return nil, errors.NewValidationError("n_features", "must be at least 1", nFeatures)
	}
	if nClasses < 1 {
		return nil, errors.NewValidationError("n_classes", "must be at least 1", nClasses)
	}
	return &Dataset{
		features:  make([]float64, capacity*nFeatures),
		labels:    make([]int, capacity),
		nFeatures: nFeatures,
		nClasses:  nClasses,
	}, nil
}

// Len は格納済みのサンプル数を返す
func (d *Dataset) Len() int { return d.n }

// Capacity は格納できる最大サンプル数を返す
func (d *Dataset) Capacity() int { return len(d.labels) }

// Full は容量に達しているかを返す
func (d *Dataset) Full() bool { return d.n == len(d.labels) }

// NumFeatures は特徴量数 F を返す
func (d *Dataset) NumFeatures() int { return d.nFeatures }

// NumClasses はラベル空間の大きさ C を返す
func (d *Dataset) NumClasses() int { return d.nClasses }

// Append はサンプルを末尾に追加する
//
// 特徴量数が異なる場合は DimensionError、ラベルが [0, C) の範囲外なら
// ValidationError、容量に達している場合は CapacityError を返す。
func (d *Dataset) Append(features []float64, label int) error {
	if len(features) != d.nFeatures {
		return errors.NewDimensionError("Dataset.Append", d.nFeatures, len(features), 1)
	}
	if label < 0 || label >= d.nClasses {
		return errors.NewValidationError("label", "must be within [0, n_classes)", label)
	}
	if d.Full() {
		return errors.NewCapacityError(d.Capacity())
	}
	copy(d.features[d.n*d.nFeatures:(d.n+1)*d.nFeatures], features)
	d.labels[d.n] = label
	d.n++
	return nil
}

// Features は i 番目のサンプルの特徴量ビューを返す
func (d *Dataset) Features(i int) []float64 {
	d.checkIndex(i)
	off := i * d.nFeatures
	return d.features[off : off+d.nFeatures : off+d.nFeatures]
}

// Label は i 番目のサンプルのラベルを返す
func (d *Dataset) Label(i int) int {
	d.checkIndex(i)
	return d.labels[i]
}

// Sample は i 番目のサンプルを返す（特徴量はビュー）
func (d *Dataset) Sample(i int) Sample {
	return Sample{Features: d.Features(i), Label: d.Label(i)}
}

// Labels は格納済みサンプルのラベルのコピーを返す
func (d *Dataset) Labels() []int {
	out := make([]int, d.n)
	copy(out, d.labels[:d.n])
	return out
}

// Swap は i 番目と j 番目のサンプルを入れ替える
func (d *Dataset) Swap(i, j int) {
	if i == j {
		return
	}
	a, b := d.Features(i), d.Features(j)
	for k := range a {
		a[k], b[k] = b[k], a[k]
	}
	d.labels[i], d.labels[j] = d.labels[j], d.labels[i]
}

// Slice は [from, to) のサンプルをちょうど to-from の容量を持つ新しいデータセットへコピーする
func (d *Dataset) Slice(from, to int) (*Dataset, error) {
	if from < 0 || to > d.n || from > to {
		return nil, errors.NewValidationError("range", "must satisfy 0 <= from <= to <= len", [2]int{from, to})
	}
	out, err := New(to-from, d.nFeatures, d.nClasses)
	if err != nil {
		return nil, err
	}
	copy(out.features, d.features[from*d.nFeatures:to*d.nFeatures])
	copy(out.labels, d.labels[from:to])
	out.n = to - from
	return out, nil
}

// Clone は同じ容量を持つ独立したコピーを返す
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		features:  make([]float64, len(d.features)),
		labels:    make([]int, len(d.labels)),
		n:         d.n,
		nFeatures: d.nFeatures,
		nClasses:  d.nClasses,
	}
	copy(out.features, d.features)
	copy(out.labels, d.labels)
	return out
}

// Matrix は格納済みサンプルを n × F の行列として参照するビューを返す
// サンプルがない場合は nil を返す。
func (d *Dataset) Matrix() *mat.Dense {
	if d.n == 0 {
		return nil
	}
	return mat.NewDense(d.n, d.nFeatures, d.features[:d.n*d.nFeatures])
}

// CountClass はラベルが class であるサンプル数を返す
func (d *Dataset) CountClass(class int) int {
	count := 0
	for _, l := range d.labels[:d.n] {
		if l == class {
			count++
		}
	}
	return count
}

// ClassCounts はクラスごとのサンプル数を返す（長さ C）
func (d *Dataset) ClassCounts() []int {
	counts := make([]int, d.nClasses)
	for _, l := range d.labels[:d.n] {
		counts[l]++
	}
	return counts
}

func (d *Dataset) checkIndex(i int) {
	if i < 0 || i >= d.n {
		panic(errors.NewValidationError("index", "out of range", i))
	}
}
