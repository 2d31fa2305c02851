package dataset

import (
	"bufio"
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/YuminosukeSato/knnlite/pkg/log"
	"github.com/YuminosukeSato/knnlite/source"
)

const (
	// maxLineBytes は1行の最大バイト数
	maxLineBytes = 1 << 20

	// ヘッダー判定で数値として試す接頭辞の最大長
	maxNumberPrefix = 64
)

// LoadReport は読み込み結果の診断情報
//
// Skipped と Malformed は1始まりの行番号の集合。
type LoadReport struct {
	// Source は読み込んだURI（Read の場合は "<reader>"）
	Source string
	// Lines は読み取った行数（ヘッダー・空行を含む）
	Lines int
	// Loaded は格納されたサンプル数
	Loaded int
	// HeaderSkipped は先頭行をヘッダーとして破棄したかどうか
	HeaderSkipped bool
	// Skipped はフィールド数が F+1 未満で読み飛ばした行
	Skipped *roaring.Bitmap
	// Malformed は寛容モードで不正値のため破棄した行
	Malformed *roaring.Bitmap
	// Truncated は容量に達して読み込みを打ち切ったかどうか
	Truncated bool
}

// SkippedCount は読み飛ばした行数を返す
func (r *LoadReport) SkippedCount() int { return int(r.Skipped.GetCardinality()) }

// MalformedCount は不正値のため破棄した行数を返す
func (r *LoadReport) MalformedCount() int { return int(r.Malformed.GetCardinality()) }

// Loader は区切り文字付きテキストを Dataset に読み込む
type Loader struct {
	delimiter string
	capacity  int
	nFeatures int
	nClasses  int
	lenient   bool
	logger    log.Logger
	opener    source.Opener
}

// LoaderOption はLoaderの設定オプション
type LoaderOption func(*Loader)

// WithDelimiter はフィールドの区切り文字を設定（デフォルト: ','）
func WithDelimiter(d rune) LoaderOption {
	return func(l *Loader) {
		l.delimiter = string(d)
	}
}

// WithCapacity はデータセットの容量を設定
func WithCapacity(capacity int) LoaderOption {
	return func(l *Loader) {
		l.capacity = capacity
	}
}

// WithNumFeatures は特徴量数 F を設定
func WithNumFeatures(n int) LoaderOption {
	return func(l *Loader) {
		l.nFeatures = n
	}
}

// WithNumClasses はクラス数 C を設定
func WithNumClasses(n int) LoaderOption {
	return func(l *Loader) {
		l.nClasses = n
	}
}

// WithLenient は不正な数値を含む行を読み込み失敗ではなく破棄として扱うかを設定
func WithLenient(lenient bool) LoaderOption {
	return func(l *Loader) {
		l.lenient = lenient
	}
}

// WithLogger はロガーを設定
func WithLogger(logger log.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithOpener はURIを開くOpenerを設定（デフォルト: ローカルファイルのみの source.Router）
func WithOpener(o source.Opener) LoaderOption {
	return func(l *Loader) {
		l.opener = o
	}
}

// NewLoader は新しいLoaderを作成
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{
		delimiter: ",",
		capacity:  DefaultCapacity,
		nFeatures: DefaultNumFeatures,
		nClasses:  DefaultNumClasses,
	}
	for _, opt := range options {
		opt(l)
	}
	if l.opener == nil {
		l.opener = source.NewRouter()
	}
	return l
}

// Load は uri を開いてデータセットを読み込む
func (l *Loader) Load(ctx context.Context, uri string) (*Dataset, *LoadReport, error) {
	rc, err := l.opener.Open(ctx, uri)
	if err != nil {
		return nil, nil, errors.NewModelError("Loader.Load", "cannot open source", err)
	}
	defer rc.Close()

	return l.read(rc, uri)
}

// Read は r からデータセットを読み込む
//
// 失敗した場合、データセットは返さない。診断のため LoadReport は返すことがある。
func (l *Loader) Read(r io.Reader) (*Dataset, *LoadReport, error) {
	return l.read(r, "<reader>")
}

func (l *Loader) read(r io.Reader, name string) (*Dataset, *LoadReport, error) {
	if l.delimiter == "" {
		return nil, nil, errors.NewValidationError("delimiter", "must not be empty", l.delimiter)
	}
	ds, err := New(l.capacity, l.nFeatures, l.nClasses)
	if err != nil {
		return nil, nil, err
	}

	logger := l.logger
	if logger == nil {
		logger = log.GetLoggerWithName("dataset")
	}
	logger = logger.With(log.SourceKey, name)

	report := &LoadReport{
		Source:    name,
		Skipped:   roaring.New(),
		Malformed: roaring.New(),
	}
	features := make([]float64, l.nFeatures)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")

		// ヘッダー判定は先頭行の最初のフィールドのみを見る
		if lineNo == 1 && l.isHeader(line) {
			report.HeaderSkipped = true
			continue
		}

		if strings.TrimSpace(line) == "" {
			report.Skipped.Add(uint32(lineNo))
			continue
		}

		fields := strings.Split(line, l.delimiter)
		if len(fields) < l.nFeatures+1 {
			report.Skipped.Add(uint32(lineNo))
			logger.Debug("skipping short line", "line", lineNo, "fields", len(fields))
			continue
		}

		label, perr := l.parseRecord(fields, features, lineNo)
		if perr != nil {
			if l.lenient {
				report.Malformed.Add(uint32(lineNo))
				logger.Debug("dropping malformed line", "line", lineNo, "reason", perr)
				continue
			}
			report.Lines = lineNo
			report.Loaded = ds.Len()
			return nil, report, perr
		}

		// 満杯後は有効なサンプル行が現れた時点で打ち切る
		if ds.Full() {
			report.Truncated = true
			lineNo--
			break
		}

		if err := ds.Append(features, label); err != nil {
			return nil, report, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, report, errors.Wrapf(err, "read %s at line %d", name, lineNo+1)
	}

	report.Lines = lineNo
	report.Loaded = ds.Len()

	if report.Truncated {
		errors.Warn(errors.NewDataTruncationWarning(name, ds.Capacity(), lineNo+1))
		logger.Warn("dataset capacity reached, remaining lines ignored", log.CapacityKey, ds.Capacity())
	}

	if ds.Len() == 0 {
		return nil, report, errors.NewModelError("Loader.Read", "no samples loaded from "+name, errors.ErrEmptyData)
	}

	logger.Info("dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, ds.NumFeatures(),
		log.SkippedKey, report.SkippedCount(),
		log.MalformedKey, report.MalformedCount(),
	)
	return ds, report, nil
}

// isHeader は先頭フィールドの最初のトークンが数値で始まらなければ true を返す
//
// 先頭の空白を読み飛ばし、トークンの最長の接頭辞が数値として解析できればデータ行とみなす。
// "1.5e" や "1.5 x" は 1.5 を読めるのでデータ行になる。
func (l *Loader) isHeader(line string) bool {
	first, _, _ := strings.Cut(line, l.delimiter)
	token := strings.TrimLeft(first, " \t\n\v\f\r")
	if i := strings.IndexAny(token, " \t\n\v\f\r"); i >= 0 {
		token = token[:i]
	}
	if len(token) > maxNumberPrefix {
		token = token[:maxNumberPrefix]
	}
	for n := len(token); n > 0; n-- {
		if hasNumberPrefix(token[:n]) {
			return false
		}
	}
	return true
}

func hasNumberPrefix(s string) bool {
	if strings.ContainsRune(s, '_') {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

// parseRecord は先頭 F フィールドを特徴量として dst に書き込み、続くフィールドをラベルとして返す
func (l *Loader) parseRecord(fields []string, dst []float64, lineNo int) (int, error) {
	for j := 0; j < l.nFeatures; j++ {
		raw := strings.TrimSpace(fields[j])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, errors.NewParseError(lineNo, j+1, raw, "invalid feature value")
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errors.NewParseError(lineNo, j+1, raw, "feature value is not finite")
		}
		dst[j] = v
	}

	raw := strings.TrimSpace(fields[l.nFeatures])
	label, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewParseError(lineNo, l.nFeatures+1, raw, "invalid class label")
	}
	if label < 0 || label >= l.nClasses {
		return 0, errors.NewParseError(lineNo, l.nFeatures+1, raw, "class label out of range")
	}
	return label, nil
}
