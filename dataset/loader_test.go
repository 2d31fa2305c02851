package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/YuminosukeSato/knnlite/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(opts ...LoaderOption) *Loader {
	base := []LoaderOption{
		WithNumFeatures(2),
		WithNumClasses(3),
		WithCapacity(10),
		WithLogger(log.Nop()),
	}
	return NewLoader(append(base, opts...)...)
}

func TestLoader_HeaderAndSkippedLines(t *testing.T) {
	input := "f1,f2,label\n1.0,2.0,0\n\n3.0,4.0\n5.0,6.0,1\n"

	ds, report, err := newTestLoader().Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.True(t, report.HeaderSkipped)
	assert.Equal(t, 2, report.SkippedCount())
	assert.True(t, report.Skipped.Contains(3), "blank line should be recorded")
	assert.True(t, report.Skipped.Contains(4), "short line should be recorded")
	assert.False(t, report.Truncated)

	assert.Equal(t, []float64{1, 2}, ds.Features(0))
	assert.Equal(t, []float64{5, 6}, ds.Features(1))
	assert.Equal(t, []int{0, 1}, ds.Labels())
}

func TestLoader_NumericFirstLineIsData(t *testing.T) {
	ds, report, err := newTestLoader().Read(strings.NewReader("1.5,2.5,2\n3,4,1\n"))
	require.NoError(t, err)

	assert.False(t, report.HeaderSkipped)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 2, ds.Label(0))
}

func TestLoader_IsHeader(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"f1,f2,label", true},
		{"", true},
		{"  ,1,0", true},
		{"x1,2,0", true},
		{"e5,1,0", true},
		{"+,1,0", true},
		{"1.5,2,0", false},
		{" -3,1,0", false},
		{".5,1,0", false},
		{"1.5 x,2,0", false},
		{"1.5e,2,0", false},
		{"7abc,1,0", false},
		{"1e400,1,0", false},
		// "nan" は数値の接頭辞として読める
		{"name,f2,label", false},
	}

	l := newTestLoader()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, l.isHeader(tt.line))
		})
	}
}

func TestLoader_NumericPrefixFirstLineIsData(t *testing.T) {
	for _, first := range []string{"1.5 x,2,0", "1.5e,2,0"} {
		t.Run(first, func(t *testing.T) {
			ds, report, err := newTestLoader(WithLenient(true)).Read(strings.NewReader(first + "\n3,4,1\n"))
			require.NoError(t, err)

			assert.False(t, report.HeaderSkipped)
			assert.True(t, report.Malformed.Contains(1), "first line is data and fails to parse")
			assert.Equal(t, 1, ds.Len())
		})
	}
}

func TestLoader_ExtraFieldsIgnored(t *testing.T) {
	ds, _, err := newTestLoader().Read(strings.NewReader("1,2,1,extra,fields\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Label(0))
}

func TestLoader_Whitespace(t *testing.T) {
	ds, _, err := newTestLoader().Read(strings.NewReader(" 1.0 , 2.0 , 1 \r\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, ds.Features(0))
}

func TestLoader_Truncation(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	input := "1,1,0\n2,2,0\n3,3,1\n4,4,1\n"
	ds, report, err := newTestLoader(WithCapacity(2)).Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.True(t, report.Truncated)
	assert.Equal(t, []float64{2, 2}, ds.Features(1))

	require.Len(t, warnings, 1)
	var tw *errors.DataTruncationWarning
	require.True(t, errors.As(warnings[0], &tw))
	assert.Equal(t, 2, tw.Capacity)
	assert.Equal(t, 3, tw.Line)
}

func TestLoader_FullThenInvalidLinesIsNotTruncated(t *testing.T) {
	input := "1,1,0\n2,2,0\n3,3\nx,1,0\n"
	ds, report, err := newTestLoader(WithCapacity(2), WithLenient(true)).Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.False(t, report.Truncated)
	assert.True(t, report.Skipped.Contains(3))
	assert.True(t, report.Malformed.Contains(4))
	assert.Equal(t, 4, report.Lines)
}

func TestLoader_FullThenValidLineAfterShortLine(t *testing.T) {
	input := "1,1,0\n2,2,0\n3,3\n4,4,1\n"
	_, report, err := newTestLoader(WithCapacity(2)).Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.True(t, report.Truncated)
	assert.True(t, report.Skipped.Contains(3))
	assert.Equal(t, 3, report.Lines)
}

func TestLoader_ExactlyFullIsNotTruncated(t *testing.T) {
	ds, report, err := newTestLoader(WithCapacity(2)).Read(strings.NewReader("1,1,0\n2,2,0\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.False(t, report.Truncated)
}

func TestLoader_StrictRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"bad feature", "1,2,0\n1,abc,0\n", 2, 2},
		{"non-finite feature", "NaN,2,0\n", 1, 1},
		{"infinite feature", "1,+Inf,0\n", 1, 2},
		{"bad label", "1,2,x\n", 1, 3},
		{"label out of range", "1,2,0\n1,2,3\n", 2, 3},
		{"negative label", "1,2,-1\n", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, _, err := newTestLoader().Read(strings.NewReader(tt.input))
			assert.Nil(t, ds)

			var pe *errors.ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.column, pe.Column)
		})
	}
}

func TestLoader_LenientDropsMalformed(t *testing.T) {
	input := "1,2,0\n1,abc,0\n3,4,9\n5,6,2\n"

	ds, report, err := newTestLoader(WithLenient(true)).Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 2, report.MalformedCount())
	assert.True(t, report.Malformed.Contains(2))
	assert.True(t, report.Malformed.Contains(3))
}

func TestLoader_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "header,only,line\n", "\n\n1,2\n"} {
		ds, _, err := newTestLoader().Read(strings.NewReader(input))
		assert.Nil(t, ds)
		assert.True(t, errors.Is(err, errors.ErrEmptyData), "input %q: got %v", input, err)
	}
}

func TestLoader_CustomDelimiter(t *testing.T) {
	ds, _, err := newTestLoader(WithDelimiter(';')).Read(strings.NewReader("a;b;c\n1;2;1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, []float64{1, 2}, ds.Features(0))
}

func TestLoader_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y,label\n0,0,0\n1,1,1\n"), 0o600))

	logger, _ := log.NewTestLogger(log.LevelInfo)
	l := newTestLoader(WithLogger(logger))

	ds, report, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, path, report.Source)
	assert.True(t, logger.ContainsMessage("dataset loaded"))
	assert.True(t, logger.ContainsField(log.SourceKey, path))
}

func TestLoader_LoadMissingFile(t *testing.T) {
	_, _, err := newTestLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_InvalidShape(t *testing.T) {
	_, _, err := newTestLoader(WithNumFeatures(0)).Read(strings.NewReader("1,0\n"))
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}
