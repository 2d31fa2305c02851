package source

import (
	"io"
	"strings"

	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the codec of a source stream.
type Compression int

const (
	// None means the stream is plain text.
	None Compression = iota
	// Gzip is selected by the .gz extension.
	Gzip
	// Zstd is selected by the .zst and .zstd extensions.
	Zstd
	// LZ4 is selected by the .lz4 extension.
	LZ4
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

// DetectCompression returns the codec implied by the name's extension.
func DetectCompression(name string) Compression {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return Gzip
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		return Zstd
	case strings.HasSuffix(lower, ".lz4"):
		return LZ4
	default:
		return None
	}
}

// Decompress wraps rc with the decoder implied by name.
// Closing the returned reader closes both the decoder and rc.
func Decompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch DetectCompression(name) {
	case Gzip:
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, errors.Wrapf(err, "gzip header of %s", name)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case Zstd:
		dec, err := zstd.NewReader(rc, zstd.WithDecoderConcurrency(1))
		if err != nil {
			rc.Close()
			return nil, errors.Wrapf(err, "zstd decoder for %s", name)
		}
		return &stackedReader{Reader: dec, closers: []io.Closer{dec.IOReadCloser(), rc}}, nil
	case LZ4:
		return &stackedReader{Reader: lz4.NewReader(rc), closers: []io.Closer{rc}}, nil
	default:
		return rc, nil
	}
}

type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
