package source

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/YuminosukeSato/knnlite/pkg/errors"
)

// ErrNotFound is returned when a source does not exist.
// It maps to os.ErrNotExist so that errors.Is works for local and remote sources alike.
var ErrNotFound = os.ErrNotExist

// Opener opens a named source for sequential reading.
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FileOpener reads from the local filesystem. It accepts plain paths and file:// URIs.
type FileOpener struct{}

// Open opens the file at name.
func (FileOpener) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(name, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

// Router dispatches a URI to the opener registered for its scheme and
// decompresses the stream according to the name's extension.
type Router struct {
	file   Opener
	object Opener
}

// Option configures a Router.
type Option func(*Router)

// WithObjectStore registers the opener used for s3:// URIs.
func WithObjectStore(o Opener) Option {
	return func(r *Router) {
		r.object = o
	}
}

// WithFileOpener replaces the opener used for local paths.
func WithFileOpener(o Opener) Option {
	return func(r *Router) {
		r.file = o
	}
}

// NewRouter creates a Router that reads local files by default.
func NewRouter(opts ...Option) *Router {
	r := &Router{file: FileOpener{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open opens uri and returns a reader over its decompressed content.
func (r *Router) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	opener := r.file
	if IsObjectURI(uri) {
		if r.object == nil {
			return nil, errors.NewValidationError("uri", "no object store configured for s3:// sources", uri)
		}
		opener = r.object
	}

	rc, err := opener.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	return Decompress(uri, rc)
}

// Open opens uri with a default Router (local files only).
func Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return NewRouter().Open(ctx, uri)
}
