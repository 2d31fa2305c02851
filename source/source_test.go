package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = "f1,f2,label\n1.0,2.0,0\n3.0,4.0,1\n"

func writeFile(t *testing.T, name string, encode func(w io.Writer) io.WriteCloser) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	var buf bytes.Buffer
	if encode == nil {
		buf.WriteString(payload)
	} else {
		w := encode(&buf)
		_, err := w.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestRouter_Decompression(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		encode func(w io.Writer) io.WriteCloser
	}{
		{"Plain", "data.csv", nil},
		{"Gzip", "data.csv.gz", func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) }},
		{"Zstd", "data.csv.zst", func(w io.Writer) io.WriteCloser {
			enc, err := zstd.NewWriter(w)
			require.NoError(t, err)
			return enc
		}},
		{"LZ4", "data.csv.lz4", func(w io.Writer) io.WriteCloser { return lz4.NewWriter(w) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.encode)

			rc, err := NewRouter().Open(context.Background(), path)
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, payload, string(got))
		})
	}
}

func TestFileOpener_FileScheme(t *testing.T) {
	path := writeFile(t, "data.csv", nil)

	rc, err := Open(context.Background(), "file://"+path)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
}

func TestFileOpener_Missing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileOpener_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FileOpener{}.Open(ctx, writeFile(t, "data.csv", nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecompress_BadGzipHeader(t *testing.T) {
	_, err := Decompress("data.csv.gz", io.NopCloser(bytes.NewReader([]byte("not gzip"))))
	assert.Error(t, err)
}

func TestDetectCompression(t *testing.T) {
	assert.Equal(t, None, DetectCompression("data.csv"))
	assert.Equal(t, Gzip, DetectCompression("DATA.CSV.GZ"))
	assert.Equal(t, Zstd, DetectCompression("s3://b/data.csv.zstd"))
	assert.Equal(t, LZ4, DetectCompression("data.lz4"))
	assert.Equal(t, "zstd", Zstd.String())
}

func TestParseObjectURI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://datasets/features.csv", "datasets", "features.csv", false},
		{"s3://datasets/nested/dir/features.csv.gz", "datasets", "nested/dir/features.csv.gz", false},
		{"s3://datasets", "", "", true},
		{"s3:///key", "", "", true},
		{"/local/path.csv", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseObjectURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestRouter_ObjectURIWithoutStore(t *testing.T) {
	_, err := NewRouter().Open(context.Background(), "s3://datasets/features.csv")
	require.Error(t, err)

	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

type stubOpener struct {
	calls []string
}

func (s *stubOpener) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.calls = append(s.calls, name)
	return io.NopCloser(bytes.NewReader([]byte(payload))), nil
}

func TestRouter_DispatchesObjectURIs(t *testing.T) {
	store := &stubOpener{}
	r := NewRouter(WithObjectStore(store))

	rc, err := r.Open(context.Background(), "s3://datasets/features.csv")
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, []string{"s3://datasets/features.csv"}, store.calls)
}

// TestMinioOpener_Integration requires a running MinIO instance.
func TestMinioOpener_Integration(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-knnlite"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	_, err = client.PutObject(ctx, bucket, "features.csv", bytes.NewReader([]byte(payload)), int64(len(payload)), minio.PutObjectOptions{})
	require.NoError(t, err)

	r := NewRouter(WithObjectStore(NewMinioOpener(client)))
	rc, err := r.Open(ctx, "s3://"+bucket+"/features.csv")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))

	_, err = r.Open(ctx, "s3://"+bucket+"/missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}
