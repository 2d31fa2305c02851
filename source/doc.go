// Package source opens delimited-text dataset sources.
//
// A source is addressed by a URI:
//
//   - a plain path or file:// URI reads from the local filesystem;
//   - s3://bucket/key reads from an S3-compatible object store through
//     a MinioOpener registered with WithObjectStore.
//
// Names ending in .gz, .zst or .lz4 are decompressed transparently.
//
//	r := source.NewRouter(source.WithObjectStore(source.NewMinioOpener(client)))
//	rc, err := r.Open(ctx, "s3://datasets/features.csv.zst")
package source
