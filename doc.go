// Package knnlite provides a small, fixed-footprint k-nearest-neighbors
// classifier for feature vectors extracted from sensor signals, designed to
// run the same way on a workstation and on a constrained target.
//
// knnlite follows a scikit-learn-like layout: datasets are loaded into
// fixed-capacity stores, shuffled and split, z-score normalized with
// statistics taken from the training split only, and classified by brute
// force Euclidean k-NN with majority voting.
//
// # Features
//
//   - Fixed capacity: every Dataset allocates its buffers once and never grows
//   - Deterministic: shuffling uses an injected random source
//   - Explicit diagnostics: skipped, malformed and truncated input is reported
//   - Pluggable sources: local files, file:// and s3:// URIs, gzip/zstd/lz4
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/knnlite/pipeline"
//	)
//
//	func main() {
//	    p, err := pipeline.New(
//	        pipeline.WithSource("data/dataset_features.csv"),
//	        pipeline.WithK(15),
//	        pipeline.WithSeed(42),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    res, err := p.Run(context.Background())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("accuracy: %.2f%%\n", 100*res.Accuracy)
//	}
//
// # Packages
//
//   - dataset: fixed-capacity Dataset store and delimited-text Loader
//   - source: local and object-store opening with transparent decompression
//   - sklearn/model_selection: Shuffle, TrainTestSplit, ValidationCurve
//   - preprocessing: ComputeMeanStd, ApplyNormalization, StandardScaler
//   - sklearn/neighbors: EuclideanDistance, Classify, KNeighborsClassifier
//   - metrics: AccuracyScore, ConfusionMatrix, ClassDistribution
//   - performance: inference timing, energy estimate, memory footprint
//   - plotting: validation curve images
//   - pipeline: the load → split → normalize → classify sequence
//   - core/model: core interfaces and base types
//   - pkg/errors, pkg/log: typed errors and structured logging
//
// # Concurrency
//
// Everything is single-threaded and synchronous. A KNeighborsClassifier
// reuses one scratch buffer and must not be shared between goroutines.
//
// # License
//
// knnlite is released under the MIT License.
package knnlite
