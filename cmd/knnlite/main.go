// Command knnlite は区切り文字付きテキストのデータセットを読み込み、
// 訓練・評価に分割して k 近傍法で分類し、正解率を表示する。
//
// 使用例:
//
//	knnlite -data data/dataset_features.csv -k 15
//	knnlite -data s3://bucket/features.csv.zst -s3-endpoint localhost:9000 -sweep 1,3,5,7 -plot curve.png
//	knnlite -bench 1000
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/YuminosukeSato/knnlite/dataset"
	"github.com/YuminosukeSato/knnlite/performance"
	"github.com/YuminosukeSato/knnlite/pipeline"
	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/YuminosukeSato/knnlite/pkg/log"
	"github.com/YuminosukeSato/knnlite/plotting"
	"github.com/YuminosukeSato/knnlite/sklearn/model_selection"
	"github.com/YuminosukeSato/knnlite/sklearn/neighbors"
	"github.com/YuminosukeSato/knnlite/source"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultDataPath = "data/dataset_features.csv"

type config struct {
	data      string
	delimiter string
	capacity  int
	features  int
	classes   int
	ratio     float64
	k         int
	seed      int64
	lenient   bool
	verbose   bool
	logLevel  string
	memBudget int64

	sweep string
	plot  string

	bench   int
	voltage float64
	current float64

	s3Endpoint  string
	s3AccessKey string
	s3SecretKey string
	s3Secure    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "knnlite: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("knnlite", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.data, "data", defaultDataPath, "dataset path or URI (file://, s3://; .gz/.zst/.lz4 are decompressed)")
	fs.StringVar(&cfg.delimiter, "delimiter", ",", "field delimiter (single character)")
	fs.IntVar(&cfg.capacity, "capacity", dataset.DefaultCapacity, "maximum number of samples to load")
	fs.IntVar(&cfg.features, "features", dataset.DefaultNumFeatures, "number of features per sample")
	fs.IntVar(&cfg.classes, "classes", dataset.DefaultNumClasses, "number of classes")
	fs.Float64Var(&cfg.ratio, "ratio", model_selection.DefaultTrainRatio, "fraction of samples used for training")
	fs.IntVar(&cfg.k, "k", neighbors.DefaultK, "number of neighbors")
	fs.Int64Var(&cfg.seed, "seed", -1, "shuffle seed (negative: time-based)")
	fs.BoolVar(&cfg.lenient, "lenient", false, "skip lines with malformed values instead of failing")
	fs.BoolVar(&cfg.verbose, "verbose", false, "print the prediction for every evaluation sample")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.Int64Var(&cfg.memBudget, "mem-budget", 0, "fail if the data buffers would exceed this many bytes (0: unlimited)")

	fs.StringVar(&cfg.sweep, "sweep", "", "comma-separated k values to evaluate, e.g. 1,3,5,7")
	fs.StringVar(&cfg.plot, "plot", "", "write the sweep as a validation curve image (.png, .svg, .pdf)")

	fs.IntVar(&cfg.bench, "bench", 0, "time this many inferences of the first evaluation sample")
	fs.Float64Var(&cfg.voltage, "voltage", performance.DefaultPowerProfile().Voltage, "supply voltage for the energy estimate (V)")
	fs.Float64Var(&cfg.current, "current", performance.DefaultPowerProfile().Current, "average current for the energy estimate (A)")

	fs.StringVar(&cfg.s3Endpoint, "s3-endpoint", os.Getenv("KNNLITE_S3_ENDPOINT"), "S3-compatible endpoint for s3:// sources")
	fs.StringVar(&cfg.s3AccessKey, "s3-access-key", os.Getenv("KNNLITE_S3_ACCESS_KEY"), "S3 access key")
	fs.StringVar(&cfg.s3SecretKey, "s3-secret-key", os.Getenv("KNNLITE_S3_SECRET_KEY"), "S3 secret key")
	fs.BoolVar(&cfg.s3Secure, "s3-secure", true, "use TLS for the S3 endpoint")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(cfg.delimiter) != 1 {
		return nil, errors.NewValidationError("delimiter", "must be a single character", cfg.delimiter)
	}
	if cfg.plot != "" && cfg.sweep == "" {
		return nil, errors.NewValidationError("plot", "requires -sweep", cfg.plot)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if err := log.SetupLogger(cfg.logLevel, stderr); err != nil {
		return err
	}

	ks, err := parseSweep(cfg.sweep)
	if err != nil {
		return err
	}

	opener, err := newOpener(cfg)
	if err != nil {
		return err
	}

	delim, _ := utf8.DecodeRuneInString(cfg.delimiter)
	p, err := pipeline.New(
		pipeline.WithSource(cfg.data),
		pipeline.WithDelimiter(delim),
		pipeline.WithShape(cfg.capacity, cfg.features, cfg.classes),
		pipeline.WithTrainRatio(cfg.ratio),
		pipeline.WithK(cfg.k),
		pipeline.WithSeed(cfg.seed),
		pipeline.WithLenient(cfg.lenient),
		pipeline.WithMemoryBudget(cfg.memBudget),
		pipeline.WithOpener(opener),
	)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	printReport(stdout, res, cfg)

	if len(ks) > 0 {
		scores, err := model_selection.ValidationCurve(res.Train, res.Test, ks)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, "\n=== Accuracy for multiple values of K ===")
		for _, s := range scores {
			fmt.Fprintf(stdout, "K = %2d -> accuracy: %.2f%%\n", s.K, 100*s.Accuracy)
		}
		if best, ok := model_selection.BestK(scores); ok {
			fmt.Fprintf(stdout, "Best K = %d (%.2f%%)\n", best.K, 100*best.Accuracy)
		}
		if cfg.plot != "" {
			if err := plotting.SaveValidationCurve(scores, cfg.plot); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Saved validation curve to %s\n", cfg.plot)
		}
	}

	if cfg.bench > 0 {
		stats, err := performance.MeasureInference(res.Classifier, res.Test.Features(0), cfg.bench)
		if err != nil {
			return err
		}
		profile := performance.PowerProfile{Voltage: cfg.voltage, Current: cfg.current}
		ms := float64(stats.Mean.Nanoseconds()) / 1e6
		fmt.Fprintf(stdout, "\nMean inference time (k=%d, %d runs): %.6f ms\n", cfg.k, stats.Runs, ms)
		fmt.Fprintf(stdout, "Estimated energy per inference: %.8f J\n", stats.Energy(profile))
		log.GetLoggerWithName("bench").Info("inference benchmark",
			log.KKey, cfg.k,
			log.DurationNsKey, stats.Mean.Nanoseconds(),
			log.EnergyJoulesKey, stats.Energy(profile),
		)
	}
	return nil
}

func printReport(w io.Writer, res *pipeline.Result, cfg *config) {
	fmt.Fprintf(w, "Total samples: %d\n", res.Report.Loaded)
	if n := res.Report.SkippedCount(); n > 0 {
		fmt.Fprintf(w, "Skipped lines: %d\n", n)
	}
	if n := res.Report.MalformedCount(); n > 0 {
		fmt.Fprintf(w, "Malformed lines dropped: %d\n", n)
	}
	if res.Report.Truncated {
		fmt.Fprintf(w, "Warning: capacity of %d samples reached, remaining lines ignored\n", cfg.capacity)
	}
	for _, d := range res.Distribution {
		fmt.Fprintf(w, "Class %d: %d samples (%.1f%%)\n", d.Class, d.Count, d.Percent)
	}

	fmt.Fprintf(w, "\nSplit: %d train, %d test\n", res.Train.Len(), res.Test.Len())

	if cfg.verbose {
		fmt.Fprintln(w, "\n=== Classifying evaluation samples ===")
		for i, pred := range res.Predictions {
			actual := res.Test.Label(i)
			mark := "(ERROR)"
			if pred == actual {
				mark = "(OK)"
			}
			fmt.Fprintf(w, "Sample %d: real class = %d | predicted class = %d %s\n", i, actual, pred, mark)
		}
	}
	if res.Failures > 0 {
		fmt.Fprintf(w, "Samples without a prediction: %d\n", res.Failures)
	}
	fmt.Fprintf(w, "Final accuracy with K=%d: %.2f%%\n", cfg.k, 100*res.Accuracy)
}

func parseSweep(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ks := make([]int, 0, len(parts))
	for _, part := range parts {
		k, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.NewValidationError("sweep", "k values must be integers", part)
		}
		ks = append(ks, k)
	}
	return ks, nil
}

func newOpener(cfg *config) (source.Opener, error) {
	if !source.IsObjectURI(cfg.data) {
		return source.NewRouter(), nil
	}
	if cfg.s3Endpoint == "" {
		return nil, errors.NewValidationError("s3-endpoint", "required for s3:// sources", cfg.data)
	}
	client, err := minio.New(cfg.s3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.s3AccessKey, cfg.s3SecretKey, ""),
		Secure: cfg.s3Secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create object store client")
	}
	return source.NewRouter(source.WithObjectStore(source.NewMinioOpener(client))), nil
}
