// Standard attribute keys for classifier and data-preparation logging.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "hyperparams.k") so that log records can be filtered uniformly.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type, e.g. "KNeighborsClassifier".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the pipeline.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features per sample.
	FeaturesKey = "data.features"

	// ClassesKey indicates the size of the label space.
	ClassesKey = "data.classes"

	// CapacityKey indicates the fixed capacity of a dataset.
	CapacityKey = "data.capacity"

	// SkippedKey indicates the number of input lines that were skipped.
	SkippedKey = "data.skipped"

	// MalformedKey indicates the number of malformed lines dropped in lenient mode.
	MalformedKey = "data.malformed"

	// SourceKey records the URI a dataset was read from.
	SourceKey = "data.source"

	// TrainSizeKey and TestSizeKey record the partition sizes.
	TrainSizeKey = "data.train_size"
	TestSizeKey  = "data.test_size"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// DurationNsKey records short durations such as a single inference.
	DurationNsKey = "perf.duration_ns"

	// EnergyJoulesKey records an estimated energy cost.
	EnergyJoulesKey = "perf.energy_joules"

	// MemoryPeakKey records the peak number of bytes reserved against a memory budget.
	MemoryPeakKey = "perf.memory_peak_bytes"

	// AccuracyKey records classification accuracy in [0.0, 1.0].
	AccuracyKey = "metrics.accuracy"
)

// Prediction Context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"

	// FailuresKey indicates the number of queries that produced no prediction.
	FailuresKey = "preds.failures"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// ErrorDetailKey holds the structured fields of a typed error.
	ErrorDetailKey = "error.detail"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Hyperparameters and Configuration
const (
	// KKey records the number of neighbors used for voting.
	KKey = "hyperparams.k"

	// TrainRatioKey records the train/test split ratio.
	TrainRatioKey = "hyperparams.train_ratio"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationLoad      = "load"
	OperationShuffle   = "shuffle"
	OperationSplit     = "split"
	OperationFit       = "fit"
	OperationTransform = "transform"
	OperationPredict   = "predict"
	OperationScore     = "score"

	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhaseEvaluation    = "evaluation"
)
