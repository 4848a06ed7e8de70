package config

import "time"

// Schema defaults.
const (
	DefaultWorkDurationSeconds = 60.0
)

// Evaluation defaults.
const (
	DefaultEvaluationTimeout = 30 * time.Second
	DefaultMaxParallelFiles  = 4
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Output defaults.
const (
	DefaultOutputFormat = "table"
)

// Observability defaults.
const (
	DefaultOTLPInsecure = false
	DefaultSampleRatio  = 0.0
)
