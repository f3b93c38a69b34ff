package recorder

import "BetaLens/internal/analyzer"

// Recorder persists analysis runs for later inspection.
type Recorder interface {
	RecordRun(result *analyzer.Result) error
	Close() error
}
