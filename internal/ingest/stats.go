// Package ingest is the multi-sink ingestion core: the per-file
// processor state machine, the batch drivers for both datasets, and the
// statistics aggregator.
package ingest

// Counter names one (stage, outcome) pair tracked across a batch run.
type Counter string

const (
	// Annotation file pass
	CounterLoaded             Counter = "loaded"
	CounterExtractError       Counter = "extract_error"
	CounterAssetUploaded      Counter = "asset_uploaded"
	CounterAssetError         Counter = "asset_error"
	CounterMetadataInserted   Counter = "metadata_inserted"
	CounterMetadataUpdated    Counter = "metadata_updated"
	CounterMetadataError      Counter = "metadata_error"
	CounterAnnotationInserted Counter = "annotation_inserted"
	CounterAnnotationUpdated  Counter = "annotation_updated"
	CounterAnnotationError    Counter = "annotation_error"

	// Raw audio pass
	CounterAudioLoaded   Counter = "audio_loaded"
	CounterAudioUploaded Counter = "audio_uploaded"
	CounterAudioError    Counter = "audio_error"
)

// CounterOrder is the canonical display order for a statistics summary.
var CounterOrder = []Counter{
	CounterLoaded,
	CounterExtractError,
	CounterAssetUploaded,
	CounterAssetError,
	CounterMetadataInserted,
	CounterMetadataUpdated,
	CounterMetadataError,
	CounterAnnotationInserted,
	CounterAnnotationUpdated,
	CounterAnnotationError,
	CounterAudioLoaded,
	CounterAudioUploaded,
	CounterAudioError,
}

// Statistics accumulates per-stage outcome counters for one batch run.
// Counters are monotonic: Increment is the only mutator and nothing
// ever decrements. The zero lifecycle is create at run start, mutate
// during the run, Snapshot once at the end.
type Statistics struct {
	counters map[Counter]int
}

// NewStatistics creates an empty accumulator.
func NewStatistics() *Statistics {
	return &Statistics{counters: make(map[Counter]int)}
}

// Increment adds one to the named counter.
func (s *Statistics) Increment(c Counter) {
	s.counters[c]++
}

// Snapshot returns an immutable copy of the counters for logging at
// batch end.
func (s *Statistics) Snapshot() map[Counter]int {
	out := make(map[Counter]int, len(s.counters))
	for c, n := range s.counters {
		out[c] = n
	}
	return out
}

// Errors totals every error counter in the snapshot.
func Errors(snapshot map[Counter]int) int {
	return snapshot[CounterExtractError] +
		snapshot[CounterAssetError] +
		snapshot[CounterMetadataError] +
		snapshot[CounterAnnotationError] +
		snapshot[CounterAudioError]
}
