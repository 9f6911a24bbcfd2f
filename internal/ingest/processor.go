package ingest

import (
	"context"
	"errors"

	"github.com/audiomidi/ingest/internal/model"
	"github.com/audiomidi/ingest/internal/sink"
	"github.com/audiomidi/ingest/internal/util"
)

// AnnotationFile is one extracted source file ready to write: the raw
// bytes for the object sink, the canonical metadata record for the
// relational sink, and the annotation series for the document sink.
type AnnotationFile struct {
	Raw         []byte
	ContentType string
	ObjectKey   string
	Metadata    model.Metadata
	Series      []model.AnnotationSeries
}

// Extractor turns a source path into an extracted annotation file.
type Extractor func(path string) (*AnnotationFile, error)

// AudioLoader turns a source path into raw asset bytes.
type AudioLoader func(path string) ([]byte, error)

// Processor runs one source file through the ingestion stages:
// extract, object write, identity resolve, metadata write, annotation
// writes. A stage failure moves the file to its terminal error state
// and increments exactly one error counter; writes already committed
// in earlier stages stay in place. Failures never escape to the
// caller; the batch is never aborted by a single file.
type Processor struct {
	Objects   sink.ObjectStore
	Metadata  sink.MetadataStore
	Documents sink.DocumentStore
	Stats     *Statistics
}

// ProcessAnnotation ingests one annotation file end to end.
func (p *Processor) ProcessAnnotation(ctx context.Context, path string, extract Extractor) {
	file, err := extract(path)
	if err != nil {
		p.Stats.Increment(CounterExtractError)
		util.ErrorLog("Extraction failed: path=%s err=%v", path, err)
		return
	}
	p.Stats.Increment(CounterLoaded)

	// Raw asset retention beats cross-store atomicity: the object
	// write comes first and is never rolled back when a later stage
	// fails. A re-run recovers the rest via upserts.
	uri, err := p.Objects.Put(ctx, file.ObjectKey, file.Raw, file.ContentType)
	if err != nil {
		p.Stats.Increment(CounterAssetError)
		util.ErrorLog("Asset upload failed: path=%s err=%v", path, err)
		return
	}
	p.Stats.Increment(CounterAssetUploaded)
	util.DebugLog("Asset uploaded: %s", uri)

	if !p.writeMetadata(ctx, path, file.Metadata) {
		return
	}

	p.writeAnnotations(ctx, path, file.Series)
}

// writeMetadata resolves the natural key against the relational store
// and inserts or updates accordingly. Reports whether the stage
// succeeded.
func (p *Processor) writeMetadata(ctx context.Context, path string, meta model.Metadata) bool {
	id, found, err := p.Metadata.FindByNaturalKey(ctx, meta.Dataset(), meta.Title())
	if err != nil {
		p.Stats.Increment(CounterMetadataError)
		util.ErrorLog("Natural key lookup failed: path=%s err=%v", path, err)
		return false
	}

	if found {
		if err := p.Metadata.Update(ctx, id, meta); err != nil {
			p.Stats.Increment(CounterMetadataError)
			util.ErrorLog("Metadata update failed: path=%s err=%v", path, err)
			return false
		}
		p.Stats.Increment(CounterMetadataUpdated)
		return true
	}

	if _, err := p.Metadata.Insert(ctx, meta); err != nil {
		p.Stats.Increment(CounterMetadataError)
		util.ErrorLog("Metadata insert failed: path=%s err=%v", path, err)
		return false
	}
	p.Stats.Increment(CounterMetadataInserted)
	return true
}

// writeAnnotations upserts every series, tallying each write's own
// outcome. The first failing series ends the stage; series already
// written stay written.
func (p *Processor) writeAnnotations(ctx context.Context, path string, series []model.AnnotationSeries) {
	for i := range series {
		outcome, err := p.Documents.Upsert(ctx, &series[i])
		if err != nil {
			p.Stats.Increment(CounterAnnotationError)
			util.ErrorLog("Annotation upsert failed: path=%s kind=%s err=%v", path, series[i].Kind, err)
			return
		}
		switch outcome {
		case sink.OutcomeInserted:
			p.Stats.Increment(CounterAnnotationInserted)
		case sink.OutcomeUpdated:
			p.Stats.Increment(CounterAnnotationUpdated)
		}
	}
}

// ProcessAudio ingests one raw audio file: load and validate, then a
// single object write. No relational or document writes happen on the
// audio pass.
func (p *Processor) ProcessAudio(ctx context.Context, path string, key string, load AudioLoader) {
	data, err := load(path)
	if err != nil {
		p.Stats.Increment(CounterAudioError)
		util.ErrorLog("Audio load failed: path=%s err=%v", path, err)
		return
	}
	p.Stats.Increment(CounterAudioLoaded)

	if _, err := p.Objects.Put(ctx, key, data, "audio/wav"); err != nil {
		p.Stats.Increment(CounterAudioError)
		util.ErrorLog("Audio upload failed: path=%s err=%v", path, err)
		return
	}
	p.Stats.Increment(CounterAudioUploaded)
}

// IsFatal reports whether an error must abort the whole batch rather
// than a single file.
func IsFatal(err error) bool {
	return errors.Is(err, util.ErrConfiguration)
}
