// Package sink holds the adapters for the three persistent stores the
// pipeline writes to, plus the contracts the per-file processor
// consumes. Adapters hold one connection each, opened by the command
// and released when the batch ends.
package sink

import (
	"context"
	"fmt"

	"github.com/audiomidi/ingest/internal/model"
)

// WriteOutcome reports whether an upsert created a new record or
// replaced an existing one.
type WriteOutcome int

const (
	OutcomeInserted WriteOutcome = iota
	OutcomeUpdated
)

func (o WriteOutcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeUpdated:
		return "updated"
	}
	return fmt.Sprintf("WriteOutcome(%d)", int(o))
}

// ObjectStore writes raw assets by deterministic key. Writing the same
// key twice replaces the content; there is no versioning.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (uri string, err error)
}

// MetadataStore is the relational sink holding one row per recording,
// keyed naturally by (dataset_name, title).
type MetadataStore interface {
	// FindByNaturalKey resolves a natural key to the surrogate id.
	// Not finding a row is an expected outcome, not an error.
	FindByNaturalKey(ctx context.Context, dataset, title string) (id int64, found bool, err error)
	Insert(ctx context.Context, meta model.Metadata) (int64, error)
	Update(ctx context.Context, id int64, meta model.Metadata) error
}

// DocumentStore upserts one document per annotation series, keyed
// strictly on (dataset_name, title) within the series' collection.
type DocumentStore interface {
	Upsert(ctx context.Context, series *model.AnnotationSeries) (WriteOutcome, error)
}

// ObjectKey derives the deterministic object store key for a raw asset:
// {dataset}/{title}/{role}.{ext}.
func ObjectKey(dataset, title, role, ext string) string {
	return fmt.Sprintf("%s/%s/%s.%s", dataset, title, role, ext)
}
