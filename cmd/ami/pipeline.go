package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/audiomidi/ingest/internal/config"
	"github.com/audiomidi/ingest/internal/ingest"
	"github.com/audiomidi/ingest/internal/sink"
	"github.com/audiomidi/ingest/internal/util"
)

// stores bundles the three sink connections held open for one batch
// run and released together on every exit path.
type stores struct {
	objects  *sink.S3Store
	metadata *sink.PostgresStore
	docs     *sink.MongoStore
}

// openStores connects the three sinks. Any connection failure tears
// down the ones already open.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	objects, err := sink.NewS3Store(cfg.Object)
	if err != nil {
		return nil, fmt.Errorf("connecting object store: %w", err)
	}

	metadata, err := sink.OpenPostgres(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("connecting relational store: %w", err)
	}

	docs, err := sink.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		metadata.Close()
		return nil, fmt.Errorf("connecting document store: %w", err)
	}

	return &stores{objects: objects, metadata: metadata, docs: docs}, nil
}

func (s *stores) close(ctx context.Context) {
	if err := s.docs.Close(ctx); err != nil {
		util.WarnLog("Closing document store: %v", err)
	}
	if err := s.metadata.Close(); err != nil {
		util.WarnLog("Closing relational store: %v", err)
	}
	util.DebugLog("Store connections released")
}

// newProcessor wires a per-file processor over the open stores with a
// fresh statistics accumulator.
func (s *stores) newProcessor() *ingest.Processor {
	return &ingest.Processor{
		Objects:   s.objects,
		Metadata:  s.metadata,
		Documents: s.docs,
		Stats:     ingest.NewStatistics(),
	}
}

// printSummary renders the final statistics table. Zero counters are
// omitted unless nothing ran at all.
func printSummary(snapshot map[ingest.Counter]int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Counter", "Count"})
	for _, c := range ingest.CounterOrder {
		if n, ok := snapshot[c]; ok && n > 0 {
			t.AppendRow(table.Row{string(c), n})
		}
	}
	t.AppendFooter(table.Row{"errors", ingest.Errors(snapshot)})
	t.Render()
}
