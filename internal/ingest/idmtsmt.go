package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/audiomidi/ingest/internal/extract"
	"github.com/audiomidi/ingest/internal/sink"
	"github.com/audiomidi/ingest/internal/util"
)

// IDMTDriver ingests the IDMT-SMT-Guitar dataset. Subsets 1 to 3 are
// independently toggleable; subset 1 nests an instrument directory
// level whose name carries the recording setup and must parse.
type IDMTDriver struct {
	Processor *Processor
	Root      string
	Limit     int
	Subsets   []int
}

// DatasetName returns the per-subset dataset identifier, e.g.
// "IDMT_SMT_Guitar_2".
func DatasetName(subset int) string {
	return fmt.Sprintf("IDMT_SMT_Guitar_%d", subset)
}

// Run ingests every enabled subset and returns the batch statistics
// snapshot.
func (d *IDMTDriver) Run(ctx context.Context) (map[Counter]int, error) {
	util.InfoLog("IDMT-SMT-Guitar ingestion starts: root=%s subsets=%v", d.Root, d.Subsets)

	for _, subset := range d.Subsets {
		util.InfoLog("Subset %d ingestion", subset)
		var err error
		switch subset {
		case 1:
			err = d.ingestSubset1(ctx)
		case 2, 3:
			err = d.ingestFlatSubset(ctx, subset)
		default:
			err = fmt.Errorf("%w: unknown IDMT subset %d", util.ErrConfiguration, subset)
		}
		if err != nil {
			return nil, err
		}
	}

	snapshot := d.Processor.Stats.Snapshot()
	util.SuccessLog("IDMT-SMT-Guitar ingestion ends: errors=%d", Errors(snapshot))
	return snapshot, nil
}

// ingestSubset1 walks the instrument directories under dataset1. The
// directory name is the structural marker making enrichment mandatory.
func (d *IDMTDriver) ingestSubset1(ctx context.Context) error {
	dirs, err := listDirs(filepath.Join(d.Root, "dataset1"))
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		util.InfoLog("  directory=%s", filepath.Base(dir))
		if err := d.ingestPair(ctx, dir, 1, filepath.Base(dir)); err != nil {
			return err
		}
	}
	return nil
}

func (d *IDMTDriver) ingestFlatSubset(ctx context.Context, subset int) error {
	dir := filepath.Join(d.Root, fmt.Sprintf("dataset%d", subset))
	return d.ingestPair(ctx, dir, subset, "")
}

// ingestPair runs the XML annotation pass and the WAV audio pass for
// one directory holding annotation/ and audio/ siblings.
func (d *IDMTDriver) ingestPair(ctx context.Context, dir string, subset int, directoryName string) error {
	dataset := DatasetName(subset)

	xmlPaths, err := listFiles(filepath.Join(dir, "annotation"), ".xml", d.Limit)
	if err != nil {
		return err
	}
	bar := newProgressBar(len(xmlPaths), "XML ingestion")
	for _, path := range xmlPaths {
		d.Processor.ProcessAnnotation(ctx, path, idmtExtractor(dataset, directoryName))
		barAdd(bar)
	}
	barFinish(bar)

	wavPaths, err := listFiles(filepath.Join(dir, "audio"), ".wav", d.Limit)
	if err != nil {
		return err
	}
	bar = newProgressBar(len(wavPaths), "WAV ingestion")
	for _, path := range wavPaths {
		key := sink.ObjectKey(dataset, stem(path), "audio", "wav")
		d.Processor.ProcessAudio(ctx, path, key, loadAudio)
		barAdd(bar)
	}
	barFinish(bar)
	return nil
}

// idmtExtractor builds the extractor for one subset directory.
// directoryName is empty outside subset 1, which disables enrichment.
func idmtExtractor(dataset string, directoryName string) Extractor {
	return func(path string) (*AnnotationFile, error) {
		file, err := extract.LoadXML(path, dataset, directoryName)
		if err != nil {
			return nil, err
		}
		return &AnnotationFile{
			Raw:         file.Raw,
			ContentType: "application/xml",
			ObjectKey:   sink.ObjectKey(dataset, stem(path), "annotation", "xml"),
			Metadata:    file.Metadata,
			Series:      file.Series,
		}, nil
	}
}
