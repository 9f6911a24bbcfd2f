package ingest

import (
	"context"
	"path/filepath"

	"github.com/audiomidi/ingest/internal/extract"
	"github.com/audiomidi/ingest/internal/sink"
	"github.com/audiomidi/ingest/internal/util"
)

const GuitarSetDatasetName = "GuitarSet"

// GuitarSetDriver ingests the GuitarSet dataset: a JAMS annotation pass
// followed by a raw audio pass. The two passes cover different file
// sets that share titles by filename convention; they are not
// transactionally linked.
type GuitarSetDriver struct {
	Processor *Processor
	Root      string
	Limit     int
}

// Run executes both passes sequentially and returns the batch
// statistics snapshot. Only a missing dataset directory aborts the
// run; per-file failures are logged, counted, and swallowed.
func (d *GuitarSetDriver) Run(ctx context.Context) (map[Counter]int, error) {
	util.InfoLog("GuitarSet ingestion starts: root=%s", d.Root)

	util.InfoLog("[1/2] JAMS ingestion")
	if err := d.annotationPass(ctx); err != nil {
		return nil, err
	}

	util.InfoLog("[2/2] WAV ingestion")
	if err := d.audioPass(ctx); err != nil {
		return nil, err
	}

	snapshot := d.Processor.Stats.Snapshot()
	util.SuccessLog("GuitarSet ingestion ends: errors=%d", Errors(snapshot))
	return snapshot, nil
}

func (d *GuitarSetDriver) annotationPass(ctx context.Context) error {
	dir := filepath.Join(d.Root, "annotation")
	paths, err := listFiles(dir, ".jams", d.Limit)
	if err != nil {
		return err
	}

	bar := newProgressBar(len(paths), "JAMS ingestion")
	for _, path := range paths {
		d.Processor.ProcessAnnotation(ctx, path, guitarSetExtractor)
		barAdd(bar)
	}
	barFinish(bar)
	return nil
}

// guitarSetExtractor loads a JAMS file and derives the object key from
// the filename stem.
func guitarSetExtractor(path string) (*AnnotationFile, error) {
	file, err := extract.LoadJAMS(path, GuitarSetDatasetName)
	if err != nil {
		return nil, err
	}
	return &AnnotationFile{
		Raw:         file.Raw,
		ContentType: "application/json",
		ObjectKey:   sink.ObjectKey(GuitarSetDatasetName, stem(path), "annotation", "jams"),
		Metadata:    file.Metadata,
		Series:      file.Series,
	}, nil
}

func (d *GuitarSetDriver) audioPass(ctx context.Context) error {
	dir := filepath.Join(d.Root, "audio_mono-pickup_mix")
	paths, err := listFiles(dir, ".wav", d.Limit)
	if err != nil {
		return err
	}

	bar := newProgressBar(len(paths), "WAV ingestion")
	for _, path := range paths {
		key := sink.ObjectKey(GuitarSetDatasetName, stem(path), "audio_mono_pickup_mix", "wav")
		d.Processor.ProcessAudio(ctx, path, key, loadAudio)
		barAdd(bar)
	}
	barFinish(bar)
	return nil
}

func loadAudio(path string) ([]byte, error) {
	wav, err := extract.LoadWAV(path)
	if err != nil {
		return nil, err
	}
	return wav.Raw, nil
}
