package ingest

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/audiomidi/ingest/internal/util"
)

func TestMain(m *testing.M) {
	util.SetQuiet(true)
	os.Exit(m.Run())
}

func driverJAMS(title string) []byte {
	return []byte(fmt.Sprintf(`{
  "file_metadata": {"title": "%s", "duration": 10.0},
  "annotations": [
    {
      "namespace": "key_mode",
      "annotation_metadata": {"data_source": "annotator"},
      "data": [{"time": 0.0, "duration": 10.0, "value": "E:minor"}]
    },
    {
      "namespace": "chord",
      "annotation_metadata": {"data_source": "annotator"},
      "data": [{"time": 0.0, "duration": 2.0, "value": "E:min"}]
    }
  ]
}`, title))
}

func minimalWAV() []byte {
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint32(fmtBody[4:8], 44100)

	var out []byte
	out = append(out, []byte("RIFF\x00\x00\x00\x00WAVE")...)
	out = append(out, []byte("fmt ")...)
	size := make([]byte, 4)
	binary.LittleEndian.PutUint32(size, uint32(len(fmtBody)))
	out = append(out, size...)
	out = append(out, fmtBody...)
	return out
}

func writeFixture(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jams", "a.jams", "c.jams", "skip.txt"} {
		writeFixture(t, filepath.Join(dir, name), []byte("{}"))
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub.jams"), 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	paths, err := listFiles(dir, ".jams", 0)
	if err != nil {
		t.Fatalf("listFiles failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("found %d files, expected 3", len(paths))
	}
	// Lexicographic order; directories and other extensions are skipped
	for i, want := range []string{"a.jams", "b.jams", "c.jams"} {
		if filepath.Base(paths[i]) != want {
			t.Errorf("paths[%d] = %q, expected %q", i, filepath.Base(paths[i]), want)
		}
	}

	limited, err := listFiles(dir, ".jams", 2)
	if err != nil {
		t.Fatalf("listFiles with limit failed: %v", err)
	}
	if len(limited) != 2 || filepath.Base(limited[1]) != "b.jams" {
		t.Errorf("limited = %v, expected the first 2 in order", limited)
	}
}

func TestListFilesMissingDirectory(t *testing.T) {
	_, err := listFiles(filepath.Join(t.TempDir(), "absent"), ".jams", 0)
	if !errors.Is(err, util.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if !IsFatal(err) {
		t.Error("a missing dataset directory must abort the batch")
	}
}

func TestStem(t *testing.T) {
	tests := []struct{ path, want string }{
		{"/data/annotation/00_BN1-129-Eb_comp.jams", "00_BN1-129-Eb_comp"},
		{"take.wav", "take"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := stem(tt.path); got != tt.want {
			t.Errorf("stem(%q) = %q, expected %q", tt.path, got, tt.want)
		}
	}
}

func TestDatasetName(t *testing.T) {
	if got := DatasetName(2); got != "IDMT_SMT_Guitar_2" {
		t.Errorf("DatasetName(2) = %q", got)
	}
}

func TestGuitarSetDriverRun(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "annotation", "00_BN1-129-Eb_comp.jams"), driverJAMS("00_BN1-129-Eb_comp"))
	writeFixture(t, filepath.Join(root, "annotation", "01_Rock1-100-A_solo.jams"), driverJAMS("01_Rock1-100-A_solo"))
	writeFixture(t, filepath.Join(root, "audio_mono-pickup_mix", "00_BN1-129-Eb_comp.wav"), minimalWAV())

	p, objects, _, _ := newTestProcessor()
	driver := &GuitarSetDriver{Processor: p, Root: root}

	snapshot, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if snapshot[CounterLoaded] != 2 {
		t.Errorf("loaded = %d, expected 2", snapshot[CounterLoaded])
	}
	if snapshot[CounterMetadataInserted] != 2 {
		t.Errorf("metadata_inserted = %d, expected 2", snapshot[CounterMetadataInserted])
	}
	if snapshot[CounterAudioUploaded] != 1 {
		t.Errorf("audio_uploaded = %d, expected 1", snapshot[CounterAudioUploaded])
	}
	if Errors(snapshot) != 0 {
		t.Errorf("errors = %d, expected 0", Errors(snapshot))
	}

	wantKeys := []string{
		"GuitarSet/00_BN1-129-Eb_comp/annotation.jams",
		"GuitarSet/01_Rock1-100-A_solo/annotation.jams",
		"GuitarSet/00_BN1-129-Eb_comp/audio_mono_pickup_mix.wav",
	}
	for _, key := range wantKeys {
		if _, ok := objects.objects[key]; !ok {
			t.Errorf("object %q was not written", key)
		}
	}
}

func TestGuitarSetDriverLimit(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "annotation", "00_BN1-129-Eb_comp.jams"), driverJAMS("00_BN1-129-Eb_comp"))
	writeFixture(t, filepath.Join(root, "annotation", "01_Rock1-100-A_solo.jams"), driverJAMS("01_Rock1-100-A_solo"))
	if err := os.MkdirAll(filepath.Join(root, "audio_mono-pickup_mix"), 0755); err != nil {
		t.Fatalf("failed to create audio directory: %v", err)
	}

	p, _, _, _ := newTestProcessor()
	driver := &GuitarSetDriver{Processor: p, Root: root, Limit: 1}

	snapshot, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if snapshot[CounterLoaded] != 1 {
		t.Errorf("loaded = %d, expected 1 with limit", snapshot[CounterLoaded])
	}
}

func TestGuitarSetDriverIsolatesFileFailures(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "annotation", "00_BN1-129-Eb_comp.jams"), driverJAMS("00_BN1-129-Eb_comp"))
	writeFixture(t, filepath.Join(root, "annotation", "01_broken.jams"), []byte("{not json"))
	if err := os.MkdirAll(filepath.Join(root, "audio_mono-pickup_mix"), 0755); err != nil {
		t.Fatalf("failed to create audio directory: %v", err)
	}

	p, _, _, _ := newTestProcessor()
	driver := &GuitarSetDriver{Processor: p, Root: root}

	snapshot, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("a broken file must not abort the batch: %v", err)
	}
	if snapshot[CounterLoaded] != 1 || snapshot[CounterExtractError] != 1 {
		t.Errorf("loaded=%d extract_error=%d, expected 1 and 1",
			snapshot[CounterLoaded], snapshot[CounterExtractError])
	}
}

func TestGuitarSetDriverMissingRoot(t *testing.T) {
	p, _, _, _ := newTestProcessor()
	driver := &GuitarSetDriver{Processor: p, Root: filepath.Join(t.TempDir(), "absent")}

	_, err := driver.Run(context.Background())
	if !errors.Is(err, util.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestIDMTDriverUnknownSubset(t *testing.T) {
	p, _, _, _ := newTestProcessor()
	driver := &IDMTDriver{Processor: p, Root: t.TempDir(), Subsets: []int{4}}

	_, err := driver.Run(context.Background())
	if !errors.Is(err, util.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestIDMTDriverRun(t *testing.T) {
	const xml = `<instrumentRecording>
  <globalParameter><audioFileName>AR_Lick1_FN.wav</audioFileName></globalParameter>
  <transcription>
    <event><pitch>52</pitch><onsetSec>0.1</onsetSec><offsetSec>0.5</offsetSec></event>
  </transcription>
</instrumentRecording>`

	root := t.TempDir()
	sub1 := filepath.Join(root, "dataset1", "Fender Strat Clean Neck SC")
	writeFixture(t, filepath.Join(sub1, "annotation", "AR_Lick1_FN.xml"), []byte(xml))
	writeFixture(t, filepath.Join(sub1, "audio", "AR_Lick1_FN.wav"), minimalWAV())
	writeFixture(t, filepath.Join(root, "dataset2", "annotation", "LP_Lick2_KN.xml"), []byte(xml))
	writeFixture(t, filepath.Join(root, "dataset2", "audio", "LP_Lick2_KN.wav"), minimalWAV())

	p, objects, _, _ := newTestProcessor()
	driver := &IDMTDriver{Processor: p, Root: root, Subsets: []int{1, 2}}

	snapshot, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if snapshot[CounterLoaded] != 2 {
		t.Errorf("loaded = %d, expected 2", snapshot[CounterLoaded])
	}
	if snapshot[CounterAudioUploaded] != 2 {
		t.Errorf("audio_uploaded = %d, expected 2", snapshot[CounterAudioUploaded])
	}

	wantKeys := []string{
		"IDMT_SMT_Guitar_1/AR_Lick1_FN/annotation.xml",
		"IDMT_SMT_Guitar_1/AR_Lick1_FN/audio.wav",
		"IDMT_SMT_Guitar_2/LP_Lick2_KN/annotation.xml",
		"IDMT_SMT_Guitar_2/LP_Lick2_KN/audio.wav",
	}
	for _, key := range wantKeys {
		if _, ok := objects.objects[key]; !ok {
			t.Errorf("object %q was not written", key)
		}
	}
}
