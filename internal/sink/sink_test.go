package sink

import (
	"testing"

	"github.com/audiomidi/ingest/internal/model"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		dataset, title, role, ext string
		want                      string
	}{
		{"GuitarSet", "00_BN1-129-Eb_comp", "annotation", "jams",
			"GuitarSet/00_BN1-129-Eb_comp/annotation.jams"},
		{"GuitarSet", "00_BN1-129-Eb_comp", "audio_mono_pickup_mix", "wav",
			"GuitarSet/00_BN1-129-Eb_comp/audio_mono_pickup_mix.wav"},
		{"IDMT_SMT_Guitar_2", "AR_Lick1_FN", "annotation", "xml",
			"IDMT_SMT_Guitar_2/AR_Lick1_FN/annotation.xml"},
	}
	for _, tt := range tests {
		if got := ObjectKey(tt.dataset, tt.title, tt.role, tt.ext); got != tt.want {
			t.Errorf("ObjectKey(%q, %q, %q, %q) = %q, expected %q",
				tt.dataset, tt.title, tt.role, tt.ext, got, tt.want)
		}
	}
}

func TestWriteOutcomeString(t *testing.T) {
	if got := OutcomeInserted.String(); got != "inserted" {
		t.Errorf("OutcomeInserted.String() = %q", got)
	}
	if got := OutcomeUpdated.String(); got != "updated" {
		t.Errorf("OutcomeUpdated.String() = %q", got)
	}
	if got := WriteOutcome(7).String(); got != "WriteOutcome(7)" {
		t.Errorf("WriteOutcome(7).String() = %q", got)
	}
}

func TestSeriesDocument(t *testing.T) {
	series := &model.AnnotationSeries{
		DatasetName:    "GuitarSet",
		AnnotatedTitle: "00_BN1-129-Eb_comp",
		Kind:           model.SeriesChord,
		Chord: []model.ChordEvent{
			{Time: 0.46, Duration: 1.85, Value: "Eb:maj"},
		},
	}

	doc := SeriesDocument(series)
	if doc["dataset_name"] != "GuitarSet" {
		t.Errorf("dataset_name = %v", doc["dataset_name"])
	}
	if doc["title"] != "00_BN1-129-Eb_comp" {
		t.Errorf("title = %v", doc["title"])
	}
	chords, ok := doc["chord"].([]model.ChordEvent)
	if !ok || len(chords) != 1 {
		t.Fatalf("chord payload = %v", doc["chord"])
	}
	if chords[0].Value != "Eb:maj" {
		t.Errorf("chord value = %q", chords[0].Value)
	}
	if _, ok := doc["note_midi"]; ok {
		t.Error("only the populated payload may appear in the document")
	}
}

func TestSeriesDocumentTranscription(t *testing.T) {
	pitch := 52
	series := &model.AnnotationSeries{
		DatasetName:    "IDMT_SMT_Guitar_2",
		AnnotatedTitle: "AR_Lick1_FN",
		Kind:           model.SeriesTranscription,
		Transcription:  []model.TranscriptionEvent{{Pitch: &pitch}},
	}

	doc := SeriesDocument(series)
	events, ok := doc["transcription"].([]model.TranscriptionEvent)
	if !ok || len(events) != 1 {
		t.Fatalf("transcription payload = %v", doc["transcription"])
	}
	if events[0].Pitch == nil || *events[0].Pitch != 52 {
		t.Errorf("transcription pitch = %v", events[0].Pitch)
	}
	// Absent optional attributes land as nil, never a fabricated zero
	if events[0].FretNumber != nil {
		t.Errorf("fret number = %v, expected nil", events[0].FretNumber)
	}
}
