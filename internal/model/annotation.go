package model

// SeriesKind names an annotation series; it is also the document store
// collection the series lands in.
type SeriesKind string

const (
	SeriesPitchContour  SeriesKind = "pitch_contour"
	SeriesNoteMidi      SeriesKind = "note_midi"
	SeriesBeatPosition  SeriesKind = "beat_position"
	SeriesChord         SeriesKind = "chord"
	SeriesTranscription SeriesKind = "transcription"
)

// AnnotationSeries is one time-ordered annotation sequence for a
// recording. DatasetName and AnnotatedTitle are denormalized into every
// series so the document store can key on the natural key alone.
type AnnotationSeries struct {
	DatasetName    string
	AnnotatedTitle string
	Kind           SeriesKind

	// Exactly one of the following is populated, matching Kind.
	PitchContour  []PitchContourPoint
	NoteMidi      []NoteMidiEvent
	BeatPosition  []BeatPositionEvent
	Chord         []ChordEvent
	Transcription []TranscriptionEvent
}

// Len returns the number of records in the populated payload.
func (s *AnnotationSeries) Len() int {
	switch s.Kind {
	case SeriesPitchContour:
		return len(s.PitchContour)
	case SeriesNoteMidi:
		return len(s.NoteMidi)
	case SeriesBeatPosition:
		return len(s.BeatPosition)
	case SeriesChord:
		return len(s.Chord)
	case SeriesTranscription:
		return len(s.Transcription)
	}
	return 0
}

// PitchContourPoint is one sample of a continuous pitch curve.
type PitchContourPoint struct {
	DataSource string  `bson:"data_source" json:"data_source"`
	Time       float64 `bson:"time" json:"time"`
	Frequency  float64 `bson:"frequency" json:"frequency"`
}

// NoteMidiEvent is one discrete note with a MIDI pitch value.
type NoteMidiEvent struct {
	DataSource string  `bson:"data_source" json:"data_source"`
	Time       float64 `bson:"time" json:"time"`
	Duration   float64 `bson:"duration" json:"duration"`
	Value      float64 `bson:"value" json:"value"`
}

// BeatPositionEvent is one beat of the metrical grid.
type BeatPositionEvent struct {
	Time      float64 `bson:"time" json:"time"`
	Position  int     `bson:"position" json:"position"`
	BeatUnits int     `bson:"beat_units" json:"beat_units"`
	Measure   int     `bson:"measure" json:"measure"`
	NumBeats  int     `bson:"num_beats" json:"num_beats"`
}

// ChordEvent is one chord of the harmonic sequence.
type ChordEvent struct {
	Time     float64 `bson:"time" json:"time"`
	Duration float64 `bson:"duration" json:"duration"`
	Value    string  `bson:"value" json:"value"`
}

// TranscriptionEvent is one symbolic note event from an IDMT annotation.
// Every field is optional in the source; absent attributes stay nil so
// downstream aggregates never see a fabricated zero.
type TranscriptionEvent struct {
	Pitch                    *int             `bson:"pitch" json:"pitch"`
	Onset                    *float64         `bson:"onset" json:"onset"`
	Offset                   *float64         `bson:"offset" json:"offset"`
	FretNumber               *int             `bson:"fret_number" json:"fret_number"`
	StringNumber             *int             `bson:"string_number" json:"string_number"`
	ExcitationStyle          *ExcitationStyle `bson:"excitation_style" json:"excitation_style"`
	ExpressionStyle          *ExpressionStyle `bson:"expression_style" json:"expression_style"`
	Loudness                 *Loudness        `bson:"loudness" json:"loudness"`
	ModulationFrequency      *float64         `bson:"modulation_frequency" json:"modulation_frequency"`
	ModulationFrequencyRange *float64         `bson:"modulation_frequency_range" json:"modulation_frequency_range"`
}
