// Package model holds the canonical in-memory records produced by
// extraction, independent of the source file format.
package model

// MetadataKind tags the concrete metadata variant.
type MetadataKind int

const (
	KindGuitarSet MetadataKind = iota
	KindIDMT
)

// Metadata is the canonical per-recording record. The (Dataset, Title)
// pair is the natural key identifying the recording across all sinks;
// no surrogate id exists before the first relational write.
type Metadata interface {
	Dataset() string
	Title() string
	Kind() MetadataKind
}

// GuitarSetMetadata is the canonical record for a GuitarSet recording.
// Everything but PickupSetting comes out of the title grammar and the
// JAMS file header.
type GuitarSetMetadata struct {
	DatasetName    string
	GuitaristID    int
	RecordingTitle string
	Style          Style
	Tempo          int
	Scale          Scale
	Mode           Mode
	PlayingVersion PlayingVersion
	Duration       float64
	PickupSetting  *string
}

func (m *GuitarSetMetadata) Dataset() string    { return m.DatasetName }
func (m *GuitarSetMetadata) Title() string      { return m.RecordingTitle }
func (m *GuitarSetMetadata) Kind() MetadataKind { return KindGuitarSet }

// IDMTMetadata is the canonical record for an IDMT-SMT-Guitar recording.
// Fields are pointers because the XML global parameters are sparsely
// populated; a nil field is persisted as SQL NULL, never as "".
type IDMTMetadata struct {
	DatasetName    string
	RecordingTitle string

	Instrument               *string
	InstrumentModel          *string
	PickupSetting            *string
	PickupType               *string
	AmpChannel               *string
	InstrumentTuning         *string
	AudioEffects             *string
	RecordingDate            *string
	RecordingArtist          *string
	InstrumentBodyMaterial   *string
	InstrumentStringMaterial *string
	Composer                 *string
	RecordingSource          *string
	Polyphony                bool
}

func (m *IDMTMetadata) Dataset() string    { return m.DatasetName }
func (m *IDMTMetadata) Title() string      { return m.RecordingTitle }
func (m *IDMTMetadata) Kind() MetadataKind { return KindIDMT }
