// Package extract parses dataset source files into canonical records.
// All failures are classified against the sentinel taxonomy in
// internal/util: bad paths are ErrInvalidInput, malformed content is
// ErrExtraction. Neither is retryable.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/audiomidi/ingest/internal/model"
	"github.com/audiomidi/ingest/internal/util"
)

// titlePattern is the GuitarSet title grammar: a two-digit guitarist id,
// hyphen-separated style/tempo/scale, and an underscore-separated
// playing-version suffix, e.g. "02_BN1-129-Eb_comp".
var titlePattern = regexp.MustCompile(`^(\d{2})_([A-Za-z0-9]+)-(\d+)-([A-Ga-g][#b]?)_(comp|solo)$`)

// JAMSFile is a parsed GuitarSet annotation file.
type JAMSFile struct {
	Raw      []byte
	Metadata *model.GuitarSetMetadata
	Series   []model.AnnotationSeries
}

// jamsDocument mirrors the JAMS JSON layout. Observation values are
// heterogeneous across namespaces, so they stay raw until the namespace
// is known.
type jamsDocument struct {
	FileMetadata struct {
		Title    string  `json:"title"`
		Duration float64 `json:"duration"`
	} `json:"file_metadata"`
	Annotations []jamsAnnotation `json:"annotations"`
	Sandbox     struct {
		PickupSetting string `json:"pickup_setting"`
	} `json:"sandbox"`
}

type jamsAnnotation struct {
	Namespace string `json:"namespace"`
	Metadata  struct {
		DataSource string `json:"data_source"`
	} `json:"annotation_metadata"`
	Data []jamsObservation `json:"data"`
}

type jamsObservation struct {
	Time     float64         `json:"time"`
	Duration float64         `json:"duration"`
	Value    json.RawMessage `json:"value"`
}

type pitchContourValue struct {
	Frequency float64 `json:"frequency"`
	Voiced    bool    `json:"voiced"`
}

type beatPositionValue struct {
	Position  int `json:"position"`
	BeatUnits int `json:"beat_units"`
	Measure   int `json:"measure"`
	NumBeats  int `json:"num_beats"`
}

// LoadJAMS reads and parses a GuitarSet JAMS file into a canonical
// metadata record and its annotation series.
func LoadJAMS(path string, datasetName string) (*JAMSFile, error) {
	if err := validatePath(path, ".jams"); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", util.ErrExtraction, path, err)
	}

	var doc jamsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed JAMS in %s: %v", util.ErrExtraction, path, err)
	}

	// The header title is the natural key half; a file without one
	// must not reach any sink, even when the filename looks usable.
	title := strings.TrimSpace(doc.FileMetadata.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: JAMS title is missing in %s", util.ErrExtraction, path)
	}

	meta, err := parseGuitarSetTitle(title)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrExtraction, path, err)
	}
	meta.DatasetName = datasetName
	meta.Duration = doc.FileMetadata.Duration
	if s := strings.TrimSpace(doc.Sandbox.PickupSetting); s != "" {
		meta.PickupSetting = &s
	}

	mode, err := extractKeyMode(doc.Annotations)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrExtraction, path, err)
	}
	meta.Mode = mode

	series, err := buildJAMSSeries(doc.Annotations, datasetName, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrExtraction, path, err)
	}

	util.DebugLog("JAMS extracted: title=%s series=%d", title, len(series))
	return &JAMSFile{Raw: raw, Metadata: meta, Series: series}, nil
}

// parseGuitarSetTitle applies the fixed title grammar. The scale token
// is alias-normalized before enumeration matching, so "Db" matches as
// "C#" and "Gb" as "F#".
func parseGuitarSetTitle(title string) (*model.GuitarSetMetadata, error) {
	m := titlePattern.FindStringSubmatch(title)
	if m == nil {
		return nil, fmt.Errorf("title %q does not match the GuitarSet grammar", title)
	}

	guitaristID, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("bad guitarist id in title %q: %v", title, err)
	}
	style, err := model.ParseStyle(m[2])
	if err != nil {
		return nil, err
	}
	tempo, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, fmt.Errorf("bad tempo in title %q: %v", title, err)
	}
	scale, err := model.ParseScale(m[4])
	if err != nil {
		return nil, err
	}
	version, err := model.ParsePlayingVersion(m[5])
	if err != nil {
		return nil, err
	}

	return &model.GuitarSetMetadata{
		GuitaristID:    guitaristID,
		RecordingTitle: title,
		Style:          style,
		Tempo:          tempo,
		Scale:          scale,
		PlayingVersion: version,
	}, nil
}

// extractKeyMode finds the key_mode annotation and returns the mode
// half of its "tonic:mode" value.
func extractKeyMode(annotations []jamsAnnotation) (model.Mode, error) {
	for _, ann := range annotations {
		if ann.Namespace != "key_mode" || len(ann.Data) == 0 {
			continue
		}
		var value string
		if err := json.Unmarshal(ann.Data[0].Value, &value); err != nil {
			return "", fmt.Errorf("bad key_mode value: %v", err)
		}
		parts := strings.SplitN(value, ":", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("key_mode value %q is not tonic:mode", value)
		}
		return model.ParseMode(parts[1])
	}
	return "", fmt.Errorf("key_mode annotation is missing")
}

// buildJAMSSeries folds all annotations into at most one series per
// kind. GuitarSet carries several annotations per namespace (one per
// string for pitch and notes); the per-annotation data source marks
// which one each record came from.
func buildJAMSSeries(annotations []jamsAnnotation, datasetName, title string) ([]model.AnnotationSeries, error) {
	var (
		pitch  []model.PitchContourPoint
		notes  []model.NoteMidiEvent
		beats  []model.BeatPositionEvent
		chords []model.ChordEvent
	)

	for _, ann := range annotations {
		switch ann.Namespace {
		case "pitch_contour":
			for _, obs := range ann.Data {
				var v pitchContourValue
				if err := json.Unmarshal(obs.Value, &v); err != nil {
					return nil, fmt.Errorf("bad pitch_contour value: %v", err)
				}
				pitch = append(pitch, model.PitchContourPoint{
					DataSource: ann.Metadata.DataSource,
					Time:       obs.Time,
					Frequency:  v.Frequency,
				})
			}
		case "note_midi":
			for _, obs := range ann.Data {
				var v float64
				if err := json.Unmarshal(obs.Value, &v); err != nil {
					return nil, fmt.Errorf("bad note_midi value: %v", err)
				}
				notes = append(notes, model.NoteMidiEvent{
					DataSource: ann.Metadata.DataSource,
					Time:       obs.Time,
					Duration:   obs.Duration,
					Value:      v,
				})
			}
		case "beat_position":
			for _, obs := range ann.Data {
				var v beatPositionValue
				if err := json.Unmarshal(obs.Value, &v); err != nil {
					return nil, fmt.Errorf("bad beat_position value: %v", err)
				}
				beats = append(beats, model.BeatPositionEvent{
					Time:      obs.Time,
					Position:  v.Position,
					BeatUnits: v.BeatUnits,
					Measure:   v.Measure,
					NumBeats:  v.NumBeats,
				})
			}
		case "chord":
			for _, obs := range ann.Data {
				var v string
				if err := json.Unmarshal(obs.Value, &v); err != nil {
					return nil, fmt.Errorf("bad chord value: %v", err)
				}
				chords = append(chords, model.ChordEvent{
					Time:     obs.Time,
					Duration: obs.Duration,
					Value:    v,
				})
			}
		}
	}

	var series []model.AnnotationSeries
	if len(pitch) > 0 {
		series = append(series, model.AnnotationSeries{
			DatasetName: datasetName, AnnotatedTitle: title,
			Kind: model.SeriesPitchContour, PitchContour: pitch,
		})
	}
	if len(notes) > 0 {
		series = append(series, model.AnnotationSeries{
			DatasetName: datasetName, AnnotatedTitle: title,
			Kind: model.SeriesNoteMidi, NoteMidi: notes,
		})
	}
	if len(beats) > 0 {
		series = append(series, model.AnnotationSeries{
			DatasetName: datasetName, AnnotatedTitle: title,
			Kind: model.SeriesBeatPosition, BeatPosition: beats,
		})
	}
	if len(chords) > 0 {
		series = append(series, model.AnnotationSeries{
			DatasetName: datasetName, AnnotatedTitle: title,
			Kind: model.SeriesChord, Chord: chords,
		})
	}
	return series, nil
}

// validatePath checks existence and extension before any parsing I/O.
func validatePath(path string, wantExt string) error {
	if strings.ToLower(filepath.Ext(path)) != wantExt {
		return fmt.Errorf("%w: %s: expected a %s file", util.ErrInvalidInput, path, wantExt)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s: %v", util.ErrInvalidInput, path, err)
	}
	return nil
}
