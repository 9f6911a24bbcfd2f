package extract

import (
	"encoding/xml"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/audiomidi/ingest/internal/model"
	"github.com/audiomidi/ingest/internal/util"
)

// directoryPattern is the IDMT dataset 1 directory grammar: instrument
// model, amplifier channel, pickup position, pickup type, and an
// optional polyphony marker, e.g. "Fender Strat Clean Neck SC" or
// "Ibanez Power Strat Clean Bridge HU Chords".
var directoryPattern = regexp.MustCompile(
	`^(Fender Strat|Ibanez Power Strat) (Clean) (Neck|Bridge|Bridge\+Neck) (SC|HU) ?(Chords)?$`)

// XMLFile is a parsed IDMT-SMT-Guitar annotation file.
type XMLFile struct {
	Raw      []byte
	Metadata *model.IDMTMetadata
	Series   []model.AnnotationSeries
}

// xmlNode is a shallow generic tree over the IDMT annotation markup,
// looked up by "a/b/c" path expressions.
type xmlNode struct {
	XMLName  xml.Name
	Content  string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

func (n *xmlNode) find(path string) *xmlNode {
	node := n
	for _, part := range strings.Split(path, "/") {
		var next *xmlNode
		for i := range node.Children {
			if node.Children[i].XMLName.Local == part {
				next = &node.Children[i]
				break
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

// value returns the trimmed text at path, or nil when the element is
// absent or empty. Optional fields stay nil rather than "".
func (n *xmlNode) value(path string) *string {
	node := n.find(path)
	if node == nil {
		return nil
	}
	text := strings.TrimSpace(node.Content)
	if text == "" {
		return nil
	}
	return &text
}

// LoadXML reads and parses an IDMT annotation file. directoryName is
// the containing instrument directory for dataset 1 files; when set,
// the directory grammar is mandatory and overlays the parsed metadata.
func LoadXML(path string, datasetName string, directoryName string) (*XMLFile, error) {
	if err := validatePath(path, ".xml"); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", util.ErrExtraction, path, err)
	}

	var root xmlNode
	if err := xml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: malformed XML in %s: %v", util.ErrExtraction, path, err)
	}

	meta, err := extractXMLMetadata(&root, datasetName, directoryName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrExtraction, path, err)
	}

	events, err := extractTranscription(&root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrExtraction, path, err)
	}

	series := []model.AnnotationSeries{{
		DatasetName:    datasetName,
		AnnotatedTitle: meta.RecordingTitle,
		Kind:           model.SeriesTranscription,
		Transcription:  events,
	}}

	util.DebugLog("XML extracted: title=%s events=%d", meta.RecordingTitle, len(events))
	return &XMLFile{Raw: raw, Metadata: meta, Series: series}, nil
}

func extractXMLMetadata(root *xmlNode, datasetName, directoryName string) (*model.IDMTMetadata, error) {
	title := root.value("globalParameter/audioFileName")
	if title == nil {
		return nil, fmt.Errorf("audioFileName is missing")
	}
	cleaned := strings.ReplaceAll(strings.TrimSuffix(*title, ".wav"), "\\", "")

	meta := &model.IDMTMetadata{
		DatasetName:              datasetName,
		RecordingTitle:           cleaned,
		Instrument:               root.value("globalParameter/instrument"),
		InstrumentModel:          root.value("globalParameter/instrumentModel"),
		PickupSetting:            root.value("globalParameter/pickUpSetting"),
		InstrumentTuning:         root.value("globalParameter/instrumentTuning"),
		AudioEffects:             root.value("globalParameter/audioFX"),
		RecordingDate:            root.value("globalParameter/recordingDate"),
		RecordingArtist:          root.value("globalParameter/recordingArtist"),
		InstrumentBodyMaterial:   root.value("globalParameter/instrumentBodyMaterial"),
		InstrumentStringMaterial: root.value("globalParameter/instrumentStringMaterial"),
		Composer:                 root.value("globalParameter/composer"),
		RecordingSource:          root.value("globalParameter/recordingSource"),
	}

	if directoryName != "" {
		if err := enrichFromDirectory(meta, directoryName); err != nil {
			return nil, err
		}
	}
	return meta, nil
}

// enrichFromDirectory overlays structural hints parsed out of the
// instrument directory name. The markup's own values lose to the
// directory grammar where both exist; the directory layout is the
// authoritative record of the recording setup for dataset 1.
func enrichFromDirectory(meta *model.IDMTMetadata, directoryName string) error {
	m := directoryPattern.FindStringSubmatch(directoryName)
	if m == nil {
		return fmt.Errorf("directory name %q does not match the expected grammar", directoryName)
	}
	meta.InstrumentModel = &m[1]
	meta.AmpChannel = &m[2]
	meta.PickupSetting = &m[3]
	meta.PickupType = &m[4]
	meta.Polyphony = m[5] != ""
	return nil
}

// extractTranscription parses the symbolic event list. Each attribute
// of an event is optional; absent ones stay nil.
func extractTranscription(root *xmlNode) ([]model.TranscriptionEvent, error) {
	transcription := root.find("transcription")
	if transcription == nil || len(transcription.Children) == 0 {
		return nil, fmt.Errorf("transcription block is missing or empty")
	}

	events := make([]model.TranscriptionEvent, 0, len(transcription.Children))
	for i := range transcription.Children {
		node := &transcription.Children[i]
		if node.XMLName.Local != "event" {
			continue
		}
		ev, err := parseEvent(node)
		if err != nil {
			return nil, fmt.Errorf("event %d: %v", i, err)
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("transcription block has no events")
	}
	return events, nil
}

func parseEvent(node *xmlNode) (model.TranscriptionEvent, error) {
	var ev model.TranscriptionEvent
	var err error

	if ev.Pitch, err = intField(node, "pitch"); err != nil {
		return ev, err
	}
	if ev.Onset, err = floatField(node, "onsetSec"); err != nil {
		return ev, err
	}
	if ev.Offset, err = floatField(node, "offsetSec"); err != nil {
		return ev, err
	}
	if ev.FretNumber, err = intField(node, "fretNumber"); err != nil {
		return ev, err
	}
	if ev.StringNumber, err = intField(node, "stringNumber"); err != nil {
		return ev, err
	}
	if ev.ModulationFrequency, err = floatField(node, "modulationFrequency"); err != nil {
		return ev, err
	}
	if ev.ModulationFrequencyRange, err = floatField(node, "modulationFrequencyRange"); err != nil {
		return ev, err
	}

	if tok := node.value("excitationStyle"); tok != nil {
		style, perr := model.ParseExcitationStyle(*tok)
		if perr != nil {
			return ev, perr
		}
		ev.ExcitationStyle = &style
	}
	if tok := node.value("expressionStyle"); tok != nil {
		style, perr := model.ParseExpressionStyle(*tok)
		if perr != nil {
			return ev, perr
		}
		ev.ExpressionStyle = &style
	}
	if tok := node.value("loudness"); tok != nil {
		loudness, perr := model.ParseLoudness(*tok)
		if perr != nil {
			return ev, perr
		}
		ev.Loudness = &loudness
	}
	return ev, nil
}

func intField(node *xmlNode, name string) (*int, error) {
	tok := node.value(name)
	if tok == nil {
		return nil, nil
	}
	v, err := strconv.Atoi(*tok)
	if err != nil {
		return nil, fmt.Errorf("bad %s value %q", name, *tok)
	}
	return &v, nil
}

func floatField(node *xmlNode, name string) (*float64, error) {
	tok := node.value(name)
	if tok == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*tok, 64)
	if err != nil {
		return nil, fmt.Errorf("bad %s value %q", name, *tok)
	}
	return &v, nil
}
