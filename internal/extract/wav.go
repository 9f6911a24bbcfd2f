package extract

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/audiomidi/ingest/internal/util"
)

// WAVFile is a validated raw audio asset. The pipeline never decodes
// samples; it only checks the RIFF header and reads the sample rate
// before handing the bytes to the object sink.
type WAVFile struct {
	Raw        []byte
	SampleRate int
}

// LoadWAV reads a WAV file and validates its header.
func LoadWAV(path string) (*WAVFile, error) {
	if err := validatePath(path, ".wav"); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", util.ErrExtraction, path, err)
	}

	rate, err := wavSampleRate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrExtraction, path, err)
	}

	util.DebugLog("WAV loaded: path=%s bytes=%d rate=%d", path, len(raw), rate)
	return &WAVFile{Raw: raw, SampleRate: rate}, nil
}

// wavSampleRate walks the RIFF chunk list to the fmt chunk.
func wavSampleRate(raw []byte) (int, error) {
	if len(raw) < 12 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	offset := 12
	for offset+8 <= len(raw) {
		chunkID := string(raw[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(raw[offset+4 : offset+8]))
		body := offset + 8
		if chunkID == "fmt " {
			if body+8 > len(raw) {
				return 0, fmt.Errorf("truncated fmt chunk")
			}
			return int(binary.LittleEndian.Uint32(raw[body+4 : body+8])), nil
		}
		// Chunks are word-aligned.
		offset = body + chunkSize + chunkSize%2
	}
	return 0, fmt.Errorf("fmt chunk not found")
}
