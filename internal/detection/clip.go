package detection

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/marvin-go/internal/conf"
	"github.com/tphakala/marvin-go/internal/errors"
)

// SaveClipWAV writes the given samples as a WAV file under dir and returns
// the file path. The file name carries the detection timestamp and event ID
// so clips sort chronologically.
func SaveClipWAV(dir, eventID string, samples []int32, sampleRate int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.New(err).
			Component("detection").
			Category(errors.CategoryFileIO).
			Context("operation", "create_clip_dir").
			Build()
	}

	shortID := eventID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	name := fmt.Sprintf("wake_%s_%s.wav", time.Now().Format("20060102_150405"), shortID)
	path := filepath.Join(dir, name)

	outFile, err := os.Create(path)
	if err != nil {
		return "", errors.New(err).
			Component("detection").
			Category(errors.CategoryFileIO).
			Context("operation", "create_clip_file").
			Build()
	}
	defer func() { _ = outFile.Close() }()

	enc := wav.NewEncoder(outFile, sampleRate, conf.BitDepth, conf.NumChannels, 1)

	intSamples := make([]int, len(samples))
	for i, s := range samples {
		intSamples[i] = int(s)
	}

	buf := &audio.IntBuffer{
		Data:   intSamples,
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: conf.NumChannels},
	}
	if err := enc.Write(buf); err != nil {
		return "", errors.New(err).
			Component("detection").
			Category(errors.CategoryFileIO).
			Context("operation", "wav_encode").
			Build()
	}
	if err := enc.Close(); err != nil {
		return "", errors.New(err).
			Component("detection").
			Category(errors.CategoryFileIO).
			Context("operation", "wav_finalize").
			Build()
	}

	return path, nil
}
