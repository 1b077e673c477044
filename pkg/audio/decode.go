package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// MaxIngestFileBytes is the largest audio file DecodeFile will accept.
const MaxIngestFileBytes = 500 * 1024 * 1024

// allowedIngestExtensions is the closed set of extensions the file-based
// transcription entry point accepts, regardless of whether this package can
// actually decode the container.
var allowedIngestExtensions = map[string]bool{
	".wav": true, ".mp3": true, ".m4a": true, ".ogg": true,
	".flac": true, ".aac": true, ".webm": true, ".mkv": true,
}

// ErrUnsupportedContainer is returned by DecodeFile for any extension in the
// allowed set that this package cannot actually decode — every container
// except WAV. No pack dependency handles MP3/AAC/OGG/FLAC/WebM/Matroska
// demuxing, so those are rejected explicitly rather than silently mishandled.
var ErrUnsupportedContainer = errors.New("audio: unsupported container (only wav is decodable)")

// DecodeFile validates and decodes an audio file for the file-transcription
// path: the file must exist, be no larger than MaxIngestFileBytes, and have
// an extension in the allowed set. It is decoded to float32, downmixed to
// mono, and resampled to 16kHz using the same algorithm as live capture.
func DecodeFile(path string) ([]float32, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("audio: cannot stat %s: %w", path, err)
	}
	if info.Size() > MaxIngestFileBytes {
		return nil, fmt.Errorf("audio: file %s is %d bytes, exceeds %d byte limit", path, info.Size(), MaxIngestFileBytes)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !allowedIngestExtensions[ext] {
		return nil, fmt.Errorf("audio: unrecognised extension %q", ext)
	}
	if ext != ".wav" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContainer, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: failed to open %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("audio: %s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audio: failed to decode PCM data: %w", err)
	}

	samples := downmixToMono(buf)
	sourceRate := int(decoder.SampleRate)

	logger.Info(logger.CategoryAudio, "decoded %s: %d Hz, %d channels, %d samples",
		path, sourceRate, buf.Format.NumChannels, len(samples))

	return ResampleTo16k(samples, sourceRate), nil
}

// downmixToMono averages all channels of a PCM buffer into a single float32
// slice normalised to [-1.0, 1.0].
func downmixToMono(buf *goaudio.IntBuffer) []float32 {
	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}

	maxVal := float32(int(1) << uint(buf.SourceBitDepth-1))
	if buf.SourceBitDepth == 0 {
		maxVal = 32768.0
	}

	frameCount := len(buf.Data) / channels
	samples := make([]float32, frameCount)

	for i := 0; i < frameCount; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(buf.Data[i*channels+c]) / maxVal
		}
		samples[i] = sum / float32(channels)
	}

	return samples
}

// downmixInterleavedFloat32 averages an interleaved multi-channel float32
// buffer (already normalised to [-1.0, 1.0], as PortAudio delivers it) down
// to mono. Used by the live capture callback, the float32 counterpart to
// downmixToMono's integer-PCM version used by file decoding.
func downmixInterleavedFloat32(input []float32, channels int) []float32 {
	if channels <= 1 {
		mono := make([]float32, len(input))
		copy(mono, input)
		return mono
	}

	frameCount := len(input) / channels
	mono := make([]float32, frameCount)
	for i := 0; i < frameCount; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += input[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
