// Package audio provides a simplified audio capture system
package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// Capture handles microphone recording with minimal overhead. It negotiates
// whatever sample rate and channel count the default input device natively
// supports, then resamples and downmixes every callback buffer to mono
// 16kHz before handing it to the caller — the device is never asked to open
// at a forced rate/channel count it may not actually support.
type Capture struct {
	// Configuration
	targetRate      float64 // desired output rate, e.g. 16000
	framesPerBuffer int
	debug           bool

	// Negotiated device format, set once in Start
	nativeRate     float64
	nativeChannels int

	// Runtime state
	stream   *portaudio.Stream
	isActive bool
	onAudio  func([]float32)

	// Thread safety
	mu sync.Mutex
}

// New creates a new audio capture instance targeting outputRate (defaults to
// 16000, the rate the transcription engine expects).
func New(outputRate float64, debug bool) (*Capture, error) {
	if outputRate <= 0 {
		outputRate = 16000
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audio: %w", err)
	}

	capture := &Capture{
		targetRate:      outputRate,
		framesPerBuffer: 1024,
		debug:           debug,
		isActive:        false,
	}

	if debug {
		logger.Info(logger.CategoryAudio, "Audio system initialized: %s", portaudio.VersionText())

		devices, err := portaudio.Devices()
		if err == nil && len(devices) > 0 {
			logger.Info(logger.CategoryAudio, "Available audio devices:")
			for i, dev := range devices {
				logger.Info(logger.CategoryAudio, "[%d] %s (in: %v, out: %v)",
					i, dev.Name, dev.MaxInputChannels > 0, dev.MaxOutputChannels > 0)
			}
		}
	}

	return capture, nil
}

// negotiateInputFormat picks the sample rate and channel count to open the
// default input device with: its own default sample rate (its native rate)
// and its native channel count, deferring any downmix/resample to
// processAudio rather than asking the driver to do it.
func negotiateInputFormat() (rate float64, channels int, err error) {
	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query default input device: %w", err)
	}
	if device.MaxInputChannels < 1 {
		return 0, 0, fmt.Errorf("default input device %s has no input channels", device.Name)
	}

	rate = device.DefaultSampleRate
	if rate <= 0 {
		rate = 16000
	}

	// Open at the device's own native channel count rather than forcing
	// mono: some drivers only expose a stereo (or multichannel) input
	// stream, and processAudio downmixes whatever comes back to mono
	// itself rather than relying on the driver to do it.
	channels = device.MaxInputChannels

	return rate, channels, nil
}

// Start begins audio capture, calling the provided callback with mono
// float32 audio resampled to the target rate.
func (c *Capture) Start(callback func([]float32)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isActive {
		return fmt.Errorf("audio capture already active")
	}

	nativeRate, nativeChannels, err := negotiateInputFormat()
	if err != nil {
		return fmt.Errorf("failed to negotiate input format: %w", err)
	}

	c.onAudio = callback
	c.nativeRate = nativeRate
	c.nativeChannels = nativeChannels

	stream, err := portaudio.OpenDefaultStream(
		nativeChannels,
		0,
		nativeRate,
		c.framesPerBuffer,
		c.processAudio,
	)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	// OpenDefaultStream may adjust the rate it actually negotiated with the
	// driver; prefer what the stream reports it is running at.
	if stream.Info.SampleRate > 0 {
		c.nativeRate = stream.Info.SampleRate
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	c.stream = stream
	c.isActive = true

	if c.debug {
		logger.Info(logger.CategoryAudio, "Audio capture started: %d Hz, %d channel(s), resampling to %d Hz mono",
			int(c.nativeRate), c.nativeChannels, int(c.targetRate))
	}

	return nil
}

// Stop ends audio capture
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isActive || c.stream == nil {
		return nil
	}

	// Stop and close the stream
	err := c.stream.Stop()
	if err != nil {
		return fmt.Errorf("failed to stop audio stream: %w", err)
	}

	err = c.stream.Close()
	if err != nil {
		return fmt.Errorf("failed to close audio stream: %w", err)
	}

	c.stream = nil
	c.isActive = false

	if c.debug {
		logger.Info(logger.CategoryAudio, "Audio capture stopped")
	}

	return nil
}

// Close performs cleanup, releasing PortAudio resources
func (c *Capture) Close() error {
	c.Stop()
	return portaudio.Terminate()
}

// IsActive returns whether audio capture is currently active
func (c *Capture) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isActive
}

// processAudio is the PortAudio callback: it downmixes the negotiated
// channel count to mono, resamples from the negotiated native rate to the
// target rate, and forwards the result to the caller's callback. This runs
// on PortAudio's audio thread, so it must stay allocation-light and never
// block.
func (c *Capture) processAudio(input, _ []float32) {
	if c.onAudio == nil {
		return
	}

	mono := downmixInterleavedFloat32(input, c.nativeChannels)
	c.onAudio(ResampleTo16k(mono, int(c.nativeRate)))
}

// CalculateLevel computes the RMS audio level from a buffer
func CalculateLevel(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}

	var sumSquares float32
	for _, sample := range samples {
		sumSquares += sample * sample
	}

	return float32(math.Sqrt(float64(sumSquares / float32(len(samples)))))
}
