// Package main is a small benchmarking CLI that exercises the resampler and
// post-processor for perf sanity, adapted from the teacher's ad-hoc
// cmd/test_transcription and cmd/test_wav harnesses into a single
// repeatable tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jeff-barlow-spady/dictated/pkg/audio"
	"github.com/jeff-barlow-spady/dictated/pkg/logger"
	"github.com/jeff-barlow-spady/dictated/pkg/postprocess"
)

func main() {
	iterations := flag.Int("iterations", 100, "number of resample/post-process passes to run")
	wavPath := flag.String("wav", "", "optional WAV file to resample instead of synthetic audio")
	sourceRate := flag.Int("rate", 44100, "source sample rate for synthetic audio, in Hz")
	durationSec := flag.Float64("duration", 5.0, "synthetic audio duration in seconds")
	flag.Parse()

	logger.Initialize()

	samples, rate, err := loadOrSynthesize(*wavPath, *sourceRate, *durationSec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare audio: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("input: %d samples at %d Hz\n", len(samples), rate)

	start := time.Now()
	var resampled []float32
	for i := 0; i < *iterations; i++ {
		resampled = audio.ResampleTo16k(samples, rate)
	}
	resampleElapsed := time.Since(start)
	fmt.Printf("resample: %d iterations, %d samples out, total %s, avg %s\n",
		*iterations, len(resampled), resampleElapsed, resampleElapsed/time.Duration(*iterations))

	processor := postprocess.New()
	phrases := []string{
		"open index dot ts",
		"function get user name",
		"camel case hello world",
		"fix bug in app dot tsx new line scratch that",
	}

	start = time.Now()
	for i := 0; i < *iterations; i++ {
		for _, phrase := range phrases {
			processor.Process(phrase)
		}
	}
	postElapsed := time.Since(start)
	total := *iterations * len(phrases)
	fmt.Printf("post-process: %d calls, total %s, avg %s\n",
		total, postElapsed, postElapsed/time.Duration(total))
}

func loadOrSynthesize(wavPath string, sourceRate int, durationSec float64) ([]float32, int, error) {
	if wavPath != "" {
		samples, err := audio.LoadFromWav(wavPath)
		if err != nil {
			return nil, 0, err
		}
		return samples, 16000, nil
	}

	n := int(float64(sourceRate) * durationSec)
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(0.1)
	}
	return samples, sourceRate, nil
}
