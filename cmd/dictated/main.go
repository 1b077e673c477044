// Package main is the entry point for the dictated dictation engine.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jeff-barlow-spady/dictated/config"
	"github.com/jeff-barlow-spady/dictated/pkg/audio"
	"github.com/jeff-barlow-spady/dictated/pkg/dictation"
	"github.com/jeff-barlow-spady/dictated/pkg/errreport"
	"github.com/jeff-barlow-spady/dictated/pkg/history"
	"github.com/jeff-barlow-spady/dictated/pkg/hotkey"
	"github.com/jeff-barlow-spady/dictated/pkg/inject"
	"github.com/jeff-barlow-spady/dictated/pkg/logger"
	"github.com/jeff-barlow-spady/dictated/pkg/postprocess"
	"github.com/jeff-barlow-spady/dictated/pkg/ratelimit"
	"github.com/jeff-barlow-spady/dictated/pkg/transcription"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "transcribe-file":
			os.Exit(runTranscribeFile(os.Args[2:]))
		case "export-config":
			os.Exit(runExportConfig(os.Args[2:]))
		}
	}

	runDaemon()
}

func runDaemon() {
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	if *debug {
		logger.SetLevel(logger.LevelDebug)
	}
	logger.Info(logger.CategoryApp, "starting dictated")

	if err := config.LoadConfig(); err != nil {
		logger.Error(logger.CategoryApp, "failed to load config: %v", err)
		os.Exit(1)
	}
	cfg := config.Current

	if cfg.LogFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0755); err != nil {
			logger.Warning(logger.CategoryApp, "failed to create log directory, falling back to stderr: %v", err)
		} else {
			logger.EnableRotatingFile(logger.RotatingFileOptions{
				Path:       cfg.LogFilePath,
				MaxSizeMB:  cfg.LogMaxSizeMB,
				MaxBackups: cfg.LogMaxBackups,
				MaxAgeDays: cfg.LogMaxAgeDays,
				Compress:   cfg.LogCompress,
			})
			logger.Info(logger.CategoryApp, "logging to %s (rotating)", cfg.LogFilePath)
		}
	}

	appDir, err := config.GetAppDir()
	if err != nil {
		appDir = os.TempDir()
	}
	if _, err := errreport.Init(appDir, "dev"); err != nil {
		logger.Error(logger.CategoryApp, "failed to initialize error reporter: %v", err)
		os.Exit(1)
	}
	reporter := errreport.Get()
	defer reporter.InstallPanicHook()

	chord, err := resolveChord(cfg)
	if err != nil {
		logger.Error(logger.CategoryApp, "invalid hotkey chord: %v", err)
		os.Exit(1)
	}

	capture, err := audio.New(float64(cfg.AudioSampleRate), *debug)
	if err != nil {
		logger.Error(logger.CategoryApp, "failed to initialize audio capture: %v", err)
		os.Exit(1)
	}
	defer capture.Close()

	injector := inject.New(cfg.PreserveClipboard)
	limiters := ratelimit.NewSet(
		cfg.RecordingRateLimit, cfg.RecordingRateWindowSec,
		cfg.TranscriptionRateLimit, cfg.TranscriptionRateWindowSec,
		cfg.InjectionRateLimit, cfg.InjectionRateWindowSec,
	)
	historyStore := history.NewMemoryStore(500)

	orch := dictation.New(dictation.Config{
		Toggle:            cfg.HotKeyToggle,
		PreserveClipboard: cfg.PreserveClipboard,
	}, capture, injector, limiters, historyStore, reporter)

	modelPath := cfg.WhisperModelPath
	if modelPath != "" {
		handle, err := transcription.LoadModel(modelPath, cfg.WhisperLanguage)
		if err != nil {
			logger.Warning(logger.CategoryApp, "failed to load model at startup: %v", err)
		} else {
			orch.SetModel(handle)
			defer handle.Unload()
		}
	} else {
		logger.Warning(logger.CategoryApp, "no WhisperModelPath configured; recording will be refused until a model is loaded")
	}

	if err := orch.Listen(chord); err != nil {
		logger.Error(logger.CategoryApp, "failed to start hotkey listener: %v", err)
		os.Exit(1)
	}
	defer orch.StopListening()

	logger.Info(logger.CategoryApp, "listening for %s (toggle=%v)", chord.String(), cfg.HotKeyToggle)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info(logger.CategoryApp, "shutting down")
}

// resolveChord prefers the full-grammar HotKeyChord field, falling back to
// the legacy Ctrl/Shift/Alt/Key fields for config.json files written by
// earlier versions.
func resolveChord(cfg *config.Config) (hotkey.Chord, error) {
	if cfg.HotKeyChord != "" {
		return hotkey.ParseChord(cfg.HotKeyChord)
	}
	return hotkey.Chord{
		Ctrl: cfg.HotKeyCtrl, Shift: cfg.HotKeyShift, Alt: cfg.HotKeyAlt, Key: cfg.HotKeyKey,
	}, nil
}

// runTranscribeFile implements `dictated transcribe-file <path>`: decode an
// audio file, transcribe it, post-process it, and print the result — the
// file-based ingestion path described in the external interfaces, exercised
// end to end rather than left as an unwired contract.
func runTranscribeFile(args []string) int {
	fs := flag.NewFlagSet("transcribe-file", flag.ExitOnError)
	modelPath := fs.String("model", "", "path to the whisper model")
	language := fs.String("language", "auto", "language code, or auto")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dictated transcribe-file [-model path] [-language code] <audio-file>")
		return 2
	}
	audioPath := fs.Arg(0)

	samples, err := audio.DecodeFile(audioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode %s: %v\n", audioPath, err)
		return 1
	}

	if *modelPath == "" {
		if err := config.LoadConfig(); err == nil && config.Current.WhisperModelPath != "" {
			*modelPath = config.Current.WhisperModelPath
		}
	}
	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "no model path given and none configured; pass -model")
		return 1
	}

	handle, err := transcription.LoadModel(*modelPath, *language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load model: %v\n", err)
		return 1
	}
	defer handle.Unload()

	text, err := handle.Transcribe(samples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "transcription failed: %v\n", err)
		return 1
	}

	processor := postprocess.New()
	fmt.Println(processor.Process(text))
	return 0
}

// runExportConfig implements `dictated export-config --yaml`.
func runExportConfig(args []string) int {
	fs := flag.NewFlagSet("export-config", flag.ExitOnError)
	yamlOut := fs.Bool("yaml", false, "export as YAML instead of JSON")
	fs.Parse(args)

	if err := config.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	if *yamlOut {
		data, err := config.ExportYAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to export config: %v\n", err)
			return 1
		}
		os.Stdout.Write(data)
		return 0
	}

	fmt.Fprintln(os.Stderr, "only -yaml export is currently supported")
	return 2
}
