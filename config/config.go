package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// HotKey configuration. HotKeyChord, when set, is parsed by pkg/hotkey
	// using the full "+"-separated grammar and takes precedence over the
	// legacy Ctrl/Shift/Alt/Key fields below, which are kept for backward
	// compatibility with config.json files written by earlier versions.
	HotKeyChord string
	HotKeyCtrl  bool
	HotKeyShift bool
	HotKeyAlt   bool
	HotKeyKey   string
	// HotKeyToggle selects toggle mode (two presses) over push-to-talk.
	HotKeyToggle bool

	// Audio configuration
	AudioSampleRate int
	AudioBufferSize int
	AudioChannels   int

	// Whisper configuration
	WhisperModelPath string
	WhisperModelType string
	WhisperLanguage  string // ISO code, or "auto"

	// Rate limiting
	RecordingRateLimit     int // max recording starts per window
	RecordingRateWindowSec int
	TranscriptionRateLimit int
	TranscriptionRateWindowSec int
	InjectionRateLimit     int
	InjectionRateWindowSec int

	// Injection behavior
	PreserveClipboard bool // restore clipboard contents after paste

	// Logging
	LogFilePath    string // empty disables the rotating file sink; stderr only
	LogMaxSizeMB   int
	LogMaxBackups  int
	LogMaxAgeDays  int
	LogCompress    bool

	// TestMode configuration
	TestMode               bool
	TestModeVisualFeedback bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	modelDir := "./models/" // fallback when the app dir can't be created
	if dir, err := GetModelDir(); err == nil {
		modelDir = dir
	}

	logPath := ""
	if appDir, err := GetAppDir(); err == nil {
		logPath = filepath.Join(appDir, "logs", "dictated.log")
	}

	return &Config{
		HotKeyChord:  "ctrl+shift+s",
		HotKeyCtrl:   true,
		HotKeyShift:  true,
		HotKeyAlt:    false,
		HotKeyKey:    "s",
		HotKeyToggle: false,

		AudioSampleRate: 16000,
		AudioBufferSize: 1024,
		AudioChannels:   1,

		WhisperModelPath: modelDir,
		WhisperModelType: "tiny",
		WhisperLanguage:  "auto",

		RecordingRateLimit:         100,
		RecordingRateWindowSec:     60,
		TranscriptionRateLimit:     50,
		TranscriptionRateWindowSec: 60,
		InjectionRateLimit:         100,
		InjectionRateWindowSec:     60,

		PreserveClipboard: false,

		LogFilePath:   logPath,
		LogMaxSizeMB:  10,
		LogMaxBackups: 5,
		LogMaxAgeDays: 28,
		LogCompress:   true,

		TestMode:               false,
		TestModeVisualFeedback: true,
	}
}

// Current holds the active configuration.
var Current = DefaultConfig()

// SetTestMode enables test mode with appropriate settings.
// Deprecated: directly set TestMode and related flags instead.
func SetTestMode() {
	Current.TestMode = true
	Current.TestModeVisualFeedback = true
}

// GetAppDir returns the path to the .dictated directory, creating it if
// necessary.
func GetAppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, ".dictated")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create .dictated directory: %w", err)
	}

	return appDir, nil
}

// GetConfigFilePath returns the path to the primary JSON config file.
func GetConfigFilePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, "config.json"), nil
}

// GetTOMLConfigFilePath returns the path to the optional TOML override file.
func GetTOMLConfigFilePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, "config.toml"), nil
}

// GetEnvFilePath returns the path to the optional developer .env override file.
func GetEnvFilePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, ".env"), nil
}

// GetAudioBackupDir returns the path to the audio backup directory.
func GetAudioBackupDir() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}

	backupDir := filepath.Join(appDir, "audio_backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio backup directory: %w", err)
	}

	return backupDir, nil
}

// GetModelDir returns the path to the model directory.
func GetModelDir() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}

	modelDir := filepath.Join(appDir, "models")
	if err := os.MkdirAll(modelDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	return modelDir, nil
}

// LoadConfig loads the configuration, layering in order: JSON file (or
// defaults if absent), an optional config.toml override, then environment
// variables (including a developer .env file loaded via godotenv).
func LoadConfig() error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		Current = DefaultConfig()
		if saveErr := SaveConfig(); saveErr != nil {
			return saveErr
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		cfg := DefaultConfig()
		// A config.json written before HotKeyChord existed leaves it empty,
		// so the legacy Ctrl/Shift/Alt/Key fields it carries take effect.
		cfg.HotKeyChord = ""
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		Current = cfg
	}

	if err := applyTOMLOverride(); err != nil {
		return err
	}
	applyEnvOverride()

	return nil
}

// applyTOMLOverride merges config.toml on top of Current, when present.
func applyTOMLOverride() error {
	tomlPath, err := GetTOMLConfigFilePath()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(tomlPath); os.IsNotExist(statErr) {
		return nil
	}

	if _, err := toml.DecodeFile(tomlPath, Current); err != nil {
		return fmt.Errorf("failed to parse config.toml: %w", err)
	}

	return nil
}

// applyEnvOverride layers environment variables (and an optional .env file)
// on top of Current. Unset variables leave the existing value untouched.
func applyEnvOverride() {
	if envPath, err := GetEnvFilePath(); err == nil {
		_ = godotenv.Load(envPath) // best-effort; absent file is not an error
	}

	if v, ok := os.LookupEnv("DICTATED_HOTKEY"); ok {
		Current.HotKeyChord = v
	}
	if v, ok := os.LookupEnv("DICTATED_MODEL_TYPE"); ok {
		Current.WhisperModelType = v
	}
	if v, ok := os.LookupEnv("DICTATED_MODEL_PATH"); ok {
		Current.WhisperModelPath = v
	}
	if v, ok := os.LookupEnv("DICTATED_LANGUAGE"); ok {
		Current.WhisperLanguage = v
	}
	if v, ok := os.LookupEnv("DICTATED_RECORDING_RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			Current.RecordingRateLimit = n
		}
	}
	if v, ok := os.LookupEnv("DICTATED_TRANSCRIPTION_RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			Current.TranscriptionRateLimit = n
		}
	}
}

// SaveConfig saves the configuration to the primary JSON config file.
func SaveConfig() error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(Current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExportYAML renders Current as a human-editable YAML bundle, used by the
// `export-config --yaml` CLI subcommand.
func ExportYAML() ([]byte, error) {
	data, err := yaml.Marshal(Current)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// ImportYAML replaces Current with the configuration described by data.
func ImportYAML(data []byte) error {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse yaml config: %w", err)
	}
	Current = cfg
	return nil
}
