// Package transcription provides speech-to-text functionality.
package transcription

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// findWhisperExecutable searches for a whisper CLI executable in standard
// locations, for use by the subprocess fallback engine when the cgo
// whisper.cpp Go bindings are not compiled in.
func findWhisperExecutable() (string, error) {
	exeNames := []string{"whisper", "whisper.cpp", "whisper-cpp", "main"}
	if runtime.GOOS == "windows" {
		for i, name := range exeNames {
			exeNames[i] = name + ".exe"
		}
	}

	for _, name := range exeNames {
		path, err := exec.LookPath(name)
		if err == nil {
			logger.Info(logger.CategoryTranscription, "found whisper executable in PATH: %s", path)
			return path, nil
		}
	}

	searchDirs := []string{"."}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		searchDirs = append(searchDirs, filepath.Join(homeDir, "bin"))

		switch runtime.GOOS {
		case "windows":
			searchDirs = append(searchDirs, filepath.Join(homeDir, "AppData", "Local", "Dictated", "bin"))
		case "darwin":
			searchDirs = append(searchDirs, filepath.Join(homeDir, "Library", "Application Support", "Dictated", "bin"))
		default:
			searchDirs = append(searchDirs, filepath.Join(homeDir, ".local", "bin"))
			searchDirs = append(searchDirs, filepath.Join(homeDir, ".config", "dictated", "bin"))
		}
	}

	switch runtime.GOOS {
	case "windows":
		searchDirs = append(searchDirs, filepath.Join("C:", "Program Files", "Dictated", "bin"))
	case "darwin":
		searchDirs = append(searchDirs, "/Applications/Dictated.app/Contents/Resources/bin")
		searchDirs = append(searchDirs, "/usr/local/bin")
	default:
		searchDirs = append(searchDirs, "/usr/local/bin")
		searchDirs = append(searchDirs, "/usr/bin")
		searchDirs = append(searchDirs, "/usr/local/share/dictated/bin")
		searchDirs = append(searchDirs, "/usr/share/dictated/bin")
	}

	for _, dir := range searchDirs {
		for _, name := range exeNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil && isExecutable(path) {
				logger.Info(logger.CategoryTranscription, "found whisper executable: %s", path)
				return path, nil
			}
		}
	}

	logger.Error(logger.CategoryTranscription, "whisper executable not found")
	return "", fmt.Errorf("%w in standard locations", ErrExecutableNotFound)
}

// isExecutable checks if a file has execute permissions.
func isExecutable(path string) bool {
	if runtime.GOOS == "windows" {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return (info.Mode().Perm() & 0111) != 0
}

// ensureExecutablePath returns executablePath if it is a valid executable,
// otherwise falls back to searching standard locations.
func ensureExecutablePath(executablePath string) (string, error) {
	if executablePath != "" {
		if _, err := os.Stat(executablePath); err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidExecutablePath, executablePath)
		}
		if !isExecutable(executablePath) {
			return "", fmt.Errorf("%w: %s is not executable", ErrInvalidExecutablePath, executablePath)
		}
		return executablePath, nil
	}
	return findWhisperExecutable()
}
