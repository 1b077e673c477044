// Package transcription provides speech-to-text functionality.
package transcription

import "errors"

// Common error types for the transcription package.
var (
	// ErrExecutableNotFound indicates that no whisper executable could be found.
	ErrExecutableNotFound = errors.New("whisper executable not found")

	// ErrInvalidExecutablePath indicates that the provided executable path does not exist or is not valid.
	ErrInvalidExecutablePath = errors.New("invalid whisper executable path")

	// ErrModelNotFound indicates that the model was not found at the given path.
	ErrModelNotFound = errors.New("whisper model not found")

	// ErrTranscriptionFailed indicates that the transcription process failed.
	ErrTranscriptionFailed = errors.New("transcription process failed")
)
