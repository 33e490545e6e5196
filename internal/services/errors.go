package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")

	// ErrUnreadableVideo marks videos whose container could not be opened or
	// probed at all.
	ErrUnreadableVideo = errors.New("unreadable video")
	// ErrInsufficientFrames marks videos too short to sample meaningfully.
	ErrInsufficientFrames = errors.New("insufficient frames")
	// ErrNoEmbeddings marks videos where no sampled frame produced a usable
	// face embedding.
	ErrNoEmbeddings = errors.New("no embeddings collected")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFingerprintFailure reports whether err represents one of the recoverable
// per-video conditions that route a video into the error bucket instead of
// aborting the run.
func IsFingerprintFailure(err error) bool {
	return errors.Is(err, ErrUnreadableVideo) ||
		errors.Is(err, ErrInsufficientFrames) ||
		errors.Is(err, ErrNoEmbeddings)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
