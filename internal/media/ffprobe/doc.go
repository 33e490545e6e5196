// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no fancam-specific dependencies and could be extracted as
// a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns a parsed Result
//
// Helper methods on Result provide frame counts, frame rates, and duration
// parsing, including the duration-times-rate fallback for containers whose
// headers omit nb_frames.
package ffprobe
