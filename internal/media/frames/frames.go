package frames

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Extractor decodes single frames out of a video container by shelling out to
// ffmpeg. It holds no per-video state, so one Extractor may serve many videos.
type Extractor struct {
	binary string
}

// NewExtractor returns an Extractor bound to the given ffmpeg binary. An empty
// binary falls back to "ffmpeg" on PATH.
func NewExtractor(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Extractor{binary: binary}
}

// ReadFrame decodes the frame at the given zero-based index to JPEG bytes.
//
// A frame that cannot be produced (index past the end, decoder hiccup on one
// frame) yields (nil, nil): absence is an expected outcome, not an error.
// Only a failure to run ffmpeg at all is reported as an error.
func (e *Extractor) ReadFrame(ctx context.Context, path string, index int) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("read frame: empty path")
	}
	if index < 0 {
		return nil, fmt.Errorf("read frame: negative index %d", index)
	}

	// select picks the single frame by decode order; vsync 0 stops ffmpeg
	// from duplicating it to satisfy an output rate.
	args := []string{
		"-v", "error",
		"-hide_banner",
		"-i", path,
		"-vf", fmt.Sprintf("select=eq(n\\,%d)", index),
		"-vsync", "0",
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg frame %d: %w: %s", index, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, nil
	}
	return stdout.Bytes(), nil
}
