package ffprobe

import (
	"math"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", NBFrames: "7200", RFrameRate: "30/1"},
			{CodecType: "audio"},
		},
		Format: Format{Duration: "240.0"},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.FrameCount() != 7200 {
		t.Fatalf("unexpected frame count: %d", result.FrameCount())
	}
	if result.FrameRate() != 30 {
		t.Fatalf("unexpected frame rate: %v", result.FrameRate())
	}
	if result.DurationSeconds() != 240 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestFrameCountFallsBackToDurationTimesRate(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", RFrameRate: "30000/1001"},
		},
		Format: Format{Duration: "10.01"},
	}
	// 10.01s at 29.97fps is 300 frames.
	if got := result.FrameCount(); got != 300 {
		t.Fatalf("unexpected fallback frame count: %d", got)
	}
}

func TestFrameCountWithoutVideoStream(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio"}},
		Format:  Format{Duration: "100"},
	}
	if got := result.FrameCount(); got != 0 {
		t.Fatalf("expected 0 frames without video stream, got %d", got)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", NBFrames: "bad", RFrameRate: "30/0"},
		},
		Format: Format{Duration: "nope"},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.FrameRate() != 0 {
		t.Fatalf("expected zero rate, got %v", result.FrameRate())
	}
	if result.FrameCount() != 0 {
		t.Fatalf("expected zero frames, got %d", result.FrameCount())
	}
}

func TestParseRational(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"24", 24},
		{"", 0},
		{"x/y", 0},
	}
	for _, tc := range cases {
		if got := parseRational(tc.in); got != tc.want {
			t.Fatalf("parseRational(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
