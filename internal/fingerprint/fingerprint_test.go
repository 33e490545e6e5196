package fingerprint_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"fancam/internal/fingerprint"
	"fancam/internal/services"
)

func testBuilder(probe fingerprint.ProbeFunc, read fingerprint.ReadFrameFunc, extract fingerprint.ExtractFunc) *fingerprint.Builder {
	return &fingerprint.Builder{
		Samples:      4,
		MinFrames:    10,
		SkipFraction: 0.10,
		Probe:        probe,
		ReadFrame:    read,
		Extract:      extract,
	}
}

func frameBytes(_ context.Context, _ string, index int) ([]byte, error) {
	return []byte(fmt.Sprintf("frame-%d", index)), nil
}

func TestBuildAveragesAndNormalizes(t *testing.T) {
	embeddings := [][]float64{
		{1, 0},
		{0, 1},
	}
	calls := 0
	builder := testBuilder(
		func(context.Context, string) (int, error) { return 1000, nil },
		frameBytes,
		func(context.Context, []byte) ([]float64, bool) {
			e := embeddings[calls%2]
			calls++
			return e, true
		},
	)

	got, err := builder.Build(context.Background(), "video.mp4")
	if err != nil {
		t.Fatal(err)
	}
	// Mean of alternating (1,0)/(0,1) is (0.5,0.5); normalized to (1/√2, 1/√2).
	want := 1 / math.Sqrt2
	for i, v := range got {
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("component %d: got %v, want %v", i, v, want)
		}
	}
	norm := math.Hypot(got[0], got[1])
	if math.Abs(norm-1) > 1e-12 {
		t.Fatalf("expected unit norm, got %v", norm)
	}
}

func TestBuildAllFramesAbsentIsNoEmbeddings(t *testing.T) {
	builder := testBuilder(
		func(context.Context, string) (int, error) { return 1000, nil },
		frameBytes,
		func(context.Context, []byte) ([]float64, bool) { return nil, false },
	)

	_, err := builder.Build(context.Background(), "video.mp4")
	if !errors.Is(err, services.ErrNoEmbeddings) {
		t.Fatalf("expected ErrNoEmbeddings, got %v", err)
	}
}

func TestBuildUnreadableVideo(t *testing.T) {
	builder := testBuilder(
		func(context.Context, string) (int, error) { return 0, errors.New("moov atom not found") },
		frameBytes,
		func(context.Context, []byte) ([]float64, bool) { return []float64{1}, true },
	)

	_, err := builder.Build(context.Background(), "broken.mp4")
	if !errors.Is(err, services.ErrUnreadableVideo) {
		t.Fatalf("expected ErrUnreadableVideo, got %v", err)
	}
}

func TestBuildShortVideoIsInsufficientFrames(t *testing.T) {
	builder := testBuilder(
		func(context.Context, string) (int, error) { return 5, nil },
		frameBytes,
		func(context.Context, []byte) ([]float64, bool) { return []float64{1}, true },
	)

	_, err := builder.Build(context.Background(), "short.mp4")
	if !errors.Is(err, services.ErrInsufficientFrames) {
		t.Fatalf("expected ErrInsufficientFrames, got %v", err)
	}
}

func TestBuildSurvivesFrameReadErrors(t *testing.T) {
	builder := testBuilder(
		func(context.Context, string) (int, error) { return 1000, nil },
		func(_ context.Context, _ string, index int) ([]byte, error) {
			if index < 500 {
				return nil, errors.New("decode error")
			}
			return []byte("frame"), nil
		},
		func(context.Context, []byte) ([]float64, bool) { return []float64{0, 2}, true },
	)

	got, err := builder.Build(context.Background(), "flaky.mp4")
	if err != nil {
		t.Fatalf("per-frame errors must not fail the video: %v", err)
	}
	if got[0] != 0 || got[1] != 1 {
		t.Fatalf("unexpected fingerprint: %v", got)
	}
}

func TestBuildZeroMeanKeepsZeroVector(t *testing.T) {
	flip := 0
	builder := testBuilder(
		func(context.Context, string) (int, error) { return 1000, nil },
		frameBytes,
		func(context.Context, []byte) ([]float64, bool) {
			flip++
			if flip%2 == 1 {
				return []float64{1, -1}, true
			}
			return []float64{-1, 1}, true
		},
	)

	got, err := builder.Build(context.Background(), "cancel.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 0 || got[1] != 0 {
		t.Fatalf("expected verbatim zero vector, got %v", got)
	}
}

func TestBuildDimensionMismatchFails(t *testing.T) {
	n := 0
	builder := testBuilder(
		func(context.Context, string) (int, error) { return 1000, nil },
		frameBytes,
		func(context.Context, []byte) ([]float64, bool) {
			n++
			if n == 1 {
				return []float64{1, 2}, true
			}
			return []float64{1, 2, 3}, true
		},
	)

	_, err := builder.Build(context.Background(), "video.mp4")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	builder := testBuilder(
		func(context.Context, string) (int, error) { return 1000, nil },
		frameBytes,
		func(context.Context, []byte) ([]float64, bool) { return []float64{1}, true },
	)

	_, err := builder.Build(ctx, "video.mp4")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeIdempotentOnUnitVectors(t *testing.T) {
	v := fingerprint.Normalize([]float64{3, 4})
	again := fingerprint.Normalize(v)
	for i := range v {
		if math.Abs(v[i]-again[i]) > 1e-12 {
			t.Fatalf("component %d drifted: %v vs %v", i, v[i], again[i])
		}
	}
	if math.Abs(math.Hypot(v[0], v[1])-1) > 1e-12 {
		t.Fatalf("expected unit norm, got %v", math.Hypot(v[0], v[1]))
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	got := fingerprint.Normalize([]float64{0, 0, 0})
	for i, v := range got {
		if v != 0 {
			t.Fatalf("component %d: expected 0, got %v", i, v)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := []float64{2, 0}
	_ = fingerprint.Normalize(in)
	if in[0] != 2 {
		t.Fatalf("input mutated: %v", in)
	}
}
