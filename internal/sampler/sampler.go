package sampler

import (
	"fmt"
	"math"

	"fancam/internal/services"
)

// Plan computes the frame indices to examine for one video.
//
// The first and last skipFraction of the video are discarded so intros and
// outros do not pollute the fingerprint. Within the remaining interior span,
// sampleCount indices are spread evenly; when the span is shorter than
// sampleCount every interior index is returned instead. The result is fully
// deterministic for a given input.
//
// Videos with fewer than minFrames total frames are rejected with
// services.ErrInsufficientFrames: the caller routes those to the error
// bucket, not to a crash.
func Plan(totalFrames, sampleCount, minFrames int, skipFraction float64) ([]int, error) {
	if totalFrames < minFrames {
		return nil, services.Wrap(
			services.ErrInsufficientFrames,
			"sampling",
			"plan frames",
			fmt.Sprintf("video has %d frames, need at least %d", totalFrames, minFrames),
			nil,
		)
	}
	if sampleCount < 1 {
		return nil, services.Wrap(services.ErrValidation, "sampling", "plan frames", "sample count must be positive", nil)
	}

	start := int(math.Floor(float64(totalFrames) * skipFraction))
	end := int(math.Floor(float64(totalFrames) * (1 - skipFraction)))
	span := end - start

	if span < sampleCount {
		indices := make([]int, 0, span)
		for i := start; i < end; i++ {
			indices = append(indices, i)
		}
		return indices, nil
	}

	step := float64(span) / float64(sampleCount)
	indices := make([]int, sampleCount)
	for i := 0; i < sampleCount; i++ {
		indices[i] = start + int(math.Floor(float64(i)*step))
	}
	return indices, nil
}
