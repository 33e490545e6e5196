package fingerprint

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"fancam/internal/sampler"
	"fancam/internal/services"
)

// Vector is one video's appearance fingerprint: the L2-normalized centroid of
// its detected-face embeddings. The zero-norm degenerate case keeps the raw
// zero vector verbatim.
type Vector = []float64

// ProbeFunc reports the total frame count of a video, or an error when the
// container cannot be opened.
type ProbeFunc func(ctx context.Context, path string) (int, error)

// ReadFrameFunc returns the JPEG bytes of one frame, or nil when the frame is
// absent.
type ReadFrameFunc func(ctx context.Context, path string, index int) ([]byte, error)

// ExtractFunc reduces one frame to a face embedding, or reports absence.
type ExtractFunc func(ctx context.Context, jpeg []byte) ([]float64, bool)

// Builder turns a single video into a fingerprint by sampling frames,
// extracting a face embedding per frame, and averaging the results.
type Builder struct {
	Samples      int
	MinFrames    int
	SkipFraction float64

	Probe     ProbeFunc
	ReadFrame ReadFrameFunc
	Extract   ExtractFunc
}

// Build computes the fingerprint for the video at path.
//
// Per-frame problems are absorbed: a frame that cannot be read or yields no
// face simply contributes nothing. Per-video problems surface as the
// services sentinels ErrUnreadableVideo, ErrInsufficientFrames, or
// ErrNoEmbeddings, all of which the caller routes to the error bucket.
func (b *Builder) Build(ctx context.Context, path string) (Vector, error) {
	totalFrames, err := b.Probe(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrUnreadableVideo, "fingerprinting", "probe video", "container could not be inspected", err)
	}

	indices, err := sampler.Plan(totalFrames, b.Samples, b.MinFrames, b.SkipFraction)
	if err != nil {
		return nil, err
	}

	var (
		sum   []float64
		count int
	)
	for _, index := range indices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		jpeg, err := b.ReadFrame(ctx, path, index)
		if err != nil || len(jpeg) == 0 {
			// One bad frame never fails the video.
			continue
		}
		embedding, ok := b.Extract(ctx, jpeg)
		if !ok {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(embedding))
		}
		if len(embedding) != len(sum) {
			return nil, services.Wrap(
				services.ErrValidation,
				"fingerprinting",
				"collect embeddings",
				fmt.Sprintf("embedding dimension changed from %d to %d mid-video", len(sum), len(embedding)),
				nil,
			)
		}
		floats.Add(sum, embedding)
		count++
	}

	if count == 0 {
		return nil, services.Wrap(services.ErrNoEmbeddings, "fingerprinting", "collect embeddings", "no sampled frame produced a usable face", nil)
	}

	floats.Scale(1/float64(count), sum)
	return Normalize(sum), nil
}

// Normalize returns v scaled to unit L2 norm. A zero vector is returned
// unchanged; dividing by its norm is undefined and the degenerate value must
// survive verbatim for determinism. The input is not modified.
func Normalize(v Vector) Vector {
	out := append(Vector(nil), v...)
	norm := floats.Norm(out, 2)
	if norm == 0 {
		return out
	}
	floats.Scale(1/norm, out)
	return out
}
