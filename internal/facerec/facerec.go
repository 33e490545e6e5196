package facerec

import (
	"context"
	"image"
)

// Detection is one face found in a frame: where it sits and the embedding
// vector describing its appearance.
type Detection struct {
	Box       image.Rectangle
	Embedding []float64
}

// Area returns the bounding-box area in pixels.
func (d Detection) Area() int {
	return d.Box.Dx() * d.Box.Dy()
}

// Detector finds faces in an encoded JPEG frame. Implementations may detect
// zero, one, or many faces; they signal hard failures through the error.
type Detector interface {
	DetectFaces(ctx context.Context, jpeg []byte) ([]Detection, error)
	Close() error
}

// LargestFace selects the detection with the greatest bounding-box area.
// The largest face is presumed to be the main subject of a fancam frame.
// Ties go to the detection that appears first in the slice, which preserves
// the detector's own ordering within a run.
func LargestFace(detections []Detection) (Detection, bool) {
	if len(detections) == 0 {
		return Detection{}, false
	}
	best := detections[0]
	for _, det := range detections[1:] {
		if det.Area() > best.Area() {
			best = det
		}
	}
	return best, true
}

// ExtractLargestFace runs the detector on one frame and reduces the result to
// a single embedding or absence.
//
// This is the one place where the detector's two failure modes, an error and
// an empty result, are folded into the same "absent" signal. Nothing past
// this boundary ever branches on detector-specific failures, and a single
// frame's failure never aborts a video's fingerprinting.
func ExtractLargestFace(ctx context.Context, det Detector, jpeg []byte) ([]float64, bool) {
	detections, err := det.DetectFaces(ctx, jpeg)
	if err != nil {
		return nil, false
	}
	face, ok := LargestFace(detections)
	if !ok || len(face.Embedding) == 0 {
		return nil, false
	}
	return face.Embedding, true
}
