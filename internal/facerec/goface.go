package facerec

import (
	"context"
	"fmt"

	goface "github.com/Kagami/go-face"
)

// DlibDetector adapts the dlib-backed go-face recognizer to the Detector
// interface. A DlibDetector is not safe for concurrent use; open one per
// worker.
type DlibDetector struct {
	rec *goface.Recognizer
}

// NewDlibDetector loads the dlib models from modelDir. The directory must
// contain shape_predictor_5_face_landmarks.dat,
// dlib_face_recognition_resnet_model_v1.dat, and mmod_human_face_detector.dat.
func NewDlibDetector(modelDir string) (*DlibDetector, error) {
	rec, err := goface.NewRecognizer(modelDir)
	if err != nil {
		return nil, fmt.Errorf("load face models from %s: %w", modelDir, err)
	}
	return &DlibDetector{rec: rec}, nil
}

// DetectFaces runs dlib face detection plus embedding on one JPEG frame.
func (d *DlibDetector) DetectFaces(ctx context.Context, jpeg []byte) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	faces, err := d.rec.Recognize(jpeg)
	if err != nil {
		return nil, fmt.Errorf("recognize frame: %w", err)
	}
	detections := make([]Detection, 0, len(faces))
	for _, f := range faces {
		embedding := make([]float64, len(f.Descriptor))
		for i, v := range f.Descriptor {
			embedding[i] = float64(v)
		}
		detections = append(detections, Detection{Box: f.Rectangle, Embedding: embedding})
	}
	return detections, nil
}

// Close releases the dlib recognizer.
func (d *DlibDetector) Close() error {
	d.rec.Close()
	return nil
}
