// Package facerec wraps the face detection and embedding model behind a small
// Detector interface and owns the largest-face selection heuristic.
//
// The pipeline only ever sees "an embedding or absence": detector errors and
// empty results are normalized here in ExtractLargestFace so downstream code
// never branches on model-specific failure modes. The production Detector is
// a dlib recognizer via go-face; tests substitute fakes.
package facerec
