// Package fingerprint reduces a video to a single appearance vector.
//
// The mean-then-normalize design intentionally compresses pose and lighting
// variation across a video's sampled frames into one representative direction
// in embedding space, trading per-frame precision for robustness. Videos that
// yield no usable embedding at all are reported through the services error
// sentinels rather than silently skipped.
package fingerprint
