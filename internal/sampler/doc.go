// Package sampler decides which frames of a video are worth examining.
//
// Sampling is deterministic: a fixed (totalFrames, sampleCount, skipFraction)
// always yields the same indices, which keeps fingerprints reproducible
// across runs.
package sampler
