// Package pipeline runs one complete organize batch: it discovers videos,
// fingerprints them on a worker pool, clusters the fingerprints, and resolves
// the folder plan.
//
// Fingerprinting is embarrassingly parallel with no shared mutable state;
// each worker owns its own detector handle and results meet at a single
// collection barrier before clustering, which is inherently a whole-batch
// operation. Cancellation is checked between videos, not within them.
//
// The runner holds a lock file inside the source directory for the duration
// of a run so two invocations cannot race over the same files.
package pipeline
