// Package assign maps cluster labels to the human-readable folder layout:
// Dancer_NN per performer group, Unknown for noise, Error for videos that
// produced no fingerprint. Resolution is a pure mapping with no side
// effects; moving files belongs to the organizer.
package assign
