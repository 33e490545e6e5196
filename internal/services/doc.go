// Package services defines the shared error taxonomy used across pipeline
// stages.
//
// Sentinel errors classify failures so callers can distinguish the recoverable
// per-video conditions (unreadable container, too few frames, no usable face)
// from operator mistakes (validation, configuration) and external tool
// breakage. Wrap tags an error with one of these markers while recording which
// stage and operation produced it, so a single errors.Is check anywhere in the
// pipeline can decide whether a video belongs in the error bucket or the run
// should stop.
package services
