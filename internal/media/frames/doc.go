// Package frames reads individual video frames as JPEG bytes via ffmpeg.
//
// It is the decode collaborator of the fingerprinting pipeline: given a path
// and a frame index it returns the frame's pixels or reports absence. The
// package deliberately knows nothing about sampling policy or faces.
package frames
