// Package organizer finalizes a run by moving videos into their performer
// folders.
//
// It consumes the pure folder plan produced by internal/assign and owns all
// filesystem side effects: directory creation and collision-free moves with
// a cross-device fallback. Moves are idempotent at the file level but not
// transactional across the batch; callers surface partial completion to the
// operator instead of rolling back.
package organizer
