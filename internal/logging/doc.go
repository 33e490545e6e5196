// Package logging assembles structured slog loggers used across fancam.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes Attr aliases plus standardized field keys so every
// component tags log lines the same way (component, video, run_id). A no-op
// logger is provided for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so all components
// emit data with the same shape and routing.
package logging
