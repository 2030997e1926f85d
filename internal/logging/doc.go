// Package logging configures slog for the pipeline: a human-oriented
// console handler for interactive use, a JSON handler for machine
// consumption, and helpers that pull job, stage, and request identifiers
// out of a context so every provider call logs with consistent fields.
package logging
