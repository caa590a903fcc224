// Package logging centralizes slog construction and the structured field
// conventions used across the pipeline. Stages never build loggers
// themselves; they receive one from the workflow manager with run and stage
// fields already attached via context.
package logging
