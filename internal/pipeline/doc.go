// Package pipeline orchestrates a full run: demux, face detection, track
// building, crop extraction, multi-scale scoring, and rendering. Stages run
// strictly sequentially; each consumes the previous stage's full output. Run
// state is persisted in the run store so failures are visible afterwards.
package pipeline
