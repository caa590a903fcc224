// Package facedet wraps an external face detector invoked per still frame.
// The detector prints a JSON array of face boxes on stdout. Low-confidence
// and degenerate boxes are filtered here so later stages never see them;
// per-frame detector failures are surfaced as errors the caller is expected
// to log and treat as "no faces this frame".
package facedet
