// Package render draws per-face speaking annotations over the working video
// and muxes the original audio back in. Scores are smoothed with a short
// clamped window before display so single-frame flips do not flicker.
package render
