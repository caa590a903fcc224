// Package score turns a track's crop video and audio slice into one speaking
// score per video frame. Audio features are MFCCs at 100 frames per second,
// video features are grayscale center crops at 25 frames per second. The two
// streams are aligned, partitioned into fixed-duration windows, and pushed
// through the external model's four-stage forward path. A weighted set of
// window durations is averaged into the final series.
package score
