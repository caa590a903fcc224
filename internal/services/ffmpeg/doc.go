// Package ffmpeg wraps the ffmpeg command line tool for the media
// operations the pipeline needs: fixed-framerate video extraction, mono
// audio extraction, still frame dumps, timecode-based audio trims, and
// stream-copy remuxing. Every invocation checks the exit status; a failing
// ffmpeg is always a hard error for the calling stage.
package ffmpeg
