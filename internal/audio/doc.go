// Package audio provides minimal PCM-16 WAV encoding and decoding for the
// mono 16 kHz slices ffmpeg produces per track.
package audio
