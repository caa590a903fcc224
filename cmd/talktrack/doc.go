// Command talktrack scores who is speaking in a video. It demuxes the
// source, tracks faces across shots, runs a multi-scale audio-visual scoring
// ensemble per track, and writes an annotated copy of the video.
package main
