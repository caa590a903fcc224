// Package scenedetect wraps the scenedetect command line tool to segment a
// video into shots. Shots are ordered, non-overlapping inclusive frame
// ranges; a video with no detected cuts yields a single shot spanning the
// whole video.
package scenedetect
