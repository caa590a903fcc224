// Package workdir manages the per-run working directory: the fixed layout of
// intermediate media (working video, audio, frame stills, crop videos) and
// the serialized stage artifacts handed from one stage to the next.
package workdir
