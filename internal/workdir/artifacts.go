package workdir

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Stage artifact filenames under Work.
const (
	ShotsArtifact       = "shots.gob"
	DetectionsArtifact  = "detections.gob"
	TracksArtifact      = "tracks.gob"
	DescriptorsArtifact = "descriptors.gob"
	ScoresArtifact      = "scores.gob"
)

// SaveArtifact serializes one stage output under the run's work directory.
// Artifacts are the handoff between stages and double as checkpoints while
// a run is in flight.
func SaveArtifact[T any](l Layout, name string, value T) error {
	path := filepath.Join(l.Work, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact %s: %w", path, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(value); err != nil {
		return fmt.Errorf("encode artifact %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync artifact %s: %w", path, err)
	}
	return nil
}

// LoadArtifact reads a stage output back.
func LoadArtifact[T any](l Layout, name string) (T, error) {
	var value T
	path := filepath.Join(l.Work, name)
	file, err := os.Open(path)
	if err != nil {
		return value, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&value); err != nil {
		return value, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return value, nil
}
