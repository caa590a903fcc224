package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Layout is the directory structure of one run.
type Layout struct {
	Root   string
	Avi    string
	Frames string
	Work   string
	Crops  string
}

// Stem derives the run's name stem from the source video path.
func Stem(videoPath string) string {
	base := filepath.Base(videoPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// New creates a fresh run directory under cacheDir. The name combines the
// video stem, a timestamp, and a short random suffix so repeated runs of the
// same video never collide.
func New(cacheDir, stem string) (Layout, error) {
	name := fmt.Sprintf("%s-%s-%s", stem, time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
	root := filepath.Join(cacheDir, name)

	layout := Layout{
		Root:   root,
		Avi:    filepath.Join(root, "avi"),
		Frames: filepath.Join(root, "frames"),
		Work:   filepath.Join(root, "work"),
		Crops:  filepath.Join(root, "crops"),
	}
	for _, dir := range []string{layout.Avi, layout.Frames, layout.Work, layout.Crops} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			_ = os.RemoveAll(root)
			return Layout{}, fmt.Errorf("create run directory %s: %w", dir, err)
		}
	}
	return layout, nil
}

// Open rebuilds a Layout for an existing run root.
func Open(root string) Layout {
	return Layout{
		Root:   root,
		Avi:    filepath.Join(root, "avi"),
		Frames: filepath.Join(root, "frames"),
		Work:   filepath.Join(root, "work"),
		Crops:  filepath.Join(root, "crops"),
	}
}

// Destroy removes the whole run directory.
func (l Layout) Destroy() error {
	if l.Root == "" {
		return nil
	}
	return os.RemoveAll(l.Root)
}

// VideoPath is the constant frame rate working copy of the source.
func (l Layout) VideoPath() string {
	return filepath.Join(l.Avi, "video.avi")
}

// AudioPath is the mono 16 kHz audio extracted from the source.
func (l Layout) AudioPath() string {
	return filepath.Join(l.Avi, "audio.wav")
}

// RenderTmpPath is the annotated video before audio is muxed back in.
func (l Layout) RenderTmpPath() string {
	return filepath.Join(l.Avi, "video_only.avi")
}

// OutputPath is the final annotated video inside the run directory.
func (l Layout) OutputPath() string {
	return filepath.Join(l.Avi, "video_out.avi")
}

// FramePattern is the ffmpeg output pattern for frame stills.
func (l Layout) FramePattern() string {
	return filepath.Join(l.Frames, "%06d.jpg")
}

// FrameList returns the extracted frame stills in frame order.
func (l Layout) FrameList() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(l.Frames, "*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("glob frames: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// CropBase is the extension-less base path for track i's crop video.
func (l Layout) CropBase(i int) string {
	return filepath.Join(l.Crops, fmt.Sprintf("%05d", i))
}

// CropVideoPath is track i's finished crop video with audio.
func (l Layout) CropVideoPath(i int) string {
	return l.CropBase(i) + ".avi"
}

// CropAudioPath is track i's trimmed audio slice.
func (l Layout) CropAudioPath(i int) string {
	return l.CropBase(i) + ".wav"
}
