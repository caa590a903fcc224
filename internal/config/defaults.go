package config

const (
	defaultCacheDir  = "~/.cache/talktrack"
	defaultOutputDir = "~/talktrack-output"
	defaultLogDir    = "~/.local/share/talktrack/logs"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultFFmpegBinary       = "ffmpeg"
	defaultSceneDetectBinary  = "scenedetect"
	defaultFaceDetectorBinary = "facedet"
	defaultScoreRunnerBinary  = "talknet-runner"
	defaultToolThreads        = 10

	defaultDetectorMinConfidence = 0.5

	defaultIOUThreshold   = 0.5
	defaultMaxGapFrames   = 10
	defaultMinTrackLength = 10
	defaultMinFaceSize    = 1.0

	defaultCropScale    = 0.40
	defaultMedianKernel = 13
)

// Default returns a Config populated with repository defaults. The duration
// weight table reproduces the original ensemble multiset
// {1,1,1,2,2,2,3,3,4,5,6}: shorter windows carry more weight.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir:  defaultCacheDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:       defaultFFmpegBinary,
			SceneDetect:  defaultSceneDetectBinary,
			FaceDetector: defaultFaceDetectorBinary,
			ScoreRunner:  defaultScoreRunnerBinary,
			Threads:      defaultToolThreads,
		},
		Detector: Detector{
			MinConfidence: defaultDetectorMinConfidence,
		},
		Tracker: Tracker{
			IOUThreshold:   defaultIOUThreshold,
			MaxGapFrames:   defaultMaxGapFrames,
			MinTrackLength: defaultMinTrackLength,
			MinFaceSize:    defaultMinFaceSize,
		},
		Crop: Crop{
			Scale:        defaultCropScale,
			MedianKernel: defaultMedianKernel,
		},
		Score: Score{
			DurationWeights: []DurationWeight{
				{Seconds: 1, Weight: 3},
				{Seconds: 2, Weight: 3},
				{Seconds: 3, Weight: 2},
				{Seconds: 4, Weight: 1},
				{Seconds: 5, Weight: 1},
				{Seconds: 6, Weight: 1},
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
