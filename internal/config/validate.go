package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetector(); err != nil {
		return err
	}
	if err := c.validateTracker(); err != nil {
		return err
	}
	if err := c.validateCrop(); err != nil {
		return err
	}
	if err := c.validateScore(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetector() error {
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		return errors.New("detector.min_confidence must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateTracker() error {
	if c.Tracker.IOUThreshold <= 0 || c.Tracker.IOUThreshold >= 1 {
		return errors.New("tracker.iou_threshold must be between 0 and 1 exclusive")
	}
	if c.Tracker.MaxGapFrames < 0 {
		return errors.New("tracker.max_gap_frames must not be negative")
	}
	if c.Tracker.MinTrackLength <= 0 {
		return errors.New("tracker.min_track_length must be positive")
	}
	if c.Tracker.MinFaceSize < 0 {
		return errors.New("tracker.min_face_size must not be negative")
	}
	return nil
}

func (c *Config) validateCrop() error {
	if c.Crop.Scale < 0 {
		return errors.New("crop.scale must not be negative")
	}
	if c.Crop.MedianKernel <= 0 || c.Crop.MedianKernel%2 == 0 {
		return fmt.Errorf("crop.median_kernel must be a positive odd number, got %d", c.Crop.MedianKernel)
	}
	return nil
}

func (c *Config) validateScore() error {
	for _, dw := range c.Score.DurationWeights {
		if dw.Seconds <= 0 {
			return fmt.Errorf("score.duration_weights: seconds must be positive, got %d", dw.Seconds)
		}
		if dw.Weight <= 0 {
			return fmt.Errorf("score.duration_weights: weight must be positive for %ds window, got %d", dw.Seconds, dw.Weight)
		}
	}
	return nil
}
