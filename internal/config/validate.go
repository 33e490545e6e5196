package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSampling(); err != nil {
		return err
	}
	if err := c.validateClustering(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSampling() error {
	if c.Sampling.FramesToExtract < 1 {
		return errors.New("sampling.frames_to_extract must be at least 1")
	}
	if c.Sampling.SkipFraction < 0 || c.Sampling.SkipFraction >= 0.5 {
		return errors.New("sampling.skip_fraction must be in [0, 0.5); skipping half the video from each end leaves nothing to sample")
	}
	if c.Sampling.MinFrameCount < 1 {
		return errors.New("sampling.min_frame_count must be at least 1")
	}
	return nil
}

func (c *Config) validateClustering() error {
	if c.Clustering.Eps <= 0 || c.Clustering.Eps > 2 {
		return errors.New("clustering.eps must be in (0, 2]; cosine distance never exceeds 2")
	}
	if c.Clustering.MinSamples < 1 {
		return errors.New("clustering.min_samples must be at least 1")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if len(c.Organize.VideoExtensions) == 0 {
		return errors.New("organize.video_extensions must list at least one extension")
	}
	if c.Organize.Workers < 0 {
		return errors.New("organize.workers must be zero (auto) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
