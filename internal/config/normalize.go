package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDetector(); err != nil {
		return err
	}
	c.normalizeOrganize()
	return c.normalizeLogging()
}

func (c *Config) normalizeDetector() error {
	var err error
	if c.Detector.ModelDir, err = expandPath(c.Detector.ModelDir); err != nil {
		return fmt.Errorf("detector.model_dir: %w", err)
	}
	c.Detector.FFmpegBinary = strings.TrimSpace(c.Detector.FFmpegBinary)
	c.Detector.FFprobeBinary = strings.TrimSpace(c.Detector.FFprobeBinary)
	return nil
}

func (c *Config) normalizeOrganize() {
	if len(c.Organize.VideoExtensions) == 0 {
		c.Organize.VideoExtensions = defaultVideoExtensions()
	}
	normalized := make([]string, 0, len(c.Organize.VideoExtensions))
	for _, ext := range c.Organize.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Organize.VideoExtensions = normalized

	c.Organize.OutputDirName = strings.TrimSpace(c.Organize.OutputDirName)
	if c.Organize.OutputDirName == "" {
		c.Organize.OutputDirName = defaultOutputDirName
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.LogDir) == "" {
		c.Logging.LogDir = defaultLogDir
	}
	var err error
	if c.Logging.LogDir, err = expandPath(c.Logging.LogDir); err != nil {
		return fmt.Errorf("logging.log_dir: %w", err)
	}
	return nil
}
