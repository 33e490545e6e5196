package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Sampling controls how frames are selected from each video.
type Sampling struct {
	// FramesToExtract is the number of frames examined per video.
	FramesToExtract int `toml:"frames_to_extract"`
	// SkipFraction is the share of the video trimmed from each end before
	// sampling, discarding intros and outros.
	SkipFraction float64 `toml:"skip_fraction"`
	// MinFrameCount is the minimum total frame count below which a video is
	// judged too short to fingerprint.
	MinFrameCount int `toml:"min_frame_count"`
}

// Detector configures the face embedding model and the media tooling that
// feeds it.
type Detector struct {
	// ModelDir holds the dlib model files for the face recognizer.
	ModelDir string `toml:"model_dir"`
	// FFmpegBinary and FFprobeBinary override the executables found on PATH.
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Clustering carries the density-clustering parameters.
type Clustering struct {
	// Eps is the maximum cosine distance for two fingerprints to be neighbors.
	Eps float64 `toml:"eps"`
	// MinSamples is the minimum neighborhood size for a point to seed a
	// cluster. The default of 1 means a lone video becomes its own group.
	MinSamples int `toml:"min_samples"`
}

// Organize controls discovery and the move step.
type Organize struct {
	// VideoExtensions lists the file suffixes treated as videos.
	VideoExtensions []string `toml:"video_extensions"`
	// OutputDirName is the subfolder created under the source directory when
	// no explicit destination is given.
	OutputDirName string `toml:"output_dir_name"`
	// Workers bounds concurrent fingerprinting; 0 means one per CPU.
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	LogDir string `toml:"log_dir"`
}

// Config encapsulates all configuration values for fancam.
type Config struct {
	Sampling   Sampling   `toml:"sampling"`
	Detector   Detector   `toml:"detector"`
	Clustering Clustering `toml:"clustering"`
	Organize   Organize   `toml:"organize"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/fancam/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The second and third return
// values report which path was resolved and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("fancam.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// FFmpegBinary returns the ffmpeg executable to invoke for frame decoding.
func (c *Config) FFmpegBinary() string {
	if v := strings.TrimSpace(c.Detector.FFmpegBinary); v != "" {
		return v
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if v := strings.TrimSpace(c.Detector.FFprobeBinary); v != "" {
		return v
	}
	return "ffprobe"
}

// IsVideoFile reports whether path carries one of the configured video
// extensions. Matching is case-insensitive.
func (c *Config) IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range c.Organize.VideoExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
