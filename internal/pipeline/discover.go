package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"sort"

	"fancam/internal/config"
	"fancam/internal/services"
)

// Discover lists the video files directly inside dir, sorted by name.
//
// A missing source directory and an empty result are the two genuinely fatal
// conditions of a run; both are reported as validation errors for the
// operator rather than routed into the error bucket.
func Discover(dir string, cfg *config.Config) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrValidation, "discovery", "read source dir", "source directory does not exist: "+dir, nil)
		}
		return nil, services.Wrap(services.ErrValidation, "discovery", "read source dir", dir, err)
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if cfg.IsVideoFile(entry.Name()) {
			videos = append(videos, entry.Name())
		}
	}
	if len(videos) == 0 {
		return nil, services.Wrap(services.ErrValidation, "discovery", "list videos", "no video files found in "+dir, nil)
	}
	sort.Strings(videos)
	return videos, nil
}
