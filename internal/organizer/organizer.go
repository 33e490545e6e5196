package organizer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"fancam/internal/assign"
	"fancam/internal/fileutil"
	"fancam/internal/logging"
	"fancam/internal/services"
)

// Move records one executed relocation.
type Move struct {
	Video  string
	Folder string
	Target string
}

// Organizer physically relocates videos according to a folder plan.
type Organizer struct {
	logger *slog.Logger
}

// New constructs an Organizer. A nil logger is replaced with a no-op logger.
func New(logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{logger: logger.With(logging.String(logging.FieldComponent, "organizer"))}
}

// Apply creates the target folder tree under outputDir and moves every
// planned video out of sourceDir.
//
// Moves are applied file by file and are not transactional: a failed or
// cancelled run leaves earlier moves in place. A source file that no longer
// exists is skipped with a warning so re-running a partially completed plan
// converges instead of failing.
func (o *Organizer) Apply(ctx context.Context, sourceDir, outputDir string, plan assign.Plan) ([]Move, error) {
	if len(plan) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "organizing", "ensure output dir", "failed to create output directory", err)
	}
	for _, folder := range plan.Folders() {
		if err := os.MkdirAll(filepath.Join(outputDir, folder), 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "organizing", "ensure folder", "failed to create "+folder, err)
		}
	}

	moves := make([]Move, 0, len(plan))
	for _, video := range plan.Videos() {
		if err := ctx.Err(); err != nil {
			return moves, err
		}
		folder := plan[video]
		source := filepath.Join(sourceDir, video)
		target := filepath.Join(outputDir, folder, video)

		if _, err := os.Stat(source); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				o.logger.Warn("source file missing, skipping",
					logging.String(logging.FieldVideo, video),
					logging.String("folder", folder),
				)
				continue
			}
			return moves, services.Wrap(services.ErrExternalTool, "organizing", "stat source", video, err)
		}

		if err := fileutil.MoveFile(source, target); err != nil {
			return moves, services.Wrap(services.ErrExternalTool, "organizing", "move file", video, err)
		}
		o.logger.Debug("moved video",
			logging.String(logging.FieldVideo, video),
			logging.String("target", target),
		)
		moves = append(moves, Move{Video: video, Folder: folder, Target: target})
	}
	return moves, nil
}
