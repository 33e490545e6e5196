package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"fancam/internal/assign"
	"fancam/internal/cluster"
	"fancam/internal/config"
	"fancam/internal/facerec"
	"fancam/internal/fingerprint"
	"fancam/internal/logging"
	"fancam/internal/media/ffprobe"
	"fancam/internal/media/frames"
	"fancam/internal/services"
)

const lockFileName = ".fancam.lock"

// DetectorFactory opens one face detector. The pipeline calls it once per
// worker because the dlib runtime is not safe for concurrent calls on a
// single handle.
type DetectorFactory func() (facerec.Detector, error)

// Runner orchestrates one batch: discovery, parallel fingerprinting, the
// collection barrier, clustering, and folder resolution. It performs no file
// moves; the caller hands the resulting plan to the organizer.
type Runner struct {
	Config   *config.Config
	Logger   *slog.Logger
	Detector DetectorFactory

	// Probe and ReadFrame override the ffprobe/ffmpeg collaborators in tests.
	Probe     fingerprint.ProbeFunc
	ReadFrame fingerprint.ReadFrameFunc

	// Progress, when set, is invoked after each video finishes (success or
	// error). Calls arrive from the collector goroutine, one at a time.
	Progress func(video string)
}

// Result carries everything one run produced.
type Result struct {
	RunID        string
	SourceDir    string
	Videos       []string
	Fingerprints map[string]fingerprint.Vector
	Assignments  map[string]int
	Errored      []string
	Plan         assign.Plan
	EmptyBatch   bool
	Elapsed      time.Duration
}

// DancerCount returns the number of distinct performer groups found.
func (r *Result) DancerCount() int {
	seen := make(map[int]bool)
	for _, label := range r.Assignments {
		if label >= 0 {
			seen[label] = true
		}
	}
	return len(seen)
}

// UnknownCount returns the number of videos labeled noise.
func (r *Result) UnknownCount() int {
	count := 0
	for _, label := range r.Assignments {
		if label == cluster.Noise {
			count++
		}
	}
	return count
}

type videoOutcome struct {
	video       string
	fingerprint fingerprint.Vector
	err         error
}

// Run executes the full pipeline against sourceDir.
//
// Per-video failures land in the error bucket and the run continues; partial
// success is the expected common case. Only a missing directory, an empty
// directory, a busy run lock, a detector that cannot open, or cancellation
// abort the run.
func (r *Runner) Run(ctx context.Context, sourceDir string) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()[:8]
	logger := r.logger().With(
		logging.String(logging.FieldComponent, "pipeline"),
		logging.String(logging.FieldRunID, runID),
	)

	videos, err := Discover(sourceDir, r.Config)
	if err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(sourceDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "acquire run lock", "cannot lock source directory", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "acquire run lock", "another fancam run owns this directory", nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	logger.Info("starting analysis",
		logging.Int("videos", len(videos)),
		logging.Int("workers", r.workerCount()),
	)

	fingerprints, errored, runErr := r.fingerprintAll(ctx, logger, sourceDir, videos)
	if runErr != nil {
		return nil, runErr
	}

	assignments := map[string]int{}
	emptyBatch := len(fingerprints) == 0
	if emptyBatch {
		logger.Warn("no video produced a fingerprint; skipping clustering")
	} else {
		assignments = cluster.DBSCAN(fingerprints, r.Config.Clustering.Eps, r.Config.Clustering.MinSamples)
	}

	plan := assign.Resolve(assignments, errored)

	res := &Result{
		RunID:        runID,
		SourceDir:    sourceDir,
		Videos:       videos,
		Fingerprints: fingerprints,
		Assignments:  assignments,
		Errored:      errored,
		Plan:         plan,
		EmptyBatch:   emptyBatch,
		Elapsed:      time.Since(started),
	}

	logger.Info("analysis complete",
		logging.Int("fingerprinted", len(fingerprints)),
		logging.Int("errored", len(errored)),
		logging.Int("dancers", res.DancerCount()),
		logging.Int("unknown", res.UnknownCount()),
		logging.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// fingerprintAll fans the videos out to the worker pool and blocks until
// every outcome is collected or the context is cancelled. This barrier is
// the only synchronization point: clustering needs the whole batch.
func (r *Runner) fingerprintAll(ctx context.Context, logger *slog.Logger, sourceDir string, videos []string) (map[string]fingerprint.Vector, []string, error) {
	workers := r.workerCount()
	if workers > len(videos) {
		workers = len(videos)
	}

	detectors := make([]facerec.Detector, 0, workers)
	defer func() {
		for _, det := range detectors {
			_ = det.Close()
		}
	}()
	for i := 0; i < workers; i++ {
		det, err := r.Detector()
		if err != nil {
			return nil, nil, services.Wrap(services.ErrConfiguration, "pipeline", "open detector", "face detector could not be initialized", err)
		}
		detectors = append(detectors, det)
	}

	tasks := make(chan string)
	outcomes := make(chan videoOutcome, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(det facerec.Detector) {
			defer wg.Done()
			builder := r.builder(det)
			for video := range tasks {
				vec, err := builder.Build(ctx, filepath.Join(sourceDir, video))
				outcomes <- videoOutcome{video: video, fingerprint: vec, err: err}
			}
		}(detectors[i])
	}

	go func() {
		defer close(tasks)
		for _, video := range videos {
			select {
			case tasks <- video:
			case <-ctx.Done():
				// Cancellation is coarse-grained: in-flight videos finish,
				// queued ones are dropped.
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	fingerprints := make(map[string]fingerprint.Vector, len(videos))
	var errored []string
	for outcome := range outcomes {
		if r.Progress != nil {
			r.Progress(outcome.video)
		}
		switch {
		case outcome.err == nil:
			fingerprints[outcome.video] = outcome.fingerprint
			logger.Debug("fingerprinted video", logging.String(logging.FieldVideo, outcome.video))
		case errors.Is(outcome.err, context.Canceled), errors.Is(outcome.err, context.DeadlineExceeded):
			// Collected below through ctx.Err.
		default:
			errored = append(errored, outcome.video)
			if services.IsFingerprintFailure(outcome.err) {
				logger.Warn("video routed to error bucket",
					logging.String(logging.FieldVideo, outcome.video),
					logging.Error(outcome.err),
				)
			} else {
				logger.Error("unexpected failure, video routed to error bucket",
					logging.String(logging.FieldVideo, outcome.video),
					logging.Error(outcome.err),
				)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	sort.Strings(errored)
	return fingerprints, errored, nil
}

func (r *Runner) builder(det facerec.Detector) *fingerprint.Builder {
	probe := r.Probe
	if probe == nil {
		binary := r.Config.FFprobeBinary()
		probe = func(ctx context.Context, path string) (int, error) {
			result, err := ffprobe.Inspect(ctx, binary, path)
			if err != nil {
				return 0, err
			}
			if result.VideoStreamCount() == 0 {
				return 0, fmt.Errorf("no video streams in %s", path)
			}
			return result.FrameCount(), nil
		}
	}
	readFrame := r.ReadFrame
	if readFrame == nil {
		readFrame = frames.NewExtractor(r.Config.FFmpegBinary()).ReadFrame
	}
	return &fingerprint.Builder{
		Samples:      r.Config.Sampling.FramesToExtract,
		MinFrames:    r.Config.Sampling.MinFrameCount,
		SkipFraction: r.Config.Sampling.SkipFraction,
		Probe:        probe,
		ReadFrame:    readFrame,
		Extract: func(ctx context.Context, jpeg []byte) ([]float64, bool) {
			return facerec.ExtractLargestFace(ctx, det, jpeg)
		},
	}
}

func (r *Runner) workerCount() int {
	if r.Config.Organize.Workers > 0 {
		return r.Config.Organize.Workers
	}
	return runtime.NumCPU()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}
