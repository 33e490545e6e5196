package pipeline_test

import (
	"context"
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"fancam/internal/config"
	"fancam/internal/facerec"
	"fancam/internal/pipeline"
	"fancam/internal/services"
)

// tableDetector returns one fixed detection per video; the fake frame reader
// encodes the video name into the frame bytes so the table can key on it.
type tableDetector struct {
	table map[string][]float64
}

func (d tableDetector) DetectFaces(_ context.Context, jpeg []byte) ([]facerec.Detection, error) {
	embedding, ok := d.table[string(jpeg)]
	if !ok {
		return nil, nil
	}
	return []facerec.Detection{{Box: image.Rect(0, 0, 10, 10), Embedding: embedding}}, nil
}

func (d tableDetector) Close() error { return nil }

func sourceWithVideos(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testRunner(table map[string][]float64) *pipeline.Runner {
	cfg := config.Default()
	cfg.Organize.Workers = 2
	return &pipeline.Runner{
		Config: &cfg,
		Detector: func() (facerec.Detector, error) {
			return tableDetector{table: table}, nil
		},
		Probe: func(context.Context, string) (int, error) { return 1000, nil },
		ReadFrame: func(_ context.Context, path string, _ int) ([]byte, error) {
			return []byte(filepath.Base(path)), nil
		},
	}
}

func direction(angle float64) []float64 {
	return []float64{math.Cos(angle), math.Sin(angle)}
}

func TestRunGroupsSimilarVideosTogether(t *testing.T) {
	// Three videos whose fingerprints sit within cosine distance 0.1 of each
	// other must share one folder at eps=0.4.
	table := map[string][]float64{
		"a.mp4": direction(0),
		"b.mp4": direction(0.05),
		"c.mp4": direction(0.10),
	}
	dir := sourceWithVideos(t, "a.mp4", "b.mp4", "c.mp4")

	result, err := testRunner(table).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, video := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		if result.Plan[video] != "Dancer_01" {
			t.Fatalf("expected all videos in Dancer_01: %v", result.Plan)
		}
	}
	if result.DancerCount() != 1 {
		t.Fatalf("expected 1 dancer, got %d", result.DancerCount())
	}
	if len(result.Errored) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errored)
	}
}

func TestRunSeparatesDistantVideos(t *testing.T) {
	// cos(a,b) = 0.1, so cosine distance is 0.9: far beyond eps=0.4. With
	// min_samples=1 each becomes its own single-member cluster.
	angle := math.Acos(0.1)
	table := map[string][]float64{
		"a.mp4": direction(0),
		"b.mp4": direction(angle),
	}
	dir := sourceWithVideos(t, "a.mp4", "b.mp4")

	result, err := testRunner(table).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if result.Plan["a.mp4"] != "Dancer_01" || result.Plan["b.mp4"] != "Dancer_02" {
		t.Fatalf("expected two singleton folders: %v", result.Plan)
	}
	if result.UnknownCount() != 0 {
		t.Fatalf("min_samples=1 must not yield noise: %v", result.Assignments)
	}
}

func TestRunRoutesFacelessVideoToErrorBucket(t *testing.T) {
	table := map[string][]float64{
		"good.mp4": direction(0),
		// faceless.mp4 absent from the table: every frame yields no face.
	}
	dir := sourceWithVideos(t, "good.mp4", "faceless.mp4")

	result, err := testRunner(table).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Errored) != 1 || result.Errored[0] != "faceless.mp4" {
		t.Fatalf("expected faceless.mp4 in error bucket: %v", result.Errored)
	}
	if _, ok := result.Assignments["faceless.mp4"]; ok {
		t.Fatalf("errored video must never appear in assignments: %v", result.Assignments)
	}
	if result.Plan["faceless.mp4"] != "Error" {
		t.Fatalf("expected Error folder: %v", result.Plan)
	}
	if result.Plan["good.mp4"] != "Dancer_01" {
		t.Fatalf("expected good.mp4 in Dancer_01: %v", result.Plan)
	}
}

func TestRunEmptyBatchSkipsClustering(t *testing.T) {
	dir := sourceWithVideos(t, "x.mp4", "y.mp4")

	result, err := testRunner(map[string][]float64{}).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if !result.EmptyBatch {
		t.Fatal("expected EmptyBatch")
	}
	if len(result.Assignments) != 0 {
		t.Fatalf("expected no assignments: %v", result.Assignments)
	}
	// Errored videos still get a plan so their files can be quarantined.
	if result.Plan["x.mp4"] != "Error" || result.Plan["y.mp4"] != "Error" {
		t.Fatalf("expected both in Error: %v", result.Plan)
	}
}

func TestRunUnreadableVideoJoinsErrorBucket(t *testing.T) {
	table := map[string][]float64{"good.mp4": direction(0)}
	dir := sourceWithVideos(t, "good.mp4", "broken.mp4")

	runner := testRunner(table)
	innerProbe := runner.Probe
	runner.Probe = func(ctx context.Context, path string) (int, error) {
		if filepath.Base(path) == "broken.mp4" {
			return 0, errors.New("moov atom not found")
		}
		return innerProbe(ctx, path)
	}

	result, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errored) != 1 || result.Errored[0] != "broken.mp4" {
		t.Fatalf("expected broken.mp4 errored: %v", result.Errored)
	}
}

func TestRunMissingSourceDirIsFatal(t *testing.T) {
	runner := testRunner(nil)
	_, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunEmptySourceDirIsFatal(t *testing.T) {
	runner := testRunner(nil)
	_, err := runner.Run(context.Background(), t.TempDir())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunRefusesLockedDirectory(t *testing.T) {
	dir := sourceWithVideos(t, "a.mp4")

	other := flock.New(filepath.Join(dir, ".fancam.lock"))
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("test lock setup failed: %v", err)
	}
	defer other.Unlock()

	_, err = testRunner(map[string][]float64{"a.mp4": direction(0)}).Run(context.Background(), dir)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for busy lock, got %v", err)
	}
}

func TestRunReleasesLock(t *testing.T) {
	table := map[string][]float64{"a.mp4": direction(0)}
	dir := sourceWithVideos(t, "a.mp4")
	runner := testRunner(table)

	if _, err := runner.Run(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	// A second run must be able to take the lock again.
	if _, err := runner.Run(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	dir := sourceWithVideos(t, "a.mp4", "b.mp4")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testRunner(map[string][]float64{"a.mp4": direction(0)}).Run(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunDetectorFailureIsFatal(t *testing.T) {
	dir := sourceWithVideos(t, "a.mp4")
	cfg := config.Default()
	runner := &pipeline.Runner{
		Config: &cfg,
		Detector: func() (facerec.Detector, error) {
			return nil, errors.New("models missing")
		},
		Probe:     func(context.Context, string) (int, error) { return 1000, nil },
		ReadFrame: func(context.Context, string, int) ([]byte, error) { return []byte("f"), nil },
	}
	_, err := runner.Run(context.Background(), dir)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunReportsProgressPerVideo(t *testing.T) {
	table := map[string][]float64{
		"a.mp4": direction(0),
		"b.mp4": direction(0.05),
	}
	dir := sourceWithVideos(t, "a.mp4", "b.mp4", "faceless.mp4")

	runner := testRunner(table)
	seen := map[string]int{}
	runner.Progress = func(video string) { seen[video]++ }

	if _, err := runner.Run(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 {
		t.Fatalf("expected progress for all 3 videos: %v", seen)
	}
	for video, count := range seen {
		if count != 1 {
			t.Fatalf("progress for %s fired %d times", video, count)
		}
	}
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp4", "a.MOV", "notes.txt", "c.webm"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	videos, err := pipeline.Discover(dir, &cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.MOV", "b.mp4", "c.webm"}
	if len(videos) != len(want) {
		t.Fatalf("got %v, want %v", videos, want)
	}
	for i := range want {
		if videos[i] != want[i] {
			t.Fatalf("got %v, want %v", videos, want)
		}
	}
}
