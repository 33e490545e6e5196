package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"fancam/internal/config"
	"fancam/internal/facerec"
	"fancam/internal/organizer"
	"fancam/internal/pipeline"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var epsFlag float64
	var minSamplesFlag int
	var workersFlag int
	var modelDirFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize <source-dir>",
		Short: "Fingerprint, cluster, and sort the videos in a directory",
		Long: `Organize samples frames from every video in the source directory, builds a
face fingerprint per video, clusters the fingerprints, and moves each video
into a per-performer folder. Videos without a usable face land in Error,
videos the clustering judged as outliers land in Unknown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyOrganizeFlags(cmd, cfg, epsFlag, minSamplesFlag, workersFlag, modelDirFlag)
			if err := cfg.Validate(); err != nil {
				return err
			}

			sourceDir, err := resolveDir(args[0])
			if err != nil {
				return err
			}
			outputDir := outputFlag
			if outputDir == "" {
				outputDir = filepath.Join(sourceDir, cfg.Organize.OutputDirName)
			} else if outputDir, err = resolveDir(outputDir); err != nil {
				return err
			}

			logger, err := ctx.buildLogger()
			if err != nil {
				return err
			}

			modelDir, err := config.ExpandPath(cfg.Detector.ModelDir)
			if err != nil {
				return err
			}
			runner := &pipeline.Runner{
				Config: cfg,
				Logger: logger,
				Detector: func() (facerec.Detector, error) {
					return facerec.NewDlibDetector(modelDir)
				},
			}

			// Count up front so the progress bar has a total; the runner
			// repeats discovery under its own lock.
			videos, err := pipeline.Discover(sourceDir, cfg)
			if err != nil {
				return err
			}
			if bar := newAnalysisBar(len(videos)); bar != nil {
				runner.Progress = func(string) { _ = bar.Add(1) }
				defer func() { _ = bar.Finish() }()
			}

			result, err := runner.Run(cmd.Context(), sourceDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPlanTable(result.Plan))
			if result.EmptyBatch {
				fmt.Fprintln(out, "No video produced a usable face; everything goes to Error.")
			}

			if dryRun {
				fmt.Fprintf(out, "Dry run: %d videos would be moved into %s\n", len(result.Plan), outputDir)
				return nil
			}

			moves, err := organizer.New(logger).Apply(cmd.Context(), sourceDir, outputDir, result.Plan)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Moved %d videos into %d folders under %s\n",
				len(moves), len(result.Plan.Folders()), outputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination directory (default <source>/organized)")
	cmd.Flags().Float64Var(&epsFlag, "eps", 0, "Maximum cosine distance between grouped fingerprints")
	cmd.Flags().IntVar(&minSamplesFlag, "min-samples", 0, "Minimum neighborhood size to seed a group")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent fingerprinting workers (0 = one per CPU)")
	cmd.Flags().StringVar(&modelDirFlag, "model-dir", "", "Directory holding the face recognition models")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the folder plan without moving anything")
	return cmd
}

func applyOrganizeFlags(cmd *cobra.Command, cfg *config.Config, eps float64, minSamples, workers int, modelDir string) {
	if cmd.Flags().Changed("eps") {
		cfg.Clustering.Eps = eps
	}
	if cmd.Flags().Changed("min-samples") {
		cfg.Clustering.MinSamples = minSamples
	}
	if cmd.Flags().Changed("workers") {
		cfg.Organize.Workers = workers
	}
	if cmd.Flags().Changed("model-dir") {
		cfg.Detector.ModelDir = modelDir
	}
}

func resolveDir(path string) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}

// newAnalysisBar returns a progress bar when stderr is a terminal, nil
// otherwise so batch logs stay clean.
func newAnalysisBar(total int) *progressbar.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Analyzing "+strconv.Itoa(total)+" videos"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
}
