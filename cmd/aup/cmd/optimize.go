package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aup/pkg/download"
	"aup/pkg/index"
	"aup/pkg/poller"
	"aup/pkg/presets"
	"aup/pkg/report"
	"aup/pkg/stats"
)

var (
	// Optimize flags
	optimizeFile string
	projectDir   string
	presetFlag   string
	titleFlag    string
	outputDir    string
	pollInterval time.Duration
	maxWait      time.Duration
)

// audioExtensions are the input formats accepted for upload.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
	".opus": true,
	".wma":  true,
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Upload an audio file, wait for processing and collect the results",
	Long: `Uploads an audio file to Auphonic, starts a production with the given
preset, polls until the production reaches a terminal state, downloads
the audio results into the project directory and merges them into the
project file index. On success a JSON summary is printed on stdout;
all progress and diagnostics go to stderr.

Example:
  aup optimize --file raw/recording.mp3 --project-dir projects/2026-02-28-my-project
  aup optimize --file raw/recording.mp3 --project-dir projects/ep12 --preset ceigtvDv8jH6NaK52Z5eXH`,
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVar(&optimizeFile, "file", "", "audio file path relative to the project dir (e.g. raw/recording.mp3)")
	optimizeCmd.Flags().StringVar(&projectDir, "project-dir", "", "project directory")
	optimizeCmd.Flags().StringVar(&presetFlag, "preset", "", "preset UUID (falls back to the saved default)")
	optimizeCmd.Flags().StringVar(&titleFlag, "title", "", "production title (defaults to the file name)")
	optimizeCmd.Flags().StringVar(&outputDir, "output-dir", "audio/optimized", "subdirectory within the project for results")
	optimizeCmd.Flags().DurationVar(&pollInterval, "poll-interval", poller.DefaultInterval, "status poll interval")
	optimizeCmd.Flags().DurationVar(&maxWait, "max-wait", poller.DefaultMaxWait, "maximum time to wait for processing")
	optimizeCmd.MarkFlagRequired("file")
	optimizeCmd.MarkFlagRequired("project-dir")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	runID := uuid.NewString()
	logger := newLogger().WithField("run_id", runID)

	configPath, err := configStorePath()
	if err != nil {
		return err
	}
	store, err := presets.Load(configPath)
	if err != nil {
		return err
	}
	presetID, err := store.Resolve(presetFlag)
	if errors.Is(err, presets.ErrNoDefault) {
		return fmt.Errorf("no --preset provided and no default preset saved; run \"aup presets save UUID\" first")
	}
	if err != nil {
		return err
	}

	inputPath := filepath.Join(projectDir, optimizeFile)
	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if info.IsDir() {
		return fmt.Errorf("input path is a directory: %s", inputPath)
	}
	ext := strings.ToLower(filepath.Ext(inputPath))
	if !audioExtensions[ext] {
		return fmt.Errorf("not a supported audio file (%s), supported: %s", ext, supportedExtensions())
	}

	title := titleFlag
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Uploading %s to Auphonic", filepath.Base(inputPath)), map[string]interface{}{
		"preset": presetID,
	})
	prod, err := client.UploadAndStart(inputPath, presetID, title)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}
	logger.Info("Production started", map[string]interface{}{"production": prod.UUID})

	p := poller.New(client, logger)
	p.Interval = pollInterval
	p.MaxWait = maxWait
	final, err := p.Wait(cmd.Context(), prod.UUID)
	if err != nil {
		return err
	}

	dl := &download.Downloader{Client: client, Logger: logger}
	downloaded, err := dl.Results(final, projectDir, outputDir)
	if err != nil {
		return err
	}
	if len(downloaded) == 0 {
		logger.Warn("No audio output files were downloaded")
	}

	indexPath := filepath.Join(projectDir, index.FileName)
	ix, err := index.Load(indexPath)
	if err != nil {
		return err
	}
	ix.Reconcile(downloaded, final.UUID, time.Now())
	if err := ix.Save(indexPath); err != nil {
		return err
	}

	summary := &report.Summary{
		Status:         "ok",
		RunID:          runID,
		ProductionUUID: final.UUID,
		Preset:         presetID,
		InputFile:      optimizeFile,
		OutputFiles:    downloaded,
		Duration:       final.LengthTimestring,
		Warnings:       final.WarningMessage,
		AudioStats:     stats.Flatten(final.Statistics),
	}
	return summary.Emit(os.Stdout)
}

func supportedExtensions() string {
	exts := make([]string, 0, len(audioExtensions))
	for ext := range audioExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
