package download

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"aup/pkg/logging"
	"aup/pkg/models"
)

// FileFetcher streams one artifact URL into w.
type FileFetcher interface {
	DownloadFile(url string, w io.Writer) error
}

// Auxiliary formats that are never written to disk: transcripts,
// statistics dumps, chapter markers, cut lists, waveform images.
var skipFormats = map[string]bool{
	"descr":    true,
	"stats":    true,
	"chaps":    true,
	"psc":      true,
	"cut-list": true,
	"waveform": true,
	"image":    true,
}

// Downloader fetches the audio artifacts of a succeeded production.
type Downloader struct {
	Client FileFetcher
	Logger *logging.Logger
}

// Results writes each relevant output file of prod into
// projectDir/outputDir. A failed artifact download is logged and
// skipped; the run still counts as a success. The returned entries
// carry paths relative to the project directory.
func (d *Downloader) Results(prod *models.Production, projectDir, outputDir string) ([]models.DownloadedFile, error) {
	destDir := filepath.Join(projectDir, outputDir)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", destDir, err)
	}

	var downloaded []models.DownloadedFile
	for _, of := range prod.OutputFiles {
		if of.DownloadURL == "" || of.Filename == "" {
			continue
		}
		if skipFormats[of.Format] {
			d.Logger.Debug("Skipping auxiliary output", map[string]interface{}{
				"filename": of.Filename,
				"format":   of.Format,
			})
			continue
		}

		d.Logger.Info(fmt.Sprintf("Downloading %s", of.Filename))
		dest := filepath.Join(destDir, of.Filename)
		if err := d.fetchTo(of.DownloadURL, dest); err != nil {
			d.Logger.Warn(fmt.Sprintf("Failed to download %s", of.Filename), map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		downloaded = append(downloaded, models.DownloadedFile{
			Filename: of.Filename,
			Format:   of.Format,
			Size:     of.SizeString,
			Path:     path.Join(outputDir, of.Filename),
		})
	}

	return downloaded, nil
}

// fetchTo streams one URL into dest, removing the partial file if the
// transfer fails midway.
func (d *Downloader) fetchTo(url, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if err := d.Client.DownloadFile(url, f); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}
