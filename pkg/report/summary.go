// Package report emits the machine-parseable run summary.
package report

import (
	"encoding/json"
	"io"

	"aup/pkg/models"
)

// Summary is the one structured result of a successful run, written to
// stdout. Diagnostics never go here.
type Summary struct {
	Status         string                  `json:"status"`
	RunID          string                  `json:"run_id"`
	ProductionUUID string                  `json:"production_uuid"`
	Preset         string                  `json:"preset"`
	InputFile      string                  `json:"input_file"`
	OutputFiles    []models.DownloadedFile `json:"output_files"`
	Duration       string                  `json:"duration,omitempty"`
	Warnings       string                  `json:"warnings,omitempty"`
	AudioStats     map[string]string       `json:"audio_stats,omitempty"`
}

// Emit writes the summary as indented JSON. An empty artifact list
// stays an empty array, not null, for downstream parsers.
func (s *Summary) Emit(w io.Writer) error {
	if s.OutputFiles == nil {
		s.OutputFiles = []models.DownloadedFile{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
