// Package stats flattens nested production statistics into reportable
// metric strings.
package stats

import (
	"fmt"

	"aup/pkg/models"
)

// Flatten produces a flat metric-name → "value unit" mapping from a
// production's statistics. Fields absent from the source are omitted;
// a result with no metrics at all is nil so callers can tell "no
// stats" apart from "stats all zero".
func Flatten(s *models.Statistics) map[string]string {
	if s == nil || s.Levels == nil {
		return nil
	}

	result := make(map[string]string)
	in := s.Levels.Input
	out := s.Levels.Output

	if in.Loudness.Present() {
		result["input_loudness"] = in.Loudness.String()
	}
	if in.SNR.Present() {
		result["input_snr"] = in.SNR.String()
	}
	if out.Loudness.Present() {
		result["output_loudness"] = out.Loudness.String()
	}
	if out.Peak.Present() {
		result["output_peak"] = out.Peak.String()
	}

	for _, c := range s.Cuts {
		result["cuts_"+c.Name] = fmt.Sprintf("%d cuts (%s%%)", c.Count, c.Percent.String())
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
