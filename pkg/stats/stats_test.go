package stats

import (
	"encoding/json"
	"reflect"
	"testing"

	"aup/pkg/models"
)

func pair(value, unit string) models.Pair {
	return models.Pair{Value: value, Unit: unit}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name     string
		stats    *models.Statistics
		expected map[string]string
	}{
		{
			name:     "nil statistics",
			stats:    nil,
			expected: nil,
		},
		{
			name:     "no levels",
			stats:    &models.Statistics{},
			expected: nil,
		},
		{
			name: "levels present but empty",
			stats: &models.Statistics{
				Levels: &models.Levels{},
			},
			expected: nil,
		},
		{
			name: "full levels",
			stats: &models.Statistics{
				Levels: &models.Levels{
					Input: models.LevelSet{
						Loudness: pair("-19.5", "LUFS"),
						SNR:      pair("44.2", "dB"),
					},
					Output: models.LevelSet{
						Loudness: pair("-16", "LUFS"),
						Peak:     pair("-1.0", "dBTP"),
					},
				},
			},
			expected: map[string]string{
				"input_loudness":  "-19.5 LUFS",
				"input_snr":       "44.2 dB",
				"output_loudness": "-16 LUFS",
				"output_peak":     "-1.0 dBTP",
			},
		},
		{
			name: "partial levels",
			stats: &models.Statistics{
				Levels: &models.Levels{
					Input: models.LevelSet{Loudness: pair("-21", "LUFS")},
				},
			},
			expected: map[string]string{
				"input_loudness": "-21 LUFS",
			},
		},
		{
			name: "cuts appended",
			stats: &models.Statistics{
				Levels: &models.Levels{
					Output: models.LevelSet{Loudness: pair("-16", "LUFS")},
				},
				Cuts: []models.Cut{
					{Name: "silence", Count: 4, Percent: json.Number("2.5")},
					{Name: "filler", Count: 12, Percent: json.Number("7")},
				},
			},
			expected: map[string]string{
				"output_loudness": "-16 LUFS",
				"cuts_silence":    "4 cuts (2.5%)",
				"cuts_filler":     "12 cuts (7%)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(tt.stats)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Flatten() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// Input peak is measured by the service but not reported; it must not
// leak into the flattened output.
func TestFlatten_IgnoresInputPeak(t *testing.T) {
	s := &models.Statistics{
		Levels: &models.Levels{
			Input: models.LevelSet{Peak: pair("-3.2", "dBTP")},
		},
	}
	if got := Flatten(s); got != nil {
		t.Errorf("Flatten() = %v, want nil", got)
	}
}
