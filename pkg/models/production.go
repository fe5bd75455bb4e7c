package models

import (
	"encoding/json"
	"fmt"
)

// Auphonic production status codes, as returned in the "status" field
// of a production body. Anything not listed here is still in flight.
const (
	StatusDone       = 3
	StatusError      = 9
	StatusIncomplete = 13
)

// State is the local classification of a production's lifecycle.
type State string

const (
	StateRunning    State = "running"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
	StateIncomplete State = "incomplete"
	StateTimedOut   State = "timed_out"
)

// ClassifyStatus maps a remote status code to a local State. Unmapped
// codes are treated as still running; the poll deadline bounds them.
func ClassifyStatus(code int) State {
	switch code {
	case StatusDone:
		return StateSucceeded
	case StatusError:
		return StateFailed
	case StatusIncomplete:
		return StateIncomplete
	default:
		return StateRunning
	}
}

// IsTerminal returns true if the state ends polling.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateIncomplete || s == StateTimedOut
}

// IsError returns true for terminal states other than success.
func (s State) IsError() bool {
	return s.IsTerminal() && s != StateSucceeded
}

// Production is one remote processing task. Once the status code is
// terminal the body is authoritative and no longer changes.
type Production struct {
	UUID             string       `json:"uuid"`
	Status           int          `json:"status"`
	StatusString     string       `json:"status_string"`
	OutputFiles      []OutputFile `json:"output_files,omitempty"`
	Statistics       *Statistics  `json:"statistics,omitempty"`
	ErrorMessage     string       `json:"error_message,omitempty"`
	WarningMessage   string       `json:"warning_message,omitempty"`
	LengthTimestring string       `json:"length_timestring,omitempty"`
}

// State classifies the production's current status code.
func (p *Production) State() State {
	return ClassifyStatus(p.Status)
}

// OutputFile describes one result file of a finished production. The
// download URL is only valid once the production has succeeded.
type OutputFile struct {
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
	Format      string `json:"format"`
	SizeString  string `json:"size_string"`
}

// DownloadedFile is an output file that was actually written to disk,
// annotated with its path relative to the project directory.
type DownloadedFile struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Size     string `json:"size"`
	Path     string `json:"path"`
}

// Preset is a named remote processing profile.
type Preset struct {
	UUID         string `json:"uuid" yaml:"uuid"`
	Name         string `json:"name" yaml:"name"`
	Created      string `json:"created,omitempty" yaml:"created,omitempty"`
	IsMultitrack bool   `json:"is_multitrack" yaml:"is_multitrack"`
}

// Statistics holds the nested before/after level measurements of a
// production. Absent fields mean "not applicable", not an error.
type Statistics struct {
	Levels *Levels `json:"levels,omitempty"`
	Cuts   []Cut   `json:"cuts,omitempty"`
}

// Levels groups input and output level measurements.
type Levels struct {
	Input  LevelSet `json:"input"`
	Output LevelSet `json:"output"`
}

// LevelSet is one side's measurements. Zero-value pairs are absent.
type LevelSet struct {
	Loudness Pair `json:"loudness"`
	Peak     Pair `json:"peak"`
	SNR      Pair `json:"snr"`
}

// Cut counts one category of automatic cuts.
type Cut struct {
	Name    string      `json:"name"`
	Count   int         `json:"count"`
	Percent json.Number `json:"percent"`
}

// Pair is a (value, unit) measurement encoded on the wire as a
// two-element array, e.g. [-23.1, "LUFS"]. The value keeps its exact
// textual form so reports match what the service sent.
type Pair struct {
	Value string
	Unit  string
}

// Present returns true if the pair carries a measurement.
func (p Pair) Present() bool {
	return p.Value != ""
}

func (p Pair) String() string {
	return fmt.Sprintf("%s %s", p.Value, p.Unit)
}

// UnmarshalJSON accepts [value, unit] where value is a number or a
// string, and tolerates null or an empty array as "absent".
func (p *Pair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("level pair is not an array: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(raw[0], &num); err == nil {
		p.Value = num.String()
	} else {
		var s string
		if err := json.Unmarshal(raw[0], &s); err != nil {
			return fmt.Errorf("level pair value: %w", err)
		}
		p.Value = s
	}
	if len(raw) > 1 {
		if err := json.Unmarshal(raw[1], &p.Unit); err != nil {
			return fmt.Errorf("level pair unit: %w", err)
		}
	}
	return nil
}

// MarshalJSON restores the wire form.
func (p Pair) MarshalJSON() ([]byte, error) {
	if !p.Present() {
		return []byte("null"), nil
	}
	val := json.RawMessage(p.Value)
	if !json.Valid(val) {
		val = mustQuote(p.Value)
	}
	return json.Marshal([]json.RawMessage{val, mustQuote(p.Unit)})
}

func mustQuote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
