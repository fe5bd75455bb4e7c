// Package index maintains the per-project file_index.json: a mapping
// from artifact path to metadata, merged idempotently across runs.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"aup/pkg/models"
)

// FileName is the index file inside a project directory.
const FileName = "file_index.json"

// SkillName identifies this tool as the origin of an entry.
const SkillName = "auphonic-optimize"

// Origin records where an entry came from.
type Origin struct {
	Skill      string `json:"skill"`
	Production string `json:"auphonic_production"`
	Format     string `json:"format"`
}

// Entry is the metadata of one indexed file. Description and Notes are
// human-authored and survive re-processing; the rest is overwritten on
// every reconcile.
type Entry struct {
	Added       string `json:"added"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	Origin      Origin `json:"origin"`
}

// Index maps artifact-relative paths to entries.
type Index map[string]Entry

// Load reads the index at path. A missing file yields an empty index.
func Load(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Index{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", path, err)
	}

	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("failed to parse index %s: %w", path, err)
	}
	return ix, nil
}

// Reconcile merges the downloaded artifacts of one production into the
// index. The added date is only ever set, never overwritten, so a
// re-run produces an identical index.
func (ix Index) Reconcile(downloads []models.DownloadedFile, productionUUID string, now time.Time) {
	for _, dl := range downloads {
		entry := ix[dl.Path]
		if entry.Added == "" {
			entry.Added = now.Format("2006-01-02")
		}
		entry.Type = "audio"
		entry.Origin = Origin{
			Skill:      SkillName,
			Production: productionUUID,
			Format:     dl.Format,
		}
		ix[dl.Path] = entry
	}
}

// Save writes the index back to path atomically. Map keys marshal in
// sorted order, so equal content is byte-for-byte equal on disk.
func (ix Index) Save(path string) error {
	data, err := json.MarshalIndent(ix, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}
