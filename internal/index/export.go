// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds one PEP with both directions of its mention edges,
// the adjacency form consumed by graph tooling.
type ExportEntry struct {
	Number      int      `json:"number" yaml:"number"`
	Title       string   `json:"title" yaml:"title"`
	Status      string   `json:"status" yaml:"status"`
	Type        string   `json:"type" yaml:"type"`
	Topics      []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Authors     []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Mentions    []int    `json:"mentions,omitempty" yaml:"mentions,omitempty"`
	MentionedBy []int    `json:"mentioned_by,omitempty" yaml:"mentioned_by,omitempty"`
}

// exportLimit caps a full export when the caller sets no limit of its own.
const exportLimit = 100000

// ExportYAML writes the full index (or a filtered subset) to
// indexDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.indexDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the full index (or a filtered subset) to
// indexDir/export.json.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.indexDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		_, in, err := s.Edges(ctx, r.Number)
		if err != nil {
			return nil, err
		}
		entries[i] = ExportEntry{
			Number:      r.Number,
			Title:       r.Title,
			Status:      r.Status,
			Type:        r.Type,
			Topics:      r.Topics,
			Authors:     r.Authors,
			Mentions:    r.Mentions,
			MentionedBy: in,
		}
	}

	return entries, nil
}
