// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emit resolves cross-references over the full record set and
// writes one Markdown document per PEP, with YAML front matter and
// Obsidian wikilinks, into a fully regenerated output directory.
package emit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pepdex/internal/parse"
	"github.com/pdiddy/pepdex/pkg/types"
)

// BatchResult holds the outcome of an emit pass.
type BatchResult struct {
	Emitted int
	Failed  int
}

// Total returns the number of records processed.
func (r BatchResult) Total() int {
	return r.Emitted + r.Failed
}

// HasFailures reports whether any record failed to write.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Resolve builds the number lookup used for cross-link resolution. A
// reference resolves iff its number appears here; there is no fuzzy
// matching.
func Resolve(records []*types.PEP) map[int]*types.PEP {
	set := make(map[int]*types.PEP, len(records))
	for _, rec := range records {
		set[rec.Number] = rec
	}
	return set
}

// FileName returns the output name for a PEP number. Names are
// zero-padded so re-runs are idempotent and diff-friendly.
func FileName(number int) string {
	return fmt.Sprintf("pep-%04d.md", number)
}

// linkTarget is FileName without the extension, the wikilink form.
func linkTarget(number int) string {
	return fmt.Sprintf("pep-%04d", number)
}

// EmitAll writes one Markdown file per record into cfg.OutputDir. The
// directory is removed and recreated first so the output is exactly the
// current record set. A write failure for one record is reported on w and
// the rest of the batch continues; only the directory setup is fatal.
func EmitAll(records []*types.PEP, cfg types.EmitConfig, w io.Writer) (BatchResult, error) {
	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return BatchResult{}, fmt.Errorf("clearing output directory %s: %w", cfg.OutputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	set := Resolve(records)

	var result BatchResult
	for _, rec := range records {
		name := FileName(rec.Number)
		content, err := Render(rec, set)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			result.Failed++
			continue
		}

		path := filepath.Join(cfg.OutputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "emitted %s\n", name)
		result.Emitted++
	}

	fmt.Fprintf(w, "\nemitted: %d, failed: %d\n", result.Emitted, result.Failed)
	return result, nil
}

// frontMatter is the structured block prepended to each output document
// so the consuming tool can group, filter, and graph by these fields.
// No timestamps: output must be byte-identical across re-runs.
type frontMatter struct {
	PEP      int      `yaml:"pep"`
	Title    string   `yaml:"title,omitempty"`
	Status   string   `yaml:"status,omitempty"`
	Type     string   `yaml:"type,omitempty"`
	Topics   []string `yaml:"topics,omitempty"`
	Authors  []string `yaml:"authors,omitempty"`
	Mentions []string `yaml:"mentions,omitempty"`
}

// Render produces the full Markdown document for one record. Resolved
// body references become [[pep-NNNN|original text]] wikilinks; references
// to numbers outside the set stay literal.
func Render(rec *types.PEP, set map[int]*types.PEP) (string, error) {
	fm := frontMatter{
		PEP:     rec.Number,
		Title:   rec.Title,
		Status:  rec.StatusRaw,
		Type:    rec.TypeRaw,
		Topics:  rec.Topics,
		Authors: rec.Authors,
	}
	for _, ref := range rec.References {
		if _, ok := set[ref]; ok {
			fm.Mentions = append(fm.Mentions, linkTarget(ref))
		}
	}

	fmData, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("marshaling front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fmData)
	b.WriteString("---\n\n")

	if rec.StatusRaw != "" {
		fmt.Fprintf(&b, "#status--%s\n", rec.StatusRaw)
	}
	for _, topic := range rec.Topics {
		fmt.Fprintf(&b, "#topic--%s\n", topic)
	}

	if rec.Title != "" {
		fmt.Fprintf(&b, "\n# PEP %d: %s\n", rec.Number, rec.Title)
	} else {
		fmt.Fprintf(&b, "\n# PEP %d\n", rec.Number)
	}

	body := rewriteBody(rec, set)
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}

	if len(rec.References) > 0 {
		b.WriteString("\n## Mentions\n\n")
		for _, ref := range rec.References {
			if _, ok := set[ref]; ok {
				fmt.Fprintf(&b, "- [[%s]]\n", linkTarget(ref))
			} else {
				fmt.Fprintf(&b, "- PEP %d\n", ref)
			}
		}
	}

	return b.String(), nil
}

// rewriteBody swaps resolved textual references for wikilinks that keep
// the original text as the link alias. Self-references and unresolved
// numbers pass through unchanged.
func rewriteBody(rec *types.PEP, set map[int]*types.PEP) string {
	return parse.RewriteReferences(rec.Body, func(num int, match string) string {
		if num == rec.Number {
			return match
		}
		if _, ok := set[num]; !ok {
			return match
		}
		return fmt.Sprintf("[[%s|%s]]", linkTarget(num), match)
	})
}
