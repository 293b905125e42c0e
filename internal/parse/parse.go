// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/pepdex/pkg/types"
)

// filenameRe matches the conventional source names (pep-0008.txt,
// pep-3107.rst) and captures the number.
var filenameRe = regexp.MustCompile(`^pep-([0-9]{3,4})\.(txt|rst)$`)

// BatchSummary holds counts from a parse pass over a directory.
type BatchSummary struct {
	// Parsed counts files that produced a record.
	Parsed int

	// Skipped counts files rejected with a HeaderError or a duplicate
	// number. These are reported and do not fail the run.
	Skipped int

	// Failed counts files that could not be read.
	Failed int
}

// Total returns the number of files processed.
func (s BatchSummary) Total() int {
	return s.Parsed + s.Skipped + s.Failed
}

// HasFailures reports whether any file was skipped or failed.
func (s BatchSummary) HasFailures() bool {
	return s.Skipped > 0 || s.Failed > 0
}

// ParseDir scans cfg.InputDir for PEP source files and parses each into a
// record. Per-file problems are reported on w and the batch continues; a
// missing or unreadable input directory is fatal. Records are returned in
// ascending number order.
func ParseDir(cfg types.ParseConfig, w io.Writer) ([]*types.PEP, BatchSummary, error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, BatchSummary{}, fmt.Errorf("reading input directory %s: %w", cfg.InputDir, err)
	}

	var (
		summary BatchSummary
		records []*types.PEP
		byNum   = make(map[int]string)
	)

	for _, entry := range entries {
		if entry.IsDir() || !filenameRe.MatchString(entry.Name()) {
			continue
		}

		path := filepath.Join(cfg.InputDir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		rec, err := Parse(path, string(data))
		if err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", entry.Name(), err)
			summary.Skipped++
			continue
		}

		if prev, ok := byNum[rec.Number]; ok {
			fmt.Fprintf(w, "skipped %s: duplicate of PEP %d (%s)\n", entry.Name(), rec.Number, prev)
			summary.Skipped++
			continue
		}
		byNum[rec.Number] = entry.Name()

		records = append(records, rec)
		summary.Parsed++
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Number < records[j].Number })

	fmt.Fprintf(w, "\nparsed: %d, skipped: %d, failed: %d\n",
		summary.Parsed, summary.Skipped, summary.Failed)

	return records, summary, nil
}

// ParseFile reads and parses a single source document.
func ParseFile(path string) (*types.PEP, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, string(data))
}

// Parse builds a record from raw document text. The format is detected
// from the path's extension. The number comes from the filename when the
// name follows convention, otherwise from the PEP header field; a file
// with neither is rejected with a HeaderError.
func Parse(path, content string) (*types.PEP, error) {
	format := formatFor(path)
	fields, body := splitHeader(content, format)

	number, err := resolveNumber(path, fields)
	if err != nil {
		return nil, err
	}

	rec := &types.PEP{
		Number:     number,
		Title:      fields["title"],
		Status:     types.ParseStatus(fields["status"]),
		StatusRaw:  types.Slugify(fields["status"]),
		Type:       types.ParseType(fields["type"]),
		TypeRaw:    types.Slugify(fields["type"]),
		Authors:    splitList(fields["author"]),
		References: ScanReferences(content, number),
		SourcePath: path,
		Format:     format,
		Body:       body,
	}

	if topic, ok := fields["topic"]; ok {
		for _, t := range splitList(topic) {
			rec.Topics = append(rec.Topics, types.Slugify(t))
		}
		sort.Strings(rec.Topics)
	}

	return rec, nil
}

// formatFor maps a file extension to a source format. Anything that is
// not .rst is treated as the plain-text layout.
func formatFor(path string) types.SourceFormat {
	if strings.EqualFold(filepath.Ext(path), ".rst") {
		return types.FormatRST
	}
	return types.FormatText
}

// resolveNumber derives the PEP number. Filename convention wins; a PEP
// header field that disagrees with the filename marks the file malformed
// rather than silently preferring either.
func resolveNumber(path string, fields map[string]string) (int, error) {
	var fromName int
	hasName := false
	if m := filenameRe.FindStringSubmatch(filepath.Base(path)); m != nil {
		fromName, _ = strconv.Atoi(m[1])
		hasName = true
	}

	raw, hasHeader := fields["pep"]
	if hasHeader {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, &HeaderError{Path: path, Field: "PEP", Reason: fmt.Sprintf("non-numeric value %q", raw)}
		}
		if hasName && n != fromName {
			return 0, &HeaderError{
				Path:   path,
				Field:  "PEP",
				Reason: fmt.Sprintf("header says %d, filename says %d", n, fromName),
			}
		}
		return n, nil
	}

	if hasName {
		return fromName, nil
	}

	return 0, &HeaderError{Path: path, Field: "PEP", Reason: "no number in filename or header"}
}
