// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse builds PEP records from source documents. header.go
// handles the leading key-value header block in both legacy layouts.
package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/pepdex/pkg/types"
)

// HeaderError describes a source file whose header could not be parsed
// into a usable record. Files failing with a HeaderError are skipped;
// the batch continues.
type HeaderError struct {
	// Path is the source file.
	Path string

	// Field names the missing or unparseable header field.
	Field string

	// Reason explains the failure.
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%s: header field %s: %s", e.Path, e.Field, e.Reason)
}

// Header line forms. The plain-text layout uses bare "Key: value" lines;
// the RST field list wraps the key in colons (":Key: value"). RST files
// drifted between the two forms over the corpus's history, so RST mode
// accepts both.
var (
	plainFieldRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*):\s?(.*)$`)
	rstFieldRe   = regexp.MustCompile(`^:?([A-Za-z][A-Za-z0-9-]*):\s?(.*)$`)
)

// splitHeader separates the leading header block from the body. The block
// ends at the first blank line. Keys are lowercased; unrecognized keys are
// carried in the map and ignored by the caller. Indented lines continue
// the previous field's value.
func splitHeader(content string, format types.SourceFormat) (map[string]string, string) {
	fieldRe := plainFieldRe
	if format == types.FormatRST {
		fieldRe = rstFieldRe
	}

	lines := strings.Split(content, "\n")
	fields := make(map[string]string)
	lastKey := ""

	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			i++
			break
		}

		// Continuation line: indented text extends the previous value.
		if lastKey != "" && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			fields[lastKey] = fields[lastKey] + " " + strings.TrimSpace(line)
			continue
		}

		m := fieldRe.FindStringSubmatch(line)
		if m == nil {
			// Not a header line. Anything from here on is body.
			break
		}

		key := strings.ToLower(m[1])
		fields[key] = strings.TrimSpace(m[2])
		lastKey = key
	}

	return fields, strings.Join(lines[i:], "\n")
}

// splitList splits a comma-separated header value into trimmed parts,
// dropping empties.
func splitList(value string) []string {
	var parts []string
	for _, p := range strings.Split(value, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
