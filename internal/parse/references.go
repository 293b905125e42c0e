// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Reference patterns. PEPs mention each other as casual text ("PEP 457",
// "PEP-457"), as the RST role (:pep:`457`), as the bare role form
// (pep:457), and through metadata headers (Requires: 965, 966).
var (
	// inlineRefRe matches the textual forms that appear in running prose.
	// Exactly one capture group is non-empty per match.
	inlineRefRe = regexp.MustCompile(
		"\\bPEP[ -]([0-9]{1,4})\\b" +
			"|:pep:`([0-9]{1,4})`" +
			"|\\bpep:([0-9]{1,4})\\b")

	// metaRefRe matches reference-carrying header lines, whose values may
	// be comma-separated number lists.
	metaRefRe = regexp.MustCompile(
		`(?mi)^:?(?:Requires|Replaces|Replaced-By|Superseded-By|Supersedes):\s*([0-9, ]+)$`)
)

// ScanReferences collects the numbers of every other PEP mentioned in the
// document (header block included), deduplicated and sorted. self is
// excluded so a PEP never references itself.
func ScanReferences(content string, self int) []int {
	seen := make(map[int]bool)

	for _, m := range inlineRefRe.FindAllStringSubmatch(content, -1) {
		for _, group := range m[1:] {
			if group == "" {
				continue
			}
			if n, err := strconv.Atoi(group); err == nil {
				seen[n] = true
			}
		}
	}

	for _, m := range metaRefRe.FindAllStringSubmatch(content, -1) {
		for _, part := range strings.Split(m[1], ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if n, err := strconv.Atoi(part); err == nil {
				seen[n] = true
			}
		}
	}

	delete(seen, self)

	refs := make([]int, 0, len(seen))
	for n := range seen {
		refs = append(refs, n)
	}
	sort.Ints(refs)
	if len(refs) == 0 {
		return nil
	}
	return refs
}

// RewriteReferences replaces every inline textual reference in text with
// repl(number, matched text). Metadata header forms are left untouched;
// they never appear in body prose. The emit pass uses this to swap
// resolved mentions for cross-links.
func RewriteReferences(text string, repl func(num int, match string) string) string {
	var b strings.Builder
	last := 0

	for _, idx := range inlineRefRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := idx[0], idx[1]

		num := -1
		for g := 1; g <= 3; g++ {
			if idx[2*g] >= 0 {
				n, err := strconv.Atoi(text[idx[2*g]:idx[2*g+1]])
				if err == nil {
					num = n
				}
				break
			}
		}
		if num < 0 {
			continue
		}

		b.WriteString(text[last:start])
		b.WriteString(repl(num, text[start:end]))
		last = end
	}

	b.WriteString(text[last:])
	return b.String()
}
