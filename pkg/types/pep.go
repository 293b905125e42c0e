// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared across the pepdex stages.
package types

import "strings"

// SourceFormat identifies the layout of a PEP source document.
type SourceFormat string

const (
	// FormatText is the legacy plain-text layout with an RFC-2822-style
	// header block (pep-NNNN.txt).
	FormatText SourceFormat = "text"

	// FormatRST is the reStructuredText layout with a field-list header
	// (pep-NNNN.rst).
	FormatRST SourceFormat = "rst"
)

// Status is the canonical lifecycle state of a PEP. Values not in the
// known set bucket into StatusOther; the slugged source text is kept on
// the record for display.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusActive      Status = "active"
	StatusAccepted    Status = "accepted"
	StatusProvisional Status = "provisional"
	StatusFinal       Status = "final"
	StatusWithdrawn   Status = "withdrawn"
	StatusRejected    Status = "rejected"
	StatusSuperseded  Status = "superseded"
	StatusDeferred    Status = "deferred"
	StatusAprilFool   Status = "april-fool"
	StatusOther       Status = "other"
)

var knownStatuses = map[Status]bool{
	StatusDraft:       true,
	StatusActive:      true,
	StatusAccepted:    true,
	StatusProvisional: true,
	StatusFinal:       true,
	StatusWithdrawn:   true,
	StatusRejected:    true,
	StatusSuperseded:  true,
	StatusDeferred:    true,
	StatusAprilFool:   true,
}

// ParseStatus canonicalizes a raw header value into a Status.
func ParseStatus(raw string) Status {
	s := Status(Slugify(raw))
	if knownStatuses[s] {
		return s
	}
	return StatusOther
}

// Type is the canonical PEP category. Unknown values bucket into TypeOther.
type Type string

const (
	TypeStandards     Type = "standards-track"
	TypeInformational Type = "informational"
	TypeProcess       Type = "process"
	TypeOther         Type = "other"
)

var knownTypes = map[Type]bool{
	TypeStandards:     true,
	TypeInformational: true,
	TypeProcess:       true,
}

// ParseType canonicalizes a raw header value into a Type.
func ParseType(raw string) Type {
	t := Type(Slugify(raw))
	if knownTypes[t] {
		return t
	}
	return TypeOther
}

// Slugify lowers a header value into a tag-safe form: lowercase, spaces
// become hyphens, exclamation marks are dropped ("April Fool!" becomes
// "april-fool").
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	return strings.ReplaceAll(s, "!", "")
}

// PEP holds the metadata and cross-references extracted from one source
// document. A record is built once in the parse pass, consumed once by
// the emit pass, and not persisted beyond a run.
type PEP struct {
	// Number is the unique PEP identifier, derived from the filename or
	// the PEP header field.
	Number int `json:"number" yaml:"number"`

	// Title is the PEP title. May be empty.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Status is the canonical lifecycle state.
	Status Status `json:"status" yaml:"status"`

	// StatusRaw is the slugged source text of the Status header, kept so
	// unknown statuses still display as written.
	StatusRaw string `json:"status_raw,omitempty" yaml:"status_raw,omitempty"`

	// Type is the canonical PEP category.
	Type Type `json:"type" yaml:"type"`

	// TypeRaw is the slugged source text of the Type header.
	TypeRaw string `json:"type_raw,omitempty" yaml:"type_raw,omitempty"`

	// Topics are the slugged Topic header values, sorted. Most PEPs have none.
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	// Authors lists the PEP authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// References holds the numbers of other PEPs mentioned anywhere in the
	// document, deduplicated and sorted. Never contains Number itself.
	References []int `json:"references,omitempty" yaml:"references,omitempty"`

	// SourcePath is the path of the source document.
	SourcePath string `json:"source_path,omitempty" yaml:"source_path,omitempty"`

	// Format is the detected source layout.
	Format SourceFormat `json:"format" yaml:"format"`

	// Body is the document text after the header block. Retained only
	// until the output file is written.
	Body string `json:"-" yaml:"-"`
}
