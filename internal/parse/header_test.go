// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pepdex/pkg/types"
)

func TestSplitHeader(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		format     types.SourceFormat
		wantFields map[string]string
		wantBody   string
	}{
		{
			name: "plain text header",
			content: "PEP: 8\n" +
				"Title: Style Guide for Python Code\n" +
				"Status: Active\n" +
				"Type: Process\n" +
				"\n" +
				"Body starts here.",
			format: types.FormatText,
			wantFields: map[string]string{
				"pep":    "8",
				"title":  "Style Guide for Python Code",
				"status": "Active",
				"type":   "Process",
			},
			wantBody: "Body starts here.",
		},
		{
			name: "rst field list",
			content: ":PEP: 287\n" +
				":Title: reStructuredText Docstring Format\n" +
				":Status: Active\n" +
				"\n" +
				"Abstract\n========",
			format: types.FormatRST,
			wantFields: map[string]string{
				"pep":    "287",
				"title":  "reStructuredText Docstring Format",
				"status": "Active",
			},
			wantBody: "Abstract\n========",
		},
		{
			name: "rst accepts bare key lines",
			content: "PEP: 12\n" +
				"Title: Sample Plaintext PEP Template\n" +
				"\n" +
				"body",
			format: types.FormatRST,
			wantFields: map[string]string{
				"pep":   "12",
				"title": "Sample Plaintext PEP Template",
			},
			wantBody: "body",
		},
		{
			name: "continuation lines extend the previous value",
			content: "PEP: 1\n" +
				"Author: Barry Warsaw <barry@python.org>,\n" +
				"        Jeremy Hylton <jeremy@alum.mit.edu>\n" +
				"\n" +
				"body",
			format: types.FormatText,
			wantFields: map[string]string{
				"pep":    "1",
				"author": "Barry Warsaw <barry@python.org>, Jeremy Hylton <jeremy@alum.mit.edu>",
			},
			wantBody: "body",
		},
		{
			name: "unrecognized keys are carried through",
			content: "PEP: 20\n" +
				"Content-Type: text/x-rst\n" +
				"Post-History: 22-Aug-2004\n" +
				"\n" +
				"body",
			format: types.FormatText,
			wantFields: map[string]string{
				"pep":          "20",
				"content-type": "text/x-rst",
				"post-history": "22-Aug-2004",
			},
			wantBody: "body",
		},
		{
			name:       "no header block",
			content:    "Just prose with no header.\n\nMore prose.",
			format:     types.FormatText,
			wantFields: map[string]string{},
			wantBody:   "Just prose with no header.\n\nMore prose.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, body := splitHeader(tt.content, tt.format)
			assert.Equal(t, tt.wantFields, fields)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestParseNumberResolution(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		content    string
		wantNumber int
		wantField  string // non-empty means a HeaderError is expected
	}{
		{
			name:       "number from conventional filename",
			path:       "pep-0008.txt",
			content:    "Title: Style Guide\n\nbody",
			wantNumber: 8,
		},
		{
			name:       "filename and header agree",
			path:       "pep-0020.txt",
			content:    "PEP: 20\nTitle: The Zen of Python\n\nbody",
			wantNumber: 20,
		},
		{
			name:       "header number for unconventional name",
			path:       "zen.txt",
			content:    "PEP: 20\nTitle: The Zen of Python\n\nbody",
			wantNumber: 20,
		},
		{
			name:      "filename and header disagree",
			path:      "pep-0020.txt",
			content:   "PEP: 21\nTitle: Mismatch\n\nbody",
			wantField: "PEP",
		},
		{
			name:      "non-numeric header number",
			path:      "notes.txt",
			content:   "PEP: twenty\n\nbody",
			wantField: "PEP",
		},
		{
			name:      "no discoverable number",
			path:      "notes.txt",
			content:   "Title: Anonymous\n\nbody",
			wantField: "PEP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.path, tt.content)
			if tt.wantField != "" {
				require.Error(t, err)
				var herr *HeaderError
				require.True(t, errors.As(err, &herr))
				assert.Equal(t, tt.wantField, herr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, rec.Number)
		})
	}
}

func TestParseFields(t *testing.T) {
	content := "PEP: 594\n" +
		"Title: Removing dead batteries from the standard library\n" +
		"Author: Christian Heimes <christian@python.org>, Brett Cannon <brett@python.org>\n" +
		"Status: Final\n" +
		"Type: Standards Track\n" +
		"Topic: Release, Packaging\n" +
		"\n" +
		"This PEP proposes removing modules deprecated long ago.\n"

	rec, err := Parse("pep-0594.txt", content)
	require.NoError(t, err)

	assert.Equal(t, 594, rec.Number)
	assert.Equal(t, "Removing dead batteries from the standard library", rec.Title)
	assert.Equal(t, types.StatusFinal, rec.Status)
	assert.Equal(t, "final", rec.StatusRaw)
	assert.Equal(t, types.TypeStandards, rec.Type)
	assert.Equal(t, []string{"packaging", "release"}, rec.Topics, "topics are slugged and sorted")
	assert.Equal(t, []string{
		"Christian Heimes <christian@python.org>",
		"Brett Cannon <brett@python.org>",
	}, rec.Authors, "authors keep source order")
	assert.Equal(t, types.FormatText, rec.Format)
}

func TestParseUnknownStatusPassesThrough(t *testing.T) {
	content := "PEP: 9999\nStatus: April Fool!\nType: Joke\n\nbody"

	rec, err := Parse("pep-9999.txt", content)
	require.NoError(t, err)

	assert.Equal(t, types.StatusAprilFool, rec.Status)
	assert.Equal(t, "april-fool", rec.StatusRaw)
	assert.Equal(t, types.TypeOther, rec.Type)
	assert.Equal(t, "joke", rec.TypeRaw, "unknown type keeps its slug for display")
}
