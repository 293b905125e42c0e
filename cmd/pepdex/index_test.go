package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/pepdex/internal/index"
)

func TestFormatQueryOutputTruncatesByRune(t *testing.T) {
	long := strings.Repeat("é", 60)
	results := []index.QueryResult{
		{Number: 1, Title: long, Status: "draft", Type: "process"},
	}

	var buf strings.Builder
	if err := formatQueryOutput(&buf, results, false); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !utf8.ValidString(out) {
		t.Fatal("output contains an invalid UTF-8 sequence")
	}
	if !strings.Contains(out, strings.Repeat("é", 41)+"...") {
		t.Errorf("title not truncated at a rune boundary:\n%s", out)
	}
	if strings.Contains(out, long) {
		t.Errorf("long title was not truncated:\n%s", out)
	}
}

func TestFormatQueryOutputShortTitleUnchanged(t *testing.T) {
	results := []index.QueryResult{
		{Number: 8, Title: "Style Guide", Status: "active", Type: "process"},
	}

	var buf strings.Builder
	if err := formatQueryOutput(&buf, results, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Style Guide") {
		t.Errorf("short title altered:\n%s", buf.String())
	}
}
