package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pepdex/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.IndexConfig{
		IndexDir:   filepath.Join(t.TempDir(), "index"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecords() []*types.PEP {
	return []*types.PEP{
		{
			Number:    1,
			Title:     "PEP Purpose and Guidelines",
			Status:    types.StatusActive,
			StatusRaw: "active",
			Type:      types.TypeProcess,
			Authors:   []string{"Barry Warsaw"},
			// 2 resolves within the set, 9999 does not.
			References: []int{2, 9999},
		},
		{
			Number:    2,
			Title:     "Procedure for Adding New Modules",
			Status:    types.StatusSuperseded,
			StatusRaw: "superseded",
			Type:      types.TypeProcess,
		},
		{
			Number:    8,
			Title:     "Style Guide for Python Code",
			Status:    types.StatusActive,
			StatusRaw: "active",
			Type:      types.TypeProcess,
			Topics:    []string{"style"},
			Authors:   []string{"Guido van Rossum", "Barry Warsaw"},
		},
	}
}

func ingestSample(t *testing.T, store *Store) {
	t.Helper()
	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), sampleRecords(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Indexed != 3 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 3 indexed", summary)
	}
}

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testStore(t)

	tables := []string{"peps", "mentions", "peps_fts"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestIngestAndRetrieveByStatus(t *testing.T) {
	store := testStore(t)
	ingestSample(t, store)

	results, err := store.Retrieve(context.Background(), QueryOptions{Status: types.StatusActive})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Number != 1 || results[1].Number != 8 {
		t.Errorf("results out of order: %v, %v", results[0].Number, results[1].Number)
	}
}

func TestRetrieveFullText(t *testing.T) {
	store := testStore(t)
	ingestSample(t, store)

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "style"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Number != 8 {
		t.Fatalf("full-text query = %+v, want only PEP 8", results)
	}
}

func TestRetrieveByTopicAndMentions(t *testing.T) {
	store := testStore(t)
	ingestSample(t, store)

	byTopic, err := store.Retrieve(context.Background(), QueryOptions{Topic: "style"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byTopic) != 1 || byTopic[0].Number != 8 {
		t.Fatalf("topic filter = %+v, want only PEP 8", byTopic)
	}

	mentioners, err := store.Retrieve(context.Background(), QueryOptions{Mentions: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(mentioners) != 1 || mentioners[0].Number != 1 {
		t.Fatalf("mentions filter = %+v, want only PEP 1", mentioners)
	}
}

func TestEdges(t *testing.T) {
	store := testStore(t)
	ingestSample(t, store)

	out, in, err := store.Edges(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("PEP 2 outgoing = %v, want none", out)
	}
	if len(in) != 1 || in[0] != 1 {
		t.Errorf("PEP 2 incoming = %v, want [1]", in)
	}

	// Dangling edge to 9999 is kept with resolved=0.
	out, _, err = store.Edges(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != 2 || out[1] != 9999 {
		t.Errorf("PEP 1 outgoing = %v, want [2 9999]", out)
	}
}

func TestIngestReplacesPreviousContents(t *testing.T) {
	store := testStore(t)
	ingestSample(t, store)
	ingestSample(t, store)

	var count int
	if err := store.db.QueryRow(`SELECT count(*) FROM peps`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("peps count after re-ingest = %d, want 3", count)
	}
}

func TestExportYAMLHonorsLimit(t *testing.T) {
	store := testStore(t)
	ingestSample(t, store)

	if err := store.ExportYAML(context.Background(), QueryOptions{MaxResults: 1}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(store.indexDir, "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	var entries []ExportEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("export with limit 1 wrote %d entries", len(entries))
	}
}

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	ingestSample(t, store)

	if err := store.ExportYAML(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(store.indexDir, "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	var entries []ExportEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("export has %d entries, want 3", len(entries))
	}

	byNumber := make(map[int]ExportEntry)
	for _, e := range entries {
		byNumber[e.Number] = e
	}
	if got := byNumber[1].Mentions; len(got) != 2 {
		t.Errorf("PEP 1 mentions = %v, want two edges", got)
	}
	if got := byNumber[2].MentionedBy; len(got) != 1 || got[0] != 1 {
		t.Errorf("PEP 2 mentioned_by = %v, want [1]", got)
	}
}
