// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pepdex/internal/index"
	"github.com/pdiddy/pepdex/internal/parse"
	"github.com/pdiddy/pepdex/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the SQLite cross-reference index (build, query, export)",
	Long: `Index maintains a local SQLite database over the parsed PEP set:
metadata per PEP plus the mention graph, with full-text search over
titles. The database is rebuilt from source on each build, so it is a
queryable view of the corpus, not a second source of truth.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Parse the source directory and rebuild the index from it",
	RunE:  runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	parseCfg := types.ParseConfig{
		InputDir: flagOrConfig(cmd, "input-dir", "parse.input_dir"),
	}

	records, _, err := parse.ParseDir(parseCfg, os.Stdout)
	if err != nil {
		return err
	}

	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), records, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query [title terms]",
	Short: "Query the index with full-text search and filters",
	Long: `Query searches the index using FTS5 full-text search over titles,
structured filters (status, type, topic, mentions), or a combination.
Results include each PEP's outgoing mention edges.`,
	RunE: runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide title terms, --status, --type, --topic, or --mentions")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(os.Stdout, results, jsonOutput)
}

func formatQueryOutput(w io.Writer, results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-12s  %-16s  %-44s  %s\n",
		"PEP", "Status", "Type", "Title", "Mentions")
	fmt.Fprintln(w, strings.Repeat("-", 96))

	for _, r := range results {
		title := r.Title
		// Truncate by rune so multi-byte titles are not split mid-sequence.
		if runes := []rune(title); len(runes) > 44 {
			title = string(runes[:41]) + "..."
		}
		fmt.Fprintf(w, "%-6d  %-12s  %-16s  %-44s  %d\n",
			r.Number, r.Status, r.Type, title, len(r.Mentions))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the mention graph to YAML or JSON",
	Long: `Export writes the indexed PEP set with both directions of the mention
graph to export.yaml or export.json in the index directory. Supports the
same filter flags as query for partial exports.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to export.yaml")
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	indexDir := flagOrConfig(cmd, "index-dir", "index.index_dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.IndexConfig{
		IndexDir:   indexDir,
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	status, _ := cmd.Flags().GetString("status")
	pepType, _ := cmd.Flags().GetString("type")
	topic, _ := cmd.Flags().GetString("topic")
	mentions, _ := cmd.Flags().GetInt("mentions")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      queryText,
		Status:     types.Status(status),
		Type:       types.Type(pepType),
		Topic:      topic,
		Mentions:   mentions,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-dir", "index", "directory for the index database and exports")
	indexCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Build flags.
	indexBuildCmd.Flags().String("input-dir", ".", "directory containing PEP source files")

	// Query flags.
	indexQueryCmd.Flags().String("query", "", "full-text search over titles")
	indexQueryCmd.Flags().String("status", "", "filter by canonical status (draft, final, superseded, ...)")
	indexQueryCmd.Flags().String("type", "", "filter by canonical type (standards-track, informational, process)")
	indexQueryCmd.Flags().String("topic", "", "filter by topic slug")
	indexQueryCmd.Flags().Int("mentions", 0, "filter to PEPs that mention the given number")
	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	indexExportCmd.Flags().String("query", "", "full-text title filter for partial export")
	indexExportCmd.Flags().String("status", "", "filter by canonical status for partial export")
	indexExportCmd.Flags().String("type", "", "filter by canonical type for partial export")
	indexExportCmd.Flags().String("topic", "", "filter by topic slug for partial export")
	indexExportCmd.Flags().Int("mentions", 0, "filter to PEPs that mention the given number")
	indexExportCmd.Flags().Int("limit", 0, "maximum entries to export (0 = all)")

	// Wire subcommands.
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
