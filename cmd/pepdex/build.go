// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pepdex/internal/emit"
	"github.com/pdiddy/pepdex/internal/parse"
	"github.com/pdiddy/pepdex/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Convert a directory of PEP sources into a cross-linked vault",
	Long: `Build parses every pep-NNNN.txt / pep-NNNN.rst file in the input
directory, resolves cross-references over the full set, and writes one
Markdown file per PEP into the output directory. The output directory is
fully regenerated, so re-running on unchanged input is byte-identical.

Files with an unparseable header are reported and skipped; the run still
succeeds. Only a missing or unreadable input directory is fatal.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	parseCfg := types.ParseConfig{
		InputDir: flagOrConfig(cmd, "input-dir", "parse.input_dir"),
	}
	emitCfg := types.EmitConfig{
		OutputDir: flagOrConfig(cmd, "output-dir", "emit.output_dir"),
	}

	records, _, err := parse.ParseDir(parseCfg, os.Stdout)
	if err != nil {
		return err
	}

	// Per-record write failures are reported in the summary; they do not
	// change the exit code.
	_, err = emit.EmitAll(records, emitCfg, os.Stdout)
	return err
}

func init() {
	buildCmd.Flags().String("input-dir", ".", "directory containing PEP source files")
	buildCmd.Flags().String("output-dir", "output", "directory for emitted Markdown (regenerated each run)")

	rootCmd.AddCommand(buildCmd)
}
