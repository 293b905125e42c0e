package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pepdex/internal/parse"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Parse a single PEP source file and print the extracted record",
	Long: `Inspect parses one source document and prints the record that the
build pass would produce for it: number, title, status, type, topics,
authors, and the referenced PEP numbers. Output is YAML by default.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	rec, err := parse.ParseFile(args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output the record as JSON")

	rootCmd.AddCommand(inspectCmd)
}
