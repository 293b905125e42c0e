// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pepdex CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pepdex CLI.
var rootCmd = &cobra.Command{
	Use:   "pepdex",
	Short: "Build a cross-linked Markdown vault from PEP source documents",
	Long: `pepdex reads Python Enhancement Proposal sources (plain text or
reStructuredText), extracts metadata and cross-references, and emits one
Markdown file per PEP with Obsidian wikilinks and YAML front matter, so a
knowledge-base tool can render the PEP corpus as a navigable graph.

The transform runs in two passes: parse every source file, then resolve
references against the full set and emit. A reference to a PEP outside
the set stays plain text rather than becoming a broken link.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pepdex.yaml or ~/.config/pepdex/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pepdex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pepdex"))
		}
	}

	viper.SetEnvPrefix("PEPDEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// flagOrConfig returns the flag value, falling back to the viper key when
// the flag was left at its default and the config file sets one.
func flagOrConfig(cmd *cobra.Command, flag, key string) string {
	value, _ := cmd.Flags().GetString(flag)
	if !cmd.Flags().Changed(flag) {
		if v := viper.GetString(key); v != "" {
			return v
		}
	}
	return value
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
