// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pagemill CLI, a bulk PDF to
// Markdown converter. The conversion core lives under internal/; the
// commands here resolve inputs, run the pipeline, and write outputs.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pagemill/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pagemill CLI.
var rootCmd = &cobra.Command{
	Use:   "pagemill",
	Short: "Convert PDF files to Markdown",
	Long: `pagemill reconstructs document structure (headings and paragraphs) from
the text layer of PDF files and emits Markdown, processing pages and files
in parallel. It trades typographic fidelity for speed: no OCR, no tables,
no images.

Point it at a single PDF or a directory; every discovered file is converted
independently, so one corrupt input never blocks the rest of a batch.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pagemill.yaml or ~/.config/pagemill/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pagemill")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pagemill"))
		}
	}

	viper.SetEnvPrefix("PAGEMILL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the run configuration from defaults overlaid
// with any values present in the loaded config file or environment. Every
// layout threshold is tunable here rather than baked in.
func pipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	if viper.IsSet("jobs") {
		cfg.Jobs = viper.GetInt("jobs")
	}
	if viper.IsSet("strip_repeated") {
		cfg.StripRepeated = viper.GetBool("strip_repeated")
	}

	layoutKeys := map[string]*float64{
		"layout.baseline_tolerance": &cfg.Layout.BaselineTolerance,
		"layout.max_join_gap":       &cfg.Layout.MaxJoinGap,
		"layout.glue_gap":           &cfg.Layout.GlueGap,
		"layout.heading_ratio":      &cfg.Layout.HeadingRatio,
		"layout.isolation_gap":      &cfg.Layout.IsolationGap,
		"layout.paragraph_gap":      &cfg.Layout.ParagraphGap,
	}
	for key, dst := range layoutKeys {
		if viper.IsSet(key) {
			*dst = viper.GetFloat64(key)
		}
	}
	if viper.IsSet("layout.bold_heading_max_chars") {
		cfg.Layout.BoldHeadingMaxChars = viper.GetInt("layout.bold_heading_max_chars")
	}
	return cfg
}

// manifestPath returns the configured manifest database location.
func manifestPath() string {
	if viper.IsSet("manifest") {
		return viper.GetString("manifest")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagemill.db"
	}
	return filepath.Join(home, ".config", "pagemill", "pagemill.db")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
