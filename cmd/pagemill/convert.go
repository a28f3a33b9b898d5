// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagemill/internal/decode"
	"github.com/pdiddy/pagemill/internal/manifest"
	"github.com/pdiddy/pagemill/internal/output"
	"github.com/pdiddy/pagemill/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert INPUT",
	Short: "Convert a PDF file or a directory of PDF files to Markdown",
	Long: `Convert processes a single PDF or every PDF under a directory, writing one
.md file per input. Files are converted in parallel, bounded by the number
of CPUs; a failed input is reported and skipped without affecting the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output directory (default: alongside each input)")
	convertCmd.Flags().StringP("name", "n", "", "output filename without extension (single file input only)")
	convertCmd.Flags().BoolP("stdout", "s", false, "print Markdown to stdout instead of writing files")
	convertCmd.Flags().Int("jobs", 0, "maximum parallel extraction tasks (default: number of CPUs)")
	convertCmd.Flags().Bool("frontmatter", false, "prepend YAML frontmatter to each output")
	convertCmd.Flags().Bool("sidecar", false, "write a .meta.yaml conversion record next to each output")
	convertCmd.Flags().Bool("resume", false, "skip inputs already recorded as converted in the manifest")
	convertCmd.Flags().Bool("force", false, "overwrite existing output files")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	outDir, _ := cmd.Flags().GetString("output")
	name, _ := cmd.Flags().GetString("name")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	jobs, _ := cmd.Flags().GetInt("jobs")
	withFrontmatter, _ := cmd.Flags().GetBool("frontmatter")
	withSidecar, _ := cmd.Flags().GetBool("sidecar")
	resume, _ := cmd.Flags().GetBool("resume")
	force, _ := cmd.Flags().GetBool("force")

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input path %s: %w", input, err)
	}
	if name != "" && info.IsDir() {
		return fmt.Errorf("--name can only be used when INPUT is a single file, not a directory")
	}
	if name != "" && toStdout {
		return fmt.Errorf("--name and --stdout cannot be used together")
	}

	paths, err := collectPDFFiles(input)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "No PDF files found in: %s\n", input)
		return nil
	}

	store, err := manifest.Open(manifestPath())
	if err != nil {
		return err
	}
	defer store.Close()

	if resume {
		paths, err = filterConverted(store, paths)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintln(os.Stderr, "All inputs already converted; nothing to do.")
			return nil
		}
	}

	cfg := pipelineConfig()
	if jobs > 0 {
		cfg.Jobs = jobs
	}

	p := pipeline.New(decode.NewReaderBackend(), cfg, os.Stderr)
	batch := p.ConvertBatch(cmd.Context(), paths)

	// Deterministic output order even though the batch completed in
	// arbitrary order.
	sort.Strings(paths)

	for _, path := range paths {
		result := batch[path]
		rec := manifest.Record{
			SourcePath:  result.SourcePath,
			Pages:       result.PageCount,
			FailedPages: result.FailedPages,
			Status:      manifest.StatusFor(result),
			Duration:    result.Duration,
			ConvertedAt: result.ConvertedAt,
		}
		if result.Failed() {
			rec.Error = result.Err.Error()
		}

		switch {
		case result.Failed():
			// Already reported by the pipeline status writer.
		case toStdout:
			if len(paths) > 1 {
				fmt.Printf("\n<!-- FILE: %s -->\n\n", path)
			}
			fmt.Print(result.Markdown)
		default:
			opts := output.Options{
				Dir:         outDir,
				Name:        name,
				Frontmatter: withFrontmatter,
				Sidecar:     withSidecar,
				Force:       force,
			}
			mdPath, werr := output.Write(result, opts)
			switch {
			case errors.Is(werr, os.ErrExist):
				fmt.Fprintf(os.Stderr, "skipped:   %s (output exists, use --force)\n", filepath.Base(path))
			case werr != nil:
				fmt.Fprintf(os.Stderr, "failed:    %s (%v)\n", filepath.Base(path), werr)
				rec.Status = manifest.StatusFailed
				rec.Error = werr.Error()
			default:
				rec.OutputPath = mdPath
			}
		}

		if err := store.Put(rec); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	if batch.HasFailures() {
		return fmt.Errorf("%d of %d inputs failed", batch.Failures(), len(batch))
	}
	return nil
}

// collectPDFFiles resolves the input argument into a list of PDF paths: the
// file itself, or every .pdf found walking a directory.
func collectPDFFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("input path %s: %w", input, err)
	}

	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(input), ".pdf") {
			return []string{input}, nil
		}
		return nil, nil
	}

	var paths []string
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", input, err)
	}
	return paths, nil
}

// filterConverted drops inputs whose manifest record says a prior run
// already converted them cleanly.
func filterConverted(store *manifest.Store, paths []string) ([]string, error) {
	remaining := make([]string, 0, len(paths))
	for _, path := range paths {
		rec, ok, err := store.Get(path)
		if err != nil {
			return nil, err
		}
		if ok && rec.Status == manifest.StatusConverted {
			fmt.Fprintf(os.Stderr, "resume:    %s (already converted)\n", filepath.Base(path))
			continue
		}
		remaining = append(remaining, path)
	}
	return remaining, nil
}
