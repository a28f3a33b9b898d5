// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes conversion results to disk: one Markdown file per
// input, optional YAML frontmatter, and optional metadata sidecars.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagemill/pkg/types"
)

// Options controls where and how a document's Markdown is written.
type Options struct {
	// Dir is the output directory. Empty means alongside the input file.
	Dir string

	// Name overrides the output base name (without extension). Only
	// meaningful for single-file runs; validated by the caller.
	Name string

	// Frontmatter prepends a YAML header with the source path, page count,
	// and conversion timestamp.
	Frontmatter bool

	// Sidecar writes a <name>.meta.yaml file next to the Markdown output
	// with the full conversion record.
	Sidecar bool

	// Force overwrites an existing output file instead of skipping it.
	Force bool
}

// Write persists one successful DocumentResult and returns the output path.
// An existing output file is skipped unless Force is set; skipping is
// reported via os.ErrExist so callers can count it separately.
func Write(result types.DocumentResult, opts Options) (string, error) {
	if result.Failed() {
		return "", fmt.Errorf("refusing to write failed conversion of %s: %w", result.SourcePath, result.Err)
	}

	base := opts.Name
	if base == "" {
		name := filepath.Base(result.SourcePath)
		base = strings.TrimSuffix(name, filepath.Ext(name))
	}

	dir := opts.Dir
	if dir == "" {
		dir = filepath.Dir(result.SourcePath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	mdPath := filepath.Join(dir, base+".md")
	if !opts.Force {
		if _, err := os.Stat(mdPath); err == nil {
			return mdPath, fmt.Errorf("output %s: %w", mdPath, os.ErrExist)
		}
	}

	content := result.Markdown
	if opts.Frontmatter {
		content = frontmatter(result) + content
	}
	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", mdPath, err)
	}

	if opts.Sidecar {
		if err := writeSidecar(result, filepath.Join(dir, base+".meta.yaml")); err != nil {
			return mdPath, err
		}
	}
	return mdPath, nil
}

// frontmatter renders the YAML header prepended to the Markdown body.
func frontmatter(result types.DocumentResult) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "source_pdf: %q\n", result.SourcePath)
	fmt.Fprintf(&b, "pages: %d\n", result.PageCount)
	if result.FailedPages > 0 {
		fmt.Fprintf(&b, "failed_pages: %d\n", result.FailedPages)
	}
	fmt.Fprintf(&b, "converted_at: %q\n", result.ConvertedAt.Format(time.RFC3339))
	b.WriteString("---\n\n")
	return b.String()
}

// writeSidecar writes the conversion record as a YAML metadata file.
func writeSidecar(result types.DocumentResult, path string) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling sidecar metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing sidecar %s: %w", path, err)
	}
	return nil
}
