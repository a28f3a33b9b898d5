// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates conversion across pages and across files.
// All heavy work funnels through one weighted semaphore, so effective
// parallelism stays CPU-bounded no matter how many files or pages a batch
// holds. Aggregation is by result collection and sorting; tasks share no
// mutable state.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/pagemill/internal/decode"
	"github.com/pdiddy/pagemill/internal/layout"
	"github.com/pdiddy/pagemill/internal/markdown"
	"github.com/pdiddy/pagemill/pkg/types"
)

// ConversionError is the failure variant of a DocumentResult. It wraps the
// open error; page-level failures never escalate into one.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Pipeline converts documents through a shared bounded worker pool.
type Pipeline struct {
	backend decode.Backend
	cfg     types.PipelineConfig
	sem     *semaphore.Weighted
	status  io.Writer
}

// New builds a Pipeline over the given backend. Status lines are written to
// status; pass nil to silence them. cfg.Jobs of zero means runtime.NumCPU().
func New(backend decode.Backend, cfg types.PipelineConfig, status io.Writer) *Pipeline {
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if status == nil {
		status = io.Discard
	}
	return &Pipeline{
		backend: backend,
		cfg:     cfg,
		sem:     semaphore.NewWeighted(int64(jobs)),
		status:  status,
	}
}

// pageLines is the fan-in unit for one page's extraction and assembly.
type pageLines struct {
	index   int
	lines   layout.Lines
	skipped int
	err     error
}

// ConvertDocument converts one document. An open failure is fatal to the
// document and no page work is scheduled; a single page's extraction
// failure is replaced with a placeholder and counted, never fatal.
func (p *Pipeline) ConvertDocument(ctx context.Context, path string) types.DocumentResult {
	start := time.Now()
	result := types.DocumentResult{SourcePath: path}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		result.Err = &ConversionError{Path: path, Err: err}
		return finish(result, start)
	}
	doc, err := p.backend.Open(path)
	p.sem.Release(1)
	if err != nil {
		result.Err = &ConversionError{Path: path, Err: err}
		return finish(result, start)
	}
	defer doc.Close()

	n := doc.PageCount()
	result.PageCount = n
	if n == 0 {
		return finish(result, start)
	}

	// Extraction is the only stage allowed to touch the backend. When the
	// backend cannot serve concurrent page access, calls for this document
	// are serialized; other documents are unaffected.
	var extractMu sync.Mutex
	serialize := !doc.ConcurrentPages()

	ch := make(chan pageLines, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			if err := p.sem.Acquire(ctx, 1); err != nil {
				ch <- pageLines{index: page, err: err}
				return
			}
			if serialize {
				extractMu.Lock()
			}
			runs, err := doc.ExtractRuns(page)
			if serialize {
				extractMu.Unlock()
			}
			p.sem.Release(1)

			if err != nil {
				ch <- pageLines{index: page, err: err}
				return
			}
			lines, skipped := layout.Assemble(runs, p.cfg.Layout)
			ch <- pageLines{index: page, lines: lines, skipped: skipped}
		}(i)
	}
	wg.Wait()
	close(ch)

	// Restore the order lost to concurrent scheduling.
	collected := make([]pageLines, 0, n)
	for pl := range ch {
		collected = append(collected, pl)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	if p.cfg.StripRepeated {
		pages := make([]layout.Lines, n)
		for i, pl := range collected {
			pages[i] = pl.lines
		}
		pages = layout.StripRepeated(pages)
		for i := range collected {
			collected[i].lines = pages[i]
		}
	}

	results := make([]types.PageResult, n)
	for _, pl := range collected {
		if pl.err != nil {
			results[pl.index] = types.PageResult{
				PageIndex: pl.index,
				Markdown:  fmt.Sprintf("<!-- page %d: text extraction failed -->\n\n", pl.index+1),
				Err:       pl.err,
			}
			result.FailedPages++
			continue
		}
		result.SkippedRuns += pl.skipped
		blocks := layout.Classify(pl.lines, p.cfg.Layout)
		results[pl.index] = types.PageResult{
			PageIndex: pl.index,
			Markdown:  markdown.Render(blocks),
		}
	}

	result.Markdown = joinPages(results)
	return finish(result, start)
}

// ConvertBatch converts every input independently: one file's failure never
// affects another's result. Per-file status lines and a closing summary go
// to the pipeline's status writer.
func (p *Pipeline) ConvertBatch(ctx context.Context, paths []string) types.BatchResult {
	ch := make(chan types.DocumentResult, len(paths))
	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			ch <- p.ConvertDocument(ctx, path)
		}(path)
	}
	wg.Wait()
	close(ch)

	batch := make(types.BatchResult, len(paths))
	for r := range ch {
		batch[r.SourcePath] = r
		base := filepath.Base(r.SourcePath)
		switch {
		case r.Failed():
			fmt.Fprintf(p.status, "failed:    %s (%v)\n", base, r.Err)
		case r.FailedPages > 0:
			fmt.Fprintf(p.status, "partial:   %s (%d of %d pages failed)\n", base, r.FailedPages, r.PageCount)
		default:
			fmt.Fprintf(p.status, "converted: %s (%d pages in %s)\n", base, r.PageCount, r.Duration.Round(time.Millisecond))
		}
	}

	fmt.Fprintf(p.status, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		batch.Converted(), batch.Failures(), len(batch))
	return batch
}

// joinPages concatenates page Markdown in ascending page order, separated
// by exactly one blank line. Empty pages contribute nothing.
func joinPages(results []types.PageResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		if s := strings.TrimRight(r.Markdown, "\n"); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func finish(r types.DocumentResult, start time.Time) types.DocumentResult {
	r.Duration = time.Since(start)
	r.ConvertedAt = time.Now().UTC()
	return r
}
