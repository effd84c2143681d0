// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/bureau-foundation/uidecode/lib/binhash"
	"github.com/bureau-foundation/uidecode/lib/catalog"
	"github.com/bureau-foundation/uidecode/lib/clock"
	"github.com/bureau-foundation/uidecode/lib/compress"
	"github.com/bureau-foundation/uidecode/lib/decoder"
	"github.com/bureau-foundation/uidecode/lib/filetask"
	"github.com/bureau-foundation/uidecode/lib/markup"
)

// ErrTimeout is recorded for a file whose conversion exceeded the
// per-file budget.
var ErrTimeout = errors.New("batch: per-file timeout exceeded")

// Error kinds recorded for failures outside the decoder taxonomy.
const (
	kindTimeout = "timeout"
	kindIO      = "io"
)

// OutputSuffix is appended to a task's mirrored path for the markup
// document, before any compression extension.
const OutputSuffix = ".xml"

const defaultProgressInterval = 5 * time.Second

// Config configures a Runner.
type Config struct {
	// Workers bounds concurrent conversions. Zero or negative means
	// runtime.NumCPU().
	Workers int

	// PerFileTimeout bounds one file's conversion. Zero disables it.
	PerFileTimeout time.Duration

	// OutputRoot receives the markup documents, mirroring each task's
	// path below its data root. Empty means no documents are written.
	OutputRoot string

	// Compression is applied to written documents.
	Compression compress.Tag

	// Forensic runs the analyzer on every file instead of the decoder.
	Forensic bool

	// Force reprocesses files whose digest matches their previous
	// catalog record.
	Force bool

	// Catalog records results. Optional.
	Catalog *catalog.Catalog

	// ProgressInterval is the period of progress log records. Defaults
	// to five seconds.
	ProgressInterval time.Duration

	// Clock measures durations and drives the progress ticker.
	// Required.
	Clock clock.Clock

	// Logger receives one record per file. Required.
	Logger *slog.Logger
}

// Report summarizes a finished run.
type Report struct {
	RunID   int64
	Files   int
	Reused  int
	Counts  map[catalog.Status]int
	Elapsed time.Duration
	// Results holds every file record in task order.
	Results []catalog.File
}

// Runner converts sets of files on a bounded worker pool.
type Runner struct {
	config Config
	clock  clock.Clock
	logger *slog.Logger
}

// New validates cfg and returns a runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Clock == nil {
		return nil, fmt.Errorf("batch: Clock is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("batch: Logger is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = defaultProgressInterval
	}
	return &Runner{config: cfg, clock: cfg.Clock, logger: cfg.Logger}, nil
}

// Run processes every task of set. Per-file failures are recorded,
// not returned; the error is non-nil only when the catalog cannot be
// written or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, set *filetask.Set) (Report, error) {
	start := r.clock.Now()
	report := Report{
		Files:   set.Len(),
		Counts:  make(map[catalog.Status]int),
		Results: make([]catalog.File, set.Len()),
	}

	if r.config.Catalog != nil {
		run, err := r.config.Catalog.BeginRun(ctx, set.Root, r.config.Forensic)
		if err != nil {
			return report, fmt.Errorf("batch: %w", err)
		}
		report.RunID = run.ID
	}

	var (
		mu        sync.Mutex
		completed int
		firstErr  error
	)
	indices := make(chan int)
	var workers sync.WaitGroup
	for range min(r.config.Workers, max(set.Len(), 1)) {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for index := range indices {
				file := r.Process(ctx, set.Tasks[index], report.RunID)
				var recordErr error
				if r.config.Catalog != nil {
					recordErr = r.config.Catalog.Record(ctx, file)
				}
				mu.Lock()
				report.Results[index] = file
				completed++
				if recordErr != nil && firstErr == nil {
					firstErr = recordErr
				}
				mu.Unlock()
			}
		}()
	}

	ticker := r.clock.NewTicker(r.config.ProgressInterval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				mu.Lock()
				progress := completed
				mu.Unlock()
				r.logger.Info("batch progress", "completed", progress, "total", set.Len())
			}
		}
	}()

feed:
	for index := range set.Tasks {
		select {
		case indices <- index:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	workers.Wait()
	close(done)

	for _, file := range report.Results {
		if file.Path == "" {
			continue
		}
		report.Counts[file.Status]++
		if file.Reused {
			report.Reused++
		}
	}
	report.Elapsed = clock.Since(r.clock, start)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("batch: %w", err)
	}
	if firstErr != nil {
		return report, fmt.Errorf("batch: %w", firstErr)
	}
	if r.config.Catalog != nil {
		if err := r.config.Catalog.FinishRun(ctx, report.RunID); err != nil {
			return report, fmt.Errorf("batch: %w", err)
		}
	}
	r.logger.Info("batch finished",
		"run", report.RunID,
		"files", report.Files,
		"ok", report.Counts[catalog.StatusOK],
		"reused", report.Reused,
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// Process converts one task and returns its record. It never fails:
// every problem is captured in the record's status and error fields.
// runID is copied into the record and bounds the digest lookup.
func (r *Runner) Process(ctx context.Context, task *filetask.Task, runID int64) catalog.File {
	start := r.clock.Now()
	file := catalog.File{
		RunID: runID,
		Path:  task.Path,
		Game:  task.Game(),
		Kind:  task.Kind().String(),
	}

	content, err := task.Load()
	if err != nil {
		file.Status = catalog.StatusFailed
		file.ErrorKind = kindIO
		file.ErrorMessage = err.Error()
		file.Duration = clock.Since(r.clock, start)
		r.logResult(file)
		return file
	}
	file.Digest = binhash.Sum(content.Data)

	if previous, ok := r.reusable(ctx, file, runID); ok {
		content.Close()
		r.logResult(previous)
		return previous
	}

	converted := r.convert(ctx, content)
	file.Duration = clock.Since(r.clock, start)
	converted.fill(&file)

	if converted.document != nil && r.config.OutputRoot != "" {
		path := task.OutputPath(r.config.OutputRoot, OutputSuffix+compress.Extension(r.config.Compression))
		if err := writeDocument(path, converted.document, r.config.Compression); err != nil {
			r.logger.Error("writing output failed", "path", task.Path, "output", path, "error", err)
		} else {
			file.Output = path
		}
	}

	r.logResult(file)
	return file
}

// reusable returns the previous record for file when its digest is
// unchanged. The previous record is re-stamped for the current run.
func (r *Runner) reusable(ctx context.Context, file catalog.File, runID int64) (catalog.File, bool) {
	if r.config.Catalog == nil || r.config.Force {
		return catalog.File{}, false
	}
	previous, found, err := r.config.Catalog.LastResult(ctx, file.Path, runID)
	if err != nil {
		r.logger.Warn("catalog lookup failed", "path", file.Path, "error", err)
		return catalog.File{}, false
	}
	if !found || previous.Digest != file.Digest {
		return catalog.File{}, false
	}
	if (previous.Status == catalog.StatusAnalyzed) != r.config.Forensic {
		return catalog.File{}, false
	}
	previous.RunID = runID
	previous.Reused = true
	previous.Duration = 0
	return previous, true
}

func (r *Runner) logResult(file catalog.File) {
	attrs := []any{
		"path", file.Path,
		"version", file.FullVersion,
		"dialect", file.Dialect,
		"status", string(file.Status),
		"duration", file.Duration,
	}
	if file.Reused {
		attrs = append(attrs, "reused", true)
	}
	if file.ErrorKind != "" {
		r.logger.Error("file failed", append(attrs,
			"error_kind", file.ErrorKind,
			"error", file.ErrorMessage,
		)...)
		return
	}
	r.logger.Info("file converted", attrs...)
}

// writeDocument writes document to path through the compression
// stream, creating parent directories.
func writeDocument(path string, document []byte, tag compress.Tag) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	output, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()
	writer, err := compress.NewWriter(output, tag)
	if err != nil {
		return err
	}
	if _, err := writer.Write(document); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

// outcome is a conversion plus the buffered document.
type outcome struct {
	Conversion
	document []byte
}

func (o outcome) fill(file *catalog.File) {
	file.Status = o.Status
	file.Version = o.Probe.Version
	if o.Status != catalog.StatusMalformed {
		file.FullVersion = filetask.FullVersion(filetask.KindOf(file.Path), o.Probe.Version)
	}
	if o.Probe.Supported {
		file.Dialect = o.Probe.Dialect.String()
	}
	file.Checkpoint = o.Result.Checkpoint
	file.Unparsed = o.Result.Unparsed
	file.Summary = o.Summary
	file.FullyDecoded = o.FullyDecoded
	if o.Err != nil {
		file.ErrorMessage = o.Err.Error()
		file.FailureOffset = o.Result.Offset
		switch {
		case errors.Is(o.Err, ErrTimeout):
			file.ErrorKind = kindTimeout
		default:
			file.ErrorKind = string(decoder.Classify(o.Err))
		}
	}
}

// convert runs the conversion in its own goroutine so the per-file
// budget can abandon it. The goroutine owns content and releases it
// when it finishes, even after a timeout.
func (r *Runner) convert(ctx context.Context, content *filetask.Content) outcome {
	if r.config.PerFileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.PerFileTimeout)
		defer cancel()
	}

	probe, probeErr := decoder.Probe(content.Data)
	results := make(chan outcome, 1)
	go func() {
		defer content.Close()
		var document bytes.Buffer
		conversion := convertProbed(content.Data, probe, probeErr, markup.New(&document), r.config.Forensic, r.logger)
		results <- outcome{Conversion: conversion, document: document.Bytes()}
	}()

	select {
	case result := <-results:
		return result
	case <-ctx.Done():
		err := ErrTimeout
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = ctx.Err()
		}
		return outcome{Conversion: Conversion{Probe: probe, Status: catalog.StatusFailed, Err: err}}
	}
}
