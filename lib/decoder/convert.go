// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package decoder

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bureau-foundation/uidecode/lib/bytecursor"
	"github.com/bureau-foundation/uidecode/lib/hexdump"
	"github.com/bureau-foundation/uidecode/lib/markup"
)

// Diagnostic window sizes around a failure.
const (
	dumpBeforeCheckpoint = 64
	dumpAfterFailure     = 1024
)

// Options configures Convert.
type Options struct {
	// Logger receives one record per failure and per unparsed tail.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// Result describes a finished or failed conversion.
type Result struct {
	Version int
	Dialect Dialect
	// Checkpoint is the start of the last record the decoder entered.
	Checkpoint int
	// Offset is where decoding stopped: the buffer size on success, the
	// failing read's offset otherwise.
	Offset int
	// Unparsed is the number of bytes left after a layout's root entry.
	Unparsed int
}

// Convert decodes data with the grammar its header selects and writes
// the markup document to sink.
//
// On failure the document still gets written up to the failing field,
// followed by an <error> element holding the message, up to 64 bytes
// before the last checkpoint, and up to 1024 bytes from the failure
// offset. The returned error wraps one of the taxonomy sentinels; use
// [Classify] to name it. A malformed header fails before any dialect
// is chosen.
func Convert(data []byte, sink *markup.Builder, options Options) (Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &machine{cursor: bytecursor.New(data), sink: sink}

	version, err := m.cursor.Version()
	if err != nil {
		m.diagnose(err)
		return m.result(Result{}), m.fail(logger, err)
	}
	dialect, err := SelectDialect(version, data)
	if err != nil {
		m.diagnose(err)
		return m.result(Result{Version: version}), m.fail(logger, err)
	}
	m.ctx = NewContext(version, dialect)
	return m.decode(logger)
}

// ConvertWith decodes data with an explicit context, bypassing dialect
// selection. The header must still be well formed. It forces a grammar
// on files whose version number is shared between dialects.
func ConvertWith(ctx Context, data []byte, sink *markup.Builder, options Options) (Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &machine{ctx: ctx, cursor: bytecursor.New(data), sink: sink}
	if _, err := m.cursor.Version(); err != nil {
		m.diagnose(err)
		return m.result(Result{}), m.fail(logger, err)
	}
	return m.decode(logger)
}

// decode writes the root element and everything after the header.
func (m *machine) decode(logger *slog.Logger) (Result, error) {
	result := Result{Version: m.ctx.Version, Dialect: m.ctx.Dialect}
	root, attrs := rootElement(m.ctx)
	err := m.sink.Tag(root, attrs, func() error {
		err := m.body(logger, &result)
		if err != nil {
			m.diagnose(err)
		}
		return err
	})
	if err != nil {
		return m.result(result), m.fail(logger, err)
	}
	if err := m.sink.Err(); err != nil {
		return m.result(result), fmt.Errorf("writing markup: %w", err)
	}
	return m.result(result), nil
}

func rootElement(ctx Context) (string, markup.Attrs) {
	attrs := markup.Attrs{"version": fmt.Sprintf("%03d", ctx.Version)}
	switch ctx.Dialect {
	case DialectCML:
		return "cml", attrs
	case DialectFontCatalog:
		return "fc", attrs
	case DialectUIGen1, DialectUIGen2:
		attrs["generation"] = strconv.Itoa(ctx.Generation())
		return "ui", attrs
	default:
		return "unknown", attrs
	}
}

// body decodes everything after the header for the context's dialect.
func (m *machine) body(logger *slog.Logger, result *Result) error {
	switch m.ctx.Dialect {
	case DialectCML:
		return m.records("", cmlPair)
	case DialectFontCatalog:
		return m.records("fcentry", fontCatalogEntry)
	case DialectUIGen1, DialectUIGen2:
		if err := m.decodeEntry(); err != nil {
			return err
		}
		if remaining := m.cursor.Remaining(); remaining > 0 {
			result.Unparsed = remaining
			logger.Warn("bytes after root entry",
				"version", m.ctx.Version,
				"offset", m.cursor.Offset(),
				"bytes", remaining,
			)
			m.unparsed()
		}
		return nil
	default:
		return fmt.Errorf("%w: no grammar for dialect %s", ErrUnsupportedVersion, m.ctx.Dialect)
	}
}

// records decodes schedule repeatedly until the buffer is exhausted.
// Each record start is a checkpoint. An empty wrapper writes the fields
// directly.
func (m *machine) records(wrapper string, schedule Schedule) error {
	for !m.cursor.EOF() {
		m.mark()
		if wrapper == "" {
			if err := m.run(schedule); err != nil {
				return err
			}
			continue
		}
		if err := m.sink.Tag(wrapper, nil, func() error {
			return m.run(schedule)
		}); err != nil {
			return err
		}
	}
	return nil
}

// unparsed dumps the bytes after a complete root entry. They are not
// an error: the grammar is known to be incomplete for some versions.
func (m *machine) unparsed() {
	size := m.cursor.Size()
	start, end := hexdump.After(m.cursor.Offset(), dumpAfterFailure, size)
	attrs := markup.Attrs{"bytes": strconv.Itoa(size - start)}
	if end < size {
		attrs["truncated"] = "true"
	}
	m.sink.OpenTag("unparsed", attrs)
	m.dumpRows(start, end)
	m.sink.CloseTag()
}

// diagnose writes the <error> element for err at the current depth.
func (m *machine) diagnose(err error) {
	size := m.cursor.Size()
	failure := m.cursor.Offset()
	m.sink.OpenTag("error", markup.Attrs{
		"kind":       string(Classify(err)),
		"offset":     strconv.Itoa(failure),
		"checkpoint": strconv.Itoa(m.checkpoint),
	})
	m.sink.Leaf("message", err.Error(), "")

	start, end := hexdump.Before(m.checkpoint, dumpBeforeCheckpoint, size)
	m.sink.OpenTag("before", markup.Attrs{"start": strconv.Itoa(start), "end": strconv.Itoa(end)})
	m.dumpRows(start, end)
	m.sink.CloseTag()

	start, end = hexdump.After(failure, dumpAfterFailure, size)
	m.sink.OpenTag("after", markup.Attrs{"start": strconv.Itoa(start), "end": strconv.Itoa(end)})
	m.dumpRows(start, end)
	m.sink.CloseTag()

	m.sink.CloseTag()
}

func (m *machine) dumpRows(start, end int) {
	for _, line := range hexdump.Lines(m.cursor.Data()[start:end], start) {
		m.sink.Text(line)
	}
}

func (m *machine) fail(logger *slog.Logger, err error) error {
	logger.Debug("decode failed",
		"version", m.ctx.Version,
		"dialect", m.ctx.Dialect.String(),
		"kind", string(Classify(err)),
		"offset", m.cursor.Offset(),
		"checkpoint", m.checkpoint,
		"error", err,
	)
	return fmt.Errorf("decoding at offset %d (checkpoint %d): %w", m.cursor.Offset(), m.checkpoint, err)
}

func (m *machine) result(result Result) Result {
	result.Checkpoint = m.checkpoint
	result.Offset = m.cursor.Offset()
	return result
}
