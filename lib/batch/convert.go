// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"log/slog"

	"github.com/bureau-foundation/uidecode/lib/analysis"
	"github.com/bureau-foundation/uidecode/lib/catalog"
	"github.com/bureau-foundation/uidecode/lib/decoder"
	"github.com/bureau-foundation/uidecode/lib/markup"
)

// Conversion is what converting one buffer produced.
type Conversion struct {
	Probe  decoder.ProbeResult
	Status catalog.Status
	// Result is zero when the analyzer ran.
	Result decoder.Result
	// Summary is the CBOR analysis summary when the analyzer ran.
	Summary      []byte
	FullyDecoded bool
	// Err wraps a decoder taxonomy sentinel, [ErrTimeout], or a
	// context error.
	Err error
}

// Convert writes the document for data to sink and classifies the
// result. A malformed header goes to the decoder, which reports it
// without choosing a dialect. An unsupported version, or any file in
// forensic mode, goes to the analyzer. Everything else is decoded.
func Convert(data []byte, sink *markup.Builder, forensic bool, logger *slog.Logger) Conversion {
	probe, probeErr := decoder.Probe(data)
	return convertProbed(data, probe, probeErr, sink, forensic, logger)
}

func convertProbed(data []byte, probe decoder.ProbeResult, probeErr error, sink *markup.Builder, forensic bool, logger *slog.Logger) Conversion {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if probeErr != nil {
		result, err := decoder.Convert(data, sink, decoder.Options{Logger: logger})
		return Conversion{Status: catalog.StatusMalformed, Result: result, Err: err}
	}

	if forensic || !probe.Supported {
		analyzer := analysis.New(data, analysis.Options{Logger: logger})
		reportErr := analyzer.Report(sink)
		summary, err := analyzer.EncodeSummary()
		if err != nil {
			logger.Warn("encoding analysis summary failed", "error", err)
		}
		status := catalog.StatusAnalyzed
		if !forensic {
			status = catalog.StatusUnsupported
		}
		return Conversion{
			Probe:        probe,
			Status:       status,
			Summary:      summary,
			FullyDecoded: analyzer.FullyDecoded(),
			Err:          reportErr,
		}
	}

	result, err := decoder.Convert(data, sink, decoder.Options{Logger: logger})
	status := catalog.StatusOK
	if err != nil {
		status = catalog.StatusFailed
	}
	return Conversion{
		Probe:        probe,
		Status:       status,
		Result:       result,
		FullyDecoded: err == nil && result.Unparsed == 0,
		Err:          err,
	}
}
