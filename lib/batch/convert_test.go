// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/uidecode/lib/bytecursor"
	"github.com/bureau-foundation/uidecode/lib/catalog"
	"github.com/bureau-foundation/uidecode/lib/markup"
	"github.com/bureau-foundation/uidecode/lib/testutil"
)

func TestConvert_Routing(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		forensic bool
		status   catalog.Status
		wantErr  error
		contains string
	}{
		{
			name:   "decoded",
			data:   testutil.NewBuilder().Header(2).Str("foo").Str("bar").Bytes(),
			status: catalog.StatusOK,
		},
		{
			name:     "unsupported goes to the analyzer",
			data:     testutil.NewBuilder().Header(10).U32(7).Str("title").Bytes(),
			status:   catalog.StatusUnsupported,
			contains: "<analysis",
		},
		{
			name:     "forensic",
			data:     testutil.NewBuilder().Header(2).Str("foo").Str("bar").Bytes(),
			forensic: true,
			status:   catalog.StatusAnalyzed,
			contains: "<analysis",
		},
		{
			name:     "malformed header",
			data:     []byte("Versio"),
			status:   catalog.StatusMalformed,
			wantErr:  bytecursor.ErrMalformedHeader,
			contains: "<error",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var document strings.Builder
			conversion := Convert(test.data, markup.New(&document), test.forensic, nil)
			if conversion.Status != test.status {
				t.Errorf("Status = %q, want %q", conversion.Status, test.status)
			}
			if test.wantErr == nil && conversion.Err != nil {
				t.Errorf("Err = %v", conversion.Err)
			}
			if test.wantErr != nil && !errors.Is(conversion.Err, test.wantErr) {
				t.Errorf("Err = %v, want %v", conversion.Err, test.wantErr)
			}
			if test.contains != "" && !strings.Contains(document.String(), test.contains) {
				t.Errorf("document missing %q:\n%s", test.contains, document.String())
			}
			analyzed := test.status == catalog.StatusAnalyzed || test.status == catalog.StatusUnsupported
			if analyzed != (conversion.Summary != nil) {
				t.Errorf("Summary present = %v, want %v", conversion.Summary != nil, analyzed)
			}
		})
	}
}
