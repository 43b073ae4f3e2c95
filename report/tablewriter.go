/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// column is one column of a summary table.
type column struct {
	header string
	// numeric columns are right-aligned, the rest left-aligned.
	numeric bool
}

// newSummaryTable creates a markdown table whose separator row carries the
// column alignment, so counts line up when the markdown is rendered too.
func newSummaryTable(columns []column, w io.Writer) *tablewriter.Table {
	headers := make([]string, len(columns))
	align := make(tw.Alignment, len(columns))
	for i, c := range columns {
		headers[i] = c.header
		align[i] = tw.AlignLeft
		if c.numeric {
			align[i] = tw.AlignRight
		}
	}
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeader(headers),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithAlignment(align),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
