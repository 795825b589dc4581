package review

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"reclaim/internal/textutil"
)

const (
	markerMissing   = "(missing)"
	markerDuplicate = "(possible duplicate)"
)

// RenderTable formats rows for the operator. Blobs without a name show a
// missing marker; names assigned to more than one blob carry a duplicate
// marker so the operator resolves them before files land.
func RenderTable(rows []Row) string {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.Final != "" {
			counts[row.Final]++
		}
	}

	writer := table.NewWriter()
	writer.AppendHeader(table.Row{"#", "Hash", "Size", "Recovered Name"})
	for i, row := range rows {
		name := row.Final
		switch {
		case name == "":
			name = markerMissing
		case counts[row.Final] > 1:
			name += " " + markerDuplicate
		}
		writer.AppendRow(table.Row{i + 1, row.Hash, textutil.HumanSize(row.BlobSize), name})
	}
	return writer.Render()
}
