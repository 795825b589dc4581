package main

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"reclaim/internal/evidence"
	"reclaim/internal/extraction"
	"reclaim/internal/queue"
	"reclaim/internal/textutil"
)

func renderExtractionTable(results []extraction.ItemResult) string {
	writer := table.NewWriter()
	writer.AppendHeader(table.Row{"Hash", "Status", "Blob Size", "Detail"})
	for _, result := range results {
		status := "decoded"
		detail := ""
		switch {
		case result.Err != nil:
			status = "failed"
			detail = result.Err.Error()
		case result.Skipped:
			status = "skipped"
		}
		size := ""
		if result.Err == nil {
			size = textutil.HumanSize(result.BlobSize)
		}
		writer.AppendRow(table.Row{result.Hash, status, size, detail})
	}
	return writer.Render()
}

func renderCandidateTable(candidates []evidence.Candidate) string {
	writer := table.NewWriter()
	writer.AppendHeader(table.Row{"Line", "Name", "Claimed Size"})
	for _, candidate := range candidates {
		size := ""
		if candidate.Size > 0 {
			size = textutil.HumanSize(candidate.Size)
		}
		writer.AppendRow(table.Row{candidate.Line, candidate.Name, size})
	}
	return writer.Render()
}

func renderStatusTable(items []*queue.Item) string {
	writer := table.NewWriter()
	writer.AppendHeader(table.Row{"Hash", "Status", "Blob Size", "Recovered Name", "Error"})
	for _, item := range items {
		size := ""
		if item.BlobSize > 0 {
			size = textutil.HumanSize(item.BlobSize)
		}
		writer.AppendRow(table.Row{item.Hash, string(item.Status), size, item.FinalName, item.ErrorMessage})
	}
	return writer.Render()
}
