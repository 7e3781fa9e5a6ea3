package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"lottie2video/internal/batch"
	"lottie2video/internal/history"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderSummary prints one row per job followed by the batch totals.
func renderSummary(summary batch.Summary) string {
	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		status := "ok"
		detail := result.OutputPath
		if !result.Succeeded() {
			status = "failed"
			detail = truncate(result.Err.Error(), 60)
		}
		rows = append(rows, []string{
			filepath.Base(result.InputPath),
			status,
			formatElapsed(result.Elapsed),
			detail,
		})
	}
	tableText := renderTable(
		[]string{"Input", "Status", "Elapsed", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	)
	return fmt.Sprintf("%s\nBatch %s: %d succeeded, %d failed, %d work dir(s) removed in %s",
		tableText, summary.ID, summary.Succeeded, summary.Failed, summary.Removed, formatElapsed(summary.Elapsed))
}

func renderHistory(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		detail := entry.OutputPath
		if entry.Status == history.StatusFailed {
			detail = truncate(entry.ErrorMessage, 60)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", entry.ID),
			entry.CreatedAt.Local().Format("2006-01-02 15:04"),
			filepath.Base(entry.InputPath),
			entry.Format,
			string(entry.Status),
			formatElapsed(entry.Elapsed),
			detail,
		})
	}
	return renderTable(
		[]string{"ID", "When", "Input", "Format", "Status", "Elapsed", "Output / Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
