package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"viralengine/internal/api"
)

func renderJobTable(statuses []api.JobStatus) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Job", "Topic", "Status", "Progress", "Result"})

	for _, status := range statuses {
		result := status.VideoURL
		if status.Error != "" {
			result = status.Error
		}
		tw.AppendRow(table.Row{
			shortID(status.ID),
			status.Topic,
			status.StatusLabel,
			fmt.Sprintf("%d%%", status.Progress),
			result,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
