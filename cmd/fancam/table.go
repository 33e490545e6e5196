package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"fancam/internal/assign"
)

// renderPlanTable renders the folder plan grouped by target folder, one row
// per video, with a per-folder video count in the footer column.
func renderPlanTable(plan assign.Plan) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Folder", "Videos", "Video"})

	counts := plan.Counts()
	byFolder := make(map[string][]string, len(counts))
	for _, video := range plan.Videos() {
		folder := plan[video]
		byFolder[folder] = append(byFolder[folder], video)
	}

	for _, folder := range plan.Folders() {
		for i, video := range byFolder[folder] {
			if i == 0 {
				tw.AppendRow(table.Row{folder, strconv.Itoa(counts[folder]), video})
				continue
			}
			tw.AppendRow(table.Row{"", "", video})
		}
		tw.AppendSeparator()
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
