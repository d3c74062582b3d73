// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package report turns a computed schedule into the ordered table consumed by
// reporting collaborators. Rows are restricted to the critical path and
// ordered by schedule position; for an edgeless snapshot every row starts at
// zero and the longest tasks lead, which the duration tie-break provides.
package report

import (
	"fmt"
	"io"
	"sort"

	"plancore/pkg/types"
)

// Row is one critical-path entry of the schedule table.
type Row struct {
	TaskID         string  `json:"task_id"`
	DurationHours  float64 `json:"duration_hours"`
	EarliestStart  float64 `json:"earliest_start"`
	EarliestFinish float64 `json:"earliest_finish"`
	LatestStart    float64 `json:"latest_start"`
	LatestFinish   float64 `json:"latest_finish"`
	Slack          float64 `json:"slack"`
}

// Table is the schedule view handed to reporting collaborators.
type Table struct {
	Rows          []Row   `json:"rows"`
	TotalDuration float64 `json:"total_duration"`
	Degraded      bool    `json:"degraded"`
}

// BuildTable extracts the critical-path rows of a schedule, ordered by
// earliest start with longer tasks first among equal starts.
func BuildTable(s *types.Schedule) Table {
	rows := make([]Row, 0, len(s.CriticalPath))
	for _, st := range s.Tasks {
		if !st.Critical {
			continue
		}
		rows = append(rows, Row{
			TaskID:         st.TaskID,
			DurationHours:  st.EarliestFinish - st.EarliestStart,
			EarliestStart:  st.EarliestStart,
			EarliestFinish: st.EarliestFinish,
			LatestStart:    st.LatestStart,
			LatestFinish:   st.LatestFinish,
			Slack:          st.Slack,
		})
	}
	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].EarliestStart != rows[b].EarliestStart {
			return rows[a].EarliestStart < rows[b].EarliestStart
		}
		return rows[a].DurationHours > rows[b].DurationHours
	})

	return Table{
		Rows:          rows,
		TotalDuration: s.TotalDuration,
		Degraded:      s.Degraded,
	}
}

// WriteText renders the table for terminal consumption.
func WriteText(w io.Writer, t Table) {
	if t.Degraded {
		fmt.Fprintln(w, "WARNING: dependency graph contains a cycle; schedule computed with fallback ordering")
	}
	fmt.Fprintf(w, "%-20s %8s %8s %8s %8s %8s\n", "TASK", "HOURS", "ES", "EF", "LS", "LF")
	for _, row := range t.Rows {
		fmt.Fprintf(w, "%-20s %8.1f %8.1f %8.1f %8.1f %8.1f\n",
			row.TaskID, row.DurationHours,
			row.EarliestStart, row.EarliestFinish,
			row.LatestStart, row.LatestFinish)
	}
	fmt.Fprintf(w, "\nTotal project duration: %.1f hours\n", t.TotalDuration)
}
