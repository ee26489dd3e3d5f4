package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibzard/tasker/internal/task"
)

var csvHeader = []string{"ID", "Description", "Date", "Priority", "Category", "Status", "Notes", "Tags", "ProjectGroup", "ParentTask"}

// writeCSV writes one row per task followed by a row per subtask. Subtask
// rows carry the parent id in ParentTask.
func writeCSV(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for i := range tasks {
		t := &tasks[i]
		if err := cw.Write(csvRow(t, "")); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		parent := strconv.Itoa(t.ID)
		for j := range t.Subtasks {
			if err := cw.Write(csvRow(&t.Subtasks[j], parent)); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func csvRow(t *task.Task, parent string) []string {
	return []string{
		strconv.Itoa(t.ID),
		t.Description,
		t.DueDate,
		strconv.Itoa(t.Priority),
		t.Category,
		statusLabel(t),
		t.Notes,
		strings.Join(t.Tags, ";"),
		t.ProjectGroup,
		parent,
	}
}
