// package formatter renders goals, profiles and processed video text for export and printing
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/brain/internal/models"
)

// Format names accepted by [ExportGoals].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// typeNames maps goal type ids to names. Unknown ids fall back to the id.
func typeNames(types []models.GoalType) func(string) string {
	names := make(map[string]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}
	return func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}
}

func dueString(g models.Goal) string {
	if g.DueDate == nil {
		return ""
	}
	return g.DueDate.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GoalsToCSV converts goals to CSV with columns: ID, Name, Type, Status, Priority, Due Date, Notify, Summary
func GoalsToCSV(goals []models.Goal, types []models.GoalType) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	typeName := typeNames(types)

	headers := []string{"ID", "Name", "Type", "Status", "Priority", "Due Date", "Notify", "Summary"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, g := range goals {
		record := []string{
			g.ID,
			g.Name,
			typeName(g.TypeID),
			string(g.Status),
			string(g.Priority),
			dueString(g),
			strconv.FormatBool(g.Notify),
			deref(g.Summary),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// GoalsToMarkdown renders goals as a markdown checklist grouped by type. Done goals are struck through.
func GoalsToMarkdown(goals []models.Goal, types []models.GoalType) ([]byte, error) {
	var buf bytes.Buffer
	typeName := typeNames(types)

	buf.WriteString("# Goals\n\n")
	fmt.Fprintf(&buf, "**Total**: %d\n\n", len(goals))

	order := []string{}
	grouped := map[string][]models.Goal{}
	for _, g := range goals {
		if _, ok := grouped[g.TypeID]; !ok {
			order = append(order, g.TypeID)
		}
		grouped[g.TypeID] = append(grouped[g.TypeID], g)
	}

	for _, typeID := range order {
		fmt.Fprintf(&buf, "## %s\n\n", typeName(typeID))
		for _, g := range grouped[typeID] {
			check, name := " ", g.Name
			if g.IsDone() {
				check, name = "x", "~~"+g.Name+"~~"
			}
			fmt.Fprintf(&buf, "- [%s] %s (%s", check, name, g.Priority)
			if due := dueString(g); due != "" {
				fmt.Fprintf(&buf, ", due %s", due)
			}
			buf.WriteString(")\n")
			if s := deref(g.Summary); s != "" {
				fmt.Fprintf(&buf, "  - %s\n", s)
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// GoalsToText renders goals as a numbered plain text list
func GoalsToText(goals []models.Goal, types []models.GoalType) ([]byte, error) {
	var buf bytes.Buffer
	typeName := typeNames(types)

	fmt.Fprintf(&buf, "Goals: %d\n\n", len(goals))
	for i, g := range goals {
		fmt.Fprintf(&buf, "%d. [%s] %s - %s - %s", i+1, g.Status, g.Name, typeName(g.TypeID), g.Priority)
		if due := dueString(g); due != "" {
			fmt.Fprintf(&buf, " - due %s", due)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportGoals renders goals in the named format.
func ExportGoals(goals []models.Goal, types []models.GoalType, format string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return GoalsToText(goals, types)
	case FormatMarkdown, "md":
		return GoalsToMarkdown(goals, types)
	case FormatCSV:
		return GoalsToCSV(goals, types)
	case FormatJSON:
		return MarshalJSON(goals, true)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile writes data to path, creating or truncating it.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
