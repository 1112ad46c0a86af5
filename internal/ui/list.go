package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/brain/internal/models"
)

var _ list.Item = goalItem{}

// goalItem wraps [models.Goal] to implement [list.Item].
type goalItem struct {
	goal     models.Goal
	typeName string
}

func (i goalItem) FilterValue() string { return i.goal.Name }
func (i goalItem) Title() string {
	if i.goal.IsDone() {
		return styles.done.Render(i.goal.Name)
	}
	return i.goal.Name
}
func (i goalItem) Description() string {
	parts := []string{string(i.goal.Priority)}
	if i.typeName != "" {
		parts = append(parts, i.typeName)
	}
	if i.goal.DueDate != nil {
		due := "due " + i.goal.DueDate.Local().Format("2006-01-02 15:04")
		if i.goal.Notify {
			due += " 🔔"
		}
		parts = append(parts, due)
	}
	if i.goal.Summary != nil && *i.goal.Summary != "" {
		parts = append(parts, *i.goal.Summary)
	}
	return strings.Join(parts, " • ")
}

// substringFilter is a [list.FilterFunc] that keeps targets containing term, ignoring case, in their original
// order. Matched indexes are rune offsets into the original target.
func substringFilter(term string, targets []string) []list.Rank {
	needle := []rune(term)
	ranks := []list.Rank{}
	for i, target := range targets {
		start := foldIndex([]rune(target), needle)
		if start < 0 {
			continue
		}
		matched := make([]int, len(needle))
		for j := range matched {
			matched[j] = start + j
		}
		ranks = append(ranks, list.Rank{Index: i, MatchedIndexes: matched})
	}
	return ranks
}

// foldIndex returns the rune offset of the first case-insensitive occurrence of needle in hay, or -1.
func foldIndex(hay, needle []rune) int {
outer:
	for start := 0; start+len(needle) <= len(hay); start++ {
		for j, r := range needle {
			if unicode.ToLower(hay[start+j]) != unicode.ToLower(r) {
				continue outer
			}
		}
		return start
	}
	return -1
}

func goalItems(goals []models.Goal, types []models.GoalType, order models.SortOrder) []list.Item {
	names := make(map[string]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}

	sorted := models.SortGoals(goals, order)
	items := make([]list.Item, len(sorted))
	for i, g := range sorted {
		items[i] = goalItem{goal: g, typeName: names[g.TypeID]}
	}
	return items
}

func listTitle(order models.SortOrder, count int) string {
	return fmt.Sprintf("Goals (%d) • %s", count, order)
}
