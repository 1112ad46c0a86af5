package formatter

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/brain/internal/models"
	th "github.com/desertthunder/brain/internal/testing"
)

func strPtr(s string) *string { return &s }

func exportFixture() ([]models.Goal, []models.GoalType) {
	due := models.NewTimestamp(time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC))
	types := []models.GoalType{
		{ID: "t1", Name: "Health"},
		{ID: "t2", Name: "Work"},
	}
	goals := []models.Goal{
		{ID: "g1", TypeID: "t1", Name: "Run 5k", Status: models.StatusActive, Priority: models.PriorityHigh, DueDate: &due, Notify: true, Summary: strPtr("Before breakfast")},
		{ID: "g2", TypeID: "t2", Name: "Ship release", Status: models.StatusDone, Priority: models.PriorityLow},
		{ID: "g3", TypeID: "t1", Name: "Sleep early", Status: models.StatusActive, Priority: models.PriorityNone},
	}
	return goals, types
}

func TestGoalExporters(t *testing.T) {
	goals, types := exportFixture()

	t.Run("GoalsToCSV", func(t *testing.T) {
		data, err := GoalsToCSV(goals, types)
		if err != nil {
			t.Fatalf("GoalsToCSV failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "ID,Name,Type,Status,Priority,Due Date,Notify,Summary") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "g1,Run 5k,Health,active,High,2025-01-02T09:30:00.000Z,true,Before breakfast") {
			t.Errorf("CSV missing g1 row, got: %s", output)
		}
		if !strings.Contains(output, "g2,Ship release,Work,done,Low,,false,") {
			t.Errorf("CSV missing g2 row, got: %s", output)
		}
	})

	t.Run("GoalsToMarkdown", func(t *testing.T) {
		data, err := GoalsToMarkdown(goals, types)
		if err != nil {
			t.Fatalf("GoalsToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Goals",
			"**Total**: 3",
			"## Health",
			"## Work",
			"- [ ] Run 5k (High, due 2025-01-02T09:30:00.000Z)",
			"  - Before breakfast",
			"- [x] ~~Ship release~~ (Low)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q, got:\n%s", want, output)
			}
		}
		if strings.Index(output, "## Health") > strings.Index(output, "## Work") {
			t.Error("type sections should follow first appearance")
		}
		if strings.Count(output, "## Health") != 1 {
			t.Error("goals of one type should share a section")
		}
	})

	t.Run("GoalsToText", func(t *testing.T) {
		data, err := GoalsToText(goals, types)
		if err != nil {
			t.Fatalf("GoalsToText failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "Goals: 3") {
			t.Errorf("text missing count, got: %s", output)
		}
		if !strings.Contains(output, "1. [active] Run 5k - Health - High - due 2025-01-02T09:30:00.000Z") {
			t.Errorf("text missing first goal, got: %s", output)
		}
		if !strings.Contains(output, "2. [done] Ship release - Work - Low\n") {
			t.Errorf("text missing second goal, got: %s", output)
		}
	})

	t.Run("unknown type falls back to id", func(t *testing.T) {
		data, _ := GoalsToText([]models.Goal{{ID: "g", TypeID: "orphan", Name: "x", Status: models.StatusActive, Priority: models.PriorityNone}}, nil)
		if !strings.Contains(string(data), "x - orphan - None") {
			t.Errorf("unexpected output: %s", data)
		}
	})

	t.Run("ExportGoals", func(t *testing.T) {
		for _, format := range []string{"", FormatText, FormatMarkdown, "md", FormatCSV, FormatJSON} {
			if _, err := ExportGoals(goals, types, format); err != nil {
				t.Errorf("format %q failed: %v", format, err)
			}
		}
		if _, err := ExportGoals(goals, types, "xml"); err == nil {
			t.Error("expected error for unsupported format")
		}
	})

	t.Run("WriteFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "goals.md")
		data, _ := GoalsToMarkdown(goals, types)
		if err := WriteFile(path, data); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if got := th.MustReadFile(t, path); got != string(data) {
			t.Error("file content mismatch")
		}
	})

	t.Run("WriteFile to missing directory", func(t *testing.T) {
		if err := WriteFile(filepath.Join(t.TempDir(), "nope", "x.txt"), nil); err == nil {
			t.Error("expected error")
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	t.Run("pretty", func(t *testing.T) {
		data, err := MarshalJSON(map[string]int{"a": 1}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "{\n  \"a\": 1\n}\n" {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("compact", func(t *testing.T) {
		data, _ := MarshalJSON([]int{1, 2}, false)
		if string(data) != "[1,2]\n" {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("unsupported value", func(t *testing.T) {
		if _, err := MarshalJSON(make(chan int), false); err == nil {
			t.Error("expected error")
		}
	})
}

func TestProfileToMarkdown(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		end := models.Date{Time: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}
		p := models.Profile{
			UserID: "u1",
			ProfileData: models.ProfileData{
				FirstName:     strPtr("Ada"),
				LastName:      strPtr("Lovelace"),
				ElevatorPitch: strPtr("Engines"),
				BusinessEmail: strPtr("ada@example.com"),
				Links:         []models.Link{{LinkType: "github", URL: "https://github.com/ada"}},
				WorkExperiences: []models.WorkExperience{{
					CompanyName: "Analytical",
					Role:        "Engineer",
					StartDate:   models.Date{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
					EndDate:     &end,
				}},
				Educations: []models.Education{{
					InstitutionName: "Home",
					Degree:          "BSc",
					FieldOfStudy:    "Maths",
					StartDate:       models.Date{Time: time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC)},
				}},
				Media:        []models.Media{{MediaType: "image", URL: "https://x/y.png"}},
				CodeSnippets: []models.CodeSnippet{{Title: "Hello", Language: "go", Code: "fmt.Println()"}},
			},
		}

		data, err := ProfileToMarkdown(p)
		if err != nil {
			t.Fatalf("ProfileToMarkdown failed: %v", err)
		}
		output := string(data)
		for _, want := range []string{
			"# Ada Lovelace",
			"> Engines",
			"- **Email**: ada@example.com",
			"- [github](https://github.com/ada)",
			"### Engineer, Analytical",
			"*2020-01-01 - 2023-06-01*",
			"*2015-09-01 - present*",
			"- [image](https://x/y.png)",
			"```go\nfmt.Println()\n```",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("empty profile", func(t *testing.T) {
		data, _ := ProfileToMarkdown(models.Profile{})
		if string(data) != "# Anonymous\n\n" {
			t.Errorf("unexpected output %q", data)
		}
	})
}

func TestPublicProfilesToText(t *testing.T) {
	out := string(PublicProfilesToText([]models.PublicProfile{
		{UserID: "u1", FirstName: strPtr("Ada"), ElevatorPitch: strPtr("Engines")},
		{UserID: "u2"},
	}))
	if out != "u1  Ada  Engines\nu2  u2\n" {
		t.Errorf("unexpected output %q", out)
	}
}
