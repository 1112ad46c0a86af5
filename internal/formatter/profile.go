package formatter

import (
	"bytes"
	"fmt"

	"github.com/desertthunder/brain/internal/models"
)

func dateRange(start models.Date, end *models.Date) string {
	if end == nil || end.IsZero() {
		return start.String() + " - present"
	}
	return start.String() + " - " + end.String()
}

// ProfileToMarkdown renders a portfolio profile as a markdown document. Empty sections are omitted.
func ProfileToMarkdown(p models.Profile) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.DisplayName("Anonymous"))

	if s := deref(p.ElevatorPitch); s != "" {
		fmt.Fprintf(&buf, "> %s\n\n", s)
	}
	if s := deref(p.Bio); s != "" {
		fmt.Fprintf(&buf, "%s\n\n", s)
	}

	if email, phone := deref(p.BusinessEmail), deref(p.PhoneNumber); email != "" || phone != "" {
		buf.WriteString("## Contact\n\n")
		if email != "" {
			fmt.Fprintf(&buf, "- **Email**: %s\n", email)
		}
		if phone != "" {
			fmt.Fprintf(&buf, "- **Phone**: %s\n", phone)
		}
		buf.WriteString("\n")
	}

	if len(p.Links) > 0 {
		buf.WriteString("## Links\n\n")
		for _, l := range p.Links {
			fmt.Fprintf(&buf, "- [%s](%s)\n", l.LinkType, l.URL)
		}
		buf.WriteString("\n")
	}

	if len(p.WorkExperiences) > 0 {
		buf.WriteString("## Experience\n\n")
		for _, w := range p.WorkExperiences {
			fmt.Fprintf(&buf, "### %s, %s\n\n", w.Role, w.CompanyName)
			fmt.Fprintf(&buf, "*%s*\n\n", dateRange(w.StartDate, w.EndDate))
			if s := deref(w.Description); s != "" {
				fmt.Fprintf(&buf, "%s\n\n", s)
			}
		}
	}

	if len(p.Educations) > 0 {
		buf.WriteString("## Education\n\n")
		for _, e := range p.Educations {
			fmt.Fprintf(&buf, "### %s\n\n", e.InstitutionName)
			fmt.Fprintf(&buf, "%s, %s\n\n", e.Degree, e.FieldOfStudy)
			fmt.Fprintf(&buf, "*%s*\n\n", dateRange(e.StartDate, e.EndDate))
			if s := deref(e.Description); s != "" {
				fmt.Fprintf(&buf, "%s\n\n", s)
			}
		}
	}

	if len(p.Media) > 0 {
		buf.WriteString("## Media\n\n")
		for _, m := range p.Media {
			title := deref(m.Title)
			if title == "" {
				title = m.MediaType
			}
			fmt.Fprintf(&buf, "- [%s](%s)", title, m.URL)
			if s := deref(m.Description); s != "" {
				fmt.Fprintf(&buf, ": %s", s)
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	if len(p.CodeSnippets) > 0 {
		buf.WriteString("## Code\n\n")
		for _, c := range p.CodeSnippets {
			fmt.Fprintf(&buf, "### %s\n\n```%s\n%s\n```\n\n", c.Title, c.Language, c.Code)
		}
	}

	return buf.Bytes(), nil
}

// PublicProfilesToText renders the public profile directory, one profile per line.
func PublicProfilesToText(profiles []models.PublicProfile) []byte {
	var buf bytes.Buffer
	for _, p := range profiles {
		fmt.Fprintf(&buf, "%s  %s", p.UserID, p.DisplayName())
		if s := deref(p.ElevatorPitch); s != "" {
			fmt.Fprintf(&buf, "  %s", s)
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}
