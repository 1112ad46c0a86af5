package formatter

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

const (
	emptyText         = "No text to display."
	defaultPrintTitle = "Processed Video"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Applied in order after escaping. Bold runs before italic so ** is consumed first.
var markdownRules = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`(?m)^### (.*)$`), "<h3>${1}</h3>"},
	{regexp.MustCompile(`(?m)^## (.*)$`), "<h2>${1}</h2>"},
	{regexp.MustCompile(`(?m)^# (.*)$`), "<h1>${1}</h1>"},
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "<strong>${1}</strong>"},
	{regexp.MustCompile(`__(.*?)__`), "<strong>${1}</strong>"},
	{regexp.MustCompile(`\*(.*?)\*`), "<em>${1}</em>"},
	{regexp.MustCompile(`_(.*?)_`), "<em>${1}</em>"},
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`), `<a href="${2}" target="_blank">${1}</a>`},
}

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// RenderMarkdown converts a small markdown subset to HTML for printing.
//
// Supported: headings (#, ##, ###), bold, italic, links, paragraphs and line breaks. Everything is HTML-escaped
// first, so raw HTML in text is shown literally.
func RenderMarkdown(text string) string {
	out := htmlEscaper.Replace(text)
	for _, rule := range markdownRules {
		out = rule.pattern.ReplaceAllString(out, rule.repl)
	}

	var b strings.Builder
	for _, p := range paragraphBreak.Split(out, -1) {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(p, "\n", "<br />"))
		b.WriteString("</p>")
	}
	return b.String()
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Full Text - {{.Title}}</title>
    <style>
      body {
        font-family: system-ui, -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
        line-height: 1.6;
        padding: 20px;
        margin: 0;
        background-color: #fdfdfd;
        color: #333;
      }
      main {
        word-wrap: break-word;
        margin: 0 auto;
        max-width: 800px;
        background-color: #fff;
        padding: 20px;
        border-radius: 8px;
        box-shadow: 0 2px 10px rgba(0,0,0,0.1);
      }
      h1, h2, h3 { margin-top: 1.5em; margin-bottom: 0.5em; line-height: 1.2; }
      p { margin-bottom: 1em; }
      .source { color: #777; font-size: 0.9rem; }
      a { color: #007bff; text-decoration: none; }
      a:hover { text-decoration: underline; }
      @media (prefers-color-scheme: dark) {
        body { background-color: #1a1a1a; color: #e0e0e0; }
        main { background-color: #2c2c2c; box-shadow: 0 2px 10px rgba(0,0,0,0.3); }
        a { color: #6bbaff; }
      }
      @media print {
        body { background: none; padding: 0; }
        main { box-shadow: none; }
      }
    </style>
  </head>
  <body>
    <main>
      {{- if .Source}}
      <p class="source">Source: {{.Source}}</p>
      {{- end}}
      {{.Body}}
    </main>
  </body>
</html>
`))

// PrintDocument renders text as a standalone HTML page titled after the video.
func PrintDocument(title, source, text string) ([]byte, error) {
	if strings.TrimSpace(title) == "" {
		title = defaultPrintTitle
	}
	if strings.TrimSpace(text) == "" {
		text = emptyText
	}

	data := struct {
		Title  string
		Source string
		Body   template.HTML
	}{
		Title:  title,
		Source: source,
		Body:   template.HTML(RenderMarkdown(text)),
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render print document: %w", err)
	}
	return buf.Bytes(), nil
}
