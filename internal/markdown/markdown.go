// Package markdown renders a crawl aggregate as a single Markdown document.
package markdown

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-scripts/docgen/internal/types"
)

// MaxExamples is the number of code examples rendered per section.
const MaxExamples = 3

// Render writes the Markdown document for agg to w.
func Render(w io.Writer, title string, agg *types.Aggregate) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Crawled at**: %s\n\n", agg.Metadata.CrawledAt.Format(time.DateTime))
	b.WriteString("---\n\n")

	agg.Each(func(s types.Section) {
		if s.Failed() {
			fmt.Fprintf(&b, "## %s (failed)\n\n", oneLine(s.Name))
			fmt.Fprintf(&b, "Error: %s\n\n", s.Error)
			return
		}
		writeSection(&b, s)
	})

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, s types.Section) {
	fmt.Fprintf(b, "## %s\n\n", oneLine(s.Name))
	fmt.Fprintf(b, "**URL**: %s\n\n", orNA(s.URL))

	if s.Description != "" {
		b.WriteString("### Description\n\n")
		fmt.Fprintf(b, "%s\n\n", s.Description)
	}

	if len(s.Endpoints) > 0 {
		b.WriteString("### Endpoints\n\n")
		for _, ep := range s.Endpoints {
			fmt.Fprintf(b, "#### `%s` %s\n\n", ep.Method, oneLine(ep.Path))
			if ep.Description != "" {
				fmt.Fprintf(b, "%s\n\n", ep.Description)
			}
			fmt.Fprintf(b, "**Full URL**: `%s`\n\n", orNA(oneLine(ep.FullURL)))
		}
	}

	if s.Parameters != nil && s.Parameters.Len() > 0 {
		b.WriteString("### Parameters\n\n")
		b.WriteString("| Parameter | Type | Required | Description |\n")
		b.WriteString("|-----------|------|----------|-------------|\n")
		for pair := s.Parameters.Oldest(); pair != nil; pair = pair.Next() {
			required := "no"
			if pair.Value.Required {
				required = "yes"
			}
			fmt.Fprintf(b, "| `%s` | %s | %s | %s |\n",
				cell(pair.Key), cell(pair.Value.Type), required, cell(pair.Value.Description))
		}
		b.WriteString("\n")
	}

	if len(s.Examples) > 0 {
		b.WriteString("### Examples\n\n")
		for i, ex := range s.Examples {
			if i == MaxExamples {
				break
			}
			if ex.Description != "" {
				fmt.Fprintf(b, "**%s**\n\n", oneLine(ex.Description))
			}
			fmt.Fprintf(b, "```%s\n%s\n```\n\n", ex.Language, ex.Code)
		}
	}

	b.WriteString("---\n\n")
}

// cell escapes text for use inside a table cell.
func cell(s string) string {
	return oneLine(strings.ReplaceAll(s, "|", `\|`))
}

// oneLine collapses every run of whitespace, line breaks included, to one space.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
