package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/docgen/internal/types"
)

func TestRender(t *testing.T) {
	agg := types.NewAggregate(types.Metadata{CrawledAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)})

	s := types.NewSection("국내 기사", "https://news.deepsearch.com/api/#articles")
	s.Description = "Domestic article search."
	s.Endpoints = []types.Endpoint{{Method: "GET", Path: "/articles", Description: "Search", FullURL: "https://api.example.com/articles"}}
	s.Parameters.Set("keyword", types.Parameter{Type: "string", Description: "search | keyword", Required: true})
	s.Parameters.Set("page", types.Parameter{Type: "integer"})
	for i := 1; i <= 5; i++ {
		s.Examples = append(s.Examples, types.CodeExample{
			ID: fmt.Sprintf("example_%d", i), Language: "bash", Code: fmt.Sprintf("curl example %d", i),
		})
	}
	agg.Add(s)
	agg.Add(types.FailedSection("브리핑", "https://news.deepsearch.com/api/#briefing", errors.New("navigation timeout")))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "Deepsearch API", agg))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Deepsearch API\n\n**Crawled at**: 2024-05-01 09:00:00"))
	assert.Contains(t, out, "## 국내 기사\n\n**URL**: https://news.deepsearch.com/api/#articles")
	assert.Contains(t, out, "#### `GET` /articles\n\nSearch\n\n**Full URL**: `https://api.example.com/articles`")
	assert.Contains(t, out, "| `keyword` | string | yes | search \\| keyword |")
	assert.Contains(t, out, "| `page` | integer | no |  |")
	assert.Contains(t, out, "```bash\ncurl example 3\n```")
	assert.NotContains(t, out, "curl example 4")
	assert.Contains(t, out, "## 브리핑 (failed)\n\nError: navigation timeout")
}

func TestRenderMultiLineText(t *testing.T) {
	agg := types.NewAggregate(types.Metadata{})
	s := types.NewSection("국내\n기사", "")
	s.Endpoints = []types.Endpoint{{Method: "GET", Path: "/articles\n(deprecated)"}}
	s.Parameters.Set("page\nsize", types.Parameter{Type: "integer", Description: "results\nper page"})
	agg.Add(s)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "API", agg))
	out := buf.String()

	assert.Contains(t, out, "## 국내 기사\n\n")
	assert.Contains(t, out, "#### `GET` /articles (deprecated)\n\n")
	assert.Contains(t, out, "| `page size` | integer | no | results per page |")
}
