package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/docgen/internal/types"
)

func sampleAggregate() *types.Aggregate {
	agg := types.NewAggregate(types.Metadata{BaseURL: "https://api.example.com"})

	articles := types.NewSection("국내 기사", "https://api.example.com/docs#articles")
	articles.Endpoints = []types.Endpoint{
		{Method: "GET", Path: "/v1/articles"},
		{Method: "GET", Path: "/v1/articles/{id}"},
	}
	articles.Parameters.Set("keyword", types.Parameter{Type: "string", Required: true})
	articles.Parameters.Set("page_size", types.Parameter{Type: "integer"})
	articles.Examples = []types.CodeExample{{ID: "1", Language: "bash", Code: "curl https://api.example.com"}}
	agg.Add(articles)

	agg.Add(types.FailedSection("브리핑", "https://api.example.com/docs#briefing", errors.New("timeout")))
	return agg
}

func TestStats(t *testing.T) {
	stats := Stats(sampleAggregate(), 90*time.Second, "out")

	assert.Equal(t, 2, stats.Sections)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, stats.Endpoints)
	assert.Equal(t, 2, stats.Parameters)
	assert.Equal(t, 1, stats.Examples)
	assert.Equal(t, []string{"브리핑: timeout"}, stats.Failures)
}

func TestSummaryPanel(t *testing.T) {
	panel := SummaryPanel(Stats(sampleAggregate(), 90*time.Second, "out"))

	assert.Contains(t, panel, "Crawl Summary")
	assert.Contains(t, panel, "50.0% (1/2)")
	assert.Contains(t, panel, "00:01:30")
	assert.Contains(t, panel, "브리핑: timeout")
}

func TestSectionDetail(t *testing.T) {
	agg := sampleAggregate()
	s, _ := agg.Sections.Get("국내 기사")

	out := SectionDetail(s, 80)
	assert.Contains(t, out, "/v1/articles/{id}")
	assert.Contains(t, out, "keyword *")
	assert.Contains(t, out, "page_size (integer)")

	failed, _ := agg.Sections.Get("브리핑")
	assert.Contains(t, SectionDetail(failed, 80), "Error: timeout")
}

func TestExplorerNavigation(t *testing.T) {
	e := NewExplorer("Example API", sampleAggregate())
	e.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	s, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, "국내 기사", s.Name)
	assert.Contains(t, e.View(), "/v1/articles")

	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	s, ok = e.Selected()
	require.True(t, ok)
	assert.Equal(t, "브리핑", s.Name)

	_, cmd := e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	assert.True(t, quit)
}

func TestExplorerEmpty(t *testing.T) {
	e := NewExplorer("Empty", types.NewAggregate(types.Metadata{}))
	_, ok := e.Selected()
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "국내...", truncate("국내 기사 검색", 5))
}
