package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-scripts/docgen/internal/types"
)

// CrawlStats holds the totals of a finished crawl
type CrawlStats struct {
	Sections   int
	Failed     int
	Endpoints  int
	Parameters int
	Examples   int
	Elapsed    time.Duration
	OutputDir  string
	Failures   []string
}

// Stats counts what a crawl produced
func Stats(agg *types.Aggregate, elapsed time.Duration, outputDir string) CrawlStats {
	stats := CrawlStats{Elapsed: elapsed, OutputDir: outputDir}
	agg.Each(func(s types.Section) {
		stats.Sections++
		if s.Failed() {
			stats.Failed++
			stats.Failures = append(stats.Failures, s.Name+": "+s.Error)
			return
		}
		stats.Endpoints += len(s.Endpoints)
		stats.Parameters += s.Parameters.Len()
		stats.Examples += len(s.Examples)
	})
	return stats
}

// SummaryPanel renders stats as a bordered panel
func SummaryPanel(stats CrawlStats) string {
	success := 0.0
	if stats.Sections > 0 {
		success = float64(stats.Sections-stats.Failed) / float64(stats.Sections) * 100
	}

	rows := []struct {
		label string
		value string
	}{
		{"Sections", fmt.Sprintf("%d", stats.Sections)},
		{"Success Rate", fmt.Sprintf("%.1f%% (%d/%d)", success, stats.Sections-stats.Failed, stats.Sections)},
		{"Endpoints", fmt.Sprintf("%d", stats.Endpoints)},
		{"Parameters", fmt.Sprintf("%d", stats.Parameters)},
		{"Examples", fmt.Sprintf("%d", stats.Examples)},
		{"Elapsed Time", formatElapsed(stats.Elapsed)},
		{"Output", stats.OutputDir},
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("Crawl Summary") + "\n\n")
	for _, row := range rows {
		fmt.Fprintf(&content, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", row.label+":")), valueStyle.Render(row.value))
	}

	if len(stats.Failures) > 0 {
		content.WriteString("\n" + warningStyle.Render("Failed sections:") + "\n")
		for _, f := range stats.Failures {
			content.WriteString(errorStyle.Render("• "+f) + "\n")
		}
	}

	return borderStyle.Padding(0, 1).Render(strings.TrimRight(content.String(), "\n"))
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d:%02d",
		int(d.Hours()),
		int(d.Minutes())%60,
		int(d.Seconds())%60,
	)
}
