// Package analysis summarises a crawl aggregate.
package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/go-scripts/docgen/internal/types"
)

// SectionSummary is the per-section entry of a Report
type SectionSummary struct {
	Name          string              `json:"name"`
	EndpointCount int                 `json:"endpoint_count"`
	Endpoints     []types.Endpoint    `json:"endpoints"`
	Parameters    *types.ParameterSet `json:"parameters"`
	Examples      []types.CodeExample `json:"examples"`
}

// EndpointRef is an endpoint tagged with the section it came from
type EndpointRef struct {
	Section string `json:"section"`
	types.Endpoint
}

// Report is the analysis written next to the generated client
type Report struct {
	Sections         *orderedmap.OrderedMap[string, SectionSummary] `json:"sections"`
	TotalEndpoints   int                                            `json:"total_endpoints"`
	EndpointSummary  []EndpointRef                                  `json:"endpoint_summary"`
	BaseURL          string                                         `json:"base_url"`
	CommonParameters []string                                       `json:"common_parameters"`
}

var originPattern = regexp.MustCompile(`^(https?://[^/]+)`)

// LoadAggregate reads a crawl aggregate from path.
func LoadAggregate(path string) (*types.Aggregate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read aggregate: %w", err)
	}
	agg := types.NewAggregate(types.Metadata{})
	if err := json.Unmarshal(data, agg); err != nil {
		return nil, fmt.Errorf("failed to decode aggregate %s: %w", path, err)
	}
	if agg.Sections == nil {
		agg.Sections = types.NewAggregate(types.Metadata{}).Sections
	}
	// failed sections may be stored as a bare {"error": ...} object
	for pair := agg.Sections.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Name == "" {
			pair.Value.Name = pair.Key
		}
	}
	return agg, nil
}

// Analyze builds the report for every successful section of agg.
func Analyze(agg *types.Aggregate, fallbackBaseURL string) *Report {
	report := &Report{
		Sections:         orderedmap.New[string, SectionSummary](),
		EndpointSummary:  []EndpointRef{},
		CommonParameters: []string{},
		BaseURL:          BaseURL(agg, fallbackBaseURL),
	}
	common := make(map[string]bool)

	agg.Each(func(s types.Section) {
		if s.Failed() {
			return
		}
		endpoints := s.Endpoints
		if endpoints == nil {
			endpoints = []types.Endpoint{}
		}
		params := s.Parameters
		if params == nil {
			params = types.NewParameterSet()
		}
		examples := s.Examples
		if examples == nil {
			examples = []types.CodeExample{}
		}

		report.Sections.Set(s.Name, SectionSummary{
			Name:          s.Name,
			EndpointCount: len(endpoints),
			Endpoints:     endpoints,
			Parameters:    params,
			Examples:      examples,
		})
		report.TotalEndpoints += len(endpoints)
		for _, ep := range endpoints {
			report.EndpointSummary = append(report.EndpointSummary, EndpointRef{Section: s.Name, Endpoint: ep})
		}
		for _, name := range s.ParameterNames() {
			common[name] = true
		}
	})

	for name := range common {
		report.CommonParameters = append(report.CommonParameters, name)
	}
	sort.Strings(report.CommonParameters)
	return report
}

// BaseURL returns the origin of the first endpoint of the first successful
// section that has endpoints, or fallback when none yields an origin.
func BaseURL(agg *types.Aggregate, fallback string) string {
	base := ""
	agg.Each(func(s types.Section) {
		if base != "" || s.Failed() || len(s.Endpoints) == 0 {
			return
		}
		if m := originPattern.FindStringSubmatch(s.Endpoints[0].FullURL); m != nil {
			base = m[1]
		}
	})
	if base == "" {
		return fallback
	}
	return base
}
