package types

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// HTTP verbs recognised in documentation pages.
var Verbs = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

// Endpoint is a single operation discovered on a documentation page
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	FullURL     string `json:"full_url"`
}

// Key identifies an endpoint within a section.
func (e Endpoint) Key() string {
	return e.Method + " " + e.Path
}

// Parameter describes one row of a parameter table
type Parameter struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ParameterSet keeps parameters in the order they were first seen.
// Setting an existing name overwrites its value but keeps its position.
type ParameterSet = orderedmap.OrderedMap[string, Parameter]

// NewParameterSet returns an empty ParameterSet
func NewParameterSet() *ParameterSet {
	return orderedmap.New[string, Parameter]()
}

// CodeExample is a code block lifted from a documentation page
type CodeExample struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Section holds everything extracted from one documentation page.
// A failed section carries only its name, URL and Error.
type Section struct {
	Name        string        `json:"title"`
	URL         string        `json:"url"`
	Description string        `json:"description"`
	Endpoints   []Endpoint    `json:"endpoints"`
	Parameters  *ParameterSet `json:"parameters"`
	Examples    []CodeExample `json:"examples"`
	RawContent  string        `json:"raw_content"`
	Error       string        `json:"error,omitempty"`
}

// NewSection returns a section with empty, non-nil collections
func NewSection(name, url string) Section {
	return Section{
		Name:       name,
		URL:        url,
		Endpoints:  []Endpoint{},
		Parameters: NewParameterSet(),
		Examples:   []CodeExample{},
	}
}

// FailedSection returns the record stored for a section that could not be crawled
func FailedSection(name, url string, err error) Section {
	s := NewSection(name, url)
	s.Error = err.Error()
	return s
}

// Failed reports whether the section carries an error instead of content
func (s Section) Failed() bool {
	return s.Error != ""
}

// ParameterNames returns parameter names in insertion order
func (s Section) ParameterNames() []string {
	if s.Parameters == nil {
		return nil
	}
	names := make([]string, 0, s.Parameters.Len())
	for pair := s.Parameters.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// SectionMap keeps sections in crawl order.
type SectionMap = orderedmap.OrderedMap[string, Section]

// Metadata describes a crawl run
type Metadata struct {
	CrawledAt     time.Time `json:"crawled_at"`
	BaseURL       string    `json:"base_url"`
	TotalSections int       `json:"total_sections"`
	RunID         string    `json:"run_id"`
}

// Aggregate is the complete result of a crawl
type Aggregate struct {
	Metadata Metadata    `json:"metadata"`
	Sections *SectionMap `json:"sections"`
}

// NewAggregate returns an aggregate with an empty section map
func NewAggregate(meta Metadata) *Aggregate {
	return &Aggregate{
		Metadata: meta,
		Sections: orderedmap.New[string, Section](),
	}
}

// Add stores a section under its name and updates the section count
func (a *Aggregate) Add(s Section) {
	a.Sections.Set(s.Name, s)
	a.Metadata.TotalSections = a.Sections.Len()
}

// Each calls fn for every section in crawl order
func (a *Aggregate) Each(fn func(Section)) {
	if a.Sections == nil {
		return
	}
	for pair := a.Sections.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Value)
	}
}
