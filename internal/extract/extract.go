// Package extract turns a rendered documentation page into a types.Section.
//
// Extraction is heuristic and never fails: a page without any recognisable
// structure yields a section with empty collections.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/go-scripts/docgen/internal/types"
)

// Extractor applies the extraction rules to rendered HTML.
type Extractor struct {
	baseURL string
}

// New creates an Extractor that resolves relative endpoint paths against baseURL.
func New(baseURL string) *Extractor {
	return &Extractor{baseURL: baseURL}
}

// Extract parses page and returns the section named name.
func (e *Extractor) Extract(name, pageURL string, page []byte) types.Section {
	section := types.NewSection(name, pageURL)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return section
	}
	root := searchRoot(doc)
	if root.Length() == 0 {
		return section
	}
	idx := newDocumentIndex(doc.Get(0))

	section.Description = description(root)
	section.Endpoints = e.endpoints(root, idx)
	section.Examples = examples(root, idx)
	section.Parameters = parameters(root)
	section.RawContent = strippedText(root.Get(0), "\n")
	return section
}

func searchRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range ContentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

func description(root *goquery.Selection) string {
	for _, sel := range DescriptionSelectors {
		cand := root.Find(sel).First()
		if cand.Length() == 0 {
			continue
		}
		if text := strippedText(cand.Get(0), ""); IsValidDescription(text) {
			return text
		}
	}
	return ""
}

func (e *Extractor) endpoints(root *goquery.Selection, idx *documentIndex) []types.Endpoint {
	var found []types.Endpoint

	root.Find("code, pre").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		for _, m := range MatchInlineEndpoints(rawText(node)) {
			found = append(found, types.Endpoint{
				Method:      m[0],
				Path:        m[1],
				Description: idx.nearbyDescription(node),
				FullURL:     FullURL(e.baseURL, m[1]),
			})
		}
	})

	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		eachBodyRow(table, func(_ *html.Node, cells []string) {
			if ep, ok := EndpointFromRow(cells, e.baseURL); ok {
				found = append(found, ep)
			}
		})
	})

	return DedupeEndpoints(found)
}

func examples(root *goquery.Selection, idx *documentIndex) []types.CodeExample {
	out := []types.CodeExample{}
	root.Find("pre, code").Each(func(i int, s *goquery.Selection) {
		node := s.Get(0)
		code := strippedText(node, "")
		if !IsValidExample(code) {
			return
		}
		out = append(out, types.CodeExample{
			ID:          fmt.Sprintf("example_%d", i+1),
			Language:    DetectLanguage(code),
			Code:        code,
			Description: idx.nearbyDescription(node),
		})
	})
	return out
}

func parameters(root *goquery.Selection) *types.ParameterSet {
	params := types.NewParameterSet()
	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		var headers []string
		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, strings.ToLower(strippedText(th.Get(0), "")))
		})
		if !IsParameterTable(headers) {
			return
		}
		eachBodyRow(table, func(row *html.Node, cells []string) {
			if name, p, ok := ParameterFromRow(cells, rawText(row)); ok {
				params.Set(name, p)
			}
		})
	})
	return params
}

// eachBodyRow calls fn with the stripped td texts of every row after the first.
func eachBodyRow(table *goquery.Selection, fn func(row *html.Node, cells []string)) {
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strippedText(td.Get(0), ""))
		})
		fn(tr.Get(0), cells)
	})
}
