package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-scripts/docgen/internal/types"
)

// ContentSelectors locate the main documentation container, tried in order.
var ContentSelectors = []string{
	".api-content",
	".swagger-ui",
	".documentation",
	"article",
	"main",
	".content",
	"#api-docs",
}

// DescriptionSelectors locate a section summary, tried in order.
var DescriptionSelectors = []string{
	"p:first-of-type",
	".description",
	".intro",
	"h2 + p",
	"h1 + p",
}

// ParameterHeaderKeywords mark a table as a parameter table when found in its header text.
var ParameterHeaderKeywords = []string{"parameter", "param", "파라미터", "name", "type"}

// NearbyTags are the elements searched backwards for an endpoint or example description.
var NearbyTags = []string{"p", "div", "span"}

const (
	minDescriptionLen = 20
	minNearbyLen      = 10
	maxNearbyLen      = 500
	minExampleLen     = 10
	defaultParamType  = "string"
)

var endpointPattern = regexp.MustCompile(`(GET|POST|PUT|DELETE|PATCH)\s+(/[^\s]+)`)

// LanguageRule classifies a code block. Rules are evaluated in order and the first match wins.
type LanguageRule struct {
	Language string
	Match    func(code string) bool
}

// LanguageRules is the ordered classification table for code examples.
var LanguageRules = []LanguageRule{
	{Language: "bash", Match: func(code string) bool {
		return strings.Contains(strings.ToLower(code), "curl")
	}},
	{Language: "python", Match: func(code string) bool {
		return strings.Contains(strings.ToLower(code), "python") ||
			strings.Contains(code, "import") ||
			strings.Contains(code, "def ")
	}},
	{Language: "javascript", Match: func(code string) bool {
		return strings.Contains(strings.ToLower(code), "javascript") ||
			strings.Contains(code, "const ") ||
			strings.Contains(code, "function")
	}},
	{Language: "json", Match: func(code string) bool {
		return strings.Contains(code, "{") && strings.Contains(code, `"`)
	}},
}

// DetectLanguage returns the language of the first matching rule, or "unknown".
func DetectLanguage(code string) string {
	for _, rule := range LanguageRules {
		if rule.Match(code) {
			return rule.Language
		}
	}
	return "unknown"
}

// IsValidExample reports whether a stripped code block is long enough to keep.
func IsValidExample(code string) bool {
	return utf8.RuneCountInString(code) >= minExampleLen
}

// IsValidDescription reports whether a candidate section description is long enough.
func IsValidDescription(text string) bool {
	return utf8.RuneCountInString(text) > minDescriptionLen
}

// IsNearbyDescription reports whether text can describe a neighbouring endpoint or example.
func IsNearbyDescription(text string) bool {
	n := utf8.RuneCountInString(text)
	return n >= minNearbyLen && n < maxNearbyLen
}

// MatchInlineEndpoints returns every verb/path literal found in text.
func MatchInlineEndpoints(text string) [][2]string {
	var out [][2]string
	for _, m := range endpointPattern.FindAllStringSubmatch(text, -1) {
		out = append(out, [2]string{m[1], m[2]})
	}
	return out
}

// ContainsVerb reports whether the upper-cased cell text contains a known HTTP verb.
func ContainsVerb(cell string) bool {
	upper := strings.ToUpper(cell)
	for _, verb := range types.Verbs {
		if strings.Contains(upper, verb) {
			return true
		}
	}
	return false
}

// EndpointFromRow builds an endpoint from a table row's cell texts.
// The row qualifies when it has at least two cells and the first names an HTTP verb.
func EndpointFromRow(cells []string, baseURL string) (types.Endpoint, bool) {
	if len(cells) < 2 || !ContainsVerb(cells[0]) {
		return types.Endpoint{}, false
	}
	ep := types.Endpoint{
		Method: strings.ToUpper(cells[0]),
		Path:   cells[1],
	}
	if len(cells) > 2 {
		ep.Description = cells[2]
	}
	ep.FullURL = FullURL(baseURL, ep.Path)
	return ep, true
}

// FullURL joins a documented path to the base URL unless it is already absolute.
func FullURL(baseURL, path string) string {
	if strings.HasPrefix(path, "http") {
		return path
	}
	return baseURL + path
}

// IsParameterTable reports whether lower-cased header texts identify a parameter table.
func IsParameterTable(headers []string) bool {
	joined := strings.Join(headers, " ")
	for _, kw := range ParameterHeaderKeywords {
		if strings.Contains(joined, kw) {
			return true
		}
	}
	return false
}

// ParameterFromRow builds a parameter from a row's cell texts and its full text.
func ParameterFromRow(cells []string, rowText string) (string, types.Parameter, bool) {
	if len(cells) < 2 {
		return "", types.Parameter{}, false
	}
	p := types.Parameter{
		Type:     cells[1],
		Required: strings.Contains(strings.ToLower(rowText), "required"),
	}
	if p.Type == "" {
		p.Type = defaultParamType
	}
	if len(cells) > 2 {
		p.Description = cells[2]
	}
	return cells[0], p, true
}

// DedupeEndpoints keeps the first endpoint for every (method, path) pair.
func DedupeEndpoints(endpoints []types.Endpoint) []types.Endpoint {
	seen := make(map[string]bool, len(endpoints))
	out := make([]types.Endpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		if seen[ep.Key()] {
			continue
		}
		seen[ep.Key()] = true
		out = append(out, ep)
	}
	return out
}
