package codegen

import (
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/go-scripts/docgen/internal/types"
)

// BuildOpenAPI describes every crawled endpoint as an OpenAPI 3 document.
// The first section to document a (method, path) pair owns it.
func BuildOpenAPI(agg *types.Aggregate, title, baseURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Description: "Generated from crawled API documentation.",
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(),
	}
	if baseURL != "" {
		doc.AddServer(&openapi3.Server{URL: baseURL})
	}

	seen := make(map[string]bool)
	agg.Each(func(s types.Section) {
		if s.Failed() {
			return
		}
		tagged := false
		for _, ep := range s.Endpoints {
			method := strings.ToUpper(ep.Method)
			if !slices.Contains(types.Verbs, method) || !strings.HasPrefix(ep.Path, "/") {
				continue
			}
			if seen[method+" "+ep.Path] {
				continue
			}
			seen[method+" "+ep.Path] = true
			doc.AddOperation(ep.Path, method, operation(s, ep))
			if !tagged {
				doc.Tags = append(doc.Tags, &openapi3.Tag{Name: s.Name, Description: s.Description})
				tagged = true
			}
		}
	})
	return doc
}

func operation(s types.Section, ep types.Endpoint) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Tags = []string{s.Name}
	op.Summary = ep.Description
	op.OperationID = MethodName(ep)
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("OK")}),
	)

	for _, name := range pathPlaceholders(ep.Path) {
		p := openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema())
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
	}
	if s.Parameters != nil {
		for pair := s.Parameters.Oldest(); pair != nil; pair = pair.Next() {
			p := openapi3.NewQueryParameter(pair.Key).
				WithDescription(pair.Value.Description).
				WithRequired(pair.Value.Required).
				WithSchema(openapi3.NewStringSchema())
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
		}
	}
	return op
}

func pathPlaceholders(path string) []string {
	var names []string
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2 {
			names = append(names, seg[1:len(seg)-1])
		}
	}
	return names
}
