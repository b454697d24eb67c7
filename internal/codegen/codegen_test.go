package codegen

import (
	"bytes"
	"encoding/json"
	"go/parser"
	"go/token"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/docgen/internal/types"
)

func TestMethodName(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/articles", "get_articles"},
		{"GET", "/articles/topics/trending/{topic_id}", "get_topics_trending"},
		{"GET", "/articles/search", "search_articles_search"},
		{"GET", "/articles/aggregate", "aggregate_articles_aggregate"},
		{"GET", "/global-articles", "get_global_articles"},
		{"POST", "/filings", "create_filings"},
		{"PUT", "/filings/{id}", "update_filings"},
		{"DELETE", "/v1/filings/{id}/summary", "delete_filings_summary"},
		{"PATCH", "/items", "patch_items"},
		{"GET", "/", "get"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			ep := types.Endpoint{Method: tt.method, Path: tt.path}
			assert.Equal(t, tt.want, MethodName(ep))
			assert.Equal(t, MethodName(ep), MethodName(ep))
		})
	}
}

func TestExportedName(t *testing.T) {
	assert.Equal(t, "GetArticles", ExportedName("get_articles"))
	assert.Equal(t, "GetTopicsTrending", ExportedName("get_topics_trending"))
	assert.Equal(t, "Get", ExportedName("get"))
	assert.Equal(t, "Call", ExportedName(""))
	assert.Equal(t, "Call123", ExportedName("123"))
}

func TestArgNamer(t *testing.T) {
	n := newArgNamer()
	assert.Equal(t, "pageSize", n.name("page_size"))
	assert.Equal(t, "dateFrom", n.name("date-from"))
	assert.Equal(t, "typeParam", n.name("type"))
	assert.Equal(t, "urlParam", n.name("url"))
	assert.Equal(t, "p2fa", n.name("2fa"))
	assert.Equal(t, "param", n.name("!!"))
	assert.Equal(t, "pageSize2", n.name("pageSize"))
}

func TestPathExpression(t *testing.T) {
	expr, args := pathExpression("/filings/{accession_number}/summary", newArgNamer())
	assert.Equal(t, `"/filings/" + url.PathEscape(accessionNumber) + "/summary"`, expr)
	require.Len(t, args, 1)
	assert.Equal(t, "accession_number", args[0].Key)

	expr, args = pathExpression("/articles", newArgNamer())
	assert.Equal(t, `"/articles"`, expr)
	assert.Empty(t, args)
}

func newTestAggregate() *types.Aggregate {
	agg := types.NewAggregate(types.Metadata{
		CrawledAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	})

	articles := types.NewSection("국내 기사", "https://news.deepsearch.com/api/#articles")
	articles.Endpoints = []types.Endpoint{
		{Method: "GET", Path: "/articles", Description: "Search domestic articles", FullURL: "https://api.example.com/articles"},
		{Method: "GET", Path: "/articles/{sections}", FullURL: "https://api.example.com/articles/{sections}"},
	}
	articles.Parameters.Set("keyword", types.Parameter{Type: "string", Description: "search keyword", Required: true})
	articles.Parameters.Set("page_size", types.Parameter{Type: "integer", Description: "page size"})
	agg.Add(articles)

	agg.Add(types.FailedSection("브리핑", "https://news.deepsearch.com/api/#briefing", assert.AnError))

	global := types.NewSection("해외 기사", "https://news.deepsearch.com/api/#global")
	global.Endpoints = []types.Endpoint{
		{Method: "GET", Path: "/articles/{article_id}", Description: "Replacement", FullURL: "https://api.example.com/articles/{article_id}"},
		{Method: "POST", Path: "/global-articles", FullURL: "https://api.example.com/global-articles"},
	}
	agg.Add(global)
	return agg
}

func TestBuildModelCollisionLastWins(t *testing.T) {
	model := BuildModel(newTestAggregate(), Options{Package: "deepsearch", BaseURL: "https://api.example.com"})

	var names []string
	var replaced Method
	for _, g := range model.Groups {
		for _, m := range g.Methods {
			names = append(names, m.Name)
			if m.Name == "GetArticles" {
				replaced = m
			}
		}
	}
	assert.Equal(t, []string{"GetArticles", "CreateGlobalArticles"}, names)
	assert.Equal(t, "/articles/{article_id}", replaced.Path)
	assert.Equal(t, "Replacement", replaced.Description)
	require.Len(t, model.Groups, 1)
	assert.Equal(t, "해외 기사", model.Groups[0].Section)
}

func TestBuildModelCollisionLogged(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	BuildModel(newTestAggregate(), Options{Package: "deepsearch", Logger: l})

	out := buf.String()
	assert.Contains(t, out, "method replaced by a later endpoint")
	assert.Contains(t, out, "GetArticles")
	assert.Equal(t, 2, strings.Count(out, "method replaced"))
}

func TestBuildModelArguments(t *testing.T) {
	agg := types.NewAggregate(types.Metadata{})
	s := types.NewSection("topics", "")
	s.Endpoints = []types.Endpoint{{Method: "GET", Path: "/topics/{topic_id}"}}
	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		s.Parameters.Set(name, types.Parameter{Required: true})
		s.Parameters.Set("opt_"+name, types.Parameter{Required: i%2 == 0})
	}
	agg.Add(s)

	model := BuildModel(agg, Options{Package: "x"})
	require.Len(t, model.Groups, 1)
	m := model.Groups[0].Methods[0]

	assert.Equal(t, "GetTopics", m.Name)
	assert.Equal(t, "topics API", m.Description)
	require.Len(t, m.PathArgs, 1)
	assert.Equal(t, "topicId", m.PathArgs[0].Name)

	var required, optional []string
	for _, a := range m.Args {
		if a.Optional {
			optional = append(optional, a.Key)
		} else {
			required = append(required, a.Key)
		}
	}
	assert.Equal(t, []string{"a", "opt_a", "b", "c", "opt_c"}, required)
	assert.Equal(t, []string{"opt_b", "opt_d", "opt_f"}, optional)
	assert.Len(t, m.Docs, 5)
}

func TestGenerateClient(t *testing.T) {
	src, err := Generate(newTestAggregate(), Options{
		Package:   "deepsearch",
		BaseURL:   "https://api.example.com",
		CrawledAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	code := string(src)
	assert.True(t, strings.HasPrefix(code, "// Code generated by docgen"))
	assert.Contains(t, code, "// Crawled at: 2024-05-01 10:30:00")
	assert.Contains(t, code, `const DefaultBaseURL = "https://api.example.com"`)
	assert.Contains(t, code, "// 해외 기사")
	assert.NotContains(t, code, "// 브리핑")
	assert.Contains(t, code, `return c.do(ctx, "GET", "/articles/"+url.PathEscape(articleId), params)`)
	assert.Contains(t, code, `func (c *Client) CreateGlobalArticles(ctx context.Context) (json.RawMessage, error)`)
	assert.Equal(t, 1, strings.Count(code, "func (c *Client) GetArticles("))

	_, err = parser.ParseFile(token.NewFileSet(), "client_generated.go", src, parser.AllErrors)
	assert.NoError(t, err)
}

func TestGenerateClientWithArguments(t *testing.T) {
	agg := types.NewAggregate(types.Metadata{})
	s := types.NewSection("filings", "")
	s.Endpoints = []types.Endpoint{{Method: "GET", Path: "/filings/{accession_number}/summary", Description: "Filing summary"}}
	s.Parameters.Set("type", types.Parameter{Required: true})
	s.Parameters.Set("page", types.Parameter{})
	agg.Add(s)

	src, err := Generate(agg, Options{Package: "filings"})
	require.NoError(t, err)

	code := string(src)
	assert.Contains(t, code, "func (c *Client) GetFilingsSummary(ctx context.Context, accessionNumber string, typeParam string, page *string) (json.RawMessage, error)")
	assert.Contains(t, code, `params.Set("type", typeParam)`)
	assert.Contains(t, code, `if page != nil && *page != ""`)
	assert.Contains(t, code, `"/filings/"+url.PathEscape(accessionNumber)+"/summary"`)

	_, err = parser.ParseFile(token.NewFileSet(), "client_generated.go", src, parser.AllErrors)
	assert.NoError(t, err)
}

func TestBuildOpenAPI(t *testing.T) {
	doc := BuildOpenAPI(newTestAggregate(), "Deepsearch API", "https://api.example.com")

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://api.example.com", doc.Servers[0].URL)
	assert.Equal(t, 4, doc.Paths.Len())

	item := doc.Paths.Value("/articles/{sections}")
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	assert.Equal(t, "get_articles", item.Get.OperationID)
	require.Len(t, item.Get.Parameters, 3)
	assert.Equal(t, "path", item.Get.Parameters[0].Value.In)
	assert.True(t, item.Get.Parameters[0].Value.Required)
	assert.Equal(t, "keyword", item.Get.Parameters[1].Value.Name)
	assert.True(t, item.Get.Parameters[1].Value.Required)

	post := doc.Paths.Value("/global-articles")
	require.NotNil(t, post)
	assert.NotNil(t, post.Post)
	assert.Equal(t, []string{"해외 기사"}, post.Post.Tags)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"openapi":"3.0.3"`)
}
