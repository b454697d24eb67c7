package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://news.deepsearch.com"

func TestExtractInlineEndpoint(t *testing.T) {
	page := `<html><body><main>
		<p>Search domestic news articles by keyword and date.</p>
		<code>GET /articles</code>
	</main></body></html>`

	s := New(testBase).Extract("국내 기사", testBase+"/api/#section/articles", []byte(page))

	require.Len(t, s.Endpoints, 1)
	ep := s.Endpoints[0]
	assert.Equal(t, "GET", ep.Method)
	assert.Equal(t, "/articles", ep.Path)
	assert.Equal(t, testBase+"/articles", ep.FullURL)
	assert.Equal(t, "Search domestic news articles by keyword and date.", ep.Description)
	assert.Equal(t, "국내 기사", s.Name)
	assert.False(t, s.Failed())
}

func TestExtractInlineBeforeTable(t *testing.T) {
	page := `<html><body><div class="api-content">
		<pre>POST /filings</pre>
		<table>
			<tr><td>Method</td><td>Path</td><td>Description</td></tr>
			<tr><td>post</td><td>/filings</td><td>from the table</td></tr>
			<tr><td>DELETE</td><td>/filings/{id}</td></tr>
			<tr><td>note</td><td>/ignored</td></tr>
		</table>
	</div></body></html>`

	s := New(testBase).Extract("filings", "", []byte(page))

	require.Len(t, s.Endpoints, 2)
	assert.Equal(t, "POST", s.Endpoints[0].Method)
	assert.Equal(t, "/filings", s.Endpoints[0].Path)
	assert.NotEqual(t, "from the table", s.Endpoints[0].Description)
	assert.Equal(t, "DELETE", s.Endpoints[1].Method)
	assert.Equal(t, "/filings/{id}", s.Endpoints[1].Path)
	assert.Empty(t, s.Endpoints[1].Description)
}

func TestExtractAbsolutePathKeepsURL(t *testing.T) {
	page := `<body><table>
		<tr><th>Method</th></tr>
		<tr><td>GET</td><td>https://api.example.com/v1/quote</td></tr>
	</table></body>`

	s := New(testBase).Extract("quotes", "", []byte(page))

	require.Len(t, s.Endpoints, 1)
	assert.Equal(t, "https://api.example.com/v1/quote", s.Endpoints[0].FullURL)
}

func TestExtractParameterTable(t *testing.T) {
	page := `<body><article>
		<table>
			<tr><th>Parameter</th><th>Type</th><th>Description</th></tr>
			<tr><td>keyword</td><td>string</td><td>required search keyword</td></tr>
			<tr><td>page</td><td></td><td>page number</td></tr>
			<tr><td>page_size</td><td>integer</td><td>Required. results per page</td></tr>
			<tr><td>lonely</td></tr>
		</table>
	</article></body>`

	s := New(testBase).Extract("params", "", []byte(page))

	assert.Equal(t, []string{"keyword", "page", "page_size"}, s.ParameterNames())

	keyword, ok := s.Parameters.Get("keyword")
	require.True(t, ok)
	assert.Equal(t, "string", keyword.Type)
	assert.Equal(t, "required search keyword", keyword.Description)
	assert.True(t, keyword.Required)

	page_, ok := s.Parameters.Get("page")
	require.True(t, ok)
	assert.Equal(t, "string", page_.Type)
	assert.False(t, page_.Required)

	size, _ := s.Parameters.Get("page_size")
	assert.True(t, size.Required)
}

func TestExtractParameterLastWriteKeepsPosition(t *testing.T) {
	page := `<body><main>
		<table>
			<tr><th>Name</th><th>Type</th></tr>
			<tr><td>a</td><td>string</td></tr>
			<tr><td>b</td><td>string</td></tr>
		</table>
		<table>
			<tr><th>name</th><th>type</th></tr>
			<tr><td>a</td><td>integer</td><td>overridden</td></tr>
		</table>
	</main></body>`

	s := New(testBase).Extract("params", "", []byte(page))

	assert.Equal(t, []string{"a", "b"}, s.ParameterNames())
	a, _ := s.Parameters.Get("a")
	assert.Equal(t, "integer", a.Type)
	assert.Equal(t, "overridden", a.Description)
}

func TestExtractNonParameterTableIgnored(t *testing.T) {
	page := `<body><main><table>
		<tr><th>Field</th><th>Meaning</th></tr>
		<tr><td>id</td><td>identifier</td></tr>
	</table></main></body>`

	s := New(testBase).Extract("fields", "", []byte(page))
	assert.Equal(t, 0, s.Parameters.Len())
}

func TestExtractExamples(t *testing.T) {
	page := `<body><main>
		<code>short</code>
		<pre>curl -X GET "https://api/articles"</pre>
		<pre>{"name": "value"}</pre>
	</main></body>`

	s := New(testBase).Extract("examples", "", []byte(page))

	require.Len(t, s.Examples, 2)
	assert.Equal(t, "example_2", s.Examples[0].ID)
	assert.Equal(t, "bash", s.Examples[0].Language)
	assert.Equal(t, `curl -X GET "https://api/articles"`, s.Examples[0].Code)
	assert.Equal(t, "example_3", s.Examples[1].ID)
	assert.Equal(t, "json", s.Examples[1].Language)
	for _, ex := range s.Examples {
		assert.GreaterOrEqual(t, len([]rune(ex.Code)), 10)
	}
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "first paragraph",
			page: `<body><main><p>This section explains how to search articles.</p></main></body>`,
			want: "This section explains how to search articles.",
		},
		{
			name: "short paragraph falls through to intro",
			page: `<body><main><p>Too short.</p><div class="intro">An introduction long enough to be kept.</div></main></body>`,
			want: "An introduction long enough to be kept.",
		},
		{
			name: "nothing long enough",
			page: `<body><main><p>tiny</p></main></body>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testBase).Extract("d", "", []byte(tt.page))
			assert.Equal(t, tt.want, s.Description)
		})
	}
}

func TestExtractContentRootPriority(t *testing.T) {
	page := `<body>
		<main><code>GET /from-main</code></main>
		<div class="swagger-ui"><code>GET /from-swagger</code></div>
	</body>`

	s := New(testBase).Extract("root", "", []byte(page))

	require.Len(t, s.Endpoints, 1)
	assert.Equal(t, "/from-swagger", s.Endpoints[0].Path)
}

func TestExtractEmptyPage(t *testing.T) {
	s := New(testBase).Extract("empty", "https://example.com", []byte(`<html><body></body></html>`))

	assert.Empty(t, s.Endpoints)
	assert.Empty(t, s.Examples)
	assert.Equal(t, 0, s.Parameters.Len())
	assert.Empty(t, s.Description)
	assert.Empty(t, s.RawContent)
	assert.Empty(t, s.Error)
}

func TestExtractRawContent(t *testing.T) {
	page := `<body><main><h1> Title </h1>
		<p>first line</p>

		<p>second</p></main></body>`

	s := New(testBase).Extract("raw", "", []byte(page))
	assert.Equal(t, "Title\nfirst line\nsecond", s.RawContent)
}

func TestExtractNearbyDescription(t *testing.T) {
	long := strings.Repeat("가", 500)
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "nearest paragraph wins",
			body: `<p>An older paragraph about filings.</p><p>Search domestic articles by keyword.</p><code>GET /articles</code>`,
			want: "Search domestic articles by keyword.",
		},
		{
			name: "short candidate skipped",
			body: `<p>Long enough description here.</p><span>short</span><code>GET /articles</code>`,
			want: "Long enough description here.",
		},
		{
			name: "candidate of 500 runes skipped",
			body: `<p>The earlier usable description.</p><p>` + long + `</p><code>GET /articles</code>`,
			want: "The earlier usable description.",
		},
		{
			name: "enclosing element text before the code",
			body: `<p>Older paragraph that describes something else.</p><div>List domestic articles<code>GET /articles</code></div>`,
			want: "List domestic articles",
		},
		{
			name: "enclosing element text after the code ignored",
			body: `<div><code>GET /articles</code>Trailing text that follows the code.</div>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := "<html><body><main>" + tt.body + "</main></body></html>"
			s := New(testBase).Extract("nearby", "", []byte(page))

			require.Len(t, s.Endpoints, 1)
			assert.Equal(t, tt.want, s.Endpoints[0].Description)
		})
	}
}
