package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultDeepsearchURL is the Deepsearch v2 API root
const DefaultDeepsearchURL = "https://api-v2.deepsearch.com/v1"

// Default paging used when a query leaves Page or PageSize at zero.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// ArticleQuery filters article, topic and disclosure searches
type ArticleQuery struct {
	Keyword     string
	CompanyName string
	Symbols     string // e.g. KRX:005930
	DateFrom    string // YYYY-MM-DD
	DateTo      string
	Page        int
	PageSize    int
	Highlight   string
	Order       string // e.g. published_at
	Clustering  *bool
}

func (q ArticleQuery) values() url.Values {
	return query{}.
		str("keyword", q.Keyword).
		str("company_name", q.CompanyName).
		str("symbols", q.Symbols).
		str("date_from", q.DateFrom).
		str("date_to", q.DateTo).
		num("page", orDefault(q.Page, DefaultPage)).
		num("page_size", orDefault(q.PageSize, DefaultPageSize)).
		str("highlight", q.Highlight).
		str("order", q.Order).
		flag("clustering", q.Clustering).
		values()
}

// AggregationQuery groups matching documents by a field such as publisher or companies.name
type AggregationQuery struct {
	Keyword  string
	GroupBy  string
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}

func (q AggregationQuery) values() url.Values {
	return query{}.
		str("keyword", q.Keyword).
		str("groupby", q.GroupBy).
		str("date_from", q.DateFrom).
		str("date_to", q.DateTo).
		num("page", orDefault(q.Page, DefaultPage)).
		num("page_size", orDefault(q.PageSize, DefaultPageSize)).
		values()
}

// FilingQuery filters overseas filings
type FilingQuery struct {
	Keyword     string
	CompanyName string
	Symbol      string // e.g. AAPL
	DateFrom    string
	DateTo      string
	Page        int
	PageSize    int
}

func (q FilingQuery) values() url.Values {
	return query{}.
		str("keyword", q.Keyword).
		str("company_name", q.CompanyName).
		str("symbol", q.Symbol).
		str("date_from", q.DateFrom).
		str("date_to", q.DateTo).
		num("page", orDefault(q.Page, DefaultPage)).
		num("page_size", orDefault(q.PageSize, DefaultPageSize)).
		values()
}

// Deepsearch is a client for the Deepsearch news and filings API
type Deepsearch struct {
	rest   *rest
	apiKey string
}

// NewDeepsearch creates a client. An empty baseURL selects DefaultDeepsearchURL.
func NewDeepsearch(baseURL, apiKey string, options ...Option) *Deepsearch {
	if baseURL == "" {
		baseURL = DefaultDeepsearchURL
	}
	d := &Deepsearch{rest: newRest(baseURL, options), apiKey: apiKey}
	d.rest.prepare = func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}
	return d
}

func (d *Deepsearch) get(ctx context.Context, path string, params url.Values) Result {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", d.apiKey)
	return d.rest.get(ctx, path, params)
}

// Articles searches domestic articles
func (d *Deepsearch) Articles(ctx context.Context, q ArticleQuery) Result {
	return d.get(ctx, "/articles", q.values())
}

// ArticlesBySection searches domestic articles within comma separated sections
func (d *Deepsearch) ArticlesBySection(ctx context.Context, sections string, q ArticleQuery) Result {
	return d.get(ctx, "/articles/"+url.PathEscape(sections), q.values())
}

// GlobalArticles searches overseas articles
func (d *Deepsearch) GlobalArticles(ctx context.Context, q ArticleQuery) Result {
	return d.get(ctx, "/global-articles", q.values())
}

// GlobalArticlesBySection searches overseas articles within comma separated sections
func (d *Deepsearch) GlobalArticlesBySection(ctx context.Context, sections string, q ArticleQuery) Result {
	return d.get(ctx, "/global-articles/"+url.PathEscape(sections), q.values())
}

// Topics searches domestic topics. Keyword is not used by this endpoint.
func (d *Deepsearch) Topics(ctx context.Context, q ArticleQuery) Result {
	q.Keyword = ""
	return d.get(ctx, "/articles/topics", q.values())
}

// TrendingTopics lists trending topics
func (d *Deepsearch) TrendingTopics(ctx context.Context, page, pageSize int) Result {
	params := query{}.
		num("page", orDefault(page, DefaultPage)).
		num("page_size", orDefault(pageSize, DefaultPageSize)).
		values()
	return d.get(ctx, "/articles/topics/trending", params)
}

// TopicDetail fetches one trending topic
func (d *Deepsearch) TopicDetail(ctx context.Context, topicID string) Result {
	return d.get(ctx, "/articles/topics/trending/"+url.PathEscape(topicID), nil)
}

// Aggregation aggregates domestic articles
func (d *Deepsearch) Aggregation(ctx context.Context, q AggregationQuery) Result {
	return d.get(ctx, "/articles/aggregation", q.values())
}

// GlobalAggregation aggregates overseas articles
func (d *Deepsearch) GlobalAggregation(ctx context.Context, q AggregationQuery) Result {
	return d.get(ctx, "/global-articles/aggregation", q.values())
}

// Filings searches overseas filings
func (d *Deepsearch) Filings(ctx context.Context, q FilingQuery) Result {
	return d.get(ctx, "/filings", q.values())
}

// FilingDetail fetches one filing by accession number
func (d *Deepsearch) FilingDetail(ctx context.Context, accessionNumber string) Result {
	return d.get(ctx, "/filings/"+url.PathEscape(accessionNumber), nil)
}

// FilingSummary fetches the summary of one filing
func (d *Deepsearch) FilingSummary(ctx context.Context, accessionNumber string) Result {
	return d.get(ctx, "/filings/"+url.PathEscape(accessionNumber)+"/summary", nil)
}

// FilingAggregation aggregates filings. The endpoint takes a result size instead of paging.
func (d *Deepsearch) FilingAggregation(ctx context.Context, keyword, groupBy, dateFrom, dateTo string, size int) Result {
	params := query{}.
		str("keyword", keyword).
		str("groupby", groupBy).
		num("size", orDefault(size, DefaultPageSize)).
		str("date_from", dateFrom).
		str("date_to", dateTo).
		values()
	return d.get(ctx, "/filings/aggregation", params)
}

// DisclosureDocuments searches domestic disclosure documents
func (d *Deepsearch) DisclosureDocuments(ctx context.Context, q ArticleQuery) Result {
	return d.get(ctx, "/articles/documents/disclosure", q.values())
}

// BriefingCSV downloads a briefing (stock, etf, global-stock, global-etf) for a YYYYMMDD date.
// The body is CSV, not JSON.
func (d *Deepsearch) BriefingCSV(ctx context.Context, briefingType, date string) Result {
	params := url.Values{}
	params.Set("date", date)
	return d.get(ctx, "/briefings/csv/"+url.PathEscape(briefingType), params)
}

// CompanyAnalysis gathers news, disclosures and media coverage of one company
type CompanyAnalysis struct {
	CompanyName   string    `json:"company_name"`
	AnalysisDate  time.Time `json:"analysis_date"`
	DomesticNews  Result    `json:"domestic_news"`
	GlobalNews    Result    `json:"global_news"`
	Disclosure    Result    `json:"disclosure"`
	MediaCoverage Result    `json:"media_coverage"`
}

// CompanyAnalysis runs four searches for companyName one after another.
// Each source keeps its own Result so one failure does not hide the others.
func (d *Deepsearch) CompanyAnalysis(ctx context.Context, companyName, dateFrom, dateTo string) CompanyAnalysis {
	q := ArticleQuery{CompanyName: companyName, DateFrom: dateFrom, DateTo: dateTo, PageSize: 10}
	return CompanyAnalysis{
		CompanyName:  companyName,
		AnalysisDate: time.Now(),
		DomesticNews: d.Articles(ctx, q),
		GlobalNews:   d.GlobalArticles(ctx, q),
		Disclosure:   d.DisclosureDocuments(ctx, q),
		MediaCoverage: d.Aggregation(ctx, AggregationQuery{
			Keyword:  companyName,
			GroupBy:  "publisher",
			DateFrom: dateFrom,
			DateTo:   dateTo,
			PageSize: 10,
		}),
	}
}

// SectorData is the coverage of one sector keyword
type SectorData struct {
	News      Result `json:"news"`
	Companies Result `json:"companies"`
}

// SectorAnalysis holds per keyword news and company mentions, in keyword order
type SectorAnalysis struct {
	Keywords     []string                                   `json:"sector_keywords"`
	AnalysisDate time.Time                                  `json:"analysis_date"`
	Sectors      *orderedmap.OrderedMap[string, SectorData] `json:"sector_data"`
}

// SectorAnalysis searches articles and aggregates mentioned companies for every keyword
func (d *Deepsearch) SectorAnalysis(ctx context.Context, keywords []string, dateFrom, dateTo string) SectorAnalysis {
	out := SectorAnalysis{
		Keywords:     keywords,
		AnalysisDate: time.Now(),
		Sectors:      orderedmap.New[string, SectorData](),
	}
	for _, kw := range keywords {
		out.Sectors.Set(kw, SectorData{
			News: d.Articles(ctx, ArticleQuery{Keyword: kw, DateFrom: dateFrom, DateTo: dateTo, PageSize: 20}),
			Companies: d.Aggregation(ctx, AggregationQuery{
				Keyword:  kw,
				GroupBy:  "companies.name",
				DateFrom: dateFrom,
				DateTo:   dateTo,
				PageSize: 10,
			}),
		})
	}
	return out
}

// The Alternative searches stand in for endpoints an API key may not be
// permitted to call (topics, trending topics, overseas filings).

// AlternativeArticles searches articles by keyword, company name or symbols,
// using the first one set. A keyword search asks for unified highlights.
func (d *Deepsearch) AlternativeArticles(ctx context.Context, q ArticleQuery) Result {
	base := ArticleQuery{DateFrom: q.DateFrom, DateTo: q.DateTo, Page: q.Page, PageSize: q.PageSize}
	switch {
	case q.Keyword != "":
		base.Keyword = q.Keyword
		base.Highlight = "unified"
	case q.CompanyName != "":
		base.CompanyName = q.CompanyName
	case q.Symbols != "":
		base.Symbols = q.Symbols
	default:
		return Failure(KindRequest, "keyword, company name or symbols is required")
	}
	return d.Articles(ctx, base)
}

// AlternativeTrending lists the latest articles, optionally within comma separated sections
func (d *Deepsearch) AlternativeTrending(ctx context.Context, sections string, page, pageSize int) Result {
	q := ArticleQuery{Page: page, PageSize: pageSize, Order: "published_at"}
	if sections != "" {
		return d.ArticlesBySection(ctx, sections, q)
	}
	return d.Articles(ctx, q)
}

// AlternativeDisclosures searches domestic disclosure documents by company name and symbols
func (d *Deepsearch) AlternativeDisclosures(ctx context.Context, q ArticleQuery) Result {
	return d.DisclosureDocuments(ctx, ArticleQuery{
		CompanyName: q.CompanyName,
		Symbols:     q.Symbols,
		DateFrom:    q.DateFrom,
		DateTo:      q.DateTo,
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
