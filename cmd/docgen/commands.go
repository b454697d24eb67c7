package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-scripts/docgen/internal/analysis"
	"github.com/go-scripts/docgen/internal/apiclient"
	"github.com/go-scripts/docgen/internal/codegen"
	"github.com/go-scripts/docgen/internal/config"
	"github.com/go-scripts/docgen/internal/crawler"
	"github.com/go-scripts/docgen/internal/logger"
	"github.com/go-scripts/docgen/internal/progress"
	"github.com/go-scripts/docgen/internal/render"
	"github.com/go-scripts/docgen/internal/storage"
	"github.com/go-scripts/docgen/internal/types"
	"github.com/go-scripts/docgen/internal/ui"
	"github.com/go-scripts/docgen/internal/writer"
)

// CrawlCmd renders every configured section and extracts it
type CrawlCmd struct {
	Renderer    string `help:"Page renderer: chrome or static"`
	Headful     bool   `help:"Show the browser window"`
	DatabaseURL string `help:"Also store sections in Postgres" name:"database-url"`
	NoProgress  bool   `help:"Disable the spinner and progress bar" name:"no-progress"`
}

func (c *CrawlCmd) Run(app *App) error {
	cfg := app.Config
	if c.Renderer != "" {
		cfg.Crawl.Renderer = c.Renderer
	}
	if c.Headful {
		cfg.Crawl.Headless = false
	}
	if c.DatabaseURL != "" {
		cfg.DatabaseURL = c.DatabaseURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	w, err := writer.New(cfg.OutputDir)
	if err != nil {
		return err
	}

	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	var options []crawler.Option
	if !c.NoProgress {
		options = append(options, crawler.WithObserver(progress.New(os.Stderr, len(cfg.Crawl.Sections))))
	}
	if cfg.DatabaseURL != "" {
		db, err := openStore(app, cfg.DatabaseURL)
		if err != nil {
			app.Logger.Warn("continuing without database", "err", err)
		} else {
			defer db.Close()
			options = append(options, crawler.WithStore(db))
		}
	}

	start := time.Now()
	cr := crawler.New(crawler.Options{
		BaseURL:      cfg.Crawl.BaseURL,
		Sections:     cfg.Crawl.Sections,
		SectionDelay: cfg.Crawl.SectionDelay,
		Title:        cfg.Generator.Title + " Documentation",
	}, r, w, app.Logger, options...)

	agg, err := cr.Run(app.Ctx)
	for _, secErr := range cr.Errors() {
		app.Logger.Warn("section failed", "err", secErr)
	}
	if agg != nil {
		fmt.Fprintln(os.Stderr, ui.SummaryPanel(ui.Stats(agg, time.Since(start), w.Dir())))
	}
	return err
}

func newRenderer(cfg *config.Config) (render.Renderer, error) {
	if cfg.Crawl.Renderer == config.RendererStatic {
		return render.NewStatic(cfg.Crawl.UserAgent, cfg.Crawl.PageTimeout), nil
	}
	return render.NewBrowser(
		render.WithHeadless(cfg.Crawl.Headless),
		render.WithUserAgent(cfg.Crawl.UserAgent),
		render.WithPageTimeout(cfg.Crawl.PageTimeout),
		render.WithSettleDelay(cfg.Crawl.SettleDelay),
	)
}

func openStore(app *App, url string) (*storage.DB, error) {
	db, err := storage.New(app.Ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(app.Ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// GenerateCmd turns a crawl aggregate into an analysis report, a Go client and an OpenAPI document
type GenerateCmd struct {
	Input   string `help:"Aggregate JSON produced by crawl (defaults to the one in the output directory)" type:"path"`
	Package string `help:"Package name of the generated client"`
}

func (g *GenerateCmd) Run(app *App) error {
	cfg := app.Config
	if g.Package != "" {
		cfg.Generator.Package = g.Package
	}
	w, err := writer.New(cfg.OutputDir)
	if err != nil {
		return err
	}
	input := g.Input
	if input == "" {
		input = w.Path(writer.AggregateFile)
	}

	agg, err := analysis.LoadAggregate(input)
	if err != nil {
		return err
	}
	return generate(app, w, agg)
}

// generate writes the analysis report, the client source and the OpenAPI document
func generate(app *App, w *writer.FileWriter, agg *types.Aggregate) error {
	cfg := app.Config

	report := analysis.Analyze(agg, cfg.Generator.FallbackBaseURL)
	path, err := w.WriteJSON(writer.AnalysisFile, report)
	if err != nil {
		return err
	}
	logger.LogArtifact(app.Logger, "analysis", path)
	app.Logger.Info("analyzed crawl",
		"sections", report.Sections.Len(),
		"endpoints", report.TotalEndpoints,
		"common_parameters", len(report.CommonParameters),
		"base_url", report.BaseURL,
	)

	src, err := codegen.Generate(agg, codegen.Options{
		Package:   cfg.Generator.Package,
		BaseURL:   report.BaseURL,
		CrawledAt: agg.Metadata.CrawledAt,
		FileName:  cfg.Generator.ClientFile,
		Logger:    app.Logger,
	})
	if err != nil {
		return err
	}
	if path, err = w.WriteFile(cfg.Generator.ClientFile, src); err != nil {
		return err
	}
	logger.LogArtifact(app.Logger, "client", path)

	doc := codegen.BuildOpenAPI(agg, cfg.Generator.Title, report.BaseURL)
	if path, err = w.WriteJSON(writer.OpenAPIFile, doc); err != nil {
		return err
	}
	logger.LogArtifact(app.Logger, "openapi", path)
	return nil
}

// BrowseCmd opens the section explorer
type BrowseCmd struct {
	Input string `help:"Aggregate JSON produced by crawl (defaults to the one in the output directory)" type:"path"`
}

func (b *BrowseCmd) Run(app *App) error {
	input := b.Input
	if input == "" {
		w, err := writer.New(app.Config.OutputDir)
		if err != nil {
			return err
		}
		input = w.Path(writer.AggregateFile)
	}
	agg, err := analysis.LoadAggregate(input)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(ui.NewExplorer(app.Config.Generator.Title, agg),
		tea.WithAltScreen(), tea.WithContext(app.Ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// ArticlesCmd searches domestic or global articles, or runs a company analysis
type ArticlesCmd struct {
	Keyword  string   `help:"Search keyword"`
	Company  string   `help:"Company name"`
	Symbols  string   `help:"Symbols such as KRX:005930"`
	From     string   `help:"Start date (YYYY-MM-DD)"`
	To       string   `help:"End date (YYYY-MM-DD)"`
	PageSize int      `help:"Results per page" default:"10"`
	Global   bool     `help:"Search overseas articles"`
	Analysis bool     `help:"Run a company analysis across news, disclosures and media coverage (requires --company)"`
	Sector   []string `help:"Run a sector analysis over these keywords"`
	Latest   bool     `help:"List the latest articles instead of trending topics"`
	Sections string   `help:"Sections for --latest, comma separated"`
}

func (a *ArticlesCmd) Run(app *App) error {
	cfg := app.Config
	if cfg.Credentials.DeepsearchAPIKey == "" {
		return errors.New("DEEPSEARCH_API_KEY is not set")
	}
	client := apiclient.NewDeepsearch(cfg.APIs.DeepsearchURL, cfg.Credentials.DeepsearchAPIKey,
		apiclient.WithTimeout(cfg.APIs.Timeout))

	if a.Analysis {
		if a.Company == "" {
			return errors.New("--analysis requires --company")
		}
		return printJSON(os.Stdout, client.CompanyAnalysis(app.Ctx, a.Company, a.From, a.To))
	}
	if len(a.Sector) > 0 {
		return printJSON(os.Stdout, client.SectorAnalysis(app.Ctx, a.Sector, a.From, a.To))
	}

	q := apiclient.ArticleQuery{
		Keyword:     a.Keyword,
		CompanyName: a.Company,
		Symbols:     a.Symbols,
		DateFrom:    a.From,
		DateTo:      a.To,
		PageSize:    a.PageSize,
	}
	var res apiclient.Result
	switch {
	case a.Latest:
		res = client.AlternativeTrending(app.Ctx, a.Sections, 0, a.PageSize)
	case a.Global:
		res = client.GlobalArticles(app.Ctx, q)
	default:
		res = client.Articles(app.Ctx, q)
	}
	if err := res.Err(); err != nil {
		return err
	}
	return printJSON(os.Stdout, res)
}

// QuoteCmd prints the current quote of a symbol
type QuoteCmd struct {
	Symbol  string `arg:"" help:"Ticker symbol such as AAPL"`
	Profile bool   `help:"Also print the company profile"`
}

func (q *QuoteCmd) Run(app *App) error {
	cfg := app.Config
	if cfg.Credentials.FinnhubAPIKey == "" {
		return errors.New("FINNHUB_API_KEY is not set")
	}
	client := apiclient.NewFinnhub(cfg.APIs.FinnhubURL, cfg.Credentials.FinnhubAPIKey,
		apiclient.WithTimeout(cfg.APIs.Timeout))

	out := map[string]apiclient.Result{"quote": client.Quote(app.Ctx, q.Symbol)}
	if q.Profile {
		out["profile"] = client.CompanyProfile(app.Ctx, q.Symbol)
	}
	for name, res := range out {
		if err := res.Err(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return printJSON(os.Stdout, out)
}

// NotifyCmd posts text to Slack, or the summary of the last crawl when no text is given
type NotifyCmd struct {
	Channel string `help:"Channel to post to" required:""`
	Text    string `arg:"" optional:"" help:"Message text"`
	File    string `help:"Also upload this file, e.g. the Markdown document" type:"existingfile"`
}

func (n *NotifyCmd) Run(app *App) error {
	cfg := app.Config
	if cfg.Credentials.SlackBotToken == "" {
		return errors.New("SLACK_BOT_TOKEN is not set")
	}

	text := n.Text
	if text == "" {
		w, err := writer.New(cfg.OutputDir)
		if err != nil {
			return err
		}
		agg, err := analysis.LoadAggregate(w.Path(writer.AggregateFile))
		if err != nil {
			return err
		}
		text = crawlSummary(cfg.Generator.Title, agg)
	}

	client := apiclient.NewSlack(cfg.APIs.SlackURL, cfg.Credentials.SlackBotToken,
		apiclient.WithTimeout(cfg.APIs.Timeout))
	res := client.PostMessage(app.Ctx, apiclient.Message{Channel: n.Channel, Text: text})
	if err := res.Err(); err != nil {
		return err
	}
	app.Logger.Info("posted to slack", "channel", n.Channel)

	if n.File == "" {
		return nil
	}
	content, err := os.ReadFile(n.File)
	if err != nil {
		return err
	}
	name := filepath.Base(n.File)
	res = client.UploadFile(app.Ctx, apiclient.Upload{
		Channels: n.Channel,
		Filename: name,
		Title:    cfg.Generator.Title + " " + name,
		Content:  content,
	})
	if err := res.Err(); err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	app.Logger.Info("uploaded to slack", "channel", n.Channel, "file", name)
	return nil
}

// crawlSummary is the plain text Slack message for a crawl
func crawlSummary(title string, agg *types.Aggregate) string {
	stats := ui.Stats(agg, 0, "")
	msg := fmt.Sprintf("%s crawl %s: %d sections (%d failed), %d endpoints, %d parameters, %d examples",
		title, agg.Metadata.CrawledAt.Format(time.DateTime),
		stats.Sections, stats.Failed, stats.Endpoints, stats.Parameters, stats.Examples)
	for _, f := range stats.Failures {
		msg += "\n• " + f
	}
	return msg
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
