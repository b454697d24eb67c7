package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/docgen/internal/config"
	"github.com/go-scripts/docgen/internal/logger"
)

// CLI flags structure
type CLI struct {
	Config   string `help:"Path to configuration file" default:"docgen.yaml" short:"c"`
	Output   string `help:"Output directory (overrides the configuration file)" short:"o"`
	LogLevel string `help:"Log level: debug, info, warn, error" name:"log-level"`
	Verbose  bool   `help:"Enable debug logging" short:"v"`

	Crawl    CrawlCmd    `cmd:"" help:"Crawl the documentation sections and write JSON and Markdown."`
	Generate GenerateCmd `cmd:"" help:"Analyze a crawl and generate a Go client and an OpenAPI document."`
	Browse   BrowseCmd   `cmd:"" help:"Explore crawled sections in the terminal."`
	Articles ArticlesCmd `cmd:"" help:"Search Deepsearch articles."`
	Quote    QuoteCmd    `cmd:"" help:"Fetch a Finnhub stock quote."`
	Notify   NotifyCmd   `cmd:"" help:"Post a message or a crawl summary to Slack."`
}

// App is shared by every command
type App struct {
	Ctx    context.Context
	Config *config.Config
	Logger *log.Logger
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("docgen"),
		kong.Description("Crawl API documentation and generate clients from it."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	cli.apply(cfg)

	l := logger.New(os.Stderr, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		l.Fatal("invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{Ctx: ctx, Config: cfg, Logger: l}
	if err := kctx.Run(app); err != nil {
		l.Error("command failed", "command", kctx.Command(), "err", err)
		stop()
		os.Exit(1)
	}
}

// apply overrides configuration values with global flags
func (c *CLI) apply(cfg *config.Config) {
	if c.Output != "" {
		cfg.OutputDir = c.Output
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.Verbose {
		cfg.LogLevel = "debug"
	}
}
