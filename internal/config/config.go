package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Renderer names
const (
	RendererChrome = "chrome"
	RendererStatic = "static"
)

// Section is one documentation page to crawl
type Section struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// URL returns the absolute URL of the section under baseURL
func (s Section) URL(baseURL string) string {
	return baseURL + s.Path
}

// Crawl holds the crawler settings
type Crawl struct {
	BaseURL      string        `yaml:"base_url"`
	Sections     []Section     `yaml:"sections"`
	Renderer     string        `yaml:"renderer"`
	Headless     bool          `yaml:"headless"`
	UserAgent    string        `yaml:"user_agent"`
	PageTimeout  time.Duration `yaml:"page_timeout"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	SectionDelay time.Duration `yaml:"section_delay"`
}

// Generator holds the client generation settings
type Generator struct {
	Package         string `yaml:"package"`
	ClientFile      string `yaml:"client_file"`
	Title           string `yaml:"title"`
	FallbackBaseURL string `yaml:"fallback_base_url"`
}

// APIs holds the base URLs of the REST collaborators
type APIs struct {
	DeepsearchURL string        `yaml:"deepsearch_url"`
	FinnhubURL    string        `yaml:"finnhub_url"`
	SlackURL      string        `yaml:"slack_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Credentials are read from the environment only
type Credentials struct {
	DeepsearchAPIKey string
	FinnhubAPIKey    string
	SlackBotToken    string
}

// Config is the complete application configuration
type Config struct {
	OutputDir   string      `yaml:"output_dir"`
	LogLevel    string      `yaml:"log_level"`
	DatabaseURL string      `yaml:"database_url"`
	Crawl       Crawl       `yaml:"crawl"`
	Generator   Generator   `yaml:"generator"`
	APIs        APIs        `yaml:"apis"`
	Credentials Credentials `yaml:"-"`
}

// DefaultSections are the Deepsearch documentation sections, in crawl order.
var DefaultSections = []Section{
	{Name: "시작하기", Path: "/api/#section/%EC%8B%9C%EC%9E%91%ED%95%98%EA%B8%B0"},
	{Name: "API 사용방법", Path: "/api/#section/API-%EC%82%AC%EC%9A%A9%EB%B0%A9%EB%B2%95"},
	{Name: "국내 기사", Path: "/api/#section/%EA%B5%AD%EB%82%B4-%EA%B8%B0%EC%82%AC"},
	{Name: "해외 기사", Path: "/api/#section/%ED%95%B4%EC%99%B8-%EA%B8%B0%EC%82%AC"},
	{Name: "국내 토픽", Path: "/api/#section/%EA%B5%AD%EB%82%B4-%ED%86%A0%ED%94%BD"},
	{Name: "해외 토픽", Path: "/api/#section/%ED%95%B4%EC%99%B8-%ED%86%A0%ED%94%BD"},
	{Name: "브리핑", Path: "/api/#section/%EB%B8%8C%EB%A6%AC%ED%95%91"},
	{Name: "해외 공시", Path: "/api/#section/%ED%95%B4%EC%99%B8-%EA%B3%B5%EC%8B%9C"},
	{Name: "국내 문서", Path: "/api/#section/%EA%B5%AD%EB%82%B4-%EB%AC%B8%EC%84%9C"},
}

// Default returns the configuration used when no file overrides it
func Default() *Config {
	return &Config{
		OutputDir: "deepsearch_docs",
		LogLevel:  "info",
		Crawl: Crawl{
			BaseURL:      "https://news.deepsearch.com",
			Sections:     append([]Section(nil), DefaultSections...),
			Renderer:     RendererChrome,
			Headless:     true,
			UserAgent:    "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			PageTimeout:  15 * time.Second,
			SettleDelay:  5 * time.Second,
			SectionDelay: 2 * time.Second,
		},
		Generator: Generator{
			Package:         "deepsearch",
			ClientFile:      "deepsearch_client_generated.go",
			Title:           "Deepsearch API",
			FallbackBaseURL: "https://news.deepsearch.com",
		},
		APIs: APIs{
			DeepsearchURL: "https://api-v2.deepsearch.com/v1",
			FinnhubURL:    "https://finnhub.io/api/v1",
			SlackURL:      "https://slack.com/api",
			Timeout:       30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and the process environment.
func Load(path string) (*Config, error) {
	// a missing .env is not an error
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.Credentials = Credentials{
		DeepsearchAPIKey: os.Getenv("DEEPSEARCH_API_KEY"),
		FinnhubAPIKey:    os.Getenv("FINNHUB_API_KEY"),
		SlackBotToken:    os.Getenv("SLACK_BOT_TOKEN"),
	}
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = getEnv("DOCGEN_LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

// Validate reports the first problem that would prevent a crawl or generation
func (c *Config) Validate() error {
	if len(c.Crawl.Sections) == 0 {
		return errors.New("no sections configured")
	}
	seen := make(map[string]bool, len(c.Crawl.Sections))
	for _, s := range c.Crawl.Sections {
		if s.Name == "" {
			return fmt.Errorf("section with path %q has no name", s.Path)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate section name %q", s.Name)
		}
		seen[s.Name] = true
	}
	if c.Crawl.PageTimeout < 0 || c.Crawl.SettleDelay < 0 || c.Crawl.SectionDelay < 0 {
		return errors.New("crawl durations must not be negative")
	}
	switch c.Crawl.Renderer {
	case RendererChrome, RendererStatic:
	default:
		return fmt.Errorf("unknown renderer %q", c.Crawl.Renderer)
	}
	if !token.IsIdentifier(c.Generator.Package) {
		return fmt.Errorf("generator package %q is not a valid Go identifier", c.Generator.Package)
	}
	if c.OutputDir == "" {
		return errors.New("output directory is empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
