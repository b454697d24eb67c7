package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("DEEPSEARCH_API_KEY", "ds-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/docs")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "deepsearch_docs", cfg.OutputDir)
	assert.Len(t, cfg.Crawl.Sections, 9)
	assert.Equal(t, "시작하기", cfg.Crawl.Sections[0].Name)
	assert.Equal(t, 15*time.Second, cfg.Crawl.PageTimeout)
	assert.Equal(t, 5*time.Second, cfg.Crawl.SettleDelay)
	assert.Equal(t, 2*time.Second, cfg.Crawl.SectionDelay)
	assert.True(t, cfg.Crawl.Headless)
	assert.Equal(t, "ds-key", cfg.Credentials.DeepsearchAPIKey)
	assert.Equal(t, "postgres://localhost/docs", cfg.DatabaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docgen.yaml")
	yamlDoc := `
output_dir: out
crawl:
  renderer: static
  headless: false
  settle_delay: 500ms
  sections:
    - name: Articles
      path: /api/#articles
generator:
  package: newsapi
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, RendererStatic, cfg.Crawl.Renderer)
	assert.False(t, cfg.Crawl.Headless)
	assert.Equal(t, 500*time.Millisecond, cfg.Crawl.SettleDelay)
	assert.Equal(t, 15*time.Second, cfg.Crawl.PageTimeout)
	require.Len(t, cfg.Crawl.Sections, 1)
	assert.Equal(t, "https://news.deepsearch.com/api/#articles", cfg.Crawl.Sections[0].URL(cfg.Crawl.BaseURL))
	assert.Equal(t, "newsapi", cfg.Generator.Package)
	assert.Equal(t, "Deepsearch API", cfg.Generator.Title)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crawl: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no sections", func(c *Config) { c.Crawl.Sections = nil }},
		{"duplicate section", func(c *Config) {
			c.Crawl.Sections = append(c.Crawl.Sections, c.Crawl.Sections[0])
		}},
		{"unnamed section", func(c *Config) { c.Crawl.Sections = []Section{{Path: "/x"}} }},
		{"negative delay", func(c *Config) { c.Crawl.SectionDelay = -time.Second }},
		{"unknown renderer", func(c *Config) { c.Crawl.Renderer = "firefox" }},
		{"bad package", func(c *Config) { c.Generator.Package = "my-client" }},
		{"no output dir", func(c *Config) { c.OutputDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
