package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DATA_SOURCE", "DEFAULT_PLACES", "KEYWORDS_RESPECT_FILTER", "CACHE_TTL_SECONDS", "REDIS_ADDR", "RELOAD_URL"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.DataSource != "file" || c.DefaultPlaces != 10 || c.TopKeywords != 10 || c.KeywordsPerSentiment != 5 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.RespectFilter {
		t.Fatal("keyword view should read the whole dataset by default")
	}
	if c.CacheTTL != 15*time.Minute {
		t.Fatalf("ttl: %v", c.CacheTTL)
	}
	if c.RedisAddr != "" {
		t.Fatalf("redis should be off by default, got %q", c.RedisAddr)
	}
	if c.ReloadURL != "" {
		t.Fatalf("reload url should be empty by default, got %q", c.ReloadURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", "MySQL")
	t.Setenv("DEFAULT_PLACES", "3")
	t.Setenv("KEYWORDS_RESPECT_FILTER", "true")
	t.Setenv("IMPORT_WORKERS", "nope")

	c := Load()
	if c.DataSource != "mysql" {
		t.Fatalf("DataSource: %q", c.DataSource)
	}
	if c.DefaultPlaces != 3 || !c.RespectFilter {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.ImportWorkers != 4 {
		t.Fatalf("bad integer should fall back, got %d", c.ImportWorkers)
	}
}

func TestLoad_UnknownSource(t *testing.T) {
	t.Setenv("DATA_SOURCE", "ftp")
	if c := Load(); c.DataSource != "file" {
		t.Fatalf("want file, got %q", c.DataSource)
	}
}
