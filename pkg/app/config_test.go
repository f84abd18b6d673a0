package app

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arbor-app/arbor/pkg/errors"
)

func TestParseConfigAppliesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("api:\n  baseUrl: https://api.arbor.test\n"))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if cfg.API.BaseURL != "https://api.arbor.test" {
		t.Errorf("unexpected base URL %q", cfg.API.BaseURL)
	}
	if cfg.API.RequestsPerSecond != 10 || cfg.API.Burst != 20 {
		t.Errorf("rate defaults not applied: %v/%d", cfg.API.RequestsPerSecond, cfg.API.Burst)
	}
	if cfg.Cache.TTL.Std() != time.Minute {
		t.Errorf("cache TTL default not applied: %v", cfg.Cache.TTL.Std())
	}
	if cfg.Splash.MinimumDuration.Std() != 800*time.Millisecond {
		t.Errorf("splash default not applied: %v", cfg.Splash.MinimumDuration.Std())
	}
	if len(cfg.Tabs) != 2 || cfg.Tabs[0].Label != "Home" {
		t.Errorf("tab defaults not applied: %+v", cfg.Tabs)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	doc := `
api:
  baseUrl: https://api.arbor.test
  requestsPerSecond: 4
  burst: 8
update:
  feedUrl: https://releases.arbor.test/stable.json
  interval: 1h
cache:
  ttl: 30s
splash:
  minimumDuration: 250ms
tabs:
  - label: Feed
    icon: rss
`
	cfg, err := ParseConfig([]byte(doc))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if cfg.API.RequestsPerSecond != 4 || cfg.API.Burst != 8 {
		t.Errorf("rate override lost: %v/%d", cfg.API.RequestsPerSecond, cfg.API.Burst)
	}
	if cfg.Update.FeedURL == "" || cfg.Update.Interval.Std() != time.Hour {
		t.Errorf("update override lost: %q %v", cfg.Update.FeedURL, cfg.Update.Interval.Std())
	}
	if cfg.Cache.TTL.Std() != 30*time.Second {
		t.Errorf("TTL override lost: %v", cfg.Cache.TTL.Std())
	}
	if cfg.Splash.MinimumDuration.Std() != 250*time.Millisecond {
		t.Errorf("splash override lost: %v", cfg.Splash.MinimumDuration.Std())
	}
	if len(cfg.Tabs) != 1 || cfg.Tabs[0].Label != "Feed" || cfg.Tabs[0].Icon != "rss" {
		t.Errorf("tab override lost: %+v", cfg.Tabs)
	}
}

func TestParseConfigRejectsBadYAML(t *testing.T) {
	_, err := ParseConfig([]byte("api: [unclosed"))

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Kind != errors.KindParsing {
		t.Fatalf("expected parsing AppError, got %v", err)
	}
}

func TestParseConfigRejectsBadDuration(t *testing.T) {
	doc := "api:\n  baseUrl: https://api.arbor.test\ncache:\n  ttl: soon\n"
	if _, err := ParseConfig([]byte(doc)); err == nil {
		t.Fatal("expected an error for a malformed duration")
	}
}

func TestParseConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing base URL", "update:\n  feedUrl: https://releases.arbor.test\n"},
		{"zero rate", "api:\n  baseUrl: https://api.arbor.test\n  requestsPerSecond: 0\n"},
		{"empty tabs", "api:\n  baseUrl: https://api.arbor.test\ntabs: []\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.doc))
			var appErr *errors.AppError
			if !stderrors.As(err, &appErr) || appErr.Kind != errors.KindInit {
				t.Fatalf("expected init AppError, got %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbor.yaml")
	doc := "api:\n  baseUrl: https://api.arbor.test\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.BaseURL != "https://api.arbor.test" {
		t.Errorf("unexpected base URL %q", cfg.API.BaseURL)
	}

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Kind != errors.KindInit {
		t.Fatalf("expected init AppError for a missing file, got %v", err)
	}
}
