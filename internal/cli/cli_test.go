package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/pipeline"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)
	if err := bindEnv(); err != nil {
		t.Fatalf("bindEnv: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := model.DefaultConfig()
	if cfg.Server.Addr != want.Server.Addr {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, want.Server.Addr)
	}
	if cfg.Session.TTL != want.Session.TTL {
		t.Errorf("session ttl = %v, want %v", cfg.Session.TTL, want.Session.TTL)
	}
	if cfg.Eligibility.BaseURL != want.Eligibility.BaseURL {
		t.Errorf("base url = %q", cfg.Eligibility.BaseURL)
	}
	if cfg.Eligibility.Timeout != 0 {
		t.Errorf("timeout = %v, want 0", cfg.Eligibility.Timeout)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("PMICHECK_ELIGIBILITY_BASE_URL", "http://localhost:9999")
	t.Setenv("PMICHECK_SESSION_TTL", "30m")
	t.Setenv("PMICHECK_SESSION_BACKEND", "redis")
	t.Setenv("PMICHECK_SERVER_RATE_LIMIT_BURST", "3")
	t.Setenv("PMICHECK_REPORT_TRUST_MESSAGE_HTML", "true")
	t.Setenv("PMICHECK_ELIGIBILITY_HTTP_PROXY", "http://proxy:3128")
	t.Setenv("PMICHECK_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	if err := bindEnv(); err != nil {
		t.Fatalf("bindEnv: %v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Eligibility.BaseURL != "http://localhost:9999" {
		t.Errorf("base url = %q", cfg.Eligibility.BaseURL)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("session ttl = %v", cfg.Session.TTL)
	}
	if cfg.Session.Backend != "redis" {
		t.Errorf("session backend = %q", cfg.Session.Backend)
	}
	if cfg.Server.RateLimit.Burst != 3 {
		t.Errorf("burst = %d", cfg.Server.RateLimit.Burst)
	}
	if !cfg.Report.TrustMessageHTML {
		t.Error("trust_message_html not applied")
	}
	if cfg.Eligibility.HTTPProxy != "http://proxy:3128" {
		t.Errorf("http proxy = %q", cfg.Eligibility.HTTPProxy)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
}

func TestLoadConfigFile(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "server:\n  addr: 127.0.0.1:9000\neligibility:\n  timeout: 45s\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := bindEnv(); err != nil {
		t.Fatalf("bindEnv: %v", err)
	}
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Eligibility.Timeout != 45*time.Second {
		t.Errorf("timeout = %v", cfg.Eligibility.Timeout)
	}
	// untouched keys keep their defaults
	if cfg.Server.IdleTimeout != 60*time.Second {
		t.Errorf("idle timeout = %v", cfg.Server.IdleTimeout)
	}
}

func TestNewSummarizerDisabled(t *testing.T) {
	s, err := newSummarizer(model.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("newSummarizer: %v", err)
	}
	if s.IsEnabled() {
		t.Error("summarizer should be disabled without a provider")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"answers", "answers"},
		{"my answers", "my-answers"},
		{"a:b*c?", "a_b_c_"},
		{"", "answers"},
		{"..", "answers"},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExitMarkdown(t *testing.T) {
	tests := []struct {
		state model.State
		want  string
	}{
		{model.StateExitHighDownPayment, "PMI is not required with 20% or more down."},
		{model.StateExitNonConventional, "30-year conventional mortgages"},
	}
	for _, tt := range tests {
		md := exitMarkdown(&pipeline.CheckResult{State: tt.state})
		if !strings.HasPrefix(md, "# ") || !strings.Contains(md, tt.want) {
			t.Errorf("%s: unexpected markdown %q", tt.state, md)
		}
	}
}

func TestNewLoggerFollowsVerbose(t *testing.T) {
	t.Cleanup(func() { logger.SetVerbose(false) })
	cfg := model.DefaultConfig()
	ctx := context.Background()

	tests := []struct {
		name    string
		config  bool
		wantDbg bool
	}{
		{"quiet", false, false},
		{"output.verbose", true, true},
		{"back to quiet", false, false},
	}
	for _, tt := range tests {
		cfg.Output.Verbose = tt.config
		l := newLogger(cfg)
		if got := l.Slog().Enabled(ctx, slog.LevelDebug); got != tt.wantDbg {
			t.Errorf("%s: debug enabled = %v, want %v", tt.name, got, tt.wantDbg)
		}
		if got := slog.Default().Enabled(ctx, slog.LevelDebug); got != tt.wantDbg {
			t.Errorf("%s: default logger debug = %v, want %v", tt.name, got, tt.wantDbg)
		}
	}
}
