package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/reltime/internal/relative"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadFromMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, "none.yaml"), filepath.Join(dir, "also-none.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.DefaultFormat != "table" {
		t.Errorf("DefaultFormat = %q, want table", cfg.DefaultFormat)
	}
	if cfg.GetWeekStart() != time.Sunday {
		t.Errorf("GetWeekStart() = %v, want Sunday", cfg.GetWeekStart())
	}
	if cfg.GetUTC() {
		t.Error("GetUTC() = true, want false")
	}
	if cfg.GetTimeLayout() != time.RFC3339 {
		t.Errorf("GetTimeLayout() = %q, want RFC3339", cfg.GetTimeLayout())
	}
	if cfg.GetWorkers() != 4 {
		t.Errorf("GetWorkers() = %d, want 4", cfg.GetWorkers())
	}
}

func TestLoadFromMergesLocal(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global.yaml", `default_format: json
week_start: monday
utc: true
ranges:
  sprint:
    from: now-2w|w
    to: now/w
  today:
    from: now-1h
    to: now
`)
	local := writeFile(t, dir, "local.yaml", `default_format: markdown
utc: false
workers: 0
ranges:
  standup:
    to: now
    from: now-1d|d
`)

	cfg, err := LoadFrom(global, local)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.DefaultFormat != "markdown" {
		t.Errorf("DefaultFormat = %q, want markdown (local wins)", cfg.DefaultFormat)
	}
	if cfg.GetWeekStart() != time.Monday {
		t.Errorf("GetWeekStart() = %v, want Monday (from global)", cfg.GetWeekStart())
	}
	if cfg.GetUTC() {
		t.Error("GetUTC() = true, want false (local explicitly disables)")
	}
	if cfg.GetWorkers() != 0 {
		t.Errorf("GetWorkers() = %d, want 0", cfg.GetWorkers())
	}

	for _, name := range []string{"sprint", "standup", "today"} {
		if _, ok := cfg.Ranges[name]; !ok {
			t.Errorf("expected range %q after merge", name)
		}
	}

	standup, _ := cfg.Range("standup")
	if got := strings.Join(standup.Keys(), ","); got != "to,from" {
		t.Errorf("standup keys = %s, want document order to,from", got)
	}

	today, _ := cfg.Range("today")
	if from, _ := today.Get("from"); from != "now-1h" {
		t.Errorf("configured today.from = %q, want it to override the builtin", from)
	}
}

func TestLoadFromErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "default_format: [", "failed to parse"},
		{"bad format", "default_format: xml", "default_format"},
		{"bad week start", "week_start: someday", "week_start"},
		{"negative workers", "workers: -1", "workers"},
		{"non-string range field", "ranges:\n  r:\n    from: 42\n", "failed to parse"},
		{"empty range", "ranges:\n  r: {}\n", "ranges.r"},
		{"malformed range field", "ranges:\n  r:\n    from: garbage\n", "ranges.r.from"},
		{"unknown unit in range field", "ranges:\n  r:\n    to: now-1x\n", "ranges.r.to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "config.yaml", tt.content)

			_, err := LoadFrom(path, "")
			if err == nil {
				t.Fatal("LoadFrom() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFrom() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"sunday", time.Sunday, false},
		{"Monday", time.Monday, false},
		{"  SATURDAY ", time.Saturday, false},
		{"wed", time.Wednesday, false},
		{"Thu", time.Thursday, false},
		{"", time.Sunday, true},
		{"mo", time.Sunday, true},
		{"someday", time.Sunday, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuiltinRanges(t *testing.T) {
	cfg := &Config{}
	for name, rec := range BuiltinRanges() {
		if got := strings.Join(rec.Keys(), ","); got != "from,to" {
			t.Errorf("builtin %s keys = %s, want from,to", name, got)
		}
		if _, ok := cfg.Range(name); !ok {
			t.Errorf("Range(%q) not found", name)
		}
	}

	if _, ok := cfg.Range("nope"); ok {
		t.Error("Range(nope) unexpectedly found")
	}

	names := cfg.RangeNames()
	if names[0] != "last-24h" || names[len(names)-1] != "yesterday" {
		t.Errorf("RangeNames() not sorted: %v", names)
	}
}

func TestDefaultConfigRoundTrip(t *testing.T) {
	out, err := DefaultConfig().ToYAML()
	if err != nil {
		t.Fatalf("ToYAML() error = %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("default config does not parse: %v\n%s", err, out)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
	if len(cfg.Ranges) != len(BuiltinRanges()) {
		t.Errorf("got %d ranges, want %d", len(cfg.Ranges), len(BuiltinRanges()))
	}
	if !strings.Contains(out, "from: now-1d|d") {
		t.Errorf("expected yesterday preset in output:\n%s", out)
	}
}

func TestMinimalConfigParses(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(MinimalConfig()), &cfg); err != nil {
		t.Fatalf("minimal config does not parse: %v", err)
	}
	if cfg.DefaultFormat != "table" {
		t.Errorf("DefaultFormat = %q, want table", cfg.DefaultFormat)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(c *Config) bool
	}{
		{"format", "JSON", false, func(c *Config) bool { return c.DefaultFormat == "json" }},
		{"format", "xml", true, nil},
		{"week-start", "Mon", false, func(c *Config) bool { return c.WeekStart == "monday" }},
		{"week-start", "never", true, nil},
		{"utc", "true", false, func(c *Config) bool { return c.GetUTC() }},
		{"utc", "maybe", true, nil},
		{"layout", time.Kitchen, false, func(c *Config) bool { return c.GetTimeLayout() == time.Kitchen }},
		{"layout", "", true, nil},
		{"workers", "8", false, func(c *Config) bool { return c.GetWorkers() == 8 }},
		{"workers", "-2", true, nil},
		{"token", "secret", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Set(%q, %q) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{}
	if err := cfg.Set("week-start", "monday"); err != nil {
		t.Fatal(err)
	}
	cfg.Ranges = map[string]*relative.Record{
		"sprint": relative.NewRecord(relative.Field{Key: "to", Expr: "now/w"}, relative.Field{Key: "from", Expr: "now-2w|w"}),
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFrom(path, "")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.GetWeekStart() != time.Monday {
		t.Errorf("GetWeekStart() = %v, want Monday", loaded.GetWeekStart())
	}
	sprint, ok := loaded.Range("sprint")
	if !ok || strings.Join(sprint.Keys(), ",") != "to,from" {
		t.Errorf("sprint range not saved in order: %v", sprint)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveTo(path, "utc: true\n"); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	cfg, err := LoadFrom(path, "")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !cfg.GetUTC() {
		t.Error("GetUTC() = false after saving utc: true")
	}
}
