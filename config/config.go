package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/reltime/internal/output"
	"github.com/spiffcs/reltime/internal/relative"
)

// Config represents the application configuration
type Config struct {
	DefaultFormat string `yaml:"default_format,omitempty" json:"default_format,omitempty"`
	WeekStart     string `yaml:"week_start,omitempty" json:"week_start,omitempty"`
	UTC           *bool  `yaml:"utc,omitempty" json:"utc,omitempty"`
	TimeLayout    string `yaml:"time_layout,omitempty" json:"time_layout,omitempty"`
	Workers       *int   `yaml:"workers,omitempty" json:"workers,omitempty"`

	// Ranges holds named records usable with `reltime range --preset`.
	// Entries override the built-in presets of the same name.
	Ranges map[string]*relative.Record `yaml:"ranges,omitempty" json:"ranges,omitempty"`
}

const (
	defaultFormat    = "table"
	defaultWeekStart = "sunday"
	defaultWorkers   = 4
)

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".reltime"
	}
	return filepath.Join(configDir, "reltime")
}

// ConfigPath returns the global config file path
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the per-directory config file path
func LocalConfigPath() string {
	return ".reltime.yaml"
}

// ConfigFileExists reports whether the global config file exists
func ConfigFileExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Load reads the global config and merges the local config on top of it
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom reads the config at globalPath and merges the config at
// localPath on top of it. Missing files are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	global, err := loadFile(globalPath)
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	if global != nil {
		cfg = global
	}

	local, err := loadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("local config: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = defaultFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile returns nil without error when path does not exist.
func loadFile(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig overlays the fields set in local onto global.
func mergeConfig(global, local *Config) *Config {
	result := *global

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}
	if local.WeekStart != "" {
		result.WeekStart = local.WeekStart
	}
	if local.UTC != nil {
		result.UTC = local.UTC
	}
	if local.TimeLayout != "" {
		result.TimeLayout = local.TimeLayout
	}
	if local.Workers != nil {
		result.Workers = local.Workers
	}

	if len(local.Ranges) > 0 {
		ranges := make(map[string]*relative.Record, len(global.Ranges)+len(local.Ranges))
		for name, rec := range global.Ranges {
			ranges[name] = rec
		}
		for name, rec := range local.Ranges {
			ranges[name] = rec
		}
		result.Ranges = ranges
	}

	return &result
}

// Validate checks the values that are not checked while decoding.
func (c *Config) Validate() error {
	if c.DefaultFormat != "" {
		if _, err := output.ParseFormat(c.DefaultFormat); err != nil {
			return fmt.Errorf("default_format: %w", err)
		}
	}
	if c.WeekStart != "" {
		if _, err := ParseWeekday(c.WeekStart); err != nil {
			return fmt.Errorf("week_start: %w", err)
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers: must not be negative, got %d", *c.Workers)
	}
	for name, rec := range c.Ranges {
		if rec == nil || rec.Len() == 0 {
			return fmt.Errorf("ranges.%s: must have at least one field", name)
		}
		for _, f := range rec.Fields() {
			if _, err := relative.Parse(f.Expr); err != nil {
				return fmt.Errorf("ranges.%s.%s: %w", name, f.Key, err)
			}
		}
	}
	return nil
}

// GetWeekStart returns the configured first day of the week, Sunday by default
func (c *Config) GetWeekStart() time.Weekday {
	if c.WeekStart == "" {
		return time.Sunday
	}
	day, err := ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return day
}

// GetUTC reports whether output is converted to UTC
func (c *Config) GetUTC() bool {
	return c.UTC != nil && *c.UTC
}

// GetTimeLayout returns the layout for table and markdown output
func (c *Config) GetTimeLayout() string {
	if c.TimeLayout == "" {
		return time.RFC3339
	}
	return c.TimeLayout
}

// GetWorkers returns the batch resolution concurrency limit
func (c *Config) GetWorkers() int {
	if c.Workers == nil {
		return defaultWorkers
	}
	return *c.Workers
}

// Range returns the preset named name, preferring configured ranges over
// the built-in ones.
func (c *Config) Range(name string) (*relative.Record, bool) {
	if rec, ok := c.Ranges[name]; ok {
		return rec, true
	}
	rec, ok := BuiltinRanges()[name]
	return rec, ok
}

// RangeNames returns every preset name, sorted.
func (c *Config) RangeNames() []string {
	seen := make(map[string]bool)
	for name := range BuiltinRanges() {
		seen[name] = true
	}
	for name := range c.Ranges {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func span(from, to string) *relative.Record {
	return relative.NewRecord(
		relative.Field{Key: "from", Expr: from},
		relative.Field{Key: "to", Expr: to},
	)
}

// BuiltinRanges returns the presets available without any configuration
func BuiltinRanges() map[string]*relative.Record {
	return map[string]*relative.Record{
		"today":      span("now|d", "now/d"),
		"yesterday":  span("now-1d|d", "now-1d/d"),
		"this-week":  span("now|w", "now/w"),
		"last-week":  span("now-1w|w", "now-1w/w"),
		"this-month": span("now|M", "now/M"),
		"last-month": span("now-1M|M", "now-1M/M"),
		"this-year":  span("now|y", "now/y"),
		"last-7d":    span("now-7d", "now"),
		"last-24h":   span("now-24h", "now"),
		"last-30d":   span("now-30d", "now"),
	}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday name or its three-letter abbreviation,
// ignoring case.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if day, ok := weekdays[s]; ok {
		return day, nil
	}
	if len(s) == 3 {
		for name, day := range weekdays {
			if strings.HasPrefix(name, s) {
				return day, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// Save writes the configuration to path, or to the global config file
// when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return SaveTo(path, string(data))
}

// SettableKeys lists the keys accepted by Set.
func SettableKeys() []string {
	return []string{"format", "week-start", "utc", "layout", "workers"}
}

// Set validates value and assigns it to the setting named key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "format":
		f, err := output.ParseFormat(value)
		if err != nil {
			return err
		}
		c.DefaultFormat = string(f)
	case "week-start":
		day, err := ParseWeekday(value)
		if err != nil {
			return err
		}
		c.WeekStart = strings.ToLower(day.String())
	case "utc":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid utc value %q: use true or false", value)
		}
		c.UTC = &b
	case "layout":
		if value == "" {
			return fmt.Errorf("layout must not be empty")
		}
		c.TimeLayout = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid workers value %q: use a non-negative integer", value)
		}
		c.Workers = &n
	default:
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	return nil
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	utc := false
	workers := defaultWorkers
	return &Config{
		DefaultFormat: defaultFormat,
		WeekStart:     defaultWeekStart,
		UTC:           &utc,
		TimeLayout:    time.RFC3339,
		Workers:       &workers,
		Ranges:        BuiltinRanges(),
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# reltime configuration file
# See: reltime config defaults  (for all available options)

# Output format: table, json, yaml, markdown, unix or rfc3339
default_format: table

# First day of the week for w rounding (optional)
# week_start: monday

# Print instants in UTC instead of the local zone (optional)
# utc: true

# Named ranges for: reltime range --preset <name> (optional)
# ranges:
#   sprint:
#     from: now-2w|w
#     to: now/w
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
