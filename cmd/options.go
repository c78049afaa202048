package cmd

// Options holds the shared command-line options for the reltime CLI.
type Options struct {
	Format     string
	Now        string // anchor instant; empty means the system clock
	File       string // YAML/JSON document of inputs, "-" for stdin
	WeekStart  string
	UTC        bool
	Layout     string
	Verbosity  int
	Workers    int
	ConfigFile string // replaces the global and local config files when set

	// Range options
	Preset      string
	ListPresets bool
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Workers: 4,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, yaml, markdown, unix, rfc3339).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithNow anchors every expression at a fixed instant.
func WithNow(now string) Option {
	return func(o *Options) {
		o.Now = now
	}
}

// WithFile reads inputs from a YAML or JSON document.
func WithFile(path string) Option {
	return func(o *Options) {
		o.File = path
	}
}

// WithWeekStart sets the first day of the week for w rounding.
func WithWeekStart(day string) Option {
	return func(o *Options) {
		o.WeekStart = day
	}
}

// WithUTC resolves and prints instants in UTC.
func WithUTC(utc bool) Option {
	return func(o *Options) {
		o.UTC = utc
	}
}

// WithLayout sets the time layout of table and markdown output.
func WithLayout(layout string) Option {
	return func(o *Options) {
		o.Layout = layout
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithWorkers sets the number of inputs resolved concurrently.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithConfigFile reads configuration from path only.
func WithConfigFile(path string) Option {
	return func(o *Options) {
		o.ConfigFile = path
	}
}

// WithPreset starts a range from a named preset.
func WithPreset(name string) Option {
	return func(o *Options) {
		o.Preset = name
	}
}
