package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spiffcs/reltime/config"
	"github.com/spiffcs/reltime/internal/calendar"
	"github.com/spiffcs/reltime/internal/log"
	"github.com/spiffcs/reltime/internal/output"
	"github.com/spiffcs/reltime/internal/relative"
)

const envPrefix = "RELTIME"

// envFlags can also be set through RELTIME_<NAME> environment variables,
// with dashes replaced by underscores.
var envFlags = []string{"format", "now", "week-start", "utc", "layout", "workers"}

// anchorLayouts are tried in order when --now is not Unix seconds.
var anchorLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// settings is the effective configuration of one invocation: flags win
// over environment variables, which win over config files.
type settings struct {
	cfg       *config.Config
	format    output.Format
	anchor    time.Time // zero means read the system clock
	weekStart time.Weekday
	utc       bool
	layout    string
	workers   int
}

// newViper binds the environment-aware flags of fs to a fresh viper
// instance reading RELTIME_* variables.
func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range envFlags {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(name, f); err != nil {
			return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return v, nil
}

func loadConfig(opts *Options) (*config.Config, error) {
	if opts.ConfigFile != "" {
		log.Info("loading config", "path", opts.ConfigFile)
		return config.LoadFrom(opts.ConfigFile, "")
	}
	paths := config.GetConfigPaths()
	log.Info("loading config", "global", paths.GlobalPath, "global_exists", paths.GlobalExists,
		"local", paths.LocalPath, "local_exists", paths.LocalExists)
	return config.Load()
}

func loadSettings(cmd *cobra.Command, opts *Options) (*settings, error) {
	v, err := newViper(cmd.Flags())
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	s := &settings{
		cfg:       cfg,
		weekStart: cfg.GetWeekStart(),
		utc:       cfg.GetUTC(),
		layout:    cfg.GetTimeLayout(),
		workers:   cfg.GetWorkers(),
	}

	formatName := v.GetString("format")
	if formatName == "" {
		formatName = cfg.DefaultFormat
	}
	if s.format, err = output.ParseFormat(formatName); err != nil {
		return nil, err
	}

	if day := v.GetString("week-start"); day != "" {
		if s.weekStart, err = config.ParseWeekday(day); err != nil {
			return nil, fmt.Errorf("invalid --week-start: %w", err)
		}
	}
	if v.IsSet("utc") {
		s.utc = v.GetBool("utc")
	}
	if layout := v.GetString("layout"); layout != "" {
		s.layout = layout
	}
	if v.IsSet("workers") {
		s.workers = v.GetInt("workers")
	}

	if now := v.GetString("now"); now != "" {
		loc := time.Local
		if s.utc {
			loc = time.UTC
		}
		if s.anchor, err = parseAnchor(now, loc); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// parseAnchor reads an instant given as Unix seconds or in one of
// anchorLayouts. Layouts without a zone are read in loc.
func parseAnchor(s string, loc *time.Location) (time.Time, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(n, 0).In(loc), nil
	}
	for _, layout := range anchorLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --now value %q: use Unix seconds, RFC 3339, %q or %q",
		s, time.DateTime, time.DateOnly)
}

// location is where results are printed: UTC when requested, otherwise
// the zone of the anchor.
func (s *settings) location() *time.Location {
	if s.utc {
		return time.UTC
	}
	return nil
}

// newResolver reads the anchor once and builds a resolver pinned to it, so
// every input of the invocation shares the same "now".
func (s *settings) newResolver() (*relative.Resolver, time.Time) {
	now := s.anchor
	if now.IsZero() {
		now = relative.SystemClock.Now()
	}
	if s.utc {
		now = now.UTC()
	}

	opts := []relative.Option{
		relative.WithClock(relative.Fixed(now)),
		relative.WithCalendar(calendar.New(calendar.WithWeekStart(s.weekStart))),
	}
	if log.IsTrace() {
		opts = append(opts, relative.WithTrace(func(e relative.Expression, _, result time.Time) {
			log.Trace("evaluated", "expr", e.String(), "result", result.Format(time.RFC3339Nano))
		}))
	}

	log.Debug("anchor selected", "now", now.Format(time.RFC3339Nano), "fixed", !s.anchor.IsZero(),
		"week_start", s.weekStart.String())
	return relative.New(opts...), now
}

// resolveAndPrint resolves inputs against one anchor and writes them in
// the selected format.
func resolveAndPrint(cmd *cobra.Command, s *settings, inputs []relative.Input) error {
	r, now := s.newResolver()

	outs, err := r.ResolveAll(cmd.Context(), inputs, s.workers)
	if err != nil {
		return err
	}
	log.Info("resolved inputs", "count", len(inputs), "workers", s.workers)

	res, err := output.NewResult(now, inputs, outs, s.location())
	if err != nil {
		return err
	}
	return output.NewFormatter(s.format, s.layout).Format(res, cmd.OutOrStdout())
}
