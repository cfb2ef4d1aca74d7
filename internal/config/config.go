package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danielpatrickdp/shapeitup/internal/assets"
	"github.com/danielpatrickdp/shapeitup/internal/experiment"
	"github.com/danielpatrickdp/shapeitup/internal/render"
	"github.com/danielpatrickdp/shapeitup/internal/session"
	"github.com/danielpatrickdp/shapeitup/internal/sink"
	"github.com/danielpatrickdp/shapeitup/internal/trial"
)

// #region sections
// ServerConfig is the HTTP surface.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	HealthAddr  string `toml:"health_addr"` // gRPC health; empty disables
	CookieKey   string `toml:"cookie_key"`  // empty generates a per-process key
	MaxSessions int    `toml:"max_sessions"`
	Seed        uint64 `toml:"seed"` // 0 seeds from the clock
}

// AssetsConfig is the icon directory scan.
type AssetsConfig struct {
	Dir          string   `toml:"dir"`
	Extensions   []string `toml:"extensions"`
	MinPerBucket int      `toml:"min_per_bucket"`
	Strict       bool     `toml:"strict"`
}

// TrialConfig is the sampling scheme.
type TrialConfig struct {
	MinGroups      int     `toml:"min_groups"`
	MaxGroups      int     `toml:"max_groups"`
	PointsPerGroup int     `toml:"points_per_group"`
	CoordMax       float64 `toml:"coord_max"`
	MeanMin        float64 `toml:"mean_min"`
	MeanMax        float64 `toml:"mean_max"`
	WinnerBoost    float64 `toml:"winner_boost"`
	StdDev         float64 `toml:"std_dev"`
	StyleMode      string  `toml:"style_mode"`
	Distribution   string  `toml:"distribution"`
	LabelMode      string  `toml:"label_mode"`
}

// RenderConfig is the plot geometry.
type RenderConfig struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	IconSize int     `toml:"icon_size"`
	Min      float64 `toml:"min"`
	Max      float64 `toml:"max"`
	Legend   bool    `toml:"legend"`
}

// SessionConfig is the run length and logging policy.
type SessionConfig struct {
	PracticeTasks   int  `toml:"practice_tasks"`
	ExperimentTasks int  `toml:"experiment_tasks"`
	LogPractice     bool `toml:"log_practice"`
}

// SinkConfig selects where rows go.
type SinkConfig struct {
	Kind            string        `toml:"kind"` // sheets | sqlite | both | none
	SQLitePath      string        `toml:"sqlite_path"`
	CredentialsFile string        `toml:"credentials_file"`
	SpreadsheetID   string        `toml:"spreadsheet_id"`
	Sheet           string        `toml:"sheet"` // empty appends to the first worksheet
	Timeout         time.Duration `toml:"timeout"`
}

// #endregion sections

// #region config
// Config is the whole file.
type Config struct {
	Server  ServerConfig       `toml:"server"`
	Assets  AssetsConfig       `toml:"assets"`
	Trial   TrialConfig        `toml:"trial"`
	Render  RenderConfig       `toml:"render"`
	Session SessionConfig      `toml:"session"`
	Sink    SinkConfig         `toml:"sink"`
	Locale  experiment.Strings `toml:"locale"`
}

// Default returns the configuration the study ran with.
func Default() Config {
	ao := assets.DefaultOptions()
	tc := trial.DefaultConfig()
	rc := render.DefaultConfig()
	sc := session.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			MaxSessions: 1024,
		},
		Assets: AssetsConfig{
			Dir:          "shapes",
			Extensions:   ao.Extensions,
			MinPerBucket: ao.MinPerBucket,
			Strict:       ao.Strict,
		},
		Trial: TrialConfig{
			MinGroups:      tc.MinGroups,
			MaxGroups:      tc.MaxGroups,
			PointsPerGroup: tc.PointsPerGroup,
			CoordMax:       tc.CoordMax,
			MeanMin:        tc.MeanMin,
			MeanMax:        tc.MeanMax,
			WinnerBoost:    tc.WinnerBoost,
			StdDev:         tc.StdDev,
			StyleMode:      string(tc.StyleMode),
			Distribution:   string(tc.Distribution),
			LabelMode:      string(tc.LabelMode),
		},
		Render: RenderConfig{
			Width:    rc.Width,
			Height:   rc.Height,
			IconSize: rc.IconSize,
			Min:      rc.Min,
			Max:      rc.Max,
			Legend:   rc.Legend,
		},
		Session: SessionConfig{
			PracticeTasks:   sc.PracticeTasks,
			ExperimentTasks: sc.ExperimentTasks,
			LogPractice:     sc.LogPractice,
		},
		Sink: SinkConfig{
			Kind:       "sqlite",
			SQLitePath: "shapeitup.db",
			Timeout:    10 * time.Second,
		},
		Locale: experiment.DefaultStrings(),
	}
}

// #endregion config

// #region load
// Load reads a TOML file over the defaults. An empty path returns the
// defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// #endregion load

// #region validate
// Group counts a plot can show legibly.
const (
	minGroups = 2
	maxGroups = 10
)

// Validate checks values the components cannot repair themselves.
func (c Config) Validate() error {
	var errs []error
	if c.Trial.MinGroups < minGroups || c.Trial.MaxGroups > maxGroups || c.Trial.MaxGroups < c.Trial.MinGroups {
		errs = append(errs, fmt.Errorf("trial: group range [%d, %d] invalid, must lie within [%d, %d]",
			c.Trial.MinGroups, c.Trial.MaxGroups, minGroups, maxGroups))
	}
	if c.Trial.PointsPerGroup < 1 {
		errs = append(errs, fmt.Errorf("trial: points_per_group must be positive"))
	}
	if c.Trial.MeanMin > c.Trial.MeanMax {
		errs = append(errs, fmt.Errorf("trial: mean_min %.3g exceeds mean_max %.3g", c.Trial.MeanMin, c.Trial.MeanMax))
	}
	if c.Trial.StdDev < 0 {
		errs = append(errs, fmt.Errorf("trial: std_dev must not be negative"))
	}
	switch trial.StyleMode(c.Trial.StyleMode) {
	case trial.StyleCycle, trial.StyleRandom, trial.StyleMixed:
	default:
		errs = append(errs, fmt.Errorf("trial: unknown style_mode %q", c.Trial.StyleMode))
	}
	switch trial.Distribution(c.Trial.Distribution) {
	case trial.DistNormal, trial.DistUniform:
	default:
		errs = append(errs, fmt.Errorf("trial: unknown distribution %q", c.Trial.Distribution))
	}
	switch trial.LabelMode(c.Trial.LabelMode) {
	case trial.LabelShape, trial.LabelGeneric:
	default:
		errs = append(errs, fmt.Errorf("trial: unknown label_mode %q", c.Trial.LabelMode))
	}
	if c.Render.Max <= c.Render.Min {
		errs = append(errs, fmt.Errorf("render: max must exceed min"))
	}
	if c.Render.Width < 1 || c.Render.Height < 1 || c.Render.IconSize < 1 {
		errs = append(errs, fmt.Errorf("render: width, height and icon_size must be positive"))
	}
	// Shape labels are only identifiable through the legend.
	if trial.LabelMode(c.Trial.LabelMode) == trial.LabelShape && !c.Render.Legend {
		errs = append(errs, fmt.Errorf("render: legend required with label_mode %q", c.Trial.LabelMode))
	}
	if c.Session.PracticeTasks < 0 || c.Session.ExperimentTasks < 1 {
		errs = append(errs, fmt.Errorf("session: task counts invalid"))
	}
	if c.Server.MaxSessions < 1 {
		errs = append(errs, fmt.Errorf("server: max_sessions must be positive"))
	}
	switch c.Sink.Kind {
	case "sheets", "both":
		if c.Sink.SpreadsheetID == "" {
			errs = append(errs, fmt.Errorf("sink: spreadsheet_id required for kind %q", c.Sink.Kind))
		}
		if c.Sink.Kind == "both" && c.Sink.SQLitePath == "" {
			errs = append(errs, fmt.Errorf("sink: sqlite_path required for kind %q", c.Sink.Kind))
		}
	case "sqlite":
		if c.Sink.SQLitePath == "" {
			errs = append(errs, fmt.Errorf("sink: sqlite_path required"))
		}
	case "none":
	default:
		errs = append(errs, fmt.Errorf("sink: unknown kind %q", c.Sink.Kind))
	}
	return errors.Join(errs...)
}

// #endregion validate

// #region conversions
// AssetOptions maps the [assets] section.
func (c Config) AssetOptions() assets.Options {
	o := assets.DefaultOptions()
	o.Extensions = c.Assets.Extensions
	o.MinPerBucket = c.Assets.MinPerBucket
	o.Strict = c.Assets.Strict
	return o
}

// TrialConfig maps the [trial] section. Generic labels use the locale's
// category word.
func (c Config) TrialConfig() trial.Config {
	return trial.Config{
		MinGroups:      c.Trial.MinGroups,
		MaxGroups:      c.Trial.MaxGroups,
		PointsPerGroup: c.Trial.PointsPerGroup,
		CoordMax:       c.Trial.CoordMax,
		MeanMin:        c.Trial.MeanMin,
		MeanMax:        c.Trial.MeanMax,
		WinnerBoost:    c.Trial.WinnerBoost,
		StdDev:         c.Trial.StdDev,
		StyleMode:      trial.StyleMode(c.Trial.StyleMode),
		Distribution:   trial.Distribution(c.Trial.Distribution),
		LabelMode:      trial.LabelMode(c.Trial.LabelMode),
		CategoryLabel:  c.Locale.Category,
	}
}

// RenderConfig maps the [render] section.
func (c Config) RenderConfig() render.Config {
	return render.Config{
		Width:    c.Render.Width,
		Height:   c.Render.Height,
		IconSize: c.Render.IconSize,
		Min:      c.Render.Min,
		Max:      c.Render.Max,
		Legend:   c.Render.Legend,
	}
}

// SessionConfig maps the [session] section.
func (c Config) SessionConfig() session.Config {
	return session.Config{
		PracticeTasks:   c.Session.PracticeTasks,
		ExperimentTasks: c.Session.ExperimentTasks,
		LogPractice:     c.Session.LogPractice,
	}
}

// SheetsConfig maps the spreadsheet part of [sink].
func (c Config) SheetsConfig() sink.SheetsConfig {
	return sink.SheetsConfig{
		CredentialsFile: c.Sink.CredentialsFile,
		SpreadsheetID:   c.Sink.SpreadsheetID,
		Sheet:           c.Sink.Sheet,
	}
}

// #endregion conversions
