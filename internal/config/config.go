// Package config loads run settings and the topic and known-bills data files.
//
// Run settings come from flags, LEGIS_* environment variables and an optional
// legis-tracker.yaml through viper. The data files are read with yaml.v3,
// which also accepts their JSON form.
package config

import (
	"strings"
	"time"

	"github.com/paunplugged/legis-tracker/internal/logger"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Configuration validation errors.
var (
	ErrNoTopics          = eris.New("at least one issue is required")
	ErrTopicMissingName  = eris.New("issue name is required")
	ErrDuplicateTopic    = eris.New("issue names must be unique")
	ErrTopicNoKeywords   = eris.New("issue must have at least one keyword")
	ErrEmptyKeyword      = eris.New("keywords must not be empty")
	ErrMissingSession    = eris.New("session_year is required")
	ErrInvalidHideID     = eris.New("hide list contains an invalid bill id")
	ErrInvalidDelay      = eris.New("delay must be non-negative")
	ErrInvalidTimeout    = eris.New("timeout must be positive")
	ErrInvalidFormat     = eris.New("format must be 'text' or 'json'")
	ErrMissingOutputPath = eris.New("output is required")
)

// Setting keys shared by flags, environment and the settings file.
const (
	KeyTopics      = "topics"
	KeyKnownBills  = "known_bills"
	KeyOutput      = "output"
	KeyDataDir     = "data_dir"
	KeyCacheFile   = "cache_file"
	KeyBaseURL     = "base_url"
	KeyDelay       = "delay"
	KeyTimeout     = "timeout"
	KeySessionYear = "session_year"
	KeyFormat      = "format"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
)

// Settings holds the options for one run.
type Settings struct {
	Topics      string        `mapstructure:"topics"`
	KnownBills  string        `mapstructure:"known_bills"`
	Output      string        `mapstructure:"output"`
	DataDir     string        `mapstructure:"data_dir"`
	CacheFile   string        `mapstructure:"cache_file"`
	BaseURL     string        `mapstructure:"base_url"`
	Delay       time.Duration `mapstructure:"delay"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SessionYear string        `mapstructure:"session_year"` // overrides the topics file
	Format      string        `mapstructure:"format"`
	Log         LogConfig     `mapstructure:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NewViper returns a viper instance with defaults, environment binding and
// the optional settings file search path.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetConfigName("legis-tracker")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEGIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyTopics, "data/issues.json")
	v.SetDefault(KeyKnownBills, "data/known-bills.json")
	v.SetDefault(KeyOutput, "public/data/bills.json")
	v.SetDefault(KeyDataDir, ".")
	v.SetDefault(KeyCacheFile, ".member-cache.json")
	v.SetDefault(KeyBaseURL, "https://www.palegis.us")
	v.SetDefault(KeyDelay, "300ms")
	v.SetDefault(KeyTimeout, "30s")
	v.SetDefault(KeySessionYear, "")
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")

	return v
}

// Load reads settings from v, including the settings file when one exists.
func Load(v *viper.Viper) (*Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings for values a run cannot use.
func (s *Settings) Validate() error {
	if s.Delay < 0 {
		return ErrInvalidDelay
	}
	if s.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if s.Output == "" {
		return ErrMissingOutputPath
	}
	switch s.Format {
	case "text", "json":
	default:
		return eris.Wrapf(ErrInvalidFormat, "got %q", s.Format)
	}
	if _, err := logger.ParseLevel(s.Log.Level); err != nil {
		return err
	}
	if _, err := logger.ParseFormat(s.Log.Format); err != nil {
		return err
	}
	return nil
}
