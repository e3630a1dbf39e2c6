package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/ini.v1"

	apperrors "graylogsync/pkg/errors"
	"graylogsync/pkg/validation"
)

const DefaultAPIURL = "http://127.0.0.1:9000/api/"

// Settings is the INI file holding the API credentials and the optional
// observability knobs.
type Settings struct {
	Graylog struct {
		APIToken          string        `ini:"api_token"`
		APIURL            string        `ini:"api_url"`
		RequestsPerSecond float64       `ini:"requests_per_second"`
		Timeout           time.Duration `ini:"timeout"`
	}

	Tracing struct {
		Enabled     bool    `ini:"enabled"`
		JaegerURL   string  `ini:"jaeger_url"`
		Environment string  `ini:"environment"`
		SampleRate  float64 `ini:"sample_rate"`
	}

	Metrics struct {
		Textfile string `ini:"textfile"`
	}

	Logging struct {
		Level string `ini:"level"`
	}
}

// DefaultSettings returns settings with sane defaults.
func DefaultSettings() *Settings {
	s := &Settings{}

	s.Graylog.APIURL = DefaultAPIURL
	s.Graylog.RequestsPerSecond = 0
	s.Graylog.Timeout = 30 * time.Second

	s.Tracing.Enabled = false
	s.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	s.Tracing.Environment = "production"
	s.Tracing.SampleRate = 1.0

	return s
}

// LoadSettings reads the INI settings file, applies defaults and env overrides.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	if _, err := os.Stat(path); err == nil {
		file, err := ini.Load(path)
		if err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrCodeInvalidConfig,
				fmt.Sprintf("failed to parse settings file %s", path))
		}
		sections := map[string]interface{}{
			"graylog": &s.Graylog,
			"tracing": &s.Tracing,
			"metrics": &s.Metrics,
			"logging": &s.Logging,
		}
		for name, target := range sections {
			if !file.HasSection(name) {
				continue
			}
			if err := file.Section(name).MapTo(target); err != nil {
				return nil, apperrors.WrapError(err, apperrors.ErrCodeInvalidConfig,
					fmt.Sprintf("invalid [%s] section in %s", name, path))
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read settings file %s", path))
	}

	s.applyEnvOverrides()
	if err := s.Validate(); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInvalidConfig, "invalid settings")
	}
	return s, nil
}

// Validate checks that settings values are within acceptable ranges.
func (s *Settings) Validate() error {
	if err := validation.ValidateNonEmptyString(s.Graylog.APIToken, "graylog.api_token"); err != nil {
		return err
	}
	if err := validation.ValidateHTTPURL(s.Graylog.APIURL); err != nil {
		return fmt.Errorf("graylog.api_url: %w", err)
	}
	if s.Graylog.RequestsPerSecond < 0 {
		return fmt.Errorf("graylog.requests_per_second must be >= 0")
	}
	if s.Graylog.Timeout <= 0 {
		return fmt.Errorf("graylog.timeout must be > 0")
	}

	if s.Tracing.Enabled {
		if err := validation.ValidateHTTPURL(s.Tracing.JaegerURL); err != nil {
			return fmt.Errorf("tracing.jaeger_url: %w", err)
		}
		if err := validation.ValidateRange(s.Tracing.SampleRate, 0, 1, "tracing.sample_rate"); err != nil {
			return err
		}
	}

	return nil
}

func (s *Settings) applyEnvOverrides() {
	if token := os.Getenv("GRAYLOGSYNC_API_TOKEN"); token != "" {
		s.Graylog.APIToken = token
	}
	if url := os.Getenv("GRAYLOGSYNC_API_URL"); url != "" {
		s.Graylog.APIURL = url
	}
	if level := os.Getenv("GRAYLOGSYNC_LOG_LEVEL"); level != "" {
		s.Logging.Level = level
	}
}
