package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	DefaultTimeout = 2 * time.Second

	// PrimaryTarget and MockTarget are the values accepted in the "target"
	// field of a check definition.
	PrimaryTarget = "primary"
	MockTarget    = "mock"
)

type Config struct {
	// Target settings
	URL         string        `mapstructure:"url" validate:"required,url"`
	MockURL     string        `mapstructure:"mockURL" validate:"omitempty,url"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	OpenAPIFile string        `mapstructure:"openapiFile"`

	// Test cases settings
	TestCase      string `mapstructure:"testCase"`
	TestCasesPath string `mapstructure:"testCasesPath"`
	TestSet       string `mapstructure:"testSet"`

	// HTTP client settings
	TLSVerify       bool   `mapstructure:"tlsVerify"`
	Proxy           string `mapstructure:"proxy" validate:"omitempty,url"`
	AddHeader       string `mapstructure:"addHeader"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns" validate:"gte=0"`
	MaxRedirects    int    `mapstructure:"maxRedirects" validate:"gte=0"`
	IdleConnTimeout int    `mapstructure:"idleConnTimeout" validate:"gte=0"`

	// Report settings
	ReportPath   string   `mapstructure:"reportPath"`
	ReportName   string   `mapstructure:"reportName"`
	ReportFormat []string `mapstructure:"reportFormat"`
	NoProgress   bool     `mapstructure:"noProgress"`

	// config.yaml
	HTTPHeaders map[string]string `mapstructure:"headers"`

	// Other settings
	LogLevel string `mapstructure:"logLevel"`

	Args []string
}

// BaseURL returns the base URL that checks with the given target are sent to.
// The mock target falls back to the primary URL when no mock URL is set.
func (c *Config) BaseURL(target string) string {
	if target == MockTarget && c.MockURL != "" {
		return c.MockURL
	}

	return c.URL
}

// Validate checks the struct tags of the config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}
