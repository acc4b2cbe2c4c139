package fetchx

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the file-loadable client configuration.
type Config struct {
	// BaseURL is the absolute prefix for relative request paths.
	BaseURL string `mapstructure:"base_url"`

	// Timeout is the default per-request budget. Zero means unlimited.
	Timeout time.Duration `mapstructure:"timeout"`

	// Credentials is the cookie-sending policy: "omit", "same-origin" or
	// "include".
	Credentials string `mapstructure:"credentials"`
}

// LoadConfig reads a YAML config file from path/filename.yaml, with
// environment variables taking precedence over file values.
func LoadConfig(path, filename string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Options converts the configuration into client options.
func (c *Config) Options() ([]ClientOption, error) {
	opts := []ClientOption{
		WithBaseURL(c.BaseURL),
		WithTimeout(c.Timeout),
	}

	if c.Credentials != "" {
		policy, err := ParseCredentialsPolicy(c.Credentials)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithCredentials(policy))
	}

	return opts, nil
}

// ParseCredentialsPolicy parses the configuration spelling of a credentials
// policy.
func ParseCredentialsPolicy(s string) (CredentialsPolicy, error) {
	switch s {
	case "omit":
		return CredentialsOmit, nil
	case "same-origin":
		return CredentialsSameOrigin, nil
	case "include":
		return CredentialsInclude, nil
	default:
		return CredentialsSameOrigin, fmt.Errorf("unknown credentials policy %q", s)
	}
}
