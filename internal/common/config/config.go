package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ocf/adelie/internal/common/errs"
	"gopkg.in/yaml.v3"
)

// TokenEnv is the environment variable holding the GitHub access token
const TokenEnv = "GITHUB_TOKEN"

var (
	ErrTokenNotSet         = errors.New(TokenEnv + " is not set")
	ErrTargetIncomplete    = errors.New("target owner, repo, path and branch must all be set")
	ErrCommitterIncomplete = errors.New("committer name and email must both be set")
	ErrInvalidConcurrency  = errors.New("resolve.concurrency must not be negative")
	ErrInvalidRetries      = errors.New("resolve.retries must not be negative")
	ErrInvalidTimeout      = errors.New("resolve.timeout must not be negative")
)

// Config represents the application configuration
type Config struct {
	Target    TargetConfig    `yaml:"target"`
	Committer CommitterConfig `yaml:"committer"`
	Resolve   ResolveConfig   `yaml:"resolve"`
	GitHub    GitHubConfig    `yaml:"github"`
}

// TargetConfig identifies the tracked inventory file
type TargetConfig struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Path   string `yaml:"path"`
	Branch string `yaml:"branch"`
}

// CommitterConfig is the identity used for update commits
type CommitterConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// ResolveConfig tunes index fetching
type ResolveConfig struct {
	// Concurrency caps simultaneous index fetches; 0 means unbounded
	Concurrency int `yaml:"concurrency"`
	// Retries is the number of transport-level retries for 5xx/429 responses
	Retries int `yaml:"retries"`
	// Timeout bounds each index request
	Timeout time.Duration `yaml:"timeout"`
}

// GitHubConfig holds GitHub API settings
type GitHubConfig struct {
	APIURL string `yaml:"api_url"`
	Token  string `yaml:"token,omitempty"`
}

// Default returns the built-in deployment settings
func Default() *Config {
	return &Config{
		Target: TargetConfig{
			Owner:  "ocf",
			Repo:   "kubernetes",
			Path:   "apps/versions.toml",
			Branch: "main",
		},
		Committer: CommitterConfig{
			Name:  "ocfbot",
			Email: "ocfbot@ocf.berkeley.edu",
		},
		Resolve: ResolveConfig{
			Concurrency: 8,
			Retries:     2,
			Timeout:     30 * time.Second,
		},
		GitHub: GitHubConfig{
			APIURL: "https://api.github.com",
		},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/adelie/config.yaml
func DefaultConfigPath() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "adelie", "config.yaml"), nil
}

// Load reads the default config file, if any, then applies the environment
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from path over the defaults. A missing file
// is not an error. The token from the environment takes precedence over the
// file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.New(errs.KindConfig, "parse config", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, errs.New(errs.KindConfig, "read config", path, err)
	}

	if token := os.Getenv(TokenEnv); token != "" {
		cfg.GitHub.Token = token
	}

	return cfg, nil
}

// Validate checks that every setting a run needs is present
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return errs.New(errs.KindConfig, "", "", ErrTokenNotSet)
	}
	t := c.Target
	if t.Owner == "" || t.Repo == "" || t.Path == "" || t.Branch == "" {
		return errs.New(errs.KindConfig, "", "", ErrTargetIncomplete)
	}
	if c.Committer.Name == "" || c.Committer.Email == "" {
		return errs.New(errs.KindConfig, "", "", ErrCommitterIncomplete)
	}
	if c.Resolve.Concurrency < 0 {
		return errs.New(errs.KindConfig, "", "", fmt.Errorf("%w: got %d", ErrInvalidConcurrency, c.Resolve.Concurrency))
	}
	if c.Resolve.Retries < 0 {
		return errs.New(errs.KindConfig, "", "", fmt.Errorf("%w: got %d", ErrInvalidRetries, c.Resolve.Retries))
	}
	if c.Resolve.Timeout < 0 {
		return errs.New(errs.KindConfig, "", "", fmt.Errorf("%w: got %s", ErrInvalidTimeout, c.Resolve.Timeout))
	}
	return nil
}

// Repository returns "owner/repo"
func (c *Config) Repository() string {
	return c.Target.Owner + "/" + c.Target.Repo
}

// Redacted returns the configuration as YAML with the token masked
func (c *Config) Redacted() ([]byte, error) {
	cp := *c
	if cp.GitHub.Token != "" {
		cp.GitHub.Token = "********"
	}
	return yaml.Marshal(&cp)
}
