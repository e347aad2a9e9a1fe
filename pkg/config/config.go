package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/envaudit/envaudit/pkg/spec"
)

// Config is the tool configuration for a validation run.
type Config struct {
	// SpecPath is the specification document to parse.
	SpecPath string `yaml:"spec_path" validate:"required"`

	// EnvDir is the directory containing the generated .env files.
	EnvDir string `yaml:"env_dir" validate:"required"`

	// ReportDir is the directory the report is written into.
	ReportDir string `yaml:"report_dir" validate:"required"`

	// FilePrefix is the config-file naming convention. Files named exactly
	// FilePrefix or FilePrefix.<domain> are scanned.
	FilePrefix string `yaml:"file_prefix" validate:"required"`

	// SecretsDomain is the canonical secrets file. Secret-like variables
	// documented under it are seeded from it rather than freshly generated.
	SecretsDomain string `yaml:"secrets_domain" validate:"required"`

	// CanonicalSecrets lists variable names that are always propagated from
	// the secrets domain regardless of where they are documented.
	CanonicalSecrets []string `yaml:"canonical_secrets"`

	// Workers is the number of parallel file-scan workers.
	Workers int `yaml:"workers" validate:"min=1"`

	// FileTimeout guards each file read against non-regular files (FIFOs,
	// device nodes) accidentally present in the scanned directory.
	FileTimeout Duration `yaml:"file_timeout" validate:"min=0"`

	// Strict makes the validate command exit non-zero when any finding is
	// reported.
	Strict bool `yaml:"strict"`
}

// Default returns the default configuration. SpecPath and EnvDir have no
// sensible defaults and must be supplied via flags or a config file.
func Default() *Config {
	return &Config{
		ReportDir:     ".",
		FilePrefix:    ".env",
		SecretsDomain: ".env.secrets",
		Workers:       4,
		FileTimeout:   Duration(5 * time.Second),
	}
}

// Duration wraps time.Duration so YAML can carry human-readable values
// ("5s", "250ms") as well as plain nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

// Load reads a YAML config file. Fields absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for missing or invalid fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.SecretsDomain != c.FilePrefix && !hasDomainPrefix(c.SecretsDomain, c.FilePrefix) {
		return fmt.Errorf("secrets domain %q does not follow the %q naming convention", c.SecretsDomain, c.FilePrefix)
	}
	return nil
}

// ClassifierRules builds the action-classifier rule set from the
// configuration.
func (c *Config) ClassifierRules() spec.Rules {
	rules := spec.DefaultRules()
	rules.SecretsDomain = c.SecretsDomain
	rules.CanonicalSecrets = append(rules.CanonicalSecrets, c.CanonicalSecrets...)
	return rules
}

func hasDomainPrefix(name, prefix string) bool {
	return len(name) > len(prefix)+1 && name[:len(prefix)+1] == prefix+"."
}
