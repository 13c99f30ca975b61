// Package config loads the builder configuration from YAML, expanding
// ${ENV} references. Search order: explicit path, ./deckbuilder.yaml, then
// ~/.deckbuilder/config.yaml; defaults apply when nothing is found.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Duration accepts YAML scalars like "500ms" as well as plain nanosecond
// integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)

		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return errors.Wrap(err, "invalid duration")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}
	*d = Duration(parsed)

	return nil
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Gateway selects the generative service credentials and models.
type Gateway struct {
	APIKey     string `yaml:"api_key"`
	TextModel  string `yaml:"text_model"`
	ImageModel string `yaml:"image_model"`
}

// Retry configures the shared stage retry policy.
type Retry struct {
	MaxAttempts int      `yaml:"max_attempts"`
	BaseDelay   Duration `yaml:"base_delay"`
	Multiplier  float64  `yaml:"multiplier"`
}

// Assets configures the staging area.
type Assets struct {
	Root     string `yaml:"root"`
	MaxBytes int64  `yaml:"max_bytes"`
	MaxCount int    `yaml:"max_count"`
}

// Config is the full builder configuration.
type Config struct {
	Gateway     Gateway `yaml:"gateway"`
	Retry       Retry   `yaml:"retry"`
	Assets      Assets  `yaml:"assets"`
	Concurrency int     `yaml:"concurrency"`
	DeckFormat  string  `yaml:"deck_format"`
	Theme       string  `yaml:"theme"`
	Debug       bool    `yaml:"debug"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Gateway: Gateway{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Retry: Retry{
			MaxAttempts: 3,
			BaseDelay:   Duration(time.Second),
			Multiplier:  2,
		},
		Assets: Assets{
			Root: filepath.Join(os.TempDir(), "deckbuilder"),
		},
		Concurrency: 3,
		DeckFormat:  "16:9",
	}
}

// Load reads the configuration. An explicit path must exist; the default
// locations are optional.
func Load(path string) (Config, error) {
	resolved, required := resolvePath(path)
	if resolved == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if !required && os.IsNotExist(err) {
			return Default(), nil
		}

		return Config{}, errors.Wrapf(err, "unable to read config %s", resolved)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "unable to parse config %s", resolved)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", resolved)
	}

	return cfg, nil
}

func resolvePath(path string) (resolved string, required bool) {
	if path != "" {
		return path, true
	}

	if _, err := os.Stat("deckbuilder.yaml"); err == nil {
		return "deckbuilder.yaml", false
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".deckbuilder", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, false
		}
	}

	return "", false
}

func (c Config) validate() error {
	if c.Retry.MaxAttempts < 1 {
		return errors.New("retry.max_attempts must be at least 1")
	}
	if c.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}

	return nil
}

var envRef = regexp.MustCompile(`\$\{(\w+)\}`)

// expandEnv substitutes ${VAR} references; unknown variables expand to the
// empty string.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}
