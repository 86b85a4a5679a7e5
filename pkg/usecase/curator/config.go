package curator

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Config holds deployment-tunable curation parameters. Character ceilings
// are injected into the prompt instructions; the pipeline itself does not
// truncate.
type Config struct {
	// BatchSize is K: the memory summary is refreshed every K created
	// receipts
	BatchSize int64 `yaml:"batch_size"`

	// CurationWindow is the number of recent receipts fed to a summary
	// refresh
	CurationWindow int `yaml:"curation_window"`

	// EnhanceWindow is the number of recent receipts fed to a note
	// enhancement
	EnhanceWindow int `yaml:"enhance_window"`

	SummaryMaxChars int `yaml:"summary_max_chars"`
	EnhanceMaxChars int `yaml:"enhance_max_chars"`

	// GenerateTimeout bounds each generative call. Zero disables the bound.
	GenerateTimeout Duration `yaml:"generate_timeout"`
}

// Duration wraps time.Duration so YAML values like "30s" parse
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return goerr.Wrap(err, "failed to decode duration")
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return goerr.Wrap(err, "invalid duration", goerr.Value("value", raw))
	}

	*d = Duration(parsed)
	return nil
}

// DefaultConfig returns the default curation parameters
func DefaultConfig() *Config {
	return &Config{
		BatchSize:       5,
		CurationWindow:  15,
		EnhanceWindow:   3,
		SummaryMaxChars: 500,
		EnhanceMaxChars: 200,
		GenerateTimeout: Duration(60 * time.Second),
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.Value("path", path))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.Value("path", path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the config for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return goerr.New("batch_size must be at least 1", goerr.Value("batch_size", c.BatchSize))
	}
	if c.CurationWindow < 1 {
		return goerr.New("curation_window must be at least 1", goerr.Value("curation_window", c.CurationWindow))
	}
	if c.EnhanceWindow < 1 {
		return goerr.New("enhance_window must be at least 1", goerr.Value("enhance_window", c.EnhanceWindow))
	}
	return nil
}
