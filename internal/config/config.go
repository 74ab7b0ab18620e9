package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/evalcheck/internal/metric"
)

// Config holds all runtime configuration for an evalcheck run.
type Config struct {
	DSN        string
	FilePath   string
	Table      string // "schema.table" or a bare table name in public
	ConfigPath string
	LogFormat  string // "text" or "json"
	Record     bool   // store the run in Postgres
	// MetricNames are built-in metric names given on the command line.
	MetricNames []string
	Metrics     []metric.Metric
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Metrics []yamlMetric `yaml:"metrics"`
}

type yamlMetric struct {
	Name           string `yaml:"name"`
	EvaluationMode string `yaml:"evaluation_mode"`
}

const fileSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "metrics": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "evaluation_mode": {"type": "string", "enum": ["qac", "qa", "qc", "gc"]}
        }
      }
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func configSchema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiledSchema, compiledSchemaErr = jsonschema.CompileString("evalcheck.config.json", fileSchema)
	})
	return compiledSchema, compiledSchemaErr
}

// LoadFromFile reads a YAML config file and appends its metrics to Config.
// The document is checked against the config JSON Schema before decoding.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if raw != nil {
		if err := checkShape(raw); err != nil {
			return err
		}
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	for _, ym := range yc.Metrics {
		m, err := resolveMetric(ym)
		if err != nil {
			return err
		}
		c.Metrics = append(c.Metrics, m)
	}
	return nil
}

// checkShape validates the decoded YAML document against fileSchema. The
// document is round-tripped through JSON so numbers and maps have the shapes
// the validator expects.
func checkShape(doc any) error {
	schema, err := configSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	return nil
}

// resolveMetric fills in a missing evaluation mode from the built-in catalog.
func resolveMetric(ym yamlMetric) (metric.Metric, error) {
	if ym.EvaluationMode == "" {
		m, ok := metric.Lookup(ym.Name)
		if !ok {
			return metric.Metric{}, fmt.Errorf("metric %q is not built in and has no evaluation_mode", ym.Name)
		}
		return m, nil
	}
	mode, err := metric.ParseMode(ym.EvaluationMode)
	if err != nil {
		return metric.Metric{}, fmt.Errorf("metric %q: %w", ym.Name, err)
	}
	return metric.Metric{Name: ym.Name, Mode: mode}, nil
}

// ErrNoMetrics is returned when neither --metric nor a config file names any
// metric.
var ErrNoMetrics = errors.New("no metrics to check: pass --metric or --config")

// AllMetrics is the --metric value that selects the whole built-in catalog.
const AllMetrics = "all"

// ResolveMetricNames appends the built-in metrics named in MetricNames.
// "all" expands to the built-in catalog. At least one metric must end up
// configured.
func (c *Config) ResolveMetricNames() error {
	for _, name := range c.MetricNames {
		if name == AllMetrics {
			c.Metrics = append(c.Metrics, metric.Builtins()...)
			continue
		}
		m, ok := metric.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown metric %q", name)
		}
		c.Metrics = append(c.Metrics, m)
	}
	if len(c.Metrics) == 0 {
		return ErrNoMetrics
	}
	return nil
}

// Validate checks that exactly one dataset source is set and that it is
// usable.
func (c *Config) Validate() error {
	switch {
	case c.FilePath == "" && c.Table == "":
		return fmt.Errorf("one of --file or --table is required")
	case c.FilePath != "" && c.Table != "":
		return fmt.Errorf("--file and --table are mutually exclusive")
	}
	if c.FilePath != "" {
		if _, err := os.Stat(c.FilePath); err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
	}
	if c.Table != "" && c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required with --table")
	}
	if c.Record && c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required with --record")
	}
	return nil
}
