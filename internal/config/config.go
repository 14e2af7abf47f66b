// Package config loads the gateway configuration from YAML.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/mtsarev06/es-orm/internal/domain/field"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
)

// Config holds the esormd gateway configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Auth          AuthConfig          `yaml:"auth"`
	Logging       LoggingConfig       `yaml:"logging"`
	Indexes       []IndexSpec         `yaml:"indexes"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticsearchConfig holds engine connection settings.
type ElasticsearchConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	APIKey           string   `yaml:"api_key"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// AuthConfig holds API authentication settings. An empty key list disables
// authentication.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// IndexSpec declares one managed index and its fields.
type IndexSpec struct {
	Name      string      `yaml:"name"`
	Timestamp bool        `yaml:"timestamp"`
	Fields    []FieldSpec `yaml:"fields"`
}

// FieldSpec declares one document field.
type FieldSpec struct {
	Name       string      `yaml:"name"`
	Kind       string      `yaml:"kind"`
	Level      string      `yaml:"level"` // strict, warning, disabled (default: strict)
	PrettyName string      `yaml:"pretty_name"`
	Required   bool        `yaml:"required"`
	Choices    []string    `yaml:"choices"`
	Elem       string      `yaml:"elem"`
	Format     string      `yaml:"format"`
	Properties []FieldSpec `yaml:"properties"` // object kind sub-fields
}

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// GetEnv returns the runtime environment name (ESORM_ENV, default local).
func GetEnv() string {
	if env := os.Getenv("ESORM_ENV"); env != "" {
		return env
	}
	return "local"
}

// Load reads and parses a config file, expanding ${VAR} references from the
// process environment.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	expanded := envVarPattern.ReplaceAllFunc(raw, func(m []byte) []byte {
		name := envVarPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})

	cfg := &Config{}
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec == 0 {
		c.HTTP.ReadTimeoutSec = 15
	}
	if c.HTTP.WriteTimeoutSec == 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec == 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.Elasticsearch.Addrs) == 0 {
		c.Elasticsearch.Addrs = []string{"http://localhost:9200"}
	}
	if c.Elasticsearch.ReadinessTimeout == 0 {
		c.Elasticsearch.ReadinessTimeout = 10
	}
}

// Build converts the index declaration into a domain schema.
func (i IndexSpec) Build() (*schema.Schema, error) {
	fields := make([]field.Descriptor, 0, len(i.Fields))
	for _, fs := range i.Fields {
		desc, err := fs.build()
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", i.Name, err)
		}
		fields = append(fields, desc)
	}

	var opts []schema.Option
	if i.Timestamp {
		opts = append(opts, schema.WithTimestamp())
	}
	s, err := schema.New(fields, opts...)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", i.Name, err)
	}
	return s, nil
}

func (fs FieldSpec) build() (field.Descriptor, error) {
	kind := field.Kind(fs.Kind)
	if fs.Kind == "" {
		kind = field.Text
	}

	opts := []field.Option{}
	if fs.Level != "" {
		opts = append(opts, field.WithLevel(field.Level(fs.Level)))
	}
	if fs.PrettyName != "" {
		opts = append(opts, field.WithPrettyName(fs.PrettyName))
	}
	if fs.Required {
		opts = append(opts, field.WithRequired())
	}
	if len(fs.Choices) > 0 {
		opts = append(opts, field.WithChoices(fs.Choices...))
	}
	if fs.Elem != "" {
		opts = append(opts, field.WithElem(field.Kind(fs.Elem)))
	}
	if fs.Format != "" {
		opts = append(opts, field.WithFormat(fs.Format))
	}
	if len(fs.Properties) > 0 {
		props := make([]field.Descriptor, 0, len(fs.Properties))
		for _, ps := range fs.Properties {
			desc, err := ps.build()
			if err != nil {
				return field.Descriptor{}, fmt.Errorf("property of %s: %w", fs.Name, err)
			}
			props = append(props, desc)
		}
		opts = append(opts, field.WithProperties(props...))
	}
	return field.New(fs.Name, kind, opts...)
}
