// Package config provides YAML configuration parsing for the webui CLI.
//
// This package enables serving a state value from a configuration file, as
// an alternative to the programmatic SDK approach. The state is an
// arbitrary YAML mapping; the page is rendered with a Go html/template, or
// served as JSON when no template is configured.
//
// Example configuration:
//
//	port: 9001
//	head: <title>Counter</title>
//	update: form
//
//	state:
//	  count: 0
//	  name: ${USER:-anonymous}
//
//	template: |
//	  <p>{{.name}}: {{.count}}</p>
//	  <form method="post"><input name="name"><button>Save</button></form>
package config

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultPort = 9001

// UpdateMode selects how POST requests update the state.
type UpdateMode string

const (
	// UpdateJSON merges the JSON object in the request body.
	UpdateJSON UpdateMode = "json"

	// UpdateForm merges the form fields of the request.
	UpdateForm UpdateMode = "form"

	// UpdateNone ignores POST bodies; the state never changes.
	UpdateNone UpdateMode = "none"
)

// Config is the root configuration structure for the webui CLI.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Port is the HTTP server port. Defaults to 9001.
	Port int `yaml:"port"`

	// Head is markup inserted into the page's <head>.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Head string `yaml:"head"`

	// NoOpen disables opening the page in a browser on start.
	NoOpen bool `yaml:"no_open"`

	// State is the initial state. String values support environment
	// variable substitution.
	State map[string]any `yaml:"state"`

	// Template is an html/template executed with the state as data.
	// Without a template the server runs headless and serves JSON.
	// Supports environment variable substitution.
	Template string `yaml:"template"`

	// TemplateFile is a path to read Template from, relative to the
	// config file. Mutually exclusive with Template.
	TemplateFile string `yaml:"template_file"`

	// Update selects how POST requests change the state: "json"
	// (default), "form" or "none".
	Update UpdateMode `yaml:"update"`

	// SerializeUpdates applies POST requests one at a time.
	SerializeUpdates bool `yaml:"serialize_updates"`
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// A relative template_file is resolved against the directory of path.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(data, filepath.Dir(path))
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in Head, Template and string state
// values. Defaults are applied for Port (9001) and Update ("json"). A
// relative template_file is resolved against the working directory.
func Parse(data []byte) (*Config, error) {
	return parse(data, "")
}

func parse(data []byte, baseDir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Update == "" {
		cfg.Update = UpdateJSON
	}
	if cfg.State == nil {
		cfg.State = map[string]any{}
	}

	if cfg.TemplateFile != "" {
		if cfg.Template != "" {
			return nil, fmt.Errorf("template and template_file are mutually exclusive")
		}
		path := cfg.TemplateFile
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("template_file: failed to read: %w", err)
		}
		cfg.Template = string(content)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	switch c.Update {
	case UpdateJSON, UpdateForm, UpdateNone:
	default:
		return fmt.Errorf("update must be json, form, or none, got %q", c.Update)
	}

	expanded, err := expandEnvVars(c.Head)
	if err != nil {
		return fmt.Errorf("head: %w", err)
	}
	c.Head = expanded

	expanded, err = expandEnvVars(c.Template)
	if err != nil {
		return fmt.Errorf("template: %w", err)
	}
	c.Template = expanded

	// fail fast before the first request hits an invalid template
	if strings.TrimSpace(c.Template) != "" {
		if _, err := template.New("page").Parse(c.Template); err != nil {
			return fmt.Errorf("invalid template: %w", err)
		}
	}

	for k, v := range c.State {
		s, ok := v.(string)
		if !ok {
			continue
		}
		expanded, err := expandEnvVars(s)
		if err != nil {
			return fmt.Errorf("state[%s]: %w", k, err)
		}
		c.State[k] = expanded
	}

	return nil
}

// Headless reports whether the config has no template.
func (c *Config) Headless() bool {
	return strings.TrimSpace(c.Template) == ""
}

// UnmarshalYAML implements yaml.Unmarshaler for UpdateMode, accepting any
// letter case.
func (m *UpdateMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("update must be a string, got %v", node.Kind)
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*m = UpdateMode(strings.ToLower(strings.TrimSpace(s)))
	return nil
}
