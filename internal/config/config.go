package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config captures the panel layout and where status events come from.
type Config struct {
	Version         int           `yaml:"version"`
	Stream          StreamConfig  `yaml:"stream"`
	Actions         ActionsConfig `yaml:"actions"`
	InstalledSuffix string        `yaml:"installed_suffix"`
	Tools           []ToolConfig  `yaml:"tools"`
	ToolFiles       []string      `yaml:"tool_files,omitempty"`
}

// StreamConfig selects the event source. A file takes precedence over
// redis, which takes precedence over the HTTP URL.
type StreamConfig struct {
	URL       string      `yaml:"url"`
	EventType string      `yaml:"event_type"`
	Token     string      `yaml:"token,omitempty"`
	File      string      `yaml:"file,omitempty"`
	Follow    *bool       `yaml:"follow,omitempty"`
	Redis     RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig describes a redis pub/sub source.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Channel  string `yaml:"channel,omitempty"`
}

// ActionsConfig points at the control-panel API that runs tool actions.
type ActionsConfig struct {
	BaseURL        string   `yaml:"base_url"`
	Token          string   `yaml:"token,omitempty"`
	Confirm        []string `yaml:"confirm"`
	ConfirmMessage string   `yaml:"confirm_message"`
}

// ToolConfig describes one tool widget.
type ToolConfig struct {
	Name      string          `yaml:"name"`
	Title     string          `yaml:"title,omitempty"`
	Status    string          `yaml:"status,omitempty"`
	URL       string          `yaml:"url,omitempty"`
	Actions   []string        `yaml:"actions,omitempty"`
	Versions  []VersionConfig `yaml:"versions,omitempty"`
	Installed string          `yaml:"installed,omitempty"`
	Selected  string          `yaml:"selected,omitempty"`
}

// VersionConfig is one selectable version. In YAML it may be written as a
// bare string.
type VersionConfig struct {
	Value string `yaml:"value"`
	Label string `yaml:"label,omitempty"`
}

// UnmarshalYAML accepts either a scalar value or a {value, label} mapping.
func (v *VersionConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v.Value = node.Value
		return nil
	}
	type plain VersionConfig
	return node.Decode((*plain)(v))
}

// Source kinds returned by StreamConfig.Kind.
const (
	SourceHTTP  = "http"
	SourceRedis = "redis"
	SourceFile  = "file"
)

// Kind reports which source the stream section configures, or "" if none.
func (s StreamConfig) Kind() string {
	switch {
	case s.File != "":
		return SourceFile
	case s.Redis.Addr != "":
		return SourceRedis
	case s.URL != "":
		return SourceHTTP
	}
	return ""
}

// FollowValue returns the effective follow flag for file sources.
func (s StreamConfig) FollowValue() bool {
	if s.Follow == nil {
		return false
	}
	return *s.Follow
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Stream: StreamConfig{
			URL:       "http://localhost:8080/events",
			EventType: "toolStatus",
		},
		Actions: ActionsConfig{
			Confirm:        []string{"restart", "remove"},
			ConfirmMessage: "Are you sure?",
		},
		InstalledSuffix: " (installed)",
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration. Tool files are resolved relative to the
// directory of path.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.loadToolFiles(filepath.Dir(path)); err != nil {
		return Config{}, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Stream.EventType == "" {
		c.Stream.EventType = defaults.Stream.EventType
	}
	if c.Stream.Redis.Channel == "" {
		c.Stream.Redis.Channel = c.Stream.EventType
	}
	if c.Actions.ConfirmMessage == "" {
		c.Actions.ConfirmMessage = defaults.Actions.ConfirmMessage
	}
	if c.InstalledSuffix == "" {
		c.InstalledSuffix = defaults.InstalledSuffix
	}
	for i := range c.Tools {
		tool := &c.Tools[i]
		if tool.Title == "" {
			tool.Title = tool.Name
		}
		if tool.Status == "" {
			tool.Status = "NOT DEPLOYED"
		}
		if len(tool.Actions) == 0 {
			tool.Actions = []string{"deploy", "open", "restart", "remove"}
		}
		for j := range tool.Versions {
			if tool.Versions[j].Label == "" {
				tool.Versions[j].Label = tool.Versions[j].Value
			}
		}
	}
}

// Tool returns the configured tool with the given name.
func (c Config) Tool(name string) (ToolConfig, bool) {
	for _, t := range c.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return ToolConfig{}, false
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func boolPtr(v bool) *bool {
	return &v
}
