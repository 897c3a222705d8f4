// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     config
// Description: Typed configuration loaded from TOML or YAML files
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang/lexer"
	"github.com/msto63/fnlang/foundation/lang/parser"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "FNLANG_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Lexer   LexerConfig   `toml:"lexer" yaml:"lexer"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// LexerConfig holds tokenizer limits
type LexerConfig struct {
	// MaxInputLength in bytes, 0 means unlimited
	MaxInputLength int `toml:"max_input_length" yaml:"max_input_length"`
}

// ParserConfig holds grammar settings
type ParserConfig struct {
	MaxDepth               int  `toml:"max_depth" yaml:"max_depth"`
	ExpressionInitializers bool `toml:"expression_initializers" yaml:"expression_initializers"`
}

// ServerConfig holds websocket server settings
type ServerConfig struct {
	Host           string   `toml:"host" yaml:"host"`
	Port           int      `toml:"port" yaml:"port"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxMessageSize int64    `toml:"max_message_size" yaml:"max_message_size"`
	// CacheEntries bounds the response cache, a negative value disables it
	CacheEntries int      `toml:"cache_entries" yaml:"cache_entries"`
	CacheTTL     Duration `toml:"cache_ttl" yaml:"cache_ttl"`
	// AllowedOrigins are browser origins accepted besides loopback ones
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce   Duration `toml:"debounce" yaml:"debounce"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.Newf("config file not found: %s", path).
				WithCode(mdwerror.CodeMissingConfig).
				WithOperation("config.load").
				WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.load").
			WithDetail("path", path)
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to load config").WithDetail("path", path)
	}
	return cfg, nil
}

// Parse decodes configuration data in the given format ("toml" or "yaml"),
// applies defaults and validates the result
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config

	switch format {
	case "toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to parse config").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.parse")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return nil, mdwerror.Newf("unknown config keys: %s", strings.Join(keys, ", ")).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.parse")
		}
	case "yaml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		// An empty document leaves the zero config
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, mdwerror.Wrap(err, "failed to parse config").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.parse")
		}
	default:
		return nil, mdwerror.Newf("unsupported config format: %s", format).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.parse")
	}

	// Apply defaults
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the FNLANG_CONFIG environment variable
// or the first default location that exists
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		// Try default locations
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, mdwerror.Newf("no config file found, set %s or create fnlang.toml", EnvConfigPath).
			WithCode(mdwerror.CodeMissingConfig).
			WithOperation("config.load")
	}

	return Load(path)
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./fnlang.toml",
		"./fnlang.yaml",
		"./configs/fnlang.toml",
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config/fnlang/config.toml"))
	}
	return paths
}

// detectFormat maps a file extension to a config format
func detectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", mdwerror.Newf("unsupported config file extension: %q", filepath.Ext(path)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.load").
			WithDetail("path", path)
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Parser
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = parser.DefaultMaxDepth
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 7420
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 60 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 10 * time.Second
	}
	if c.Server.MaxMessageSize == 0 {
		c.Server.MaxMessageSize = 1 << 20
	}
	if c.Server.CacheEntries == 0 {
		c.Server.CacheEntries = 256
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 5 * time.Minute
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 200 * time.Millisecond
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = []string{".fn"}
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel)
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat)
	}
	if c.Lexer.MaxInputLength < 0 {
		return invalid("lexer.max_input_length", c.Lexer.MaxInputLength)
	}
	if c.Parser.MaxDepth < 0 {
		return invalid("parser.max_depth", c.Parser.MaxDepth)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port)
	}
	if c.Server.ReadTimeout.Duration < 0 {
		return invalid("server.read_timeout", c.Server.ReadTimeout.Duration)
	}
	if c.Server.WriteTimeout.Duration < 0 {
		return invalid("server.write_timeout", c.Server.WriteTimeout.Duration)
	}
	if c.Server.MaxMessageSize < 0 {
		return invalid("server.max_message_size", c.Server.MaxMessageSize)
	}
	if c.Server.CacheTTL.Duration < 0 {
		return invalid("server.cache_ttl", c.Server.CacheTTL.Duration)
	}
	for _, origin := range c.Server.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return invalid("server.allowed_origins", origin)
		}
	}
	if c.Watch.Debounce.Duration < 0 {
		return invalid("watch.debounce", c.Watch.Debounce.Duration)
	}
	for _, ext := range c.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return invalid("watch.extensions", ext)
		}
	}
	return nil
}

// LexerOptions converts the lexer section into tokenizer options
func (c *Config) LexerOptions() lexer.Options {
	return lexer.Options{MaxInputLength: c.Lexer.MaxInputLength}
}

// ParserOptions converts the parser section into parser options
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		MaxDepth:               c.Parser.MaxDepth,
		ExpressionInitializers: c.Parser.ExpressionInitializers,
	}
}

// ServerAddress returns the listen address of the websocket server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func invalid(key string, value interface{}) error {
	return mdwerror.Newf("invalid value for %s: %v", key, value).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("config.validate").
		WithDetail("key", key)
}
