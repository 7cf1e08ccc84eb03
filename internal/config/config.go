// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/gridterm/internal/gemini"
	"github.com/jeranaias/gridterm/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the main configuration structure for gridterm.
type Config struct {
	Gemini GeminiConfig `toml:"gemini" json:"gemini"`
	UI     UIConfig     `toml:"ui" json:"ui"`
	Log    LogConfig    `toml:"log" json:"log"`
}

// GeminiConfig contains settings for the query client.
type GeminiConfig struct {
	// APIKey is the credential. It is never written to logs.
	APIKey string `toml:"api_key" json:"api_key"`

	// Model is the model id or one of the short aliases (flash, pro, lite).
	Model string `toml:"model" json:"model"`

	// Persona replaces the built-in system instruction when non-empty.
	Persona string `toml:"persona" json:"persona"`

	// Grounding attaches the Google Search tool to every request.
	Grounding bool `toml:"grounding" json:"grounding"`

	// RequestsPerMinute paces outgoing requests. Zero disables pacing.
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// UIConfig contains display settings.
type UIConfig struct {
	EngineName    string `toml:"engine_name" json:"engine_name"`
	Operator      string `toml:"operator" json:"operator"`
	MarkdownStyle string `toml:"markdown_style" json:"markdown_style"` // "auto", "dark", "light", "notty"
	WordWrap      int    `toml:"word_wrap" json:"word_wrap"`

	// Welcome overrides the generated handshake banner.
	Welcome string `toml:"welcome" json:"welcome"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Path  string `toml:"path" json:"path"`
	Level string `toml:"level" json:"level"` // "debug", "info", "warn", "error"
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultEngineName is the name shown on LINK entries and in the HUD.
	DefaultEngineName = "Black3Panther"

	// DefaultOperator is the user named in the welcome banner.
	DefaultOperator = "operator"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	configDirName  = ".gridterm"
	configFileName = "config.toml"
	logFileName    = "gridterm.log"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:     gemini.DefaultModel,
			Grounding: true,
		},
		UI: UIConfig{
			EngineName:    DefaultEngineName,
			Operator:      DefaultOperator,
			MarkdownStyle: "auto",
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the gridterm configuration directory (~/.gridterm).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the default path of config.toml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultLogPath returns the default rotating log file path.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

// ensureSecurePermissions restricts the config file to its owner, since it
// may hold the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0077 != 0 {
		return os.Chmod(path, 0600)
	}
	return nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads ~/.gridterm/config.toml. A missing file is not an error: the
// built-in defaults are used and environment overrides still apply.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile loads path without environment overrides. Use it when the result
// is going to be written back, so values from the environment never land in
// the file.
func LoadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// readFile returns the defaults with path decoded over them. A missing file
// yields the defaults.
func readFile(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := loadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, statErr)
	}
	return cfg, nil
}

// loadTOML decodes path over cfg. Keys absent from the file keep the values
// already in cfg.
func loadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	return nil
}

// SetDefaults fills in values left empty by the file and the environment.
func (c *Config) SetDefaults() {
	if strings.TrimSpace(c.Gemini.Model) == "" {
		c.Gemini.Model = gemini.DefaultModel
	}
	c.Gemini.Model = gemini.ResolveModel(c.Gemini.Model)

	if strings.TrimSpace(c.UI.EngineName) == "" {
		c.UI.EngineName = DefaultEngineName
	}
	if strings.TrimSpace(c.UI.Operator) == "" {
		c.UI.Operator = DefaultOperator
	}
	if c.UI.MarkdownStyle == "" {
		c.UI.MarkdownStyle = "auto"
	}
	c.UI.MarkdownStyle = strings.ToLower(c.UI.MarkdownStyle)

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Path == "" {
		if p, err := DefaultLogPath(); err == nil {
			c.Log.Path = p
		}
	}
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the config to the default path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config as TOML with owner-only permissions.
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# gridterm configuration\n")
	buf.WriteString("# Environment overrides: GRIDTERM_API_KEY, GEMINI_API_KEY, GRIDTERM_MODEL,\n")
	buf.WriteString("# GRIDTERM_GROUNDING, GRIDTERM_LOG_LEVEL\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var validMarkdownStyles = map[string]bool{"auto": true, "dark": true, "light": true, "notty": true}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.ContainsAny(c.Gemini.Model, " \t\n") {
		errs = append(errs, ValidationError{Field: "gemini.model", Message: "must not contain whitespace"})
	}
	if c.Gemini.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "gemini.requests_per_minute", Message: "must be >= 0"})
	}
	if !validMarkdownStyles[c.UI.MarkdownStyle] {
		errs = append(errs, ValidationError{
			Field:   "ui.markdown_style",
			Message: fmt.Sprintf("invalid value %q (must be auto, dark, light or notty)", c.UI.MarkdownStyle),
		})
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "must be >= 0"})
	}
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid value %q (must be debug, info, warn or error)", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// Environment variables read by ApplyEnvOverrides.
const (
	EnvAPIKey       = "GRIDTERM_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvModel        = "GRIDTERM_MODEL"
	EnvGrounding    = "GRIDTERM_GROUNDING"
	EnvLogLevel     = "GRIDTERM_LOG_LEVEL"
)

// ApplyEnvOverrides applies environment variable overrides to the config.
// GRIDTERM_API_KEY wins over GEMINI_API_KEY; both win over the file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Gemini.APIKey = v
	} else if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(EnvModel); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(EnvGrounding); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Gemini.Grounding = b
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// GeminiSettings converts the config into query client settings.
func (c *Config) GeminiSettings() gemini.Settings {
	return gemini.Settings{
		APIKey:            c.Gemini.APIKey,
		Model:             c.Gemini.Model,
		Persona:           c.Gemini.Persona,
		Grounding:         c.Gemini.Grounding,
		RequestsPerMinute: c.Gemini.RequestsPerMinute,
	}
}

// HasAPIKey reports whether a credential is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}

// BadgeName is the engine name as shown on LINK entries.
func (c *Config) BadgeName() string {
	return strings.ToUpper(c.UI.EngineName)
}

// HUDTitle is the engine title shown in the header.
func (c *Config) HUDTitle() string {
	return c.UI.EngineName + " Engine"
}

// WelcomeText returns the handshake banner that opens every session.
func (c *Config) WelcomeText() string {
	if strings.TrimSpace(c.UI.Welcome) != "" {
		return c.UI.Welcome
	}
	return fmt.Sprintf("Connection established. Handshake verified. User: **%s**. \n\n"+
		"%s Engine v1.0.4 successfully initialized. All global mesh nodes are available for decryption. \n\n"+
		"What data do you need from The Grid, Sir?", c.UI.Operator, c.UI.EngineName)
}

// =============================================================================
// UTILITY
// =============================================================================

// Clone creates a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a JSON representation with the API key redacted.
func (c *Config) String() string {
	redacted := c.Clone()
	if redacted.Gemini.APIKey != "" {
		redacted.Gemini.APIKey = "[REDACTED]"
	}
	data, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}

// =============================================================================
// GLOBAL CONFIG INSTANCE
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
)

// Global returns the process-wide config, or defaults when none is set.
func Global() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalConfig == nil {
		return Default()
	}
	return globalConfig
}

// SetGlobal replaces the process-wide config. The watcher calls this on
// every successful reload.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}
