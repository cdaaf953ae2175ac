package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/snaptile/internal/hotkeys"
	"github.com/1broseidon/snaptile/internal/snap"
)

// Config holds the application configuration.
type Config struct {
	Bindings      map[string]string `yaml:"bindings"`
	ResetScale    float64           `yaml:"reset_scale"`
	WakeSettleMS  int               `yaml:"wake_settle_ms"`
	QueueSize     int               `yaml:"queue_size"`
	LogLevel      string            `yaml:"log_level"`
	LogFile       string            `yaml:"log_file,omitempty"`
	Display       string            `yaml:"display,omitempty"`
	Notifications bool              `yaml:"notifications"`
	UpdateCheck   bool              `yaml:"update_check"`
}

func DefaultConfig() *Config {
	return &Config{
		Bindings:      defaultBindings(),
		ResetScale:    snap.DefaultResetScale,
		WakeSettleMS:  1000,
		QueueSize:     16,
		LogLevel:      "info",
		Notifications: true,
		UpdateCheck:   true,
	}
}

func defaultBindings() map[string]string {
	out := make(map[string]string)
	for _, b := range hotkeys.DefaultBindings() {
		out[b.Command.String()] = b.Combo.String()
	}
	return out
}

// HotkeyBindings parses the bindings map. Commands bound to an empty string
// are left unbound.
func (c *Config) HotkeyBindings() ([]hotkeys.Binding, error) {
	raw := make(map[string]string, len(c.Bindings))
	for name, combo := range c.Bindings {
		if strings.TrimSpace(combo) == "" {
			continue
		}
		raw[name] = combo
	}
	return hotkeys.ParseBindings(raw)
}

// WakeSettle is the delay between wake and tap reinstall.
func (c *Config) WakeSettle() time.Duration {
	return time.Duration(c.WakeSettleMS) * time.Millisecond
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Bindings == nil {
		return &ValidationError{Path: "bindings", Err: fmt.Errorf("bindings must not be null")}
	}
	for _, name := range sortedKeys(c.Bindings) {
		if _, err := snap.ParseCommand(name); err != nil {
			return &ValidationError{Path: "bindings." + name, Err: err}
		}
		combo := strings.TrimSpace(c.Bindings[name])
		if combo == "" {
			continue
		}
		if _, err := hotkeys.ParseCombo(combo); err != nil {
			return &ValidationError{Path: "bindings." + name, Err: err}
		}
	}
	bindings, err := c.HotkeyBindings()
	if err != nil {
		return &ValidationError{Path: "bindings", Err: err}
	}
	if _, err := hotkeys.NewDecoder(bindings); err != nil {
		return &ValidationError{Path: "bindings", Err: err}
	}

	if c.ResetScale <= 1 {
		return &ValidationError{Path: "reset_scale", Err: fmt.Errorf("reset_scale must be > 1")}
	}
	if c.WakeSettleMS < 0 {
		return &ValidationError{Path: "wake_settle_ms", Err: fmt.Errorf("wake_settle_ms must be >= 0")}
	}
	if c.QueueSize < 1 {
		return &ValidationError{Path: "queue_size", Err: fmt.Errorf("queue_size must be >= 1")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	return nil
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}

	var warnings []string
	for _, name := range sortedKeys(c.Bindings) {
		if strings.TrimSpace(c.Bindings[name]) == "" {
			warnings = append(warnings, fmt.Sprintf("bindings.%s is empty; %s has no hotkey", name, name))
		}
	}
	if c.WakeSettleMS > 10000 {
		warnings = append(warnings, fmt.Sprintf("wake_settle_ms %d leaves hotkeys dead for over 10s after wake", c.WakeSettleMS))
	}
	return warnings
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
