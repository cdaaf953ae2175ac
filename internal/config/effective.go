package config

import (
	"fmt"

	"github.com/1broseidon/snaptile/internal/snap"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s: %s: %v", e.Source.position(), e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults. Binding keys are
// normalized to canonical command names so aliases override defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	for _, name := range sortedKeys(raw.Bindings) {
		cmd, err := snap.ParseCommand(name)
		if err != nil {
			return nil, &ValidationError{Path: "bindings." + name, Err: err}
		}
		cfg.Bindings[cmd.String()] = raw.Bindings[name]
	}
	if raw.ResetScale != nil {
		cfg.ResetScale = *raw.ResetScale
	}
	if raw.WakeSettleMS != nil {
		cfg.WakeSettleMS = *raw.WakeSettleMS
	}
	if raw.QueueSize != nil {
		cfg.QueueSize = *raw.QueueSize
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.Notifications != nil {
		cfg.Notifications = *raw.Notifications
	}
	if raw.UpdateCheck != nil {
		cfg.UpdateCheck = *raw.UpdateCheck
	}

	return cfg, nil
}
