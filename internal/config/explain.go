package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/snaptile/internal/snap"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	bindings
//	bindings.<command>
//	reset_scale
//	wake_settle_ms
//	queue_size
//	log_level
//	log_file
//	display
//	notifications
//	update_check
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, canonical, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	for _, p := range []string{path, canonical} {
		if src, ok := res.Sources[p]; ok {
			return value, src, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// lookupValue also returns the canonical path, which differs from path only
// when a binding is named by a command alias.
func lookupValue(cfg *Config, path string) (any, string, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "bindings" {
		switch len(parts) {
		case 1:
			return cfg.Bindings, path, nil
		case 2:
			cmd, err := snap.ParseCommand(parts[1])
			if err != nil {
				return nil, "", err
			}
			return cfg.Bindings[cmd.String()], "bindings." + cmd.String(), nil
		}
		return nil, "", fmt.Errorf("unknown path %q", path)
	}
	if len(parts) != 1 {
		return nil, "", fmt.Errorf("unknown path %q", path)
	}

	switch path {
	case "reset_scale":
		return cfg.ResetScale, path, nil
	case "wake_settle_ms":
		return cfg.WakeSettleMS, path, nil
	case "queue_size":
		return cfg.QueueSize, path, nil
	case "log_level":
		return cfg.LogLevel, path, nil
	case "log_file":
		return cfg.LogFile, path, nil
	case "display":
		return cfg.Display, path, nil
	case "notifications":
		return cfg.Notifications, path, nil
	case "update_check":
		return cfg.UpdateCheck, path, nil
	default:
		return nil, "", fmt.Errorf("unknown path %q", path)
	}
}
