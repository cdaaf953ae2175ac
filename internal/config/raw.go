package config

// RawConfig mirrors Config with optional fields so unset keys keep their
// defaults.
type RawConfig struct {
	Bindings      map[string]string `yaml:"bindings"`
	ResetScale    *float64          `yaml:"reset_scale"`
	WakeSettleMS  *int              `yaml:"wake_settle_ms"`
	QueueSize     *int              `yaml:"queue_size"`
	LogLevel      *string           `yaml:"log_level"`
	LogFile       *string           `yaml:"log_file"`
	Display       *string           `yaml:"display"`
	Notifications *bool             `yaml:"notifications"`
	UpdateCheck   *bool             `yaml:"update_check"`
}
