package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings contains the application config.
type Settings struct {
	Environment string `env:"ENVIRONMENT" envDefault:"local" yaml:"environment"`
	LogLevel    string `env:"LOG_LEVEL"   envDefault:"info"  yaml:"logLevel"`
	Port        int    `env:"PORT"        envDefault:"8080"  yaml:"port"`

	// TryFi API settings
	APIURL      string        `env:"TRYFI_API_URL"  envDefault:"https://api.tryfi.com" yaml:"apiUrl"`
	Email       string        `env:"TRYFI_EMAIL"    yaml:"email"`
	Password    string        `env:"TRYFI_PASSWORD" yaml:"password"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT"   envDefault:"30s" yaml:"httpTimeout"`
	SessionTTL  time.Duration `env:"SESSION_TTL"    envDefault:"12h" yaml:"sessionTtl"`

	// Polling settings
	PollInterval       time.Duration `env:"POLL_INTERVAL"       envDefault:"5m" yaml:"pollInterval"`
	RefreshConcurrency int           `env:"REFRESH_CONCURRENCY" envDefault:"4"  yaml:"refreshConcurrency"`
	ReloadEvery        int           `env:"RELOAD_EVERY"        envDefault:"12" yaml:"reloadEvery"`

	// Snapshot settings
	EventSource       string `env:"EVENT_SOURCE"        envDefault:"pet-tracker" yaml:"eventSource"`
	SigningPrivateKey string `env:"SIGNING_PRIVATE_KEY" yaml:"signingPrivateKey"`

	// MQTT settings
	MQTTBrokerURL   string `env:"MQTT_BROKER_URL"   yaml:"mqttBrokerUrl"`
	MQTTClientID    string `env:"MQTT_CLIENT_ID"    envDefault:"pet-tracker" yaml:"mqttClientId"`
	MQTTTopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"tryfi/pets"  yaml:"mqttTopicPrefix"`
}

// Load reads the settings from the environment.
func Load() (Settings, error) {
	settings, err := env.ParseAs[Settings]()
	if err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings from environment: %w", err)
	}
	return settings, nil
}

// Validate reports settings that cannot be used to talk to the API.
func (s *Settings) Validate() error {
	var errs []error
	if s.APIURL == "" {
		errs = append(errs, errors.New("TRYFI_API_URL is required"))
	}
	if s.Email == "" {
		errs = append(errs, errors.New("TRYFI_EMAIL is required"))
	}
	if s.Password == "" {
		errs = append(errs, errors.New("TRYFI_PASSWORD is required"))
	}
	if s.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("POLL_INTERVAL must be positive, got %s", s.PollInterval))
	}
	if s.RefreshConcurrency < 1 {
		errs = append(errs, fmt.Errorf("REFRESH_CONCURRENCY must be at least 1, got %d", s.RefreshConcurrency))
	}
	if s.ReloadEvery < 1 {
		errs = append(errs, fmt.Errorf("RELOAD_EVERY must be at least 1, got %d", s.ReloadEvery))
	}
	return errors.Join(errs...)
}
