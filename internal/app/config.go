package app

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

const (
	envPort           = "PORT"
	envDSN            = "DB_CONN"
	envReadTimeout    = "READ_TIMEOUT"
	envWriteTimeout   = "WRITE_TIMEOUT"
	envAuthEnabled    = "AUTH_ENABLED"
	envAuthIssuer     = "AUTH_ISSUER"
	envAuthAudience   = "AUTH_AUDIENCE"
	envAuthJWKSURL    = "AUTH_JWKS_URL"
	envAuthRole       = "AUTH_REQUIRED_ROLE"
	envDeviceSettings = "DEVICE_SETTINGS"
	envLogLevel       = "LOG_LEVEL"
	envJSONLogging    = "JSON_LOGGING"
)

var ErrMissingDSN = errors.New("missing required environment variable: DB_CONN")

type Config struct {
	Port         string
	DSN          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	AuthEnabled  bool
	Issuer       string
	Audience     string
	JWKSURL      string
	RequiredRole string

	// DeviceSettings is the TOML file with FortiGate settings; empty
	// means built-in defaults.
	DeviceSettings string

	LogLevel    string
	JSONLogging bool
}

func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault(envPort, "4040")
	v.SetDefault(envReadTimeout, 3*time.Second)
	v.SetDefault(envWriteTimeout, 3*time.Second)
	v.SetDefault(envAuthEnabled, false)
	v.SetDefault(envLogLevel, "info")
	v.SetDefault(envJSONLogging, false)
	v.AutomaticEnv()

	cfg := Config{
		Port:           v.GetString(envPort),
		DSN:            v.GetString(envDSN),
		ReadTimeout:    v.GetDuration(envReadTimeout),
		WriteTimeout:   v.GetDuration(envWriteTimeout),
		AuthEnabled:    v.GetBool(envAuthEnabled),
		Issuer:         v.GetString(envAuthIssuer),
		Audience:       v.GetString(envAuthAudience),
		JWKSURL:        v.GetString(envAuthJWKSURL),
		RequiredRole:   v.GetString(envAuthRole),
		DeviceSettings: v.GetString(envDeviceSettings),
		LogLevel:       v.GetString(envLogLevel),
		JSONLogging:    v.GetBool(envJSONLogging),
	}

	if cfg.DSN == "" {
		return Config{}, ErrMissingDSN
	}
	return cfg, nil
}
