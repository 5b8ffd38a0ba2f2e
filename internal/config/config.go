package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string
	Env  string

	// StorePath is the BoltDB file holding the encrypted auth record.
	StorePath string
	// StorePassphrase feeds the Argon2id derivation of the store key.
	StorePassphrase string

	JWTSecret string
	JWTExpiry time.Duration

	// Biometric capability facts, normally supplied by the platform; the
	// server variant takes them from the environment.
	BiometricHardware bool
	BiometricEnrolled bool
}

func Load() Config {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		StorePath:         getEnv("STORE_PATH", "passguard.db"),
		StorePassphrase:   getEnv("STORE_PASSPHRASE", "dev-passphrase-change-in-production"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 15*time.Minute),
		BiometricHardware: getEnvBool("BIOMETRIC_HARDWARE", false),
		BiometricEnrolled: getEnvBool("BIOMETRIC_ENROLLED", false),
	}

	if cfg.Env == "production" {
		if cfg.JWTSecret == "dev-secret-change-in-production" {
			slog.Error("JWT_SECRET must be set in production environment")
			os.Exit(1)
		}
		if cfg.StorePassphrase == "dev-passphrase-change-in-production" {
			slog.Error("STORE_PASSPHRASE must be set in production environment")
			os.Exit(1)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean environment variable, using fallback", "key", key, "value", v)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration environment variable, using fallback", "key", key, "value", v)
		return fallback
	}
	return d
}
