package util

import "os"

// EnvOrDefault returns the value of the environment variable, falling back
// when it is unset or empty. Flag defaults are built from this so a .env
// file or the environment can override them.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
