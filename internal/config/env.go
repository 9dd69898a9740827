// Package config provides environment configuration helpers for
// go-wayfinder commands.
package config

import (
	"os"
	"strconv"
	"time"
)

// Getenv returns the value of the environment variable or the fallback
// if it is unset or empty.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetenvInt returns the integer value of the environment variable or the
// fallback if it is unset or not a valid integer.
func GetenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetenvBool returns the boolean value of the environment variable or the
// fallback if it is unset or not parseable.
func GetenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// GetenvDuration returns the duration value of the environment variable or
// the fallback if it is unset or not parseable.
func GetenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
