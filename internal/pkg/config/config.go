// Package config reads service settings from a YAML file with environment
// overrides. Keys are dotted paths such as "modules.twofactor.store".
package config

import (
	"io"
	"time"
)

// Config is the read-only view of the service settings. Missing keys yield
// the zero value of the requested type.
type Config interface {
	io.Closer

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetInt32(key string) int32
	GetUint(key string) uint
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer number of minutes.
	GetMinute(key string) time.Duration

	// GetArray reads a YAML sequence or a comma-separated string.
	GetArray(key string) []string
	// GetMap reads a YAML mapping or a "k:v,k:v" string.
	GetMap(key string) map[string]string
}
