// Package config exposes typed, read-only access to application settings.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer settings as durations in the named unit.
type TimeConfig interface {
	GetMillisecond(key string) time.Duration
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
}

// NumberConfig reads numeric settings. Missing or unconvertible values yield 0.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetFloat64(key string) float64
}

// Config defines a set of methods for retrieving configuration values of various types.
// Implementations handle the type conversion and return zero values for missing keys.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetBinary retrieves the value associated with key decoded from base64.
	GetBinary(key string) []byte

	// GetArray retrieves a list of strings. The value may be a YAML list or a
	// comma separated string such as "a,b,c"; blank elements are dropped.
	GetArray(key string) []string

	// GetIntSlice retrieves a list of integers, from a YAML list or a comma
	// separated string such as "30,7,1". Elements that are not integers are dropped.
	GetIntSlice(key string) []int

	// GetMap retrieves a string map, from a YAML mapping or a
	// "<key1>:<value1>,<key2>:<value2>" string.
	GetMap(key string) map[string]string
}
