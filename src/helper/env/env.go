package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetString extracts a String value from the given environment variable
func GetString(name string, defaultValue ...string) string {
	value := os.Getenv(name)
	if value == "" && len(defaultValue) > 0 {
		value = defaultValue[0]
	}
	return value
}

// MustGetString extracts a String value from the given environment variable
// It panics if the environment variable is not present
func MustGetString(name string) string {
	value := os.Getenv(name)
	if value == "" {
		panic(fmt.Sprintf("%s can't be empty", name))
	}
	return value
}

// GetInt extracts an Int value from the given environment variable
func GetInt(name string, defaultValue ...int) int {
	value, err := strconv.Atoi(os.Getenv(name))
	if err != nil && len(defaultValue) > 0 {
		value = defaultValue[0]
	}
	return value
}

// GetBool extracts a Bool value from the given environment variable
func GetBool(name string, defaultValue ...bool) bool {
	value, err := strconv.ParseBool(os.Getenv(name))
	if err != nil && len(defaultValue) > 0 {
		value = defaultValue[0]
	}
	return value
}

// GetDuration extracts a time.Duration (e.g. "30s", "5m") from the given environment variable
func GetDuration(name string, defaultValue ...time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(name))
	if err != nil && len(defaultValue) > 0 {
		value = defaultValue[0]
	}
	return value
}

// GetStringSlice splits a comma separated environment variable, dropping empty items
func GetStringSlice(name string, defaultValue ...string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}

	values := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	return values
}
