package config

import (
	"os"
	"strconv"
	"strings"
)

func stringOrEmpty(key string, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

func intOrEmpty(key string, defaultValue int) int {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func boolOrEmpty(key string, defaultValue bool) bool {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func stringsOrEmpty(key string, defaultValue []string) []string {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return splitList(valueStr)
}

func stringLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func intLookup(key string) (int, bool) {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, false
	}
	return value, true
}

func boolLookup(key string) (bool, bool) {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, false
	}
	return value, true
}

func stringsLookup(key string) ([]string, bool) {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return nil, false
	}
	return splitList(valueStr), true
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
