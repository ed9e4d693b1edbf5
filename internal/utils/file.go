package utils

import (
	"encoding/base64"
	"os"
	"strings"
)

func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DecodeJSONKey accepts a JSON document either raw or base64 encoded.
func DecodeJSONKey(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "{") {
		return value
	}
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return value
	}
	return string(data)
}
