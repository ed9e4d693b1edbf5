package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rclone/rclone/fs/config/obscure"
)

// ObscuredPrefix marks a value produced by `mongopher obscure`.
const ObscuredPrefix = "XXX:"

func Obscure(s string) (string, error) {
	out, err := obscure.Obscure(s)
	if err != nil {
		return "", fmt.Errorf("obscure: %w", err)
	}
	return ObscuredPrefix + out, nil
}

// Reveal returns plaintext for XXX: values and s unchanged otherwise.
func Reveal(s string) (string, error) {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, ObscuredPrefix) {
		return s, nil
	}

	encoded := strings.TrimPrefix(s, ObscuredPrefix)
	if encoded == "" {
		return "", errors.New("empty obscured string after XXX: prefix")
	}

	plain, err := obscure.Reveal(encoded)
	if err != nil {
		return "", fmt.Errorf("reveal: %w", err)
	}
	return plain, nil
}
