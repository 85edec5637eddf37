package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateTokenKey returns an opaque 32 hex character credential.
func GenerateTokenKey() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
