package util

import (
	"errors"
	"strings"
)

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName normalizes an uploaded reference-document name into a
// single path segment. Traversal patterns are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errInvalidFileName
	}
	return s, nil
}
