// Package pathutil holds small filesystem-path and id-generation helpers
// shared by the CLI's output-path and default-naming logic.
package pathutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._\s-]`)

// SanitizeFilename strips characters unsafe for a filesystem name and caps
// length, used when deriving an output path from untrusted document
// titles (e.g. a PDF's embedded title metadata).
func SanitizeFilename(name string) string {
	sanitized := strings.Trim(name, " .")
	sanitized = strings.ReplaceAll(sanitized, "..", "")
	sanitized = unsafeChars.ReplaceAllString(sanitized, "")
	if len(sanitized) > 255 {
		sanitized = sanitized[:255]
	}
	return sanitized
}

// FileExists reports whether name is a regular file under dir.
func FileExists(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// NewID returns a fresh UUIDv4, used for default collection/document
// titles when no human-readable name is available.
func NewID() string {
	return uuid.New().String()
}
