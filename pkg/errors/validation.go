package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers in scene files.
const MaxNodeIDLength = 256

// ValidateNodeID validates a scene node identifier.
//
// IDs end up in cache keys, DOT output and log lines, so they must be
// non-empty, printable and free of quotes:
//   - No empty IDs
//   - No control characters or null bytes
//   - No double quotes or backslashes
//   - Maximum length of MaxNodeIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidScene, "node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidScene, "node id too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "node id %q contains control characters", id)
		}
	}
	if strings.ContainsAny(id, "\"\\") {
		return New(ErrCodeInvalidScene, "node id %q contains quotes or backslashes", id)
	}
	return nil
}

// ValidatePath validates a user-supplied file path (scene input, layout
// output, cache directory).
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - No path traversal after cleaning a relative path
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !filepath.IsAbs(path) {
		clean := filepath.ToSlash(filepath.Clean(path))
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return New(ErrCodeInvalidPath, "path cannot escape the working directory")
		}
	}

	return nil
}

// Formats supported for scene and layout documents.
var validFormats = map[string]bool{
	"json": true,
	"yaml": true,
	"yml":  true,
	"dot":  true,
	"svg":  true,
}

// ValidateFormat validates an output format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !validFormats[strings.ToLower(format)] {
		return New(ErrCodeInvalidFormat, "unsupported format: %q (want json, yaml, dot or svg)", format)
	}
	return nil
}

// redisAddrRegex matches host:port pairs accepted by the Redis cache.
var redisAddrRegex = regexp.MustCompile(`^[A-Za-z0-9._-]*:[0-9]{1,5}$`)

// ValidateRedisAddr validates a Redis address of the form host:port.
func ValidateRedisAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "redis address cannot be empty")
	}
	if !redisAddrRegex.MatchString(addr) {
		return New(ErrCodeInvalidConfig, "invalid redis address: %q (want host:port)", addr)
	}
	return nil
}

// ValidateMongoURI validates a MongoDB connection string.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "mongo uri cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidConfig, "mongo uri must use the mongodb:// or mongodb+srv:// scheme")
	}
	return nil
}
