package errors

import (
	"os"
	"strings"
	"unicode"
)

// ValidateWorkspacePath validates a workspace root for analysis.
// The path must name an existing directory and be free of characters
// that could smuggle in unintended targets.
func ValidateWorkspacePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "workspace path cannot be empty")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "workspace path too long (max 500 characters)")
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "workspace path contains control characters")
		}
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "workspace path does not exist: %s", path)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "stat workspace path %s", path)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "workspace path is not a directory: %s", path)
	}
	return nil
}

// ValidateServerCommand validates a language server command line before
// it is handed to the process launcher.
func ValidateServerCommand(command string) error {
	if strings.TrimSpace(command) == "" {
		return New(ErrCodeInvalidInput, "language server command cannot be empty")
	}
	if strings.ContainsRune(command, 0) {
		return New(ErrCodeInvalidInput, "language server command contains null bytes")
	}
	return nil
}
