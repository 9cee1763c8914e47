package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExecLookPath allows us to mock exec.LookPath in tests
var ExecLookPath = exec.LookPath

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateFileExtension checks if a file has one of the allowed extensions
func ValidateFileExtension(filePath string, allowedExts []string) error {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, allowedExt := range allowedExts {
		if ext == allowedExt {
			return nil
		}
	}
	return &ValidationError{
		Field:   "extension",
		Message: fmt.Sprintf("file extension %s not allowed. Allowed extensions: %v", ext, allowedExts),
	}
}

// ValidateExistingFile checks that path points to a readable regular file with one of the allowed extensions
func ValidateExistingFile(field, path string, allowedExts []string) error {
	if path == "" {
		return &ValidationError{Field: field, Message: "path is required"}
	}
	if err := ValidateFileExtension(path, allowedExts); err != nil {
		return &ValidationError{Field: field, Message: err.Error()}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("file does not exist: %s", path), Err: err}
	}
	if info.IsDir() {
		return &ValidationError{Field: field, Message: fmt.Sprintf("expected a file, got a directory: %s", path)}
	}
	return nil
}
