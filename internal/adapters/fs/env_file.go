package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// EnvFileAdapter reads and updates the project .env file
type EnvFileAdapter struct {
	path string
}

// NewEnvFileAdapter creates an adapter for <project_root>/.env
func NewEnvFileAdapter(cfg *config.RuntimeConfig) *EnvFileAdapter {
	return &EnvFileAdapter{path: filepath.Join(cfg.ProjectRoot, ".env")}
}

// Path returns the .env file path
func (e *EnvFileAdapter) Path() string {
	return e.path
}

// Get returns the value of key in the file, if present
func (e *EnvFileAdapter) Get(key string) (string, bool, error) {
	values, err := godotenv.Read(e.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", e.path, err)
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set writes key=value. An existing assignment of key is replaced in place,
// otherwise the entry is appended. Other lines are left untouched.
func (e *EnvFileAdapter) Set(key, value string) error {
	existing, err := os.ReadFile(e.path) //nolint:gosec // project path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	entry, err := godotenv.Marshal(map[string]string{key: value})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	var lines []string
	if len(existing) > 0 {
		lines = strings.Split(strings.TrimRight(string(existing), "\n"), "\n")
	}

	replaced := false
	for i, line := range lines {
		trimmed := strings.TrimPrefix(strings.TrimSpace(line), "export ")
		if strings.HasPrefix(trimmed, key+"=") {
			lines[i] = entry
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(e.path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(e.path, 0600); err != nil {
		return fmt.Errorf("failed to restrict .env permissions: %w", err)
	}

	return nil
}

// Ensure EnvFileAdapter implements EnvFileWriter
var _ usecase.EnvFileWriter = (*EnvFileAdapter)(nil)
