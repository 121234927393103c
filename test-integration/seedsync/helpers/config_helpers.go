package helpers

import (
	"fmt"
	"os"
	"path/filepath"
)

// TestToken is the platform token written by WriteConfig
const TestToken = "integration-token"

// WriteConfig writes a seedsync configuration for the platform stub into dir and returns its path
func WriteConfig(dir, endpoint, statusDir string, perPage int) (string, error) {
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte(TestToken+"\n"), 0600); err != nil {
		return "", fmt.Errorf("failed to write token file: %w", err)
	}

	content := fmt.Sprintf(`platform:
  endpoint: %s
  tokenFile: %s
  perPage: %d
  maxAttempts: 3
  defaultRetryAfter: 10ms
  timeout: 5s
sync:
  pauseBetweenEvents: 10ms
  statusDir: %s
`, endpoint, tokenFile, perPage, statusDir)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
