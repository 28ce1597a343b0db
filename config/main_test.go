package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run outside GO_ENV=test: Load reads .env.<GO_ENV>, and a
// development or production file could point the database tests at real data.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "config tests need GO_ENV=test (current: %q)\n", env)
		fmt.Fprintln(os.Stderr, "run them with: GO_ENV=test go test ./...")
		os.Exit(1)
	}

	// Load defaults are asserted below; keep the caller's shell out of them
	for _, key := range []string{"PORT", "UPLOAD_DIR", "TEMPLATE_DIR", "LOG_LEVEL", "SEED_DATABASE"} {
		os.Unsetenv(key)
	}

	os.Exit(m.Run())
}
