package testutil

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kendall-kelly/artisan-portal-api/config"
)

// TestJWTSecret signs every token minted in tests
const TestJWTSecret = "test-secret-for-artisan-portal"

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// RequireTestEnvironmentOrSkip skips the test unless GO_ENV is "test"
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

// TestConfig returns a configuration for an in-memory database and local storage
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:        ":memory:",
		Port:               "8080",
		GoEnv:              "test",
		JWTSecret:          TestJWTSecret,
		JWTIssuer:          "artisan-portal",
		JWTAudience:        "artisan-portal-api",
		JWTTTL:             time.Hour,
		StorageDriver:      config.StorageLocal,
		UploadDir:          os.TempDir(),
		TemplateDir:        os.TempDir(),
		CORSAllowedOrigins: []string{"*"},
		LogLevel:           "silent",
	}
}

// NewTestDB opens a migrated in-memory SQLite database that is closed with the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenSQLite(":memory:", nil)
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, config.Migrate(db), "Failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewFileHeader builds a multipart file header the way a browser upload would
func NewFileHeader(t *testing.T, fieldName, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	req := NewMultipartRequest(t, http.MethodPost, "/", map[string]string{}, fieldName, filename, content)
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File[fieldName]
	require.Len(t, files, 1)
	return files[0]
}

// NewMultipartRequest builds a multipart/form-data request with text fields and,
// when filename is not empty, one file part.
func NewMultipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// PrintEnvironmentInfo prints the current test environment configuration.
// Useful for debugging test environment issues.
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL: %s\n", os.Getenv("DATABASE_URL"))
	fmt.Printf("  STORAGE_DRIVER: %s\n", os.Getenv("STORAGE_DRIVER"))
}
