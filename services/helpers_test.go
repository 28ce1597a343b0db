package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kendall-kelly/artisan-portal-api/config"
	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/repository"
	"github.com/kendall-kelly/artisan-portal-api/seed"
	"github.com/kendall-kelly/artisan-portal-api/utils"
)

// mockAlertPublisher records published alerts
type mockAlertPublisher struct {
	mock.Mock
}

func (m *mockAlertPublisher) Publish(message string, alertType models.AlertType) {
	m.Called(message, alertType)
}

// testClock is a settable time source
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	db         *gorm.DB
	files      *MockFileStore
	templates  *MockFileStore
	alerts     *mockAlertPublisher
	clock      *testClock
	userStore  *repository.UserGormRepository
	docStore   *repository.DocumentGormRepository
	compliance *ComplianceService
	projects   *ProjectService
	users      *UserService
	invoices   *InvoiceService
}

// newTestEnv wires the services on a seeded in-memory database
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := config.OpenSQLite(":memory:", nil)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, config.Migrate(db), "Failed to migrate test database")
	require.NoError(t, seed.Run(context.Background(), db), "Failed to seed test database")

	alerts := &mockAlertPublisher{}
	alerts.On("Publish", mock.Anything, mock.Anything).Return()

	env := &testEnv{
		db:        db,
		files:     NewMockFileStore(),
		templates: NewMockFileStore(),
		alerts:    alerts,
		clock:     &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		userStore: repository.NewUserGormRepository(db),
		docStore:  repository.NewDocumentGormRepository(db),
	}
	projectStore := repository.NewProjectGormRepository(db)
	uploads := NewUploadService(env.files)

	env.compliance = NewComplianceService(env.docStore, env.userStore, uploads, env.templates, alerts)
	env.compliance.SetClock(env.clock.Now)
	env.projects = NewProjectService(projectStore, env.userStore, alerts)
	env.users = NewUserService(env.userStore, env.docStore, env.compliance, uploads)
	env.invoices = NewInvoiceService(repository.NewInvoiceGormRepository(db), projectStore, env.userStore, uploads)
	env.invoices.now = env.clock.Now
	return env
}

// newFileHeader builds a parsed multipart file header holding content
func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

// errorCode extracts the code of a service error, or "" for anything else
func errorCode(err error) string {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		ue *UnauthorizedError
		fe *utils.FileUploadError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Code
	case errors.As(err, &nf):
		return nf.Code
	case errors.As(err, &ce):
		return ce.Code
	case errors.As(err, &ue):
		return ue.Code
	case errors.As(err, &fe):
		return fe.Code
	default:
		return ""
	}
}
