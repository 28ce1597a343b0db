package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/repository"
)

func newDashboardService(env *testEnv) *DashboardService {
	alerts := NewAlertService(repository.NewAlertGormRepository(env.db), nil)
	return NewDashboardService(env.projects, env.compliance, alerts, env.userStore)
}

func TestCountByStatus(t *testing.T) {
	stats := CountByStatus([]EnrichedProject{
		{Project: models.Project{Status: models.ProjectPending}},
		{Project: models.Project{Status: models.ProjectInProgress}},
		{Project: models.Project{Status: models.ProjectInProgress}},
		{Project: models.Project{Status: models.ProjectCancelled}},
	})

	assert.Equal(t, ProjectStats{Total: 4, Pending: 1, InProgress: 2, Cancelled: 1}, stats)
}

func TestAdminDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, dt := range DocumentCatalog {
		_, _, err := env.compliance.RecordUpload(ctx, UploadInput{ArtisanID: "u4", DocumentType: dt.Key, File: newFileHeader(t, dt.Key+".pdf", pdf)})
		require.NoError(t, err)
	}

	dashboard, err := newDashboardService(env).Build(ctx, "u1", models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, []string{"p3", "p1", "p2"}, projectIDsOf(dashboard.Projects), "Projects are ordered by status")
	assert.Equal(t, ProjectStats{Total: 3, InProgress: 2, Done: 1}, dashboard.Stats)
	assert.Len(t, dashboard.Alerts, 3)
	assert.Equal(t, []string{"u4"}, dashboard.ArtisansByVerdict[models.ComplianceCompliant])
	assert.Empty(t, dashboard.ArtisansByVerdict[models.ComplianceExpired])
	assert.ElementsMatch(t, []string{"u2", "u5", "u6"}, dashboard.ArtisansByVerdict[models.ComplianceMissing])
	assert.Nil(t, dashboard.ComplianceStatus)
}

func TestArtisanDashboard(t *testing.T) {
	env := newTestEnv(t)

	dashboard, err := newDashboardService(env).Build(context.Background(), "u6", models.RoleArtisan)
	require.NoError(t, err)

	assert.Equal(t, []string{"p3"}, projectIDsOf(dashboard.Projects))
	require.NotNil(t, dashboard.ComplianceStatus)
	assert.Equal(t, models.ComplianceMissing, *dashboard.ComplianceStatus)
	assert.Empty(t, dashboard.Alerts, "Only admins see alerts")
}

func TestClientDashboard(t *testing.T) {
	env := newTestEnv(t)

	dashboard, err := newDashboardService(env).Build(context.Background(), "u3", models.RoleClient)
	require.NoError(t, err)

	assert.Equal(t, 3, dashboard.Stats.Total)
	assert.Nil(t, dashboard.ComplianceStatus)
	assert.Nil(t, dashboard.ArtisansByVerdict)
}
