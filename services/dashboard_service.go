package services

import (
	"context"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

// ProjectStats counts visible projects per status
type ProjectStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Cancelled  int `json:"cancelled"`
}

// Dashboard is the landing page payload of a user
type Dashboard struct {
	Role              models.Role                          `json:"role"`
	Projects          []EnrichedProject                    `json:"projects"`
	Stats             ProjectStats                         `json:"stats"`
	Alerts            []models.Alert                       `json:"alerts,omitempty"`
	ComplianceStatus  *models.ComplianceStatus             `json:"compliance_status,omitempty"`
	ArtisansByVerdict map[models.ComplianceStatus][]string `json:"artisans_by_verdict,omitempty"`
}

// DashboardService assembles dashboards from the other services
type DashboardService struct {
	projects   *ProjectService
	compliance *ComplianceService
	alerts     *AlertService
	users      UserStore
}

// NewDashboardService creates the service
func NewDashboardService(projects *ProjectService, compliance *ComplianceService, alerts *AlertService, users UserStore) *DashboardService {
	return &DashboardService{projects: projects, compliance: compliance, alerts: alerts, users: users}
}

// CountByStatus tallies projects per status
func CountByStatus(projects []EnrichedProject) ProjectStats {
	stats := ProjectStats{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectPending:
			stats.Pending++
		case models.ProjectInProgress:
			stats.InProgress++
		case models.ProjectDone:
			stats.Done++
		case models.ProjectCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// Build returns the dashboard of userID acting as role
func (s *DashboardService) Build(ctx context.Context, userID string, role models.Role) (*Dashboard, error) {
	projects, err := s.projects.ListProjects(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	SortByStatusPriority(projects)

	dashboard := &Dashboard{
		Role:     role,
		Projects: projects,
		Stats:    CountByStatus(projects),
	}

	switch role {
	case models.RoleAdmin:
		alerts, err := s.alerts.List(ctx)
		if err != nil {
			return nil, err
		}
		dashboard.Alerts = alerts

		artisans, err := s.users.ListByRole(ctx, models.RoleArtisan)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(artisans))
		for i, a := range artisans {
			ids[i] = a.ID
		}
		verdicts, err := s.compliance.AggregateStatuses(ctx, ids)
		if err != nil {
			return nil, err
		}
		dashboard.ArtisansByVerdict = map[models.ComplianceStatus][]string{
			models.ComplianceCompliant: {},
			models.ComplianceExpired:   {},
			models.ComplianceMissing:   {},
		}
		for _, id := range ids {
			verdict := verdicts[id]
			dashboard.ArtisansByVerdict[verdict] = append(dashboard.ArtisansByVerdict[verdict], id)
		}

	case models.RoleArtisan:
		verdict, err := s.compliance.AggregateStatus(ctx, userID)
		if err != nil {
			return nil, err
		}
		dashboard.ComplianceStatus = &verdict
	}

	return dashboard, nil
}
