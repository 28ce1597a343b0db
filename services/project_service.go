package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

// EnrichedProject is a project with its client and artisans resolved to display names
type EnrichedProject struct {
	models.Project
	ClientName        string   `json:"client_name"`
	ClientCompany     *string  `json:"client_company"`
	ClientDisplayName string   `json:"client_display_name"`
	ArtisanIDs        []string `json:"artisan_ids"`
	ArtisanNames      []string `json:"artisan_names"`
}

// HasArtisan reports whether artisanID is linked to the project
func (p EnrichedProject) HasArtisan(artisanID string) bool {
	for _, id := range p.ArtisanIDs {
		if id == artisanID {
			return true
		}
	}
	return false
}

// ProjectInput is the full set of editable project fields
type ProjectInput struct {
	Title           string               `json:"title" validate:"required"`
	ClientID        string               `json:"client_id" validate:"required"`
	Status          models.ProjectStatus `json:"status"`
	StartDate       string               `json:"start_date"`
	Description     string               `json:"description"`
	EndOfWorkSigned bool                 `json:"end_of_work_signed"`
	ArtisanIDs      []string             `json:"artisan_ids"`
}

// ProjectService resolves which projects a user may see and edits projects
type ProjectService struct {
	projects ProjectStore
	users    UserStore
	alerts   AlertPublisher
}

// NewProjectService creates the resolver. alerts may be nil.
func NewProjectService(projects ProjectStore, users UserStore, alerts AlertPublisher) *ProjectService {
	return &ProjectService{projects: projects, users: users, alerts: alerts}
}

var statusPriority = map[models.ProjectStatus]int{
	models.ProjectPending:    1,
	models.ProjectInProgress: 2,
	models.ProjectDone:       3,
	models.ProjectCancelled:  4,
}

// StatusPriority ranks a status for display; unknown statuses sort last
func StatusPriority(status models.ProjectStatus) int {
	if p, ok := statusPriority[status]; ok {
		return p
	}
	return 99
}

// SortByStatusPriority orders projects Pending, InProgress, Done, Cancelled,
// keeping the existing order among equal statuses
func SortByStatusPriority(projects []EnrichedProject) {
	sort.SliceStable(projects, func(i, j int) bool {
		return StatusPriority(projects[i].Status) < StatusPriority(projects[j].Status)
	})
}

// ListProjects returns the projects visible to a user with the given role:
// everything for admins, linked projects for artisans, owned projects for clients.
// Any other role sees nothing.
func (s *ProjectService) ListProjects(ctx context.Context, userID string, role models.Role) ([]EnrichedProject, error) {
	var (
		projects []models.Project
		err      error
	)
	switch role {
	case models.RoleAdmin:
		projects, err = s.projects.ListAll(ctx)
	case models.RoleArtisan:
		projects, err = s.projects.ListForArtisan(ctx, userID)
	case models.RoleClient:
		projects, err = s.projects.ListForClient(ctx, userID)
	default:
		return []EnrichedProject{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return s.enrich(ctx, projects)
}

// GetProject returns one enriched project
func (s *ProjectService) GetProject(ctx context.Context, id string) (*EnrichedProject, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, notFound("PROJECT_NOT_FOUND", "Project not found")
	}
	enriched, err := s.enrich(ctx, []models.Project{*project})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// CanView reports whether a user with role may see the project
func CanView(project EnrichedProject, userID string, role models.Role) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleArtisan:
		return project.HasArtisan(userID)
	case models.RoleClient:
		return project.ClientID == userID
	default:
		return false
	}
}

func (s *ProjectService) enrich(ctx context.Context, projects []models.Project) ([]EnrichedProject, error) {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	links, err := s.projects.ArtisanLinks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load project artisans: %w", err)
	}
	linksByProject := make(map[string][]models.ProjectArtisan, len(projects))
	for _, link := range links {
		linksByProject[link.ProjectID] = append(linksByProject[link.ProjectID], link)
	}

	enriched := make([]EnrichedProject, 0, len(projects))
	for _, p := range projects {
		ep := EnrichedProject{
			Project:           p,
			ClientName:        p.Client.Name,
			ClientCompany:     p.Client.CompanyName,
			ClientDisplayName: p.Client.DisplayName(),
			ArtisanIDs:        []string{},
			ArtisanNames:      []string{},
		}
		for _, link := range linksByProject[p.ID] {
			ep.ArtisanIDs = append(ep.ArtisanIDs, link.ArtisanID)
			ep.ArtisanNames = append(ep.ArtisanNames, link.Artisan.DisplayName())
		}
		enriched = append(enriched, ep)
	}
	return enriched, nil
}

// normalize validates input and builds the project row it describes
func (s *ProjectService) normalize(ctx context.Context, input ProjectInput) (*models.Project, []string, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.ClientID = strings.TrimSpace(input.ClientID)
	if err := validateInput(input); err != nil {
		return nil, nil, err
	}

	status := input.Status
	if status == "" {
		status = models.ProjectPending
	}
	if !status.IsValid() {
		return nil, nil, &ValidationError{Code: "INVALID_STATUS", Message: "Invalid project status: " + string(status)}
	}

	startDate, err := models.ParseDate(input.StartDate)
	if err != nil {
		return nil, nil, &ValidationError{Code: "INVALID_DATE", Message: err.Error()}
	}

	client, err := s.users.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load client: %w", err)
	}
	if client == nil {
		return nil, nil, notFound("CLIENT_NOT_FOUND", "Client not found")
	}

	artisanIDs := uniqueIDs(input.ArtisanIDs)
	for _, artisanID := range artisanIDs {
		artisan, err := s.users.FindByID(ctx, artisanID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load artisan: %w", err)
		}
		if artisan == nil {
			return nil, nil, notFound("ARTISAN_NOT_FOUND", "Artisan not found: "+artisanID)
		}
	}

	return &models.Project{
		Title:           input.Title,
		ClientID:        input.ClientID,
		Status:          status,
		StartDate:       startDate,
		Description:     input.Description,
		EndOfWorkSigned: input.EndOfWorkSigned,
	}, artisanIDs, nil
}

// CreateProject stores a new project with its artisan links
func (s *ProjectService) CreateProject(ctx context.Context, input ProjectInput) (*models.Project, error) {
	project, artisanIDs, err := s.normalize(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project, artisanIDs); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if s.alerts != nil {
		s.alerts.Publish(fmt.Sprintf("Nouveau projet \"%s\" créé.", project.Title), models.AlertInfo)
	}
	return project, nil
}

// UpdateProject replaces every editable field and the artisan set. Fields left
// out of input fall back to their defaults rather than keeping the old value.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, input ProjectInput) (*EnrichedProject, error) {
	existing, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if existing == nil {
		return nil, notFound("PROJECT_NOT_FOUND", "Project not found")
	}

	project, artisanIDs, err := s.normalize(ctx, input)
	if err != nil {
		return nil, err
	}
	project.ID = id

	if err := s.projects.Replace(ctx, project, artisanIDs); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes the project with its artisan links and invoices
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	existing, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	if existing == nil {
		return notFound("PROJECT_NOT_FOUND", "Project not found")
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// uniqueIDs drops blanks and duplicates, keeping first occurrences in order
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
