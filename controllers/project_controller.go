package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/models"
	"github.com/kendall-kelly/artisan-portal-api/services"
)

// ProjectController serves /api/projects
type ProjectController struct {
	projects *services.ProjectService
}

func NewProjectController(projects *services.ProjectService) *ProjectController {
	return &ProjectController{projects: projects}
}

// ListProjects handles GET /api/projects - projects visible to the caller.
// Admins may look through another user's eyes with ?userId=&role=.
// ?sort=status orders by status priority instead of start date.
func (pc *ProjectController) ListProjects(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	if role == models.RoleAdmin {
		qUser, qRole := c.Query("userId"), c.Query("role")
		if qUser != "" || qRole != "" {
			if qUser == "" || qRole == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "userId and role are required together")
				return
			}
			userID, role = qUser, models.Role(qRole)
		}
	}

	projects, err := pc.projects.ListProjects(c.Request.Context(), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if c.Query("sort") == "status" {
		services.SortByStatusPriority(projects)
	}

	respondSuccess(c, http.StatusOK, projects)
}

// GetProject handles GET /api/projects/:id
func (pc *ProjectController) GetProject(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	project, err := pc.projects.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !services.CanView(*project, userID, role) {
		respondError(c, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
		return
	}

	respondSuccess(c, http.StatusOK, project)
}

// CreateProject handles POST /api/projects (admins only)
func (pc *ProjectController) CreateProject(c *gin.Context) {
	var req services.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	created, err := pc.projects.CreateProject(ctx, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	project, err := pc.projects.GetProject(ctx, created.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, project)
}

// UpdateProject handles PUT /api/projects/:id (admins only). The body replaces the project.
func (pc *ProjectController) UpdateProject(c *gin.Context) {
	var req services.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := pc.projects.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

// DeleteProject handles DELETE /api/projects/:id (admins only)
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	id := c.Param("id")
	if err := pc.projects.DeleteProject(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
