package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
)

// projectHandler is the only resource with a public single-row endpoint.
type projectHandler struct {
	resourceHandler[models.Project, *models.Project]
}

func newProjectHandler(projectRepo *database.ProjectRepo, validate *validator.Validate) projectHandler {
	return projectHandler{
		resourceHandler: newResourceHandler[models.Project]("Project", projectRepo, validate),
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Description Retrieves one project with its case-study fields
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching project"
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return h.get()
}
