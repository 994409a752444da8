package api

import "github.com/rpupo63/portfolio-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler             authHandler
	uploadHandler           uploadHandler
	projectHandler          projectHandler
	educationHandler        resourceHandler[models.Education, *models.Education]
	certificationHandler    resourceHandler[models.Certification, *models.Certification]
	blogPostHandler         resourceHandler[models.BlogPost, *models.BlogPost]
	workExperienceHandler   resourceHandler[models.WorkExperience, *models.WorkExperience]
	programmingSkillHandler resourceHandler[models.ProgrammingSkill, *models.ProgrammingSkill]
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"project not found"`
	Message string `json:"message" example:"Failed to find project"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// StatusResponse confirms an update, a delete or a registration
type StatusResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Project updated successfully"`
}

// CreatedResponse confirms a create and carries the new row id
type CreatedResponse struct {
	Status  string `json:"status" example:"created"`
	Message string `json:"message" example:"Project added successfully"`
	ID      uint   `json:"id" example:"1"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type CheckTokenResponse struct {
	Valid  bool   `json:"valid" example:"true"`
	UserID string `json:"user_id" example:"1"`
	Exp    int64  `json:"exp" example:"1735689600"`
}

type ProtectedResponse struct {
	Message string `json:"message" example:"Access granted!"`
	UserID  string `json:"user_id" example:"1"`
}

type Base64UploadRequest struct {
	Image string `json:"image"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
