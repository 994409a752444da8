package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

// maxJSONBodyBytes bounds every JSON body except base64 uploads, which use the media limit.
const maxJSONBodyBytes = 1 << 20

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, identity *services.IdentityService, media *services.MediaService) *routeHandlers {
	validate := newValidator()
	return &routeHandlers{
		authHandler:             newAuthHandler(identity, validate),
		uploadHandler:           newUploadHandler(media),
		projectHandler:          newProjectHandler(database.ProjectRepo(), validate),
		educationHandler:        newResourceHandler[models.Education]("Education record", database.EducationRepo(), validate),
		certificationHandler:    newResourceHandler[models.Certification]("Certification", database.CertificationRepo(), validate),
		blogPostHandler:         newResourceHandler[models.BlogPost]("Blog post", database.BlogPostRepo(), validate),
		workExperienceHandler:   newResourceHandler[models.WorkExperience]("Work experience", database.WorkExperienceRepo(), validate),
		programmingSkillHandler: newResourceHandler[models.ProgrammingSkill]("Programming skill", database.ProgrammingSkillRepo(), validate),
	}
}

// newValidator reports fields by their JSON name
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// validationError converts the first validator failure into an ApiErr
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewBadRequestError(err.Error())
	}
	fe := fieldErrs[0]
	if fe.Tag() == "required" {
		return errs.NewMissingRequiredFieldError(fe.Field())
	}
	return errs.NewInvalidFieldError(fe.Field(), "failed "+fe.Tag()+" check")
}

// decodeJSON reads a JSON object from the request body into dst.
// dst may already hold values; fields absent from the body keep them.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError("JSON", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errs.NewMalformedPayloadError("JSON", errors.New("empty request body"))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// urlParamID parses the {id} path parameter
func urlParamID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError("id")
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidFieldError("id", "must be a positive integer")
	}
	return uint(id), nil
}
