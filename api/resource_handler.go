package api

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// resourceHandler serves the CRUD endpoints of one user owned entity.
type resourceHandler[T any, PT interface {
	*T
	models.Resource
}] struct {
	responder Responder
	logger    zerolog.Logger
	validate  *validator.Validate
	repo      *database.OwnedRepo[T]
	label     string // used in messages, e.g. "Blog post"
	entity    string // used in errors, e.g. "blog post"
}

func newResourceHandler[T any, PT interface {
	*T
	models.Resource
}](label string, repo *database.OwnedRepo[T], validate *validator.Validate) resourceHandler[T, PT] {
	entity := strings.ToLower(label)
	logger := log.With().Str("handlerName", strings.ReplaceAll(entity, " ", "_")+"Handler").Logger()

	return resourceHandler[T, PT]{
		responder: NewResponder(logger),
		logger:    logger,
		validate:  validate,
		repo:      repo,
		label:     label,
		entity:    entity,
	}
}

// list returns every row of the entity, across all users
// @Summary List rows
// @Tags Resources
// @Description Public. Returns the full table as a JSON array; list fields are always arrays.
// @Produce json
// @Param resource path string true "education, certifications, blogposts, work-experiences, projects or programming-skills"
// @Success 200 {array} object
// @Failure 500 {object} ErrorResponse
// @Router /api/{resource} [get]
func (h resourceHandler[T, PT]) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.repo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, rows)
	}
}

// get returns one row by id
func (h resourceHandler[T, PT]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlParamID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		row, err := h.repo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		if row == nil {
			h.responder.WriteError(w, errs.NewNotFound(h.entity))
			return
		}
		h.responder.WriteJSON(w, row)
	}
}

// create stores a new row owned by the authenticated user
// @Summary Create row
// @Tags Resources
// @Description The owner is always the token subject; id and user_id in the body are ignored.
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource path string true "education, certifications, blogposts, work-experiences, projects or programming-skills"
// @Param row body object true "Entity fields"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing required field"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/{resource} [post]
func (h resourceHandler[T, PT]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := ctxGetSubject(r.Context())

		var row T
		if err := decodeJSON(w, r, &row, maxJSONBodyBytes); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		PT(&row).SetKeys(0, subject)

		if err := h.validate.Struct(&row); err != nil {
			h.responder.WriteError(w, validationError(err))
			return
		}

		if err := h.repo.Add(r.Context(), &row); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", h.entity, err))
			return
		}

		h.logger.Info().Uint("id", PT(&row).PrimaryKey()).Uint("userID", subject).Msg("Created")
		h.responder.WriteJSONWithStatus(w, http.StatusCreated, CreatedResponse{
			Status:  "created",
			Message: h.label + " added successfully",
			ID:      PT(&row).PrimaryKey(),
		})
	}
}

// update overwrites the fields present in the body and keeps the others
// @Summary Update row
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource path string true "education, certifications, blogposts, work-experiences, projects or programming-skills"
// @Param id path int true "Row ID"
// @Param row body object true "Entity fields"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid data"
// @Failure 403 {object} ErrorResponse "Forbidden - Row belongs to another user"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /api/{resource}/{id} [put]
func (h resourceHandler[T, PT]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := ctxGetSubject(r.Context())

		id, err := urlParamID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.repo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFound(h.entity))
			return
		}

		owner := PT(existing).Owner()
		if err := services.Authorize(subject, owner, h.entity); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := decodeJSON(w, r, existing, maxJSONBodyBytes); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		PT(existing).SetKeys(id, owner)

		if err := h.validate.Struct(existing); err != nil {
			h.responder.WriteError(w, validationError(err))
			return
		}

		if err := h.repo.Update(r.Context(), existing); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", h.entity, err))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{
			Status:  "success",
			Message: h.label + " updated successfully",
		})
	}
}

// remove deletes a row owned by the authenticated user
// @Summary Delete row
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param resource path string true "education, certifications, blogposts, work-experiences, projects or programming-skills"
// @Param id path int true "Row ID"
// @Success 200 {object} StatusResponse
// @Failure 403 {object} ErrorResponse "Forbidden - Row belongs to another user"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /api/{resource}/{id} [delete]
func (h resourceHandler[T, PT]) remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlParamID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.repo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFound(h.entity))
			return
		}

		if err := services.Authorize(ctxGetSubject(r.Context()), PT(existing).Owner(), h.entity); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.repo.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", h.entity, err))
			return
		}
		if deleted == 0 {
			h.responder.WriteError(w, errs.NewNotFound(h.entity))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{
			Status:  "success",
			Message: h.label + " deleted successfully",
		})
	}
}
