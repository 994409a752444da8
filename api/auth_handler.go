package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	validate  *validator.Validate
	identity  *services.IdentityService
}

func newAuthHandler(identity *services.IdentityService, validate *validator.Validate) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		validate:  validate,
		identity:  identity,
	}
}

// register creates a user account
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Account data"
// @Success 201 {object} StatusResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid field"
// @Failure 409 {object} ErrorResponse "Conflict - Email or username taken"
// @Router /api/register [post]
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeJSON(w, r, &req, maxJSONBodyBytes); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.Email = services.NormalizeEmail(req.Email)
		if err := h.validate.Struct(req); err != nil {
			h.responder.WriteError(w, validationError(err))
			return
		}

		if _, err := h.identity.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONWithStatus(w, http.StatusCreated, StatusResponse{
			Status:  "created",
			Message: "User registered successfully",
		})
	}
}

// login exchanges an email and password for an access token
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /api/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, &req, maxJSONBodyBytes); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			h.responder.WriteError(w, validationError(err))
			return
		}

		token, err := h.identity.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, TokenResponse{AccessToken: token})
	}
}

// checkToken echoes the subject and expiry of a valid token
// @Summary Check token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CheckTokenResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/check-token [get]
func (h authHandler) checkToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ctxGetClaims(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		h.responder.WriteJSON(w, CheckTokenResponse{
			Valid:  true,
			UserID: strconv.FormatUint(uint64(claims.Subject), 10),
			Exp:    claims.ExpiresAt.Unix(),
		})
	}
}

// protected is a smoke test for token handling
// @Summary Protected
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProtectedResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/protected [get]
func (h authHandler) protected() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, ProtectedResponse{
			Message: "Access granted!",
			UserID:  strconv.FormatUint(uint64(ctxGetSubject(r.Context())), 10),
		})
	}
}
