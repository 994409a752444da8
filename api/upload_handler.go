package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipart framing on top of the file itself
const multipartOverheadBytes = 1 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	media     *services.MediaService
}

func newUploadHandler(media *services.MediaService) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		media:     media,
	}
}

// uploadImage forwards a multipart file to the image store
// @Summary Upload image
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "Bad Request - No file"
// @Failure 413 {object} ErrorResponse "Request Entity Too Large"
// @Failure 502 {object} ErrorResponse "Bad Gateway - Image store failure"
// @Router /api/upload-image [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := h.media.MaxUploadBytes()
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverheadBytes)

		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			switch {
			case errors.As(err, &maxErr):
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(limit))
			default:
				h.responder.WriteError(w, errs.NewMissingUploadError())
			}
			return
		}
		defer file.Close()

		body, err := io.ReadAll(io.LimitReader(file, limit+1))
		if err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		url, err := h.media.UploadFile(r.Context(), header.Filename, body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, UploadResponse{URL: url})
	}
}

// uploadBase64 decodes a base64 image, with or without a data URI header, and forwards it
// @Summary Upload base64 image
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param image body Base64UploadRequest true "Base64 payload"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or undecodable payload"
// @Failure 502 {object} ErrorResponse "Bad Gateway - Image store failure"
// @Router /api/upload-base64 [post]
func (h uploadHandler) uploadBase64() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// base64 grows the payload by a third
		limit := h.media.MaxUploadBytes()*4/3 + multipartOverheadBytes

		var req Base64UploadRequest
		if err := decodeJSON(w, r, &req, limit); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		url, err := h.media.UploadBase64(r.Context(), req.Image)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, UploadResponse{URL: url})
	}
}
