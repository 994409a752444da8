package services

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ImageStore is an external object store that hosts uploaded images.
type ImageStore interface {
	// Put stores body under key and returns the public URL of the object.
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

const imageStoreName = "image store"

var imageExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
}

// MediaService forwards uploaded images to the ImageStore. Nothing is kept locally.
type MediaService struct {
	store    ImageStore
	folder   string
	maxBytes int64
	logger   zerolog.Logger
}

func NewMediaService(store ImageStore, cfg config.MediaConfig) *MediaService {
	folder := strings.Trim(cfg.Folder, "/")
	if folder == "" {
		folder = config.DefaultMediaFolder
	}
	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxUploadBytes
	}
	return &MediaService{
		store:    store,
		folder:   folder,
		maxBytes: maxBytes,
		logger:   log.With().Str("serviceName", "mediaService").Logger(),
	}
}

func (s *MediaService) MaxUploadBytes() int64 {
	return s.maxBytes
}

// UploadFile stores raw file bytes. filename is only used for its extension.
func (s *MediaService) UploadFile(ctx context.Context, filename string, body []byte) (string, error) {
	if len(body) == 0 {
		return "", errs.NewMissingUploadError()
	}
	contentType := http.DetectContentType(body)
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = imageExtensions[contentType]
	}
	return s.put(ctx, body, ext, contentType)
}

// UploadBase64 decodes a base64 payload, optionally prefixed with a
// "data:<mime>;base64," header, and stores the result.
func (s *MediaService) UploadBase64(ctx context.Context, payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", errs.NewMissingUploadError()
	}

	contentType := ""
	if header, data, found := strings.Cut(payload, "base64,"); found {
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";")
		payload = data
	}

	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", errs.NewBase64DecodeError("upload-base64", err)
	}
	if len(body) == 0 {
		return "", errs.NewMissingUploadError()
	}
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return s.put(ctx, body, imageExtensions[contentType], contentType)
}

func (s *MediaService) put(ctx context.Context, body []byte, ext, contentType string) (string, error) {
	if int64(len(body)) > s.maxBytes {
		return "", errs.NewMaxBodySizeExceededError(s.maxBytes)
	}
	if s.store == nil {
		return "", errs.NewUploadError(imageStoreName, errors.New("no image store configured"))
	}

	key := s.folder + "/" + uuid.NewString() + ext
	url, err := s.store.Put(ctx, key, body, contentType)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Image upload failed")
		return "", errs.NewUploadError(imageStoreName, err)
	}

	s.logger.Info().Str("key", key).Int("bytes", len(body)).Msg("Image uploaded")
	return url, nil
}
