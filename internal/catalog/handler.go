package catalog

import (
	"context"
	"time"

	"github.com/vtvstream/vtv/internal/database"
)

// Content types.
const (
	TypeMovie       = "MOVIE"
	TypeSeries      = "SERIES"
	TypeDocumentary = "DOCUMENTARY"
	TypeAnime       = "ANIME"
	TypeOther       = "OTHER"
)

var validContentTypes = map[string]bool{
	TypeMovie:       true,
	TypeSeries:      true,
	TypeDocumentary: true,
	TypeAnime:       true,
	TypeOther:       true,
}

// ObjectStorage issues presigned URLs for posters and video files.
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, key string, contentType string, contentLength int64, expiry time.Duration) (string, error)
	GenerateDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// GeoResolver maps a client IP to a country code for view records.
type GeoResolver interface {
	Country(ip string) string
}

type Handler struct {
	db             database.DBTX
	storage        ObjectStorage
	geo            GeoResolver
	maxUploadBytes int64
}

func NewHandler(db database.DBTX, storage ObjectStorage, maxUploadBytes int64) *Handler {
	return &Handler{db: db, storage: storage, maxUploadBytes: maxUploadBytes}
}

func (h *Handler) SetGeoResolver(geo GeoResolver) {
	h.geo = geo
}
