package settings

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vtvstream/vtv/internal/database"
	"github.com/vtvstream/vtv/internal/httputil"
	"github.com/vtvstream/vtv/internal/validate"
)

// Seasonal themes the viewer UI can render.
const (
	ThemeDefault   = "DEFAULT"
	ThemeChristmas = "CHRISTMAS"
	ThemeHalloween = "HALLOWEEN"
	ThemeNewYear   = "NEW_YEAR"
	ThemeValentine = "VALENTINE"
)

var validThemes = map[string]bool{
	ThemeDefault:   true,
	ThemeChristmas: true,
	ThemeHalloween: true,
	ThemeNewYear:   true,
	ThemeValentine: true,
}

// Design asset slots.
const (
	AssetBackground = "BACKGROUND"
	AssetLogo       = "LOGO"
	AssetOther      = "OTHER"
)

var validAssetTypes = map[string]bool{
	AssetBackground: true,
	AssetLogo:       true,
	AssetOther:      true,
}

const (
	themeKey         = "theme"
	communityLinkKey = "community_link"

	objectKeyScheme = "s3://"
	assetURLExpiry  = 1 * time.Hour
)

// ObjectStorage resolves and removes bucket-stored design assets.
type ObjectStorage interface {
	GenerateDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

type Handler struct {
	db      database.DBTX
	storage ObjectStorage
}

func NewHandler(db database.DBTX, storage ObjectStorage) *Handler {
	return &Handler{db: db, storage: storage}
}

type assetRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type settingsResponse struct {
	Theme         string     `json:"theme"`
	CommunityLink string     `json:"communityLink"`
	Assets        []assetRow `json:"assets"`
}

// Get returns the public site settings every page load needs: the active
// theme, the community link and the design assets.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	resp := settingsResponse{Theme: ThemeDefault}

	rows, err := h.db.Query(r.Context(), `SELECT key, value FROM settings`)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read settings")
		return
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			httputil.WriteError(w, http.StatusInternalServerError, "failed to read settings")
			return
		}
		switch key {
		case themeKey:
			resp.Theme = value
		case communityLinkKey:
			resp.CommunityLink = value
		}
	}
	rows.Close()
	if rows.Err() != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read settings")
		return
	}

	assets, err := h.listAssets(r.Context())
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read design assets")
		return
	}
	resp.Assets = assets

	httputil.WriteJSON(w, http.StatusOK, resp)
}

type updateRequest struct {
	Theme         *string `json:"theme"`
	CommunityLink *string `json:"communityLink"`
}

// Update changes the theme and community link. Omitted fields are left
// alone so the console can patch one at a time.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Theme == nil && req.CommunityLink == nil {
		httputil.WriteError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Theme != nil {
		if !validThemes[*req.Theme] {
			httputil.WriteError(w, http.StatusBadRequest, "unknown theme")
			return
		}
		if err := h.setValue(r.Context(), themeKey, *req.Theme); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to save theme")
			return
		}
	}

	if req.CommunityLink != nil {
		link := strings.TrimSpace(*req.CommunityLink)
		if msg := validate.CommunityLink(link); msg != "" {
			httputil.WriteError(w, http.StatusBadRequest, msg)
			return
		}
		if err := h.setValue(r.Context(), communityLinkKey, link); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to save community link")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setValue(ctx context.Context, key, value string) error {
	_, err := h.db.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now()`,
		key, value)
	return err
}

type assetRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.URL == "" {
		httputil.WriteError(w, http.StatusBadRequest, "name and url are required")
		return
	}
	if msg := validate.AssetName(req.Name); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Type == "" {
		req.Type = AssetOther
	}
	if !validAssetTypes[req.Type] {
		httputil.WriteError(w, http.StatusBadRequest, "unknown asset type")
		return
	}

	var id string
	err := h.db.QueryRow(r.Context(),
		`INSERT INTO design_assets (name, url, type) VALUES ($1, $2, $3) RETURNING id`,
		req.Name, req.URL, req.Type,
	).Scan(&id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to save asset")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, assetRow{ID: id, Name: req.Name, URL: req.URL, Type: req.Type})
}

func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.listAssets(r.Context())
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read design assets")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, assets)
}

func (h *Handler) listAssets(ctx context.Context) ([]assetRow, error) {
	rows, err := h.db.Query(ctx,
		`SELECT id, name, url, type FROM design_assets ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []assetRow{}
	for rows.Next() {
		var a assetRow
		if err := rows.Scan(&a.ID, &a.Name, &a.URL, &a.Type); err != nil {
			return nil, err
		}
		if key, ok := strings.CutPrefix(a.URL, objectKeyScheme); ok && h.storage != nil {
			resolved, err := h.storage.GenerateDownloadURL(ctx, key, assetURLExpiry)
			if err != nil {
				return nil, err
			}
			a.URL = resolved
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// DeleteAsset removes the row and, for bucket-stored files, the object
// behind it. A failed object delete only logs: the row is already gone
// and the orphan costs storage, not correctness.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")

	var url string
	err := h.db.QueryRow(r.Context(), `SELECT url FROM design_assets WHERE id = $1`, assetID).Scan(&url)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "asset not found")
		return
	}

	if _, err := h.db.Exec(r.Context(), `DELETE FROM design_assets WHERE id = $1`, assetID); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}

	if key, ok := strings.CutPrefix(url, objectKeyScheme); ok && h.storage != nil {
		if err := h.storage.DeleteObject(r.Context(), key); err != nil {
			log.Printf("delete asset object %s: %v", key, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
