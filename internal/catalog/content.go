package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vtvstream/vtv/internal/httputil"
	"github.com/vtvstream/vtv/internal/validate"
)

type episodeRequest struct {
	Title    string  `json:"title"`
	VideoURL string  `json:"videoUrl"`
	Duration *string `json:"duration"`
}

type contentRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	PosterURL   string           `json:"posterUrl"`
	VideoURL    *string          `json:"videoUrl"`
	TrailerURL  *string          `json:"trailerUrl"`
	Cast        []Actor          `json:"cast"`
	Genres      []string         `json:"genres"`
	Rating      string           `json:"rating"`
	ReleaseYear string           `json:"releaseYear"`
	Type        string           `json:"type"`
	CategoryID  *string          `json:"categoryId"`
	Episodes    []episodeRequest `json:"episodes"`
}

func (req *contentRequest) validate() string {
	if req.Title == "" {
		return "title is required"
	}
	if msg := validate.Title(req.Title); msg != "" {
		return msg
	}
	if msg := validate.Description(req.Description); msg != "" {
		return msg
	}
	if req.Type == "" {
		req.Type = TypeMovie
	}
	if !validContentTypes[req.Type] {
		return "unknown content type"
	}
	if req.Type != TypeSeries && len(req.Episodes) > 0 {
		return "episodes are only allowed on series"
	}
	for _, ep := range req.Episodes {
		if ep.Title == "" || ep.VideoURL == "" {
			return "each episode needs a title and video URL"
		}
	}
	return ""
}

// CreateContent adds a catalog entry with its episodes in one request.
func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	castJSON, err := json.Marshal(canonicalCast(req.Cast))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to encode cast")
		return
	}

	var contentID string
	err = h.db.QueryRow(r.Context(),
		`INSERT INTO content (title, description, poster_url, video_url, trailer_url, cast_members, genres, rating, release_year, type, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		req.Title, req.Description, req.PosterURL, req.VideoURL, req.TrailerURL,
		castJSON, genresOrEmpty(req.Genres), req.Rating, req.ReleaseYear, req.Type, req.CategoryID,
	).Scan(&contentID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create content")
		return
	}

	if err := h.replaceEpisodes(r.Context(), contentID, req.Episodes); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to save episodes")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": contentID})
}

// UpdateContent replaces the entry and its episode list wholesale, the
// same way the admin form submits it.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "id")

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	castJSON, err := json.Marshal(canonicalCast(req.Cast))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to encode cast")
		return
	}

	tag, err := h.db.Exec(r.Context(),
		`UPDATE content SET title = $1, description = $2, poster_url = $3, video_url = $4, trailer_url = $5,
		        cast_members = $6, genres = $7, rating = $8, release_year = $9, type = $10, category_id = $11, updated_at = now()
		 WHERE id = $12`,
		req.Title, req.Description, req.PosterURL, req.VideoURL, req.TrailerURL,
		castJSON, genresOrEmpty(req.Genres), req.Rating, req.ReleaseYear, req.Type, req.CategoryID, contentID,
	)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update content")
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.WriteError(w, http.StatusNotFound, "content not found")
		return
	}

	if err := h.replaceEpisodes(r.Context(), contentID, req.Episodes); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to save episodes")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "id")

	tag, err := h.db.Exec(r.Context(), `DELETE FROM content WHERE id = $1`, contentID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete content")
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.WriteError(w, http.StatusNotFound, "content not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) replaceEpisodes(ctx context.Context, contentID string, episodes []episodeRequest) error {
	if _, err := h.db.Exec(ctx, `DELETE FROM episodes WHERE content_id = $1`, contentID); err != nil {
		return fmt.Errorf("clear episodes: %w", err)
	}
	for i, ep := range episodes {
		if _, err := h.db.Exec(ctx,
			`INSERT INTO episodes (content_id, position, title, video_url, duration) VALUES ($1, $2, $3, $4, $5)`,
			contentID, i, ep.Title, ep.VideoURL, ep.Duration,
		); err != nil {
			return fmt.Errorf("insert episode %d: %w", i, err)
		}
	}
	return nil
}

// --- Categories ---

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	if msg := validate.CategoryName(req.Name); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	var id string
	err := h.db.QueryRow(r.Context(),
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, req.Name,
	).Scan(&id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, categoryRow{ID: id, Name: req.Name})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(r.Context(), `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	defer rows.Close()

	categories := []categoryRow{}
	for rows.Next() {
		var c categoryRow
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to read categories")
			return
		}
		categories = append(categories, c)
	}
	if rows.Err() != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read categories")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, categories)
}

// DeleteCategory removes a category only. Content referencing it keeps
// existing with a null category and shows as "Uncategorized".
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "id")

	tag, err := h.db.Exec(r.Context(), `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.WriteError(w, http.StatusNotFound, "category not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func canonicalCast(cast []Actor) []Actor {
	if cast == nil {
		return []Actor{}
	}
	return cast
}

func genresOrEmpty(genres []string) []string {
	if genres == nil {
		return []string{}
	}
	return genres
}
