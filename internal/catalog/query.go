package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vtvstream/vtv/internal/httputil"
)

type contentSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PosterURL    string   `json:"posterUrl"`
	TrailerURL   *string  `json:"trailerUrl"`
	Genres       []string `json:"genres"`
	Rating       string   `json:"rating"`
	ReleaseYear  string   `json:"releaseYear"`
	Type         string   `json:"type"`
	CategoryID   *string  `json:"categoryId"`
	CategoryName string   `json:"categoryName"`
}

type episodeSummary struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration *string `json:"duration"`
}

type contentDetail struct {
	contentSummary
	Cast     []Actor          `json:"cast"`
	HasVideo bool             `json:"hasVideo"`
	Episodes []episodeSummary `json:"episodes,omitempty"`
}

// Browse lists the catalog for viewers. Search is a case-insensitive
// title substring match; category and type narrow the result. Video URLs
// are never exposed here.
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	contentType := r.URL.Query().Get("type")

	rows, err := h.db.Query(r.Context(),
		`SELECT c.id, c.title, c.description, c.poster_url, c.trailer_url, c.genres,
		        c.rating, c.release_year, c.type, c.category_id, COALESCE(cat.name, 'Uncategorized')
		 FROM content c
		 LEFT JOIN categories cat ON cat.id = c.category_id
		 WHERE ($1 = '' OR c.title ILIKE '%' || $1 || '%')
		   AND ($2 = '' OR c.category_id::text = $2)
		   AND ($3 = '' OR c.type = $3)
		 ORDER BY c.created_at DESC`,
		q, category, contentType)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to browse catalog")
		return
	}
	defer rows.Close()

	items := []contentSummary{}
	for rows.Next() {
		var c contentSummary
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.PosterURL, &c.TrailerURL,
			&c.Genres, &c.Rating, &c.ReleaseYear, &c.Type, &c.CategoryID, &c.CategoryName); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to read catalog")
			return
		}
		if c.Genres == nil {
			c.Genres = []string{}
		}
		items = append(items, c)
	}
	if rows.Err() != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read catalog")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, items)
}

// Detail returns one entry with cast and the episode list. Playback URLs
// stay behind the watch gate.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "id")

	var d contentDetail
	var castRaw []byte
	var videoURL *string
	err := h.db.QueryRow(r.Context(),
		`SELECT c.id, c.title, c.description, c.poster_url, c.trailer_url, c.genres,
		        c.rating, c.release_year, c.type, c.category_id, COALESCE(cat.name, 'Uncategorized'),
		        c.cast_members, c.video_url
		 FROM content c
		 LEFT JOIN categories cat ON cat.id = c.category_id
		 WHERE c.id = $1`,
		contentID,
	).Scan(&d.ID, &d.Title, &d.Description, &d.PosterURL, &d.TrailerURL, &d.Genres,
		&d.Rating, &d.ReleaseYear, &d.Type, &d.CategoryID, &d.CategoryName, &castRaw, &videoURL)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "content not found")
		return
	}

	if d.Genres == nil {
		d.Genres = []string{}
	}
	d.HasVideo = videoURL != nil && *videoURL != ""

	cast, err := decodeCast(castRaw)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read cast")
		return
	}
	d.Cast = cast

	if d.Type == TypeSeries {
		episodes, err := h.episodeSummaries(r, contentID)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to read episodes")
			return
		}
		d.Episodes = episodes
	}

	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) episodeSummaries(r *http.Request, contentID string) ([]episodeSummary, error) {
	rows, err := h.db.Query(r.Context(),
		`SELECT id, title, duration FROM episodes WHERE content_id = $1 ORDER BY position`,
		contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	episodes := []episodeSummary{}
	for rows.Next() {
		var ep episodeSummary
		if err := rows.Scan(&ep.ID, &ep.Title, &ep.Duration); err != nil {
			return nil, err
		}
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}
