package catalog

import (
	"context"
	"net/http"

	"github.com/vtvstream/vtv/internal/httputil"
)

type userCounts struct {
	Total   int `json:"total"`
	Guest   int `json:"guest"`
	Pending int `json:"pending"`
	Active  int `json:"active"`
	Banned  int `json:"banned"`
}

type viewBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type topContentRow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int    `json:"views"`
}

type statsResponse struct {
	Users              userCounts      `json:"users"`
	ContentCount       int             `json:"contentCount"`
	PendingSuggestions int             `json:"pendingSuggestions"`
	TotalViews         int             `json:"totalViews"`
	ViewsByBrowser     []viewBucket    `json:"viewsByBrowser"`
	ViewsByOS          []viewBucket    `json:"viewsByOs"`
	ViewsByCountry     []viewBucket    `json:"viewsByCountry"`
	TopContent         []topContentRow `json:"topContent"`
}

// Stats aggregates the numbers the admin dashboard shows on load.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	var resp statsResponse

	err := h.db.QueryRow(r.Context(),
		`SELECT count(*),
		        count(*) FILTER (WHERE status = 'GUEST'),
		        count(*) FILTER (WHERE status = 'PENDING'),
		        count(*) FILTER (WHERE status = 'ACTIVE'),
		        count(*) FILTER (WHERE status = 'BANNED')
		 FROM users`,
	).Scan(&resp.Users.Total, &resp.Users.Guest, &resp.Users.Pending, &resp.Users.Active, &resp.Users.Banned)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to count users")
		return
	}

	err = h.db.QueryRow(r.Context(), `SELECT count(*) FROM content`).Scan(&resp.ContentCount)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to count content")
		return
	}

	err = h.db.QueryRow(r.Context(),
		`SELECT count(*) FROM suggestions WHERE status = 'PENDING'`,
	).Scan(&resp.PendingSuggestions)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to count suggestions")
		return
	}

	err = h.db.QueryRow(r.Context(), `SELECT count(*) FROM content_views`).Scan(&resp.TotalViews)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to count views")
		return
	}

	for _, agg := range []struct {
		column string
		dest   *[]viewBucket
	}{
		{"browser", &resp.ViewsByBrowser},
		{"os", &resp.ViewsByOS},
		{"country", &resp.ViewsByCountry},
	} {
		buckets, err := h.viewBuckets(r.Context(), agg.column)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to aggregate views")
			return
		}
		*agg.dest = buckets
	}

	top, err := h.topContent(r.Context())
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to rank content")
		return
	}
	resp.TopContent = top

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) viewBuckets(ctx context.Context, column string) ([]viewBucket, error) {
	// column is one of three fixed identifiers chosen above, never user input.
	rows, err := h.db.Query(ctx,
		`SELECT COALESCE(NULLIF(`+column+`, ''), 'Unknown'), count(*)
		 FROM content_views GROUP BY 1 ORDER BY 2 DESC LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := []viewBucket{}
	for rows.Next() {
		var b viewBucket
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (h *Handler) topContent(ctx context.Context) ([]topContentRow, error) {
	rows, err := h.db.Query(ctx,
		`SELECT c.id, c.title, count(v.id)
		 FROM content c
		 JOIN content_views v ON v.content_id = c.id
		 GROUP BY c.id, c.title
		 ORDER BY count(v.id) DESC, c.title
		 LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []topContentRow{}
	for rows.Next() {
		var t topContentRow
		if err := rows.Scan(&t.ID, &t.Title, &t.Views); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
