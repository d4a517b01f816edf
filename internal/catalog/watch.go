package catalog

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"
	"github.com/vtvstream/vtv/internal/auth"
	"github.com/vtvstream/vtv/internal/httputil"
)

// objectKeyScheme marks video/poster URLs that point into our bucket
// rather than at an external host.
const objectKeyScheme = "s3://"

const playbackURLExpiry = 4 * time.Hour

type watchEpisode struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	VideoURL string  `json:"videoUrl"`
	Duration *string `json:"duration"`
}

type watchResponse struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	VideoURL string         `json:"videoUrl,omitempty"`
	Episodes []watchEpisode `json:"episodes,omitempty"`
}

// Watch resolves playback URLs for one catalog entry. Only ACTIVE members
// and admin preview sessions pass; an ACTIVE member past their end date
// still passes because access is revoked by admins, never by the clock.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "id")

	role := auth.RoleFromContext(r.Context())
	userID := auth.UserIDFromContext(r.Context())

	if role != auth.RoleAdmin && role != auth.RolePreview {
		var status string
		err := h.db.QueryRow(r.Context(), `SELECT status FROM users WHERE id = $1`, userID).Scan(&status)
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "session no longer valid")
			return
		}
		if status != "ACTIVE" {
			httputil.WriteError(w, http.StatusForbidden, "an active subscription is required")
			return
		}
	}

	var resp watchResponse
	var videoURL *string
	var contentType string
	err := h.db.QueryRow(r.Context(),
		`SELECT id, title, video_url, type FROM content WHERE id = $1`,
		contentID,
	).Scan(&resp.ID, &resp.Title, &videoURL, &contentType)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "content not found")
		return
	}

	if videoURL != nil && *videoURL != "" {
		playback, err := h.playbackURL(r.Context(), *videoURL)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to resolve playback URL")
			return
		}
		resp.VideoURL = playback
	}

	if contentType == TypeSeries {
		episodes, err := h.watchEpisodes(r.Context(), contentID)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to read episodes")
			return
		}
		resp.Episodes = episodes
	}

	h.recordView(r, contentID, userID, role)

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) watchEpisodes(ctx context.Context, contentID string) ([]watchEpisode, error) {
	rows, err := h.db.Query(ctx,
		`SELECT id, title, video_url, duration FROM episodes WHERE content_id = $1 ORDER BY position`,
		contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	episodes := []watchEpisode{}
	for rows.Next() {
		var ep watchEpisode
		if err := rows.Scan(&ep.ID, &ep.Title, &ep.VideoURL, &ep.Duration); err != nil {
			return nil, err
		}
		playback, err := h.playbackURL(ctx, ep.VideoURL)
		if err != nil {
			return nil, err
		}
		ep.VideoURL = playback
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

// playbackURL presigns bucket-stored objects and passes external URLs
// through untouched.
func (h *Handler) playbackURL(ctx context.Context, raw string) (string, error) {
	key, ok := strings.CutPrefix(raw, objectKeyScheme)
	if !ok {
		return raw, nil
	}
	if h.storage == nil {
		return "", nil
	}
	return h.storage.GenerateDownloadURL(ctx, key, playbackURLExpiry)
}

// recordView logs one playback request for the console's stats. Preview
// sessions are not counted and failures never block playback.
func (h *Handler) recordView(r *http.Request, contentID, userID, role string) {
	if role == auth.RolePreview || role == auth.RoleAdmin {
		return
	}

	ua := useragent.New(r.UserAgent())
	browser, _ := ua.Browser()
	osName := ua.OS()

	country := ""
	if h.geo != nil {
		country = h.geo.Country(clientIP(r))
	}

	var viewer *string
	if userID != "" {
		viewer = &userID
	}

	if _, err := h.db.Exec(r.Context(),
		`INSERT INTO content_views (content_id, user_id, browser, os, country) VALUES ($1, $2, $3, $4, $5)`,
		contentID, viewer, browser, osName, country,
	); err != nil {
		log.Printf("record view for %s: %v", contentID, err)
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
