package catalog

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vtvstream/vtv/internal/auth"
	"github.com/vtvstream/vtv/internal/httputil"
	"github.com/vtvstream/vtv/internal/validate"
)

// Suggestion statuses.
const (
	SuggestionPending  = "PENDING"
	SuggestionApproved = "APPROVED"
	SuggestionRejected = "REJECTED"
)

var validSuggestionStatuses = map[string]bool{
	SuggestionPending:  true,
	SuggestionApproved: true,
	SuggestionRejected: true,
}

type suggestionRequest struct {
	MovieName string `json:"movieName"`
}

type suggestionRow struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	MovieName string `json:"movieName"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// SubmitSuggestion records a title request from any signed-in viewer. The
// member's display name is denormalized onto the row so the console list
// survives account deletion details changing.
func (h *Handler) SubmitSuggestion(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if auth.RoleFromContext(r.Context()) == auth.RolePreview {
		httputil.WriteError(w, http.StatusForbidden, "preview sessions cannot suggest titles")
		return
	}

	var req suggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.MovieName = strings.TrimSpace(req.MovieName)
	if req.MovieName == "" {
		httputil.WriteError(w, http.StatusBadRequest, "a title is required")
		return
	}
	if msg := validate.SuggestionName(req.MovieName); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	var userName string
	if err := h.db.QueryRow(r.Context(), `SELECT name FROM users WHERE id = $1`, userID).Scan(&userName); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "session no longer valid")
		return
	}

	var row suggestionRow
	err := h.db.QueryRow(r.Context(),
		`INSERT INTO suggestions (user_id, user_name, movie_name, status) VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, user_name, movie_name, status, created_at::text`,
		userID, userName, req.MovieName, SuggestionPending,
	).Scan(&row.ID, &row.UserID, &row.UserName, &row.MovieName, &row.Status, &row.CreatedAt)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to save suggestion")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, row)
}

// ListSuggestions returns every suggestion, newest first, for the console.
func (h *Handler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(r.Context(),
		`SELECT id, user_id, user_name, movie_name, status, created_at::text
		 FROM suggestions ORDER BY created_at DESC, id`)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list suggestions")
		return
	}
	defer rows.Close()

	suggestions := []suggestionRow{}
	for rows.Next() {
		var s suggestionRow
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserName, &s.MovieName, &s.Status, &s.CreatedAt); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to read suggestions")
			return
		}
		suggestions = append(suggestions, s)
	}
	if rows.Err() != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read suggestions")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, suggestions)
}

type suggestionStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateSuggestionStatus(w http.ResponseWriter, r *http.Request) {
	suggestionID := chi.URLParam(r, "id")

	var req suggestionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validSuggestionStatuses[req.Status] {
		httputil.WriteError(w, http.StatusBadRequest, "unknown suggestion status")
		return
	}

	tag, err := h.db.Exec(r.Context(),
		`UPDATE suggestions SET status = $1 WHERE id = $2`, req.Status, suggestionID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update suggestion")
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.WriteError(w, http.StatusNotFound, "suggestion not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	suggestionID := chi.URLParam(r, "id")

	tag, err := h.db.Exec(r.Context(), `DELETE FROM suggestions WHERE id = $1`, suggestionID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete suggestion")
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.WriteError(w, http.StatusNotFound, "suggestion not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
