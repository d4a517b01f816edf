package subscription

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vtvstream/vtv/internal/auth"
	"github.com/vtvstream/vtv/internal/database"
	"github.com/vtvstream/vtv/internal/httputil"
	"github.com/vtvstream/vtv/internal/plans"
	"github.com/vtvstream/vtv/internal/validate"
)

type Handler struct {
	db  database.DBTX
	now func() time.Time
}

func NewHandler(db database.DBTX) *Handler {
	return &Handler{db: db, now: time.Now}
}

type claimRequest struct {
	Plan  string `json:"plan"`
	Proof string `json:"proof"`
}

// Claim records a payment claim: the member picks a tier and supplies
// free-text proof for the admin to review. Status moves to PENDING from
// any state; the proof is stored verbatim and never parsed.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if auth.RoleFromContext(r.Context()) == auth.RolePreview {
		httputil.WriteError(w, http.StatusForbidden, "preview sessions cannot subscribe")
		return
	}

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !plans.IsValid(req.Plan) {
		httputil.WriteError(w, http.StatusBadRequest, "unknown plan")
		return
	}

	if strings.TrimSpace(req.Proof) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "payment proof is required")
		return
	}
	if msg := validate.Proof(req.Proof); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	tag, err := h.db.Exec(r.Context(),
		`UPDATE users SET status = $1, plan = $2, payment_proof = $3, updated_at = now() WHERE id = $4`,
		StatusPending, req.Plan, req.Proof, userID,
	)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to submit claim")
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Validate grants access: status ACTIVE, plan defaulted to Premium when
// the member never picked one, and a fresh 30-day window from now even if
// the member was already ACTIVE. Appends a SUCCESS notification.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	start, end := ActivationWindow(h.now().UTC())

	tag, err := h.db.Exec(r.Context(),
		`UPDATE users SET status = $1, plan = COALESCE(plan, $2),
		        subscription_start = $3, subscription_end = $4, updated_at = now()
		 WHERE id = $5`,
		StatusActive, DefaultPlan, start, end, userID,
	)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to validate user")
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.appendNotice(r.Context(), userID, ActivationNotice()); err != nil {
		log.Printf("append activation notification for %s: %v", userID, err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to record notification")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":            StatusActive,
		"subscriptionStart": start.Format(time.RFC3339),
		"subscriptionEnd":   end.Format(time.RFC3339),
	})
}

// Deactivate revokes access. Plan and subscription dates are left in
// place as a record of the revoked subscription.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	tag, err := h.db.Exec(r.Context(),
		`UPDATE users SET status = $1, updated_at = now() WHERE id = $2`,
		StatusBanned, userID,
	)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to deactivate user")
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.appendNotice(r.Context(), userID, DeactivationNotice()); err != nil {
		log.Printf("append deactivation notification for %s: %v", userID, err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to record notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Remind appends an expiry warning. No status change and no date check;
// the console only offers the button for members flagged expiringSoon.
func (h *Handler) Remind(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var exists bool
	if err := h.db.QueryRow(r.Context(),
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if !exists {
		httputil.WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.appendNotice(r.Context(), userID, ExpiryReminderNotice()); err != nil {
		log.Printf("append reminder notification for %s: %v", userID, err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to record notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type adminUserRow struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	Plan            *string `json:"plan"`
	PaymentProof    *string `json:"paymentProof"`
	DateJoined      string  `json:"dateJoined"`
	SubscriptionEnd *string `json:"subscriptionEnd"`
	ExpiringSoon    bool    `json:"expiringSoon"`
}

// ListUsers backs the console's member table.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(r.Context(),
		`SELECT id, email, name, status, plan, payment_proof, date_joined, subscription_end
		 FROM users ORDER BY date_joined DESC`)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	defer rows.Close()

	now := h.now().UTC()
	users := []adminUserRow{}
	for rows.Next() {
		var u adminUserRow
		var joined time.Time
		var end *time.Time
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Status, &u.Plan, &u.PaymentProof, &joined, &end); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to read users")
			return
		}
		u.DateJoined = joined.Format(time.RFC3339)
		if end != nil {
			formatted := end.Format(time.RFC3339)
			u.SubscriptionEnd = &formatted
		}
		u.ExpiringSoon = IsExpiringSoon(end, now)
		users = append(users, u)
	}
	if rows.Err() != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, users)
}

type notificationRow struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Read    bool   `json:"read"`
	Type    string `json:"type"`
}

// Notifications lists the caller's notifications in insertion order,
// newest last.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	rows, err := h.db.Query(r.Context(),
		`SELECT id, title, message, type, read, created_at
		 FROM notifications WHERE user_id = $1 ORDER BY created_at, id`,
		userID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	defer rows.Close()

	notices := []notificationRow{}
	for rows.Next() {
		var n notificationRow
		var createdAt time.Time
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.Read, &createdAt); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to read notifications")
			return
		}
		n.Date = createdAt.Format(time.RFC3339)
		notices = append(notices, n)
	}
	if rows.Err() != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read notifications")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, notices)
}

// MarkNotificationRead flips the read flag on one of the caller's
// notifications. The flag is the only mutable field on a notification.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	noticeID := chi.URLParam(r, "id")

	tag, err := h.db.Exec(r.Context(),
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`,
		noticeID, userID,
	)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update notification")
		return
	}
	if tag.RowsAffected() == 0 {
		httputil.WriteError(w, http.StatusNotFound, "notification not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) appendNotice(ctx context.Context, userID string, n Notice) error {
	_, err := h.db.Exec(ctx,
		`INSERT INTO notifications (user_id, title, message, type) VALUES ($1, $2, $3, $4)`,
		userID, n.Title, n.Message, n.Type,
	)
	return err
}
