package player

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vtvstream/vtv/internal/auth"
	"github.com/vtvstream/vtv/internal/httputil"
)

// Handler exposes the transport over the watch API.
type Handler struct {
	sessions *Manager
}

func NewHandler(sessions *Manager) *Handler {
	return &Handler{sessions: sessions}
}

type transportRequest struct {
	Action string   `json:"action"`
	Value  *float64 `json:"value"`
}

// Transport applies one gesture to the caller's watch session for a
// piece of content and returns the resulting snapshot.
func (h *Handler) Transport(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	var req transportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t := h.sessions.Session(userID, contentID, math.NaN())

	value := func() float64 {
		if req.Value == nil {
			return 0
		}
		return *req.Value
	}

	switch req.Action {
	case "togglePlay":
		t.TogglePlay()
	case "seek":
		if req.Value == nil {
			httputil.WriteError(w, http.StatusBadRequest, "seek needs a percent value")
			return
		}
		t.Seek(value())
	case "skip":
		if req.Value == nil {
			httputil.WriteError(w, http.StatusBadRequest, "skip needs a seconds value")
			return
		}
		t.Skip(value())
	case "setVolume":
		if req.Value == nil {
			httputil.WriteError(w, http.StatusBadRequest, "setVolume needs a value")
			return
		}
		t.SetVolume(value())
	case "toggleMute":
		t.ToggleMute()
	case "toggleFullscreen":
		t.ToggleFullscreen()
	case "fullscreenChange":
		t.HandleFullscreenChange(value() != 0)
	case "pointerMove":
		t.HandlePointerMove()
	case "pointerLeave":
		t.HandlePointerLeave()
	case "controlsEnter":
		t.HandleControlsEnter()
	case "controlsLeave":
		t.HandleControlsLeave()
	case "setDuration":
		if req.Value == nil {
			httputil.WriteError(w, http.StatusBadRequest, "setDuration needs a seconds value")
			return
		}
		h.sessions.SetDuration(userID, contentID, value())
	case "ended":
		t.HandleEnded()
	case "error":
		t.HandleError()
	case "state":
		// Snapshot only.
	default:
		httputil.WriteError(w, http.StatusBadRequest, "unknown transport action")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, t.Snapshot())
}

// Close abandons the caller's watch session for a piece of content.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())
	h.sessions.Drop(userID, contentID)
	w.WriteHeader(http.StatusNoContent)
}
