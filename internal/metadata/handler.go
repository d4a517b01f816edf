package metadata

import (
	"log"
	"net/http"
	"strings"

	"github.com/vtvstream/vtv/internal/httputil"
)

// Handler serves the content form's metadata prefill. A nil client means
// no upstream is configured and every lookup comes back empty.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// Lookup returns prefill metadata for a title. Lookup failures are not
// errors for the caller: the form falls back to manual entry, so this
// responds 204 instead of surfacing the upstream problem.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}

	if h.client == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	result, err := h.client.Lookup(r.Context(), title)
	if err != nil {
		log.Printf("metadata lookup for %q: %v", title, err)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
