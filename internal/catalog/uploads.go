package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/vtvstream/vtv/internal/httputil"
)

const uploadURLExpiry = 15 * time.Minute

type uploadRequest struct {
	Kind          string `json:"kind"`
	FileName      string `json:"fileName"`
	ContentType   string `json:"contentType"`
	ContentLength int64  `json:"contentLength"`
}

type uploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectURL string `json:"objectUrl"`
}

// CreateUpload hands the console a presigned PUT for a poster or video
// file. The returned objectUrl is what gets stored on the content row;
// playback and display resolve it back to a download URL.
func (h *Handler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var prefix, wantType string
	switch req.Kind {
	case "poster":
		prefix, wantType = "posters", "image/"
	case "video":
		prefix, wantType = "videos", "video/"
	default:
		httputil.WriteError(w, http.StatusBadRequest, "kind must be poster or video")
		return
	}

	if !strings.HasPrefix(req.ContentType, wantType) {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("a %s upload needs a %s* content type", req.Kind, wantType))
		return
	}
	if req.ContentLength <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "contentLength is required")
		return
	}
	if req.ContentLength > h.maxUploadBytes {
		httputil.WriteError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadBytes))
		return
	}

	key := fmt.Sprintf("%s/%d-%s", prefix, time.Now().UnixNano(), sanitizeFileName(req.FileName))
	uploadURL, err := h.storage.GenerateUploadURL(r.Context(), key, req.ContentType, req.ContentLength, uploadURLExpiry)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create upload URL")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, uploadResponse{
		UploadURL: uploadURL,
		ObjectURL: objectKeyScheme + key,
	})
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
