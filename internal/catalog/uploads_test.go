package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vtvstream/vtv/internal/auth"
)

func TestCreateUpload_Poster(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	body := `{"kind":"poster","fileName":"My Poster (final).jpg","contentType":"image/jpeg","contentLength":2048}`
	req := requestWithRole(http.MethodPost, "/api/admin/uploads", body, testUserID, auth.RoleAdmin)
	rec := httptest.NewRecorder()

	handler.CreateUpload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.ObjectURL, objectKeyScheme+"posters/") {
		t.Errorf("objectUrl = %q, want posters/ key under %s", resp.ObjectURL, objectKeyScheme)
	}
	if strings.Contains(resp.ObjectURL, "(") || strings.Contains(resp.ObjectURL, " ") {
		t.Errorf("objectUrl = %q contains unsanitized characters", resp.ObjectURL)
	}
	if !strings.HasPrefix(resp.UploadURL, "https://bucket.test/put/") {
		t.Errorf("uploadUrl = %q, want presigned PUT", resp.UploadURL)
	}
}

func TestCreateUpload_RejectsMismatchedContentType(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	body := `{"kind":"video","fileName":"movie.mp4","contentType":"image/png","contentLength":2048}`
	req := requestWithRole(http.MethodPost, "/api/admin/uploads", body, testUserID, auth.RoleAdmin)
	rec := httptest.NewRecorder()

	handler.CreateUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreateUpload_RejectsOversizedFile(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	body := `{"kind":"video","fileName":"movie.mp4","contentType":"video/mp4","contentLength":2097152}`
	req := requestWithRole(http.MethodPost, "/api/admin/uploads", body, testUserID, auth.RoleAdmin)
	rec := httptest.NewRecorder()

	handler.CreateUpload(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rec.Code)
	}
}

func TestCreateUpload_RejectsUnknownKind(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	body := `{"kind":"subtitle","fileName":"movie.srt","contentType":"text/plain","contentLength":100}`
	req := requestWithRole(http.MethodPost, "/api/admin/uploads", body, testUserID, auth.RoleAdmin)
	rec := httptest.NewRecorder()

	handler.CreateUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"movie.mp4", "movie.mp4"},
		{"My Poster (final).jpg", "My_Poster__final_.jpg"},
		{"../../etc/passwd", "passwd"},
		{"", "upload"},
	}
	for _, tt := range tests {
		if got := sanitizeFileName(tt.input); got != tt.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
