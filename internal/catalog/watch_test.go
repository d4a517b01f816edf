package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/vtvstream/vtv/internal/auth"
)

func watchRequest(role string) *http.Request {
	req := requestWithRole(http.MethodGet, "/api/watch/"+testContentID, "", testUserID, role)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0")
	req.RemoteAddr = "203.0.113.10:4242"
	return withURLParam(req, "id", testContentID)
}

func TestWatch_ActiveViewerGetsPresignedURL(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT status FROM users`).
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("ACTIVE"))
	videoURL := "s3://videos/inception.mp4"
	mock.ExpectQuery(`SELECT id, title, video_url, type FROM content`).
		WithArgs(testContentID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "video_url", "type"}).
			AddRow(testContentID, "Inception", &videoURL, "MOVIE"))
	mock.ExpectExec(`INSERT INTO content_views`).
		WithArgs(testContentID, pgxmock.AnyArg(), "Firefox", "GNU/Linux", "GA").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := httptest.NewRecorder()
	handler.Watch(rec, watchRequest(auth.RoleViewer))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp watchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.VideoURL != "https://bucket.test/get/videos/inception.mp4" {
		t.Errorf("videoUrl = %q, want presigned bucket URL", resp.VideoURL)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}

func TestWatch_ExternalURLPassesThrough(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT status FROM users`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("ACTIVE"))
	videoURL := "https://cdn.example.com/inception.mp4"
	mock.ExpectQuery(`SELECT id, title, video_url, type FROM content`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "video_url", "type"}).
			AddRow(testContentID, "Inception", &videoURL, "MOVIE"))
	mock.ExpectExec(`INSERT INTO content_views`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := httptest.NewRecorder()
	handler.Watch(rec, watchRequest(auth.RoleViewer))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp watchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.VideoURL != videoURL {
		t.Errorf("videoUrl = %q, want %q untouched", resp.VideoURL, videoURL)
	}
}

func TestWatch_NonActiveViewerForbidden(t *testing.T) {
	for _, status := range []string{"GUEST", "PENDING", "BANNED"} {
		t.Run(status, func(t *testing.T) {
			handler, mock := newTestHandler(t)
			defer mock.Close()

			mock.ExpectQuery(`SELECT status FROM users`).
				WithArgs(testUserID).
				WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(status))

			rec := httptest.NewRecorder()
			handler.Watch(rec, watchRequest(auth.RoleViewer))

			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected status 403 for %s, got %d", status, rec.Code)
			}
		})
	}
}

func TestWatch_PreviewSkipsStatusCheckAndViewRecord(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	videoURL := "s3://videos/inception.mp4"
	mock.ExpectQuery(`SELECT id, title, video_url, type FROM content`).
		WithArgs(testContentID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "video_url", "type"}).
			AddRow(testContentID, "Inception", &videoURL, "MOVIE"))

	rec := httptest.NewRecorder()
	handler.Watch(rec, watchRequest(auth.RolePreview))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("preview session touched users or content_views: %v", err)
	}
}

func TestWatch_SeriesResolvesEpisodeURLs(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT status FROM users`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("ACTIVE"))
	mock.ExpectQuery(`SELECT id, title, video_url, type FROM content`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "video_url", "type"}).
			AddRow(testContentID, "The Wire", nil, "SERIES"))
	mock.ExpectQuery(`SELECT id, title, video_url, duration FROM episodes`).
		WithArgs(testContentID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "video_url", "duration"}).
			AddRow("ep-1", "Pilot", "s3://videos/e1.mp4", nil).
			AddRow("ep-2", "Fallout", "https://cdn.example.com/e2.mp4", nil))
	mock.ExpectExec(`INSERT INTO content_views`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := httptest.NewRecorder()
	handler.Watch(rec, watchRequest(auth.RoleViewer))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp watchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Episodes) != 2 {
		t.Fatalf("len(episodes) = %d, want 2", len(resp.Episodes))
	}
	if resp.Episodes[0].VideoURL != "https://bucket.test/get/videos/e1.mp4" {
		t.Errorf("episode 1 url = %q, want presigned", resp.Episodes[0].VideoURL)
	}
	if resp.Episodes[1].VideoURL != "https://cdn.example.com/e2.mp4" {
		t.Errorf("episode 2 url = %q, want external passthrough", resp.Episodes[1].VideoURL)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		remote    string
		want      string
	}{
		{"direct", "", "203.0.113.10:4242", "203.0.113.10"},
		{"forwarded", "198.51.100.7, 10.0.0.1", "203.0.113.10:4242", "198.51.100.7"},
		{"no port", "", "203.0.113.10", "203.0.113.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
