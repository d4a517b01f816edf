package player

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vtvstream/vtv/internal/auth"
)

func transportRequestFor(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/watch/content-1/transport", strings.NewReader(body))
	ctx := auth.ContextWithUserID(req.Context(), "user-1")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "content-1")
	return req.WithContext(context.WithValue(ctx, chi.RouteCtxKey, rctx))
}

func TestTransportEndpoint_SeekAfterDuration(t *testing.T) {
	handler := NewHandler(NewManager(time.Hour))

	rec := httptest.NewRecorder()
	handler.Transport(rec, transportRequestFor(t, `{"action":"setDuration","value":120}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("setDuration: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.Transport(rec, transportRequestFor(t, `{"action":"seek","value":50}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("seek: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.CurrentTime < 60 || snap.CurrentTime >= 61 {
		t.Errorf("currentTime = %v, want ~60", snap.CurrentTime)
	}
}

func TestTransportEndpoint_SeekRequiresValue(t *testing.T) {
	handler := NewHandler(NewManager(time.Hour))

	rec := httptest.NewRecorder()
	handler.Transport(rec, transportRequestFor(t, `{"action":"seek"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransportEndpoint_UnknownAction(t *testing.T) {
	handler := NewHandler(NewManager(time.Hour))

	rec := httptest.NewRecorder()
	handler.Transport(rec, transportRequestFor(t, `{"action":"rewind"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransportEndpoint_StateReturnsSnapshot(t *testing.T) {
	handler := NewHandler(NewManager(time.Hour))

	rec := httptest.NewRecorder()
	handler.Transport(rec, transportRequestFor(t, `{"action":"state"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.State != StatePlaying {
		t.Errorf("state = %q, want PLAYING after session autoplay", snap.State)
	}
}
