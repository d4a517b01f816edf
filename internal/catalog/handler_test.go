package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/vtvstream/vtv/internal/auth"
)

const (
	testUserID    = "550e8400-e29b-41d4-a716-446655440000"
	testContentID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) GenerateUploadURL(_ context.Context, key, _ string, _ int64, _ time.Duration) (string, error) {
	return "https://bucket.test/put/" + key, nil
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.test/get/" + key, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeGeo struct{}

func (fakeGeo) Country(string) string { return "GA" }

func newTestHandler(t *testing.T) (*Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create pgxmock pool: %v", err)
	}
	h := NewHandler(mock, &fakeStorage{}, 1<<20)
	h.SetGeoResolver(fakeGeo{})
	return h, mock
}

func requestWithRole(method, target, body, userID, role string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := auth.ContextWithUserID(req.Context(), userID)
	ctx = auth.ContextWithRole(ctx, role)
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
