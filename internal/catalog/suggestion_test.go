package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/vtvstream/vtv/internal/auth"
)

func TestSubmitSuggestion_StartsPendingWithUserName(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT name FROM users`).
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Marie"))
	mock.ExpectQuery(`INSERT INTO suggestions`).
		WithArgs(testUserID, "Marie", "Lupin season 4", SuggestionPending).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "user_name", "movie_name", "status", "created_at"}).
			AddRow("sug-1", testUserID, "Marie", "Lupin season 4", SuggestionPending, "2026-01-10 12:00:00"))

	req := requestWithRole(http.MethodPost, "/api/suggestions",
		`{"movieName":"  Lupin season 4  "}`, testUserID, auth.RoleViewer)
	rec := httptest.NewRecorder()

	handler.SubmitSuggestion(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp suggestionRow
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != SuggestionPending {
		t.Errorf("status = %q, want %q", resp.Status, SuggestionPending)
	}
	if resp.UserName != "Marie" {
		t.Errorf("userName = %q, want Marie", resp.UserName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}

func TestSubmitSuggestion_RejectsBlank(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	req := requestWithRole(http.MethodPost, "/api/suggestions", `{"movieName":"   "}`, testUserID, auth.RoleViewer)
	rec := httptest.NewRecorder()

	handler.SubmitSuggestion(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSubmitSuggestion_RejectsPreview(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	req := requestWithRole(http.MethodPost, "/api/suggestions", `{"movieName":"Heat"}`, testUserID, auth.RolePreview)
	rec := httptest.NewRecorder()

	handler.SubmitSuggestion(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestUpdateSuggestionStatus(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	mock.ExpectExec(`UPDATE suggestions SET status`).
		WithArgs(SuggestionApproved, "sug-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	req := requestWithRole(http.MethodPatch, "/api/admin/suggestions/sug-1",
		`{"status":"APPROVED"}`, testUserID, auth.RoleAdmin)
	req = withURLParam(req, "id", "sug-1")
	rec := httptest.NewRecorder()

	handler.UpdateSuggestionStatus(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}

func TestUpdateSuggestionStatus_RejectsUnknownStatus(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	req := requestWithRole(http.MethodPatch, "/api/admin/suggestions/sug-1",
		`{"status":"MAYBE"}`, testUserID, auth.RoleAdmin)
	req = withURLParam(req, "id", "sug-1")
	rec := httptest.NewRecorder()

	handler.UpdateSuggestionStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestDeleteSuggestion_Unknown(t *testing.T) {
	handler, mock := newTestHandler(t)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM suggestions`).
		WithArgs("sug-404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	req := requestWithRole(http.MethodDelete, "/api/admin/suggestions/sug-404", "", testUserID, auth.RoleAdmin)
	req = withURLParam(req, "id", "sug-404")
	rec := httptest.NewRecorder()

	handler.DeleteSuggestion(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
