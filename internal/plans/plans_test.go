package plans

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbeddedTableParses(t *testing.T) {
	if len(Plans.Tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(Plans.Tiers))
	}
	if Plans.PaymentNumber == "" {
		t.Error("expected a payment number")
	}
}

func TestIsValid(t *testing.T) {
	for _, id := range []string{"BASIC", "STANDARD", "PREMIUM"} {
		if !IsValid(id) {
			t.Errorf("expected %s to be a valid tier", id)
		}
	}
	for _, id := range []string{"", "basic", "FREE", "ENTERPRISE"} {
		if IsValid(id) {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}

func TestList(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	rec := httptest.NewRecorder()

	List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var table Table
	if err := json.NewDecoder(rec.Body).Decode(&table); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(table.Tiers) != 3 {
		t.Errorf("expected 3 tiers in response, got %d", len(table.Tiers))
	}
}
