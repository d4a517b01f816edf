package plans

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"

	"github.com/vtvstream/vtv/internal/httputil"
)

//go:embed plans.json
var plansJSON []byte

type Tier struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type Table struct {
	PaymentNumber string `json:"paymentNumber"`
	Tiers         []Tier `json:"tiers"`
}

var Plans Table

func init() {
	if err := json.Unmarshal(plansJSON, &Plans); err != nil {
		log.Fatalf("failed to parse plans.json: %v", err)
	}
}

// IsValid reports whether id names one of the defined subscription tiers.
func IsValid(id string) bool {
	for _, t := range Plans.Tiers {
		if t.ID == id {
			return true
		}
	}
	return false
}

// List serves the tier table to the subscription page.
func List(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, Plans)
}
