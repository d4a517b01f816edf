package validate

import "testing"

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "The Last Voyage", ""},
		{"empty", "", ""},
		{"at limit", string(make([]byte, MaxTitleLength)), ""},
		{"over limit", string(make([]byte, MaxTitleLength+1)), "title must be 500 characters or fewer"},
	}
	for _, tt := range tests {
		if got := Title(tt.input); got != tt.want {
			t.Errorf("Title(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "A long sea voyage goes wrong.", ""},
		{"empty", "", ""},
		{"at limit", string(make([]byte, MaxDescriptionLength)), ""},
		{"over limit", string(make([]byte, MaxDescriptionLength+1)), "description must be 5000 characters or fewer"},
	}
	for _, tt := range tests {
		if got := Description(tt.input); got != tt.want {
			t.Errorf("Description(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestCategoryName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "Action", ""},
		{"at limit", string(make([]byte, MaxCategoryNameLength)), ""},
		{"over limit", string(make([]byte, MaxCategoryNameLength+1)), "category name must be 100 characters or fewer"},
	}
	for _, tt := range tests {
		if got := CategoryName(tt.input); got != tt.want {
			t.Errorf("CategoryName(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestSuggestionName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "Season two please", ""},
		{"at limit", string(make([]byte, MaxSuggestionNameLength)), ""},
		{"over limit", string(make([]byte, MaxSuggestionNameLength+1)), "suggestion must be 200 characters or fewer"},
	}
	for _, tt := range tests {
		if got := SuggestionName(tt.input); got != tt.want {
			t.Errorf("SuggestionName(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestProof(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "Airtel Money ref 8841", ""},
		{"at limit", string(make([]byte, MaxProofLength)), ""},
		{"over limit", string(make([]byte, MaxProofLength+1)), "payment proof must be 1000 characters or fewer"},
	}
	for _, tt := range tests {
		if got := Proof(tt.input); got != tt.want {
			t.Errorf("Proof(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestCommunityLink(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "https://chat.whatsapp.com/abc", ""},
		{"at limit", string(make([]byte, MaxCommunityLinkLength)), ""},
		{"over limit", string(make([]byte, MaxCommunityLinkLength+1)), "community link must be 500 characters or fewer"},
	}
	for _, tt := range tests {
		if got := CommunityLink(tt.input); got != tt.want {
			t.Errorf("CommunityLink(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestFieldLimits(t *testing.T) {
	fl := FieldLimits()
	if fl["title"] != MaxTitleLength {
		t.Errorf("FieldLimits()[title] = %d, want %d", fl["title"], MaxTitleLength)
	}
	if fl["proof"] != MaxProofLength {
		t.Errorf("FieldLimits()[proof] = %d, want %d", fl["proof"], MaxProofLength)
	}
	if len(fl) != 8 {
		t.Errorf("FieldLimits() returned %d entries, expected 8", len(fl))
	}
}
