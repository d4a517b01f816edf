package catalog

import (
	"encoding/json"
	"fmt"
)

// Actor is the canonical cast-member shape. Early records stored cast
// entries as bare name strings; UnmarshalJSON resolves both forms at read
// time so nothing downstream branches on shape again.
type Actor struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

func (a *Actor) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Name = name
		a.ImageURL = nil
		return nil
	}

	type actorRecord Actor
	var rec actorRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode cast member: %w", err)
	}
	*a = Actor(rec)
	return nil
}

// decodeCast parses a stored cast_members JSONB document.
func decodeCast(raw []byte) ([]Actor, error) {
	if len(raw) == 0 {
		return []Actor{}, nil
	}
	var cast []Actor
	if err := json.Unmarshal(raw, &cast); err != nil {
		return nil, fmt.Errorf("decode cast: %w", err)
	}
	return cast, nil
}
