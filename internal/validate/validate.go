package validate

import "fmt"

// Text field length limits, the single source of truth for backend and frontend.
const (
	MaxTitleLength          = 500
	MaxDescriptionLength    = 5000
	MaxCategoryNameLength   = 100
	MaxSuggestionNameLength = 200
	MaxProofLength          = 1000
	MaxActorNameLength      = 200
	MaxCommunityLinkLength  = 500
	MaxAssetNameLength      = 100
)

func checkLen(value string, max int, field string) string {
	if len(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func Title(s string) string          { return checkLen(s, MaxTitleLength, "title") }
func Description(s string) string    { return checkLen(s, MaxDescriptionLength, "description") }
func CategoryName(s string) string   { return checkLen(s, MaxCategoryNameLength, "category name") }
func SuggestionName(s string) string { return checkLen(s, MaxSuggestionNameLength, "suggestion") }
func Proof(s string) string          { return checkLen(s, MaxProofLength, "payment proof") }
func ActorName(s string) string      { return checkLen(s, MaxActorNameLength, "actor name") }
func CommunityLink(s string) string  { return checkLen(s, MaxCommunityLinkLength, "community link") }
func AssetName(s string) string      { return checkLen(s, MaxAssetNameLength, "asset name") }

// FieldLimits returns a map of field names to max lengths for the /api/limits endpoint.
func FieldLimits() map[string]int {
	return map[string]int{
		"title":         MaxTitleLength,
		"description":   MaxDescriptionLength,
		"categoryName":  MaxCategoryNameLength,
		"suggestion":    MaxSuggestionNameLength,
		"proof":         MaxProofLength,
		"actorName":     MaxActorNameLength,
		"communityLink": MaxCommunityLinkLength,
		"assetName":     MaxAssetNameLength,
	}
}
