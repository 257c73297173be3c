package platforms

import (
	"errors"

	"reviewhub/internal/domain"
)

var googleBusinessAliases = map[string][]string{
	"id":       {"review_id", "id", "reviewId"},
	"name":     {"profile_name", "user_profile.name", "author", "name"},
	"url":      {"profile_url", "user_profile.url"},
	"image":    {"profile_image_url", "user_profile.image_url"},
	"title":    {"title"},
	"text":     {"review_text", "text", "snippet", "comment"},
	"date":     {"timestamp", "date", "time"},
	"response": {"owner_answer", "responses.owner_answer", "owner_response"},
}

var googleBusinessRating = []string{"rating.value", "rating", "score", "stars"}

// NormalizeGoogleBusinessReview converts one raw Google Business Profile
// review into the canonical shape. GBP is not a registered adapter: its
// fetch path runs through the location/account discovery chain, which is
// owned elsewhere; only the normalization lives here.
func NormalizeGoogleBusinessReview(raw map[string]any) (domain.Review, error) {
	id := firstStr(raw, googleBusinessAliases["id"]...)
	if id == "" {
		return domain.Review{}, errors.New("google business review has no id")
	}
	name := firstStr(raw, googleBusinessAliases["name"]...)
	if name == "" {
		name = "Google User"
	}
	rating := starsAt(raw, googleBusinessRating...)
	return domain.Review{
		ExternalReviewID: id,
		Platform:         domain.PlatformGoogleBusiness,
		ReviewerName:     name,
		ReviewerURL:      firstStr(raw, googleBusinessAliases["url"]...),
		ReviewerImageURL: firstStr(raw, googleBusinessAliases["image"]...),
		Content:          firstStr(raw, googleBusinessAliases["text"]...),
		Rating:           rating,
		Sentiment:        domain.SentimentFor(rating),
		Date:             dateAt(raw, googleBusinessAliases["date"]...),
		PlatformName:     "Google",
		Title:            firstStr(raw, googleBusinessAliases["title"]...),
		OwnerResponse:    firstStr(raw, googleBusinessAliases["response"]...),
	}, nil
}
