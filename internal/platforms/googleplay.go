package platforms

import (
	"errors"
	"strings"

	"reviewhub/internal/domain"
)

var googlePlayAliases = map[string][]string{
	"id":       {"review_id", "id", "reviewId"},
	"name":     {"user_profile.name", "profile_name", "user_name", "author"},
	"url":      {"user_profile.url", "profile_url"},
	"image":    {"user_profile.image_url", "profile_image_url", "avatar"},
	"title":    {"title", "review_title"},
	"text":     {"review_text", "text", "content", "snippet"},
	"date":     {"timestamp", "date", "published_at"},
	"response": {"responses.developer_answer", "developer_answer", "developer_comment", "owner_answer"},
}

var googlePlayRating = []string{"rating.value", "rating", "score", "stars"}

type GooglePlay struct{}

func (GooglePlay) Platform() domain.Platform { return domain.PlatformGooglePlay }
func (GooglePlay) DisplayName() string       { return "Google Play" }

func (GooglePlay) SearchFields() []domain.SearchField {
	return []domain.SearchField{
		{
			Key:         "appId",
			Label:       "App package name",
			Placeholder: "com.example.app",
			Required:    true,
			Help:        "The package name from the Play Store URL (id= parameter).",
		},
		{Key: "depth", Label: "Number of reviews", Placeholder: "150"},
		{Key: "languageCode", Label: "Language", Placeholder: "en"},
	}
}

func (GooglePlay) ValidateInput(in domain.SearchInput) error {
	if strings.TrimSpace(in.AppID) == "" {
		return errors.New("Please provide the Google Play app package name")
	}
	return nil
}

func (GooglePlay) BuildTaskPayload(in domain.SearchInput) map[string]any {
	depth := in.Depth
	if depth <= 0 {
		depth = 150
	}
	sort := in.SortBy
	if sort == "" {
		sort = "newest"
	}
	lang := in.LanguageCode
	if lang == "" {
		lang = "en"
	}
	loc := in.LocationCode
	if loc == 0 {
		loc = 2840
	}
	return map[string]any{
		"app_id":        strings.TrimSpace(in.AppID),
		"depth":         depth,
		"sort_by":       sort,
		"language_code": lang,
		"location_code": loc,
	}
}

func (GooglePlay) Normalize(raw map[string]any) (domain.Review, error) {
	id := firstStr(raw, googlePlayAliases["id"]...)
	if id == "" {
		return domain.Review{}, errors.New("google play review has no id")
	}
	name := firstStr(raw, googlePlayAliases["name"]...)
	if name == "" {
		name = "Google Play User"
	}
	rating := starsAt(raw, googlePlayRating...)
	return domain.Review{
		ExternalReviewID: id,
		Platform:         domain.PlatformGooglePlay,
		ReviewerName:     name,
		ReviewerURL:      firstStr(raw, googlePlayAliases["url"]...),
		ReviewerImageURL: firstStr(raw, googlePlayAliases["image"]...),
		Content:          firstStr(raw, googlePlayAliases["text"]...),
		Rating:           rating,
		Sentiment:        domain.SentimentFor(rating),
		Date:             dateAt(raw, googlePlayAliases["date"]...),
		PlatformName:     "Google Play",
		Title:            firstStr(raw, googlePlayAliases["title"]...),
		OwnerResponse:    firstStr(raw, googlePlayAliases["response"]...),
	}, nil
}
