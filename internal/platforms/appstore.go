package platforms

import (
	"errors"
	"strings"

	"reviewhub/internal/domain"
)

var appStoreAliases = map[string][]string{
	"id":       {"review_id", "id", "reviewId"},
	"name":     {"user_profile.name", "user_name", "author", "nickname"},
	"url":      {"user_profile.url", "user_url"},
	"image":    {"user_profile.image_url", "user_image"},
	"title":    {"title", "review_title"},
	"text":     {"review_text", "text", "content", "body"},
	"date":     {"timestamp", "date", "updated"},
	"response": {"responses.developer_answer", "developer_response", "owner_answer"},
}

var appStoreRating = []string{"rating.value", "rating", "score", "stars"}

type AppStore struct{}

func (AppStore) Platform() domain.Platform { return domain.PlatformAppStore }
func (AppStore) DisplayName() string       { return "App Store" }

func (AppStore) SearchFields() []domain.SearchField {
	return []domain.SearchField{
		{
			Key:         "appId",
			Label:       "App ID",
			Placeholder: "544007664",
			Required:    true,
			Help:        "The numeric id from the App Store URL (after /id).",
		},
		{Key: "depth", Label: "Number of reviews", Placeholder: "100"},
		{Key: "languageCode", Label: "Language", Placeholder: "en"},
	}
}

func (AppStore) ValidateInput(in domain.SearchInput) error {
	if strings.TrimSpace(in.AppID) == "" {
		return errors.New("Please provide the App Store app id")
	}
	return nil
}

func (AppStore) BuildTaskPayload(in domain.SearchInput) map[string]any {
	depth := in.Depth
	if depth <= 0 {
		depth = 100
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
		"app_id":        strings.TrimPrefix(strings.TrimSpace(in.AppID), "id"),
		"depth":         depth,
		"sort_by":       sort,
		"language_code": lang,
		"location_code": loc,
	}
}

func (AppStore) Normalize(raw map[string]any) (domain.Review, error) {
	id := firstStr(raw, appStoreAliases["id"]...)
	if id == "" {
		return domain.Review{}, errors.New("app store review has no id")
	}
	name := firstStr(raw, appStoreAliases["name"]...)
	if name == "" {
		name = "App Store User"
	}
	rating := starsAt(raw, appStoreRating...)
	return domain.Review{
		ExternalReviewID: id,
		Platform:         domain.PlatformAppStore,
		ReviewerName:     name,
		ReviewerURL:      firstStr(raw, appStoreAliases["url"]...),
		ReviewerImageURL: firstStr(raw, appStoreAliases["image"]...),
		Content:          firstStr(raw, appStoreAliases["text"]...),
		Rating:           rating,
		Sentiment:        domain.SentimentFor(rating),
		Date:             dateAt(raw, appStoreAliases["date"]...),
		PlatformName:     "App Store",
		Title:            firstStr(raw, appStoreAliases["title"]...),
		OwnerResponse:    firstStr(raw, appStoreAliases["response"]...),
	}, nil
}
