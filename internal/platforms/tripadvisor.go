package platforms

import (
	"errors"
	"strings"

	"reviewhub/internal/domain"
)

var tripadvisorAliases = map[string][]string{
	"id":       {"review_id", "id", "url_hash"},
	"name":     {"user_profile.name", "user_name", "author", "name"},
	"url":      {"user_profile.url", "user_url"},
	"image":    {"user_profile.image_url", "user_image", "avatar"},
	"title":    {"title", "review_title"},
	"text":     {"review_text", "text", "content"},
	"date":     {"timestamp", "date_of_visit", "date", "published_date"},
	"response": {"responses.owner_answer", "owner_answer", "management_response"},
}

var tripadvisorRating = []string{"rating.value", "rating", "bubbles", "score"}

type TripAdvisor struct{}

func (TripAdvisor) Platform() domain.Platform { return domain.PlatformTripAdvisor }
func (TripAdvisor) DisplayName() string       { return "TripAdvisor" }

func (TripAdvisor) SearchFields() []domain.SearchField {
	return []domain.SearchField{
		{
			Key:         "urlPath",
			Label:       "TripAdvisor page path",
			Placeholder: "/Hotel_Review-g187147-d197614-Reviews-...",
			Required:    true,
			Help:        "The path part of the TripAdvisor listing URL, starting with /.",
		},
		{Key: "depth", Label: "Number of reviews", Placeholder: "20"},
	}
}

func (TripAdvisor) ValidateInput(in domain.SearchInput) error {
	if strings.TrimSpace(in.URLPath) == "" {
		return errors.New("Please provide the TripAdvisor page URL path")
	}
	return nil
}

func (TripAdvisor) BuildTaskPayload(in domain.SearchInput) map[string]any {
	depth := in.Depth
	if depth <= 0 {
		depth = 20
	}
	path := strings.TrimSpace(in.URLPath)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	loc := in.LocationCode
	if loc == 0 {
		loc = 2840
	}
	return map[string]any{
		"url_path":      path,
		"depth":         depth,
		"location_code": loc,
	}
}

func (TripAdvisor) Normalize(raw map[string]any) (domain.Review, error) {
	id := firstStr(raw, tripadvisorAliases["id"]...)
	if id == "" {
		return domain.Review{}, errors.New("tripadvisor review has no id")
	}
	name := firstStr(raw, tripadvisorAliases["name"]...)
	if name == "" {
		name = "TripAdvisor User"
	}
	rating := starsAt(raw, tripadvisorRating...)
	return domain.Review{
		ExternalReviewID: id,
		Platform:         domain.PlatformTripAdvisor,
		ReviewerName:     name,
		ReviewerURL:      firstStr(raw, tripadvisorAliases["url"]...),
		ReviewerImageURL: firstStr(raw, tripadvisorAliases["image"]...),
		Content:          firstStr(raw, tripadvisorAliases["text"]...),
		Rating:           rating,
		Sentiment:        domain.SentimentFor(rating),
		Date:             dateAt(raw, tripadvisorAliases["date"]...),
		PlatformName:     "TripAdvisor",
		Title:            firstStr(raw, tripadvisorAliases["title"]...),
		OwnerResponse:    firstStr(raw, tripadvisorAliases["response"]...),
	}, nil
}
