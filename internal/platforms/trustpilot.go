package platforms

import (
	"errors"
	"strings"

	"reviewhub/internal/domain"
)

// alias registry for Trustpilot raw records (shapes vary by API version).
var trustpilotAliases = map[string][]string{
	"id":       {"review_id", "id", "reviewId"},
	"name":     {"user_profile.name", "user_name", "author", "name"},
	"url":      {"user_profile.url", "user_url", "author_url"},
	"image":    {"user_profile.image_url", "user_image", "avatar"},
	"title":    {"title", "review_title", "headline"},
	"text":     {"review_text", "text", "content", "body"},
	"date":     {"timestamp", "date_posted", "date", "created_at"},
	"response": {"responses.owner_answer", "owner_answer", "company_response"},
}

var trustpilotRating = []string{"rating.value", "rating", "score", "stars"}

type Trustpilot struct{}

func (Trustpilot) Platform() domain.Platform { return domain.PlatformTrustpilot }
func (Trustpilot) DisplayName() string       { return "Trustpilot" }

func (Trustpilot) SearchFields() []domain.SearchField {
	return []domain.SearchField{
		{
			Key:         "domain",
			Label:       "Business domain",
			Placeholder: "example.com",
			Required:    true,
			Help:        "The domain of the Trustpilot business page, without https:// or www.",
		},
		{Key: "depth", Label: "Number of reviews", Placeholder: "10"},
	}
}

func (Trustpilot) ValidateInput(in domain.SearchInput) error {
	if cleanDomain(in.Domain) == "" {
		return errors.New("Please provide the Trustpilot domain")
	}
	return nil
}

func (Trustpilot) BuildTaskPayload(in domain.SearchInput) map[string]any {
	depth := in.Depth
	if depth <= 0 {
		depth = 10
	}
	sort := in.SortBy
	if sort == "" {
		sort = "recency"
	}
	return map[string]any{
		"domain":  cleanDomain(in.Domain),
		"depth":   depth,
		"sort_by": sort,
	}
}

func (Trustpilot) Normalize(raw map[string]any) (domain.Review, error) {
	id := firstStr(raw, trustpilotAliases["id"]...)
	if id == "" {
		return domain.Review{}, errors.New("trustpilot review has no id")
	}
	name := firstStr(raw, trustpilotAliases["name"]...)
	if name == "" {
		name = "Trustpilot User"
	}
	rating := starsAt(raw, trustpilotRating...)
	return domain.Review{
		ExternalReviewID: id,
		Platform:         domain.PlatformTrustpilot,
		ReviewerName:     name,
		ReviewerURL:      firstStr(raw, trustpilotAliases["url"]...),
		ReviewerImageURL: firstStr(raw, trustpilotAliases["image"]...),
		Content:          firstStr(raw, trustpilotAliases["text"]...),
		Rating:           rating,
		Sentiment:        domain.SentimentFor(rating),
		Date:             dateAt(raw, trustpilotAliases["date"]...),
		PlatformName:     "Trustpilot",
		Title:            firstStr(raw, trustpilotAliases["title"]...),
		OwnerResponse:    firstStr(raw, trustpilotAliases["response"]...),
	}, nil
}

// cleanDomain reduces "https://www.example.com/reviews?x=1" to
// "example.com" so the payload carries a bare domain.
func cleanDomain(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, pre := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, pre)
	}
	s = strings.TrimPrefix(s, "www.")
	for _, sep := range []string{"/", "?", "#"} {
		if i := strings.Index(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	return s
}
