package platforms_test

import (
	"errors"
	"testing"

	"reviewhub/internal/domain"
	"reviewhub/internal/platforms"
)

func TestLookup_UnknownPlatform(t *testing.T) {
	_, err := platforms.Lookup("yelp")
	if !errors.Is(err, domain.ErrUnknownPlatform) {
		t.Fatalf("err = %v, want ErrUnknownPlatform", err)
	}
}

func TestAll_StableOrderAndMetadata(t *testing.T) {
	infos := platforms.All()
	want := []domain.Platform{
		domain.PlatformTrustpilot,
		domain.PlatformTripAdvisor,
		domain.PlatformGooglePlay,
		domain.PlatformAppStore,
	}
	if len(infos) != len(want) {
		t.Fatalf("got %d platforms", len(infos))
	}
	for i, info := range infos {
		if info.Platform != want[i] {
			t.Fatalf("order: got %v at %d, want %v", info.Platform, i, want[i])
		}
		if info.DisplayName == "" || len(info.SearchFields) == 0 {
			t.Fatalf("metadata missing for %v: %+v", info.Platform, info)
		}
		required := 0
		for _, f := range info.SearchFields {
			if f.Required {
				required++
			}
		}
		if required == 0 {
			t.Fatalf("%v declares no required field", info.Platform)
		}
	}
}

func TestValidateInput_MissingRequiredField(t *testing.T) {
	for _, info := range platforms.All() {
		a, err := platforms.Lookup(info.Platform)
		if err != nil {
			t.Fatal(err)
		}
		if verr := a.ValidateInput(domain.SearchInput{}); verr == nil {
			t.Fatalf("%v accepted empty input", info.Platform)
		}
	}
}

func TestTrustpilot_DomainCleaning(t *testing.T) {
	a, _ := platforms.Lookup(domain.PlatformTrustpilot)
	cases := map[string]string{
		"https://www.example.com/reviews": "example.com",
		"http://example.com?utm=1":        "example.com",
		"WWW.Example.COM":                 "example.com",
		"example.com":                     "example.com",
	}
	for in, want := range cases {
		payload := a.BuildTaskPayload(domain.SearchInput{Domain: in})
		if got := payload["domain"]; got != want {
			t.Fatalf("cleanDomain(%q) = %v, want %q", in, got, want)
		}
	}
}

func TestTrustpilot_PayloadDefaults(t *testing.T) {
	a, _ := platforms.Lookup(domain.PlatformTrustpilot)
	p := a.BuildTaskPayload(domain.SearchInput{Domain: "example.com"})
	if p["depth"] != 10 || p["sort_by"] != "recency" {
		t.Fatalf("defaults: %+v", p)
	}
	p = a.BuildTaskPayload(domain.SearchInput{Domain: "example.com", Depth: 50, SortBy: "rating"})
	if p["depth"] != 50 || p["sort_by"] != "rating" {
		t.Fatalf("overrides: %+v", p)
	}
}

func TestGooglePlay_PayloadDefaults(t *testing.T) {
	a, _ := platforms.Lookup(domain.PlatformGooglePlay)
	p := a.BuildTaskPayload(domain.SearchInput{AppID: "com.example.app"})
	if p["depth"] != 150 || p["sort_by"] != "newest" || p["language_code"] != "en" {
		t.Fatalf("defaults: %+v", p)
	}
	if p["app_id"] != "com.example.app" {
		t.Fatalf("app_id: %+v", p)
	}
}

func TestTripAdvisor_PayloadPathNormalized(t *testing.T) {
	a, _ := platforms.Lookup(domain.PlatformTripAdvisor)
	p := a.BuildTaskPayload(domain.SearchInput{URLPath: "Hotel_Review-g1-d2"})
	if p["url_path"] != "/Hotel_Review-g1-d2" {
		t.Fatalf("path: %+v", p)
	}
	if p["depth"] != 20 {
		t.Fatalf("depth default: %+v", p)
	}
}

func TestNormalize_AliasFallbacks(t *testing.T) {
	a, _ := platforms.Lookup(domain.PlatformTrustpilot)
	rv, err := a.Normalize(map[string]any{
		"id": "abc", // legacy field name
		"user_profile": map[string]any{
			"name":      "Jean",
			"url":       "https://trustpilot.com/users/jean",
			"image_url": "https://cdn/img.png",
		},
		"content":   "Great service",
		"rating":    map[string]any{"value": 4.0},
		"timestamp": "2024-06-01 10:00:00 +00:00",
		"title":     "Great",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rv.ExternalReviewID != "abc" || rv.ReviewerName != "Jean" {
		t.Fatalf("review: %+v", rv)
	}
	if rv.Content != "Great service" || rv.Title != "Great" {
		t.Fatalf("content: %+v", rv)
	}
	if rv.Rating != 4 || rv.Sentiment != domain.SentimentPositive {
		t.Fatalf("rating: %+v", rv)
	}
	if rv.Date != "2024-06-01T10:00:00Z" {
		t.Fatalf("date not normalized: %q", rv.Date)
	}
	if rv.PlatformName != "Trustpilot" || rv.Platform != domain.PlatformTrustpilot {
		t.Fatalf("platform: %+v", rv)
	}
}

func TestNormalize_DefaultReviewerNames(t *testing.T) {
	cases := map[domain.Platform]string{
		domain.PlatformTrustpilot:  "Trustpilot User",
		domain.PlatformTripAdvisor: "TripAdvisor User",
		domain.PlatformGooglePlay:  "Google Play User",
		domain.PlatformAppStore:    "App Store User",
	}
	for p, want := range cases {
		a, _ := platforms.Lookup(p)
		rv, err := a.Normalize(map[string]any{"review_id": "r1"})
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if rv.ReviewerName != want {
			t.Fatalf("%v: name = %q, want %q", p, rv.ReviewerName, want)
		}
	}
}

func TestNormalize_MissingIDFails(t *testing.T) {
	for _, info := range platforms.All() {
		a, _ := platforms.Lookup(info.Platform)
		if _, err := a.Normalize(map[string]any{"review_text": "anonymous rant"}); err == nil {
			t.Fatalf("%v normalized a record without an id", info.Platform)
		}
	}
}

func TestNormalize_UnparsableRatingSentinel(t *testing.T) {
	a, _ := platforms.Lookup(domain.PlatformGooglePlay)
	rv, err := a.Normalize(map[string]any{
		"review_id": "r1",
		"rating":    map[string]any{"value": "five stars!!"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rv.Rating != 0 {
		t.Fatalf("rating = %d, want sentinel 0", rv.Rating)
	}
	// current mapping rule sends unknown ratings to positive
	if rv.Sentiment != domain.SentimentPositive {
		t.Fatalf("sentiment = %q", rv.Sentiment)
	}
}

func TestNormalize_RatingScaleClamp(t *testing.T) {
	a, _ := platforms.Lookup(domain.PlatformAppStore)
	for raw, want := range map[any]int{
		5.0:   5,
		"3":   3,
		"4,0": 4,
		100.0: 0, // off-scale reads as unknown
	} {
		rv, err := a.Normalize(map[string]any{"review_id": "r1", "rating": raw})
		if err != nil {
			t.Fatal(err)
		}
		if rv.Rating != want {
			t.Fatalf("rating %v -> %d, want %d", raw, rv.Rating, want)
		}
	}
}

func TestSentimentMapping(t *testing.T) {
	for rating, want := range map[int]string{
		1: domain.SentimentNegative,
		2: domain.SentimentNegative,
		3: domain.SentimentNeutral,
		4: domain.SentimentPositive,
		5: domain.SentimentPositive,
		0: domain.SentimentPositive,
	} {
		if got := domain.SentimentFor(rating); got != want {
			t.Fatalf("SentimentFor(%d) = %q, want %q", rating, got, want)
		}
	}
}

func TestNormalizeGoogleBusinessReview(t *testing.T) {
	rv, err := platforms.NormalizeGoogleBusinessReview(map[string]any{
		"review_id":    "gbp1",
		"profile_name": "Maria",
		"review_text":  "Nice place",
		"rating":       map[string]any{"value": 2.0},
		"owner_answer": "Thanks for the feedback",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rv.Platform != domain.PlatformGoogleBusiness || rv.PlatformName != "Google" {
		t.Fatalf("platform: %+v", rv)
	}
	if rv.ReviewerName != "Maria" || rv.OwnerResponse != "Thanks for the feedback" {
		t.Fatalf("fields: %+v", rv)
	}
	if rv.Sentiment != domain.SentimentNegative {
		t.Fatalf("sentiment: %+v", rv)
	}

	if _, err := platforms.NormalizeGoogleBusinessReview(map[string]any{"profile_name": "NoID"}); err == nil {
		t.Fatal("missing id must fail")
	}

	rv, err = platforms.NormalizeGoogleBusinessReview(map[string]any{"review_id": "gbp2"})
	if err != nil {
		t.Fatal(err)
	}
	if rv.ReviewerName != "Google User" {
		t.Fatalf("default name: %q", rv.ReviewerName)
	}
}
