package domain

// Sentiment labels derived from the star rating.
const (
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentPositive = "positive"
)

// Review is the canonical shape every platform adapter produces.
type Review struct {
	ExternalReviewID string   `json:"externalReviewId"`
	Platform         Platform `json:"externalPlatform"`
	ReviewerName     string   `json:"reviewerName"`
	ReviewerURL      string   `json:"reviewerUrl,omitempty"`
	ReviewerImageURL string   `json:"reviewerImageUrl,omitempty"`
	Content          string   `json:"reviewContent"`
	// Rating is 1..5; 0 means the raw record carried no parsable rating.
	Rating        int    `json:"starRating"`
	Sentiment     string `json:"sentiment"`
	Date          string `json:"reviewDate"`
	PlatformName  string `json:"platformDisplayName"`
	Title         string `json:"title,omitempty"`
	OwnerResponse string `json:"ownerResponse,omitempty"`
}

// SentimentFor maps a star rating onto a sentiment label: <=2 negative,
// ==3 neutral, everything else positive. A 0 (unknown) rating lands on
// positive under this rule.
func SentimentFor(rating int) string {
	switch {
	case rating >= 1 && rating <= 2:
		return SentimentNegative
	case rating == 3:
		return SentimentNeutral
	default:
		return SentimentPositive
	}
}

// PreviewReview is a Review tagged against the dedup index at preview
// time. Transient: built for display, never persisted.
type PreviewReview struct {
	Review
	IsNew bool `json:"isNew"`
}

// ImportResult summarizes one direct-import or confirm call.
type ImportResult struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
	ImportedCount int      `json:"importedCount"`
	SkippedCount  int      `json:"skippedCount"`
	TotalFetched  int      `json:"totalFetched"`
	Cost          float64  `json:"cost"`
	Errors        []string `json:"errors,omitempty"`
}

// PreviewResult is the outcome of a search-and-preview call.
type PreviewResult struct {
	Success        bool            `json:"success"`
	Error          string          `json:"error,omitempty"`
	NewCount       int             `json:"newCount"`
	DuplicateCount int             `json:"duplicateCount"`
	TotalFetched   int             `json:"totalFetched"`
	Cost           float64         `json:"cost"`
	Errors         []string        `json:"errors,omitempty"`
	Reviews        []PreviewReview `json:"reviews"`
	Confirm        *ConfirmRequest `json:"confirm,omitempty"`
}

// ImportRequest scopes one direct import or preview.
type ImportRequest struct {
	TenantID   string      `json:"tenantId"`
	BusinessID string      `json:"businessId"`
	Platform   Platform    `json:"platform"`
	Input      SearchInput `json:"input"`
}

// ConfirmRequest is the second half of the preview/confirm protocol:
// preview returns one with Reviews unset; the caller fills in the subset
// it approved and submits it otherwise unchanged.
type ConfirmRequest struct {
	TenantID   string   `json:"tenantId"`
	BusinessID string   `json:"businessId"`
	Platform   Platform `json:"platform"`
	Reviews    []Review `json:"reviews"`
}
