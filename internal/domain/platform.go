package domain

// Platform identifies a source review platform. The set is closed: adding a
// platform means adding an adapter, not extending this list at runtime.
type Platform string

const (
	PlatformTrustpilot  Platform = "trustpilot"
	PlatformTripAdvisor Platform = "tripadvisor"
	PlatformGooglePlay  Platform = "google_play"
	PlatformAppStore    Platform = "app_store"

	// PlatformGoogleBusiness is normalized by a dedicated function rather
	// than a registered adapter (its fetch path goes through location
	// discovery, which lives outside this service).
	PlatformGoogleBusiness Platform = "google_business_profile"
)

// SearchInput is the superset of caller-supplied search parameters across
// all platforms. Each adapter reads only the fields it needs.
type SearchInput struct {
	Keyword      string `json:"keyword,omitempty"`
	Domain       string `json:"domain,omitempty"`
	URLPath      string `json:"urlPath,omitempty"`
	AppID        string `json:"appId,omitempty"`
	LocationID   string `json:"locationId,omitempty"`
	Depth        int    `json:"depth,omitempty"`
	SortBy       string `json:"sortBy,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
	LocationCode int    `json:"locationCode,omitempty"`
}

// SearchField describes one input a UI must collect for a platform.
type SearchField struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Help        string `json:"help,omitempty"`
}

// PlatformInfo is the outward-facing registry entry for one platform.
type PlatformInfo struct {
	Platform     Platform      `json:"platform"`
	DisplayName  string        `json:"displayName"`
	SearchFields []SearchField `json:"searchFields"`
}
