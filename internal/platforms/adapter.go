package platforms

import (
	"fmt"

	"reviewhub/internal/domain"
)

// Adapter is the per-platform contract: pure input validation, task
// payload construction, and normalization of one raw record. No I/O.
type Adapter interface {
	Platform() domain.Platform
	DisplayName() string

	// SearchFields is static metadata describing what a UI must collect.
	SearchFields() []domain.SearchField

	// ValidateInput returns a human-readable reason the input is unusable,
	// or nil. Must be checked before any fetch call.
	ValidateInput(in domain.SearchInput) error

	// BuildTaskPayload maps validated input into the request shape the
	// aggregation API expects for this platform. Defaults (depth, sort)
	// are adapter-specific.
	BuildTaskPayload(in domain.SearchInput) map[string]any

	// Normalize converts one raw record into the canonical shape. It must
	// tolerate missing optional fields and fail only when the record is
	// unusable (no external review id).
	Normalize(raw map[string]any) (domain.Review, error)
}

// registry is the closed adapter set, built once. The Google Business
// Profile variant is deliberately absent: it is normalized by
// NormalizeGoogleBusinessReview and fetched through location discovery
// outside this service.
var registry = map[domain.Platform]Adapter{
	domain.PlatformTrustpilot:  Trustpilot{},
	domain.PlatformTripAdvisor: TripAdvisor{},
	domain.PlatformGooglePlay:  GooglePlay{},
	domain.PlatformAppStore:    AppStore{},
}

// listed fixes the enumeration order for All.
var listed = []domain.Platform{
	domain.PlatformTrustpilot,
	domain.PlatformTripAdvisor,
	domain.PlatformGooglePlay,
	domain.PlatformAppStore,
}

// Lookup returns the adapter for p. An unknown id is a bug in the caller,
// not bad user input, and surfaces as domain.ErrUnknownPlatform.
func Lookup(p domain.Platform) (Adapter, error) {
	a, ok := registry[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPlatform, p)
	}
	return a, nil
}

// All returns the supported platforms with their search-field metadata,
// in stable order, for rendering platform pickers.
func All() []domain.PlatformInfo {
	out := make([]domain.PlatformInfo, 0, len(listed))
	for _, p := range listed {
		a := registry[p]
		out = append(out, domain.PlatformInfo{
			Platform:     a.Platform(),
			DisplayName:  a.DisplayName(),
			SearchFields: a.SearchFields(),
		})
	}
	return out
}
