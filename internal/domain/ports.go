package domain

import (
	"context"
	"errors"
)

var (
	// ErrUnknownPlatform means a platform id outside the closed set reached
	// the registry. That is a programming error, not user input.
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrDuplicateReview is the typed classification of a uniqueness
	// violation on (tenant, platform, external review id). The orchestrator
	// treats it as "someone inserted this concurrently" and counts a skip.
	ErrDuplicateReview = errors.New("review already imported")
)

// FetchResult is what the external data-aggregation service returned for
// one fetch call. Cost is meaningful even when the call failed: a failed
// task may still have been billed.
type FetchResult struct {
	Items []map[string]any
	Cost  float64
}

// FetchClient runs one task against the external aggregation API. Items
// are opaque until handed to the matching adapter.
type FetchClient interface {
	FetchReviews(ctx context.Context, platform Platform, payload map[string]any) (FetchResult, error)
}

// Contact is the reviewer record created alongside each imported review.
// Source platforms give us a display name and nothing else.
type Contact struct {
	ID       string
	TenantID string
	Name     string
	Source   string // provenance tag, e.g. "import"
}

// StoredReview is the write shape for one imported review row.
type StoredReview struct {
	TenantID         string
	BusinessID       string
	ContactID        string
	ReviewerName     string
	FirstName        string
	LastName         string
	Content          string
	PlatformName     string
	Rating           int
	Sentiment        string
	ReviewType       string
	SubmittedAt      string // source review date, not import time
	ExternalReviewID string
	ExternalPlatform Platform
	Verified         bool
	VerifiedAt       string
	Status           string
	Channel          string
}

// ReviewRepository is the persistence collaborator. InsertReview returns
// ErrDuplicateReview (wrapped) when the uniqueness constraint on
// (tenant, platform, external id) fires.
type ReviewRepository interface {
	ListExternalIDs(ctx context.Context, tenantID string, platform Platform) (map[string]struct{}, error)
	CreateContact(ctx context.Context, c Contact) error
	InsertReview(ctx context.Context, r StoredReview) error
}

// Cache is a read-through cache keyed by string. Advisory only: the store's
// uniqueness constraint, not the cache, is what guarantees at-most-once.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
