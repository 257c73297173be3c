package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"reviewhub/internal/adapters/observability"
	"reviewhub/internal/domain"
	"reviewhub/internal/platforms"
)

// ImportService runs the two import workflows: one-shot import, and
// preview followed by confirm. Every failure mode terminates in the
// result value; nothing escapes as a panic or a bare error.
type ImportService struct {
	fetch    domain.FetchClient
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewImportService(f domain.FetchClient, r domain.ReviewRepository, cache domain.Cache, ttl time.Duration) *ImportService {
	return &ImportService{fetch: f, repo: r, cache: cache, cacheTTL: ttl}
}

// ImportReviews fetches, normalizes, dedups and persists in one call.
func (s *ImportService) ImportReviews(ctx context.Context, req domain.ImportRequest) domain.ImportResult {
	adapter, err := platforms.Lookup(req.Platform)
	if err != nil {
		return domain.ImportResult{Error: err.Error()}
	}
	if err := adapter.ValidateInput(req.Input); err != nil {
		// Validation failures never reach the network.
		return domain.ImportResult{Error: err.Error()}
	}

	fetched, err := s.fetch.FetchReviews(ctx, req.Platform, adapter.BuildTaskPayload(req.Input))
	if err != nil {
		// A failed fetch may still have been billed; surface the cost.
		return domain.ImportResult{Error: err.Error(), Cost: fetched.Cost}
	}
	if len(fetched.Items) == 0 {
		return domain.ImportResult{Success: true, Cost: fetched.Cost}
	}

	reviews, normErrs := normalizeAll(adapter, fetched.Items)
	res := domain.ImportResult{
		Success:      true,
		TotalFetched: len(fetched.Items),
		Cost:         fetched.Cost,
		Errors:       normErrs,
	}
	if len(reviews) == 0 {
		res.SkippedCount = len(fetched.Items)
		return res
	}

	seen, err := s.externalIDs(ctx, req.TenantID, req.Platform)
	if err != nil {
		return domain.ImportResult{Error: fmt.Sprintf("load imported review ids: %v", err), Cost: fetched.Cost}
	}

	s.persistBatch(ctx, req.TenantID, req.BusinessID, req.Platform, reviews, seen, &res)
	return res
}

// SearchAndPreview runs the same validate/fetch/normalize pipeline but
// persists nothing: it tags every record against the dedup index and
// returns the full list, new records first. This is the only step that
// spends the caller's fetch budget.
func (s *ImportService) SearchAndPreview(ctx context.Context, req domain.ImportRequest) domain.PreviewResult {
	adapter, err := platforms.Lookup(req.Platform)
	if err != nil {
		return domain.PreviewResult{Error: err.Error()}
	}
	if err := adapter.ValidateInput(req.Input); err != nil {
		return domain.PreviewResult{Error: err.Error()}
	}

	fetched, err := s.fetch.FetchReviews(ctx, req.Platform, adapter.BuildTaskPayload(req.Input))
	if err != nil {
		return domain.PreviewResult{Error: err.Error(), Cost: fetched.Cost}
	}

	reviews, normErrs := normalizeAll(adapter, fetched.Items)
	res := domain.PreviewResult{
		Success:      true,
		TotalFetched: len(fetched.Items),
		Cost:         fetched.Cost,
		Errors:       normErrs,
		Confirm: &domain.ConfirmRequest{
			TenantID:   req.TenantID,
			BusinessID: req.BusinessID,
			Platform:   req.Platform,
		},
	}
	if len(reviews) == 0 {
		return res
	}

	seen, err := s.externalIDs(ctx, req.TenantID, req.Platform)
	if err != nil {
		return domain.PreviewResult{Error: fmt.Sprintf("load imported review ids: %v", err), Cost: fetched.Cost}
	}

	tagged := make([]domain.PreviewReview, 0, len(reviews))
	for _, rv := range reviews {
		_, dup := seen[rv.ExternalReviewID]
		tagged = append(tagged, domain.PreviewReview{Review: rv, IsNew: !dup})
		if dup {
			res.DuplicateCount++
		} else {
			res.NewCount++
		}
	}
	// New records first, otherwise keep fetch order.
	sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].IsNew && !tagged[j].IsNew })
	res.Reviews = tagged
	return res
}

// ConfirmImport persists the subset the caller approved after a preview.
// The dedup check is re-run against current store state to cover imports
// that landed between preview and confirm. Cost is zero: the fetch was
// already charged at preview time.
func (s *ImportService) ConfirmImport(ctx context.Context, req domain.ConfirmRequest) domain.ImportResult {
	if _, err := platforms.Lookup(req.Platform); err != nil && req.Platform != domain.PlatformGoogleBusiness {
		return domain.ImportResult{Error: err.Error()}
	}
	res := domain.ImportResult{Success: true, TotalFetched: len(req.Reviews)}
	if len(req.Reviews) == 0 {
		return res
	}

	// Read the store directly here: a cached index could hide an import
	// that landed after the preview.
	seen, err := s.repo.ListExternalIDs(ctx, req.TenantID, req.Platform)
	if err != nil {
		return domain.ImportResult{Error: fmt.Sprintf("load imported review ids: %v", err)}
	}

	s.persistBatch(ctx, req.TenantID, req.BusinessID, req.Platform, req.Reviews, seen, &res)
	return res
}

// persistBatch writes every review not present in seen, isolating
// per-record failures: a duplicate-key insert counts as a skip, anything
// else is recorded and the batch continues.
func (s *ImportService) persistBatch(ctx context.Context, tenantID, businessID string, platform domain.Platform, reviews []domain.Review, seen map[string]struct{}, res *domain.ImportResult) {
	for _, rv := range reviews {
		if rv.ExternalReviewID == "" {
			res.Errors = append(res.Errors, "review has no external id")
			observability.ObserveImport(string(platform), "error")
			continue
		}
		if _, dup := seen[rv.ExternalReviewID]; dup {
			res.SkippedCount++
			observability.ObserveImport(string(platform), "skipped")
			continue
		}
		if err := s.persistOne(ctx, tenantID, businessID, rv); err != nil {
			if errors.Is(err, domain.ErrDuplicateReview) {
				// Lost the race to a concurrent import; the row exists, so
				// the outcome the caller wanted is already true.
				res.SkippedCount++
				observability.ObserveImport(string(platform), "skipped")
				continue
			}
			log.Warn().
				Str("platform", string(platform)).
				Str("external_id", rv.ExternalReviewID).
				Err(err).
				Msg("persist review failed")
			res.Errors = append(res.Errors, fmt.Sprintf("review %s: %v", rv.ExternalReviewID, err))
			observability.ObserveImport(string(platform), "error")
			continue
		}
		res.ImportedCount++
		observability.ObserveImport(string(platform), "imported")
	}
	if res.ImportedCount > 0 && s.cache != nil {
		_ = s.cache.Del(ctx, dedupKey(tenantID, platform))
	}
}

func (s *ImportService) persistOne(ctx context.Context, tenantID, businessID string, rv domain.Review) error {
	contact := domain.Contact{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     rv.ReviewerName,
		Source:   "import",
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}

	content := rv.Content
	if rv.Title != "" {
		content = rv.Title + "\n\n" + content
	}
	return s.repo.InsertReview(ctx, domain.StoredReview{
		TenantID:     tenantID,
		BusinessID:   businessID,
		ContactID:    contact.ID,
		ReviewerName: rv.ReviewerName,
		// The display name is all the source platform gives us; it fills
		// the name-pair fields used by non-import review records too.
		FirstName:        rv.ReviewerName,
		LastName:         rv.ReviewerName,
		Content:          content,
		PlatformName:     rv.PlatformName,
		Rating:           rv.Rating,
		Sentiment:        domain.SentimentFor(rv.Rating),
		ReviewType:       "review",
		SubmittedAt:      rv.Date,
		ExternalReviewID: rv.ExternalReviewID,
		ExternalPlatform: rv.Platform,
		Verified:         true,
		VerifiedAt:       rv.Date,
		Status:           "submitted",
		Channel:          "import",
	})
}

// normalizeAll converts raw records in fetch order, collecting per-record
// failures. One bad record never aborts the batch.
func normalizeAll(adapter platforms.Adapter, items []map[string]any) ([]domain.Review, []string) {
	reviews := make([]domain.Review, 0, len(items))
	var errs []string
	for i, raw := range items {
		rv, err := adapter.Normalize(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		reviews = append(reviews, rv)
	}
	return reviews, errs
}

// externalIDs loads the dedup index through the cache. The cache is an
// optimization only; the store's uniqueness constraint is authoritative.
func (s *ImportService) externalIDs(ctx context.Context, tenantID string, platform domain.Platform) (map[string]struct{}, error) {
	key := dedupKey(tenantID, platform)
	if s.cache != nil {
		var ids []string
		if ok, _ := s.cache.Get(ctx, key, &ids); ok {
			return toSet(ids), nil
		}
	}
	set, err := s.repo.ListExternalIDs(ctx, tenantID, platform)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		_ = s.cache.Set(ctx, key, ids, int(s.cacheTTL.Seconds()))
	}
	return set, nil
}

func dedupKey(tenantID string, platform domain.Platform) string {
	return fmt.Sprintf("imported_ids:%s:%s", tenantID, platform)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
