package mysql

const insertContactSQL = `
INSERT INTO contacts
  (id, tenant_id, name, source)
VALUES
  (?, ?, ?, ?)
`

// The unique key uq_reviews_external (tenant_id, external_platform,
// external_review_id) is what fires the 1062 the repo classifies as
// domain.ErrDuplicateReview.
const insertReviewSQL = `
INSERT INTO reviews
  (tenant_id, business_id, contact_id, reviewer_name, first_name, last_name,
   content, platform_name, rating, sentiment, review_type,
   submitted_at, external_review_id, external_platform,
   verified, verified_at, status, channel, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
   COALESCE(?, CURRENT_TIMESTAMP), ?, ?, ?, ?, ?, ?,
   COALESCE(?, CURRENT_TIMESTAMP))
`

const listExternalIDsSQL = `
SELECT external_review_id
FROM reviews
WHERE tenant_id = ? AND external_platform = ?
`
