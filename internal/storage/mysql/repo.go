package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"reviewhub/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) ListExternalIDs(ctx context.Context, tenantID string, platform domain.Platform) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, listExternalIDsSQL, tenantID, string(platform))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

func (r *Repo) CreateContact(ctx context.Context, c domain.Contact) error {
	_, err := r.db.ExecContext(ctx, insertContactSQL, c.ID, c.TenantID, c.Name, c.Source)
	return err
}

func (r *Repo) InsertReview(ctx context.Context, rv domain.StoredReview) error {
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.TenantID,
		rv.BusinessID,
		rv.ContactID,
		rv.ReviewerName,
		rv.FirstName,
		rv.LastName,
		rv.Content,
		rv.PlatformName,
		rv.Rating,
		rv.Sentiment,
		rv.ReviewType,
		valTime(rv.SubmittedAt), // submitted_at, falls back to CURRENT_TIMESTAMP
		rv.ExternalReviewID,
		string(rv.ExternalPlatform),
		rv.Verified,
		valTime(rv.VerifiedAt),
		rv.Status,
		rv.Channel,
		valTime(rv.SubmittedAt), // created_at mirrors the source review date
	)
	if err != nil {
		var me *mysqldrv.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return fmt.Errorf("%w: %v", domain.ErrDuplicateReview, err)
		}
		return err
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// valTime converts an ISO-8601-ish string into a driver value, or nil so
// the SQL-side COALESCE picks CURRENT_TIMESTAMP.
func valTime(s string) any {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return nil
}
