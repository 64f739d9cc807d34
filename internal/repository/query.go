package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/lensfolio/internal/domain"
	"gorm.io/gorm"
)

const maxPageSize = 500

// listScope describes how an entity's list query may be ordered and which
// column the date range applies to.
type listScope struct {
	columns      map[string]bool
	defaultOrder string
	defaultDesc  bool
	tiebreak     string
	dateColumn   string
}

func (s listScope) apply(query *gorm.DB, opts domain.ListOptions) (*gorm.DB, *domain.Error) {
	column := strings.ToLower(strings.TrimSpace(opts.OrderBy))
	desc := opts.Descending
	if column == "" {
		column = s.defaultOrder
		desc = desc || s.defaultDesc
	}
	if !s.columns[column] {
		return nil, domain.NewValidationError("", map[string]string{"orderBy": fmt.Sprintf("cannot order by %q", opts.OrderBy)})
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, domain.NewValidationError("", map[string]string{"limit": "limit and offset must not be negative"})
	}
	if opts.DateFrom != nil && opts.DateTo != nil && opts.DateTo.Before(*opts.DateFrom) {
		return nil, domain.NewValidationError("", map[string]string{"dateTo": "must not be before dateFrom"})
	}

	// stored timestamps are UTC text, so bounds must be too
	if opts.DateFrom != nil {
		query = query.Where(s.dateColumn+" >= ?", opts.DateFrom.UTC())
	}
	if opts.DateTo != nil {
		query = query.Where(s.dateColumn+" <= ?", opts.DateTo.UTC())
	}

	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	query = query.Order(column + " " + direction)
	if s.tiebreak != "" && s.tiebreak != column {
		query = query.Order(s.tiebreak + " ASC")
	}
	query = query.Order("id ASC")

	if opts.Limit > 0 {
		limit := opts.Limit
		if limit > maxPageSize {
			limit = maxPageSize
		}
		query = query.Limit(limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	return query, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func columnSet(columns ...string) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return set
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(term)) + "%"
}
