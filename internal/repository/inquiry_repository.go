package repository

import (
	"context"
	"strings"
	"time"

	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/logger"
	"github.com/lensfolio/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	inquiryEntity = "inquiry"

	maxSearchResults = 200
)

var inquiryListScope = listScope{
	columns:      columnSet("submitted_at", "name", "email", "status", "inquiry_type"),
	defaultOrder: "submitted_at",
	defaultDesc:  true,
	dateColumn:   "submitted_at",
}

// InquiryRepository implements domain.InquiryRepository with GORM.
type InquiryRepository struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

var _ domain.InquiryRepository = (*InquiryRepository)(nil)

// NewInquiryRepository creates an InquiryRepository.
func NewInquiryRepository(gdb *gorm.DB, log *zap.Logger) *InquiryRepository {
	return &InquiryRepository{db: gdb, log: logger.OrNop(log).Named("inquiries"), now: utcNow}
}

// FindByID fetches an inquiry by id.
func (r *InquiryRepository) FindByID(ctx context.Context, id string) domain.Result[*domain.Inquiry] {
	return run(func() (*domain.Inquiry, error) {
		return r.reload(ctx, id)
	})
}

// FindAll lists inquiries matching filter, newest first unless ordered
// otherwise.
func (r *InquiryRepository) FindAll(ctx context.Context, filter domain.InquiryFilter) domain.Result[[]domain.Inquiry] {
	return run(func() ([]domain.Inquiry, error) {
		query := r.db.WithContext(ctx).Model(&db.Inquiry{})
		if filter.Status != nil {
			query = query.Where("status = ?", strings.ToLower(string(*filter.Status)))
		}
		if filter.InquiryType != nil {
			query = query.Where("inquiry_type = ?", strings.ToLower(string(*filter.InquiryType)))
		}

		query, derr := inquiryListScope.apply(query, filter.ListOptions)
		if derr != nil {
			return nil, derr
		}

		var rows []db.Inquiry
		if err := query.Find(&rows).Error; err != nil {
			return nil, domain.NewDatabaseError("list inquiries", err)
		}
		return inquiriesFromRows(rows), nil
	})
}

// Create stores a contact-form submission with status new. Sending any
// notification is left to the caller.
func (r *InquiryRepository) Create(ctx context.Context, input domain.CreateInquiryInput) domain.Result[*domain.Inquiry] {
	return run(func() (*domain.Inquiry, error) {
		input, derr := validation.CreateInquiry(input)
		if derr != nil {
			return nil, derr
		}

		row := db.Inquiry{
			Name:        input.Name,
			Email:       input.Email,
			Phone:       input.Phone,
			Subject:     input.Subject,
			Message:     input.Message,
			InquiryType: string(input.InquiryType),
			Status:      string(domain.InquiryStatusNew),
			Source:      input.Source,
			Metadata:    input.Metadata,
			SubmittedAt: r.now().UTC(),
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, translate(err, inquiryEntity, input.Email, "create inquiry")
		}

		r.log.Info("inquiry received",
			logger.InquiryID(row.ID),
			zap.String("type", row.InquiryType),
			zap.String("source", row.Source),
		)
		i := inquiryFromRow(row)
		return &i, nil
	})
}

// Update applies a triage update. Moving to replied or resolved stamps the
// matching timestamp when neither the row nor the input carries one.
func (r *InquiryRepository) Update(ctx context.Context, id string, input domain.UpdateInquiryInput) domain.Result[*domain.Inquiry] {
	return run(func() (*domain.Inquiry, error) {
		input, derr := validation.UpdateInquiry(input)
		if derr != nil {
			return nil, derr
		}
		row, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}

		changes := db.Inquiry{}
		fields := make([]string, 0, 4)
		if input.Status != nil {
			changes.Status = string(*input.Status)
			fields = append(fields, "Status")
		}
		if input.RespondedAt != nil {
			respondedAt := input.RespondedAt.UTC()
			changes.RespondedAt = &respondedAt
			fields = append(fields, "RespondedAt")
		}
		if input.ResolvedAt != nil {
			resolvedAt := input.ResolvedAt.UTC()
			changes.ResolvedAt = &resolvedAt
			fields = append(fields, "ResolvedAt")
		}
		if input.Metadata != nil {
			changes.Metadata = input.Metadata
			fields = append(fields, "Metadata")
		}

		if input.Status != nil {
			now := r.now().UTC()
			switch *input.Status {
			case domain.InquiryStatusReplied:
				if input.RespondedAt == nil && row.RespondedAt == nil {
					changes.RespondedAt = &now
					fields = append(fields, "RespondedAt")
				}
			case domain.InquiryStatusResolved:
				if input.ResolvedAt == nil && row.ResolvedAt == nil {
					changes.ResolvedAt = &now
					fields = append(fields, "ResolvedAt")
				}
			}
		}

		if len(fields) > 0 {
			if err := r.db.WithContext(ctx).Model(row).Select(fields).Updates(&changes).Error; err != nil {
				return nil, translate(err, inquiryEntity, id, "update inquiry")
			}
		}
		return r.reload(ctx, id)
	})
}

// Delete removes an inquiry.
func (r *InquiryRepository) Delete(ctx context.Context, id string) domain.Result[struct{}] {
	return run(func() (struct{}, error) {
		if _, derr := r.load(ctx, id); derr != nil {
			return struct{}{}, derr
		}
		if err := r.db.WithContext(ctx).Delete(&db.Inquiry{}, "id = ?", id).Error; err != nil {
			return struct{}{}, domain.NewDatabaseError("delete inquiry", err)
		}
		r.log.Info("inquiry deleted", logger.InquiryID(id))
		return struct{}{}, nil
	})
}

// MarkAsRead sets the status to read.
func (r *InquiryRepository) MarkAsRead(ctx context.Context, id string) domain.Result[*domain.Inquiry] {
	return r.setStatus(ctx, id, domain.InquiryStatusRead)
}

// MarkAsSpam sets the status to spam.
func (r *InquiryRepository) MarkAsSpam(ctx context.Context, id string) domain.Result[*domain.Inquiry] {
	return r.setStatus(ctx, id, domain.InquiryStatusSpam)
}

// Search matches query case-insensitively as a substring of name, email,
// subject or message. Results are newest first.
func (r *InquiryRepository) Search(ctx context.Context, query string) domain.Result[[]domain.Inquiry] {
	return run(func() ([]domain.Inquiry, error) {
		query = strings.TrimSpace(query)
		if query == "" {
			return nil, domain.NewValidationError("", map[string]string{"query": "is required"})
		}
		pattern := likePattern(query)

		var rows []db.Inquiry
		if err := r.db.WithContext(ctx).
			Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(subject) LIKE ? ESCAPE '\' OR LOWER(message) LIKE ? ESCAPE '\'`,
				pattern, pattern, pattern, pattern).
			Order("submitted_at DESC").Order("id ASC").
			Limit(maxSearchResults).
			Find(&rows).Error; err != nil {
			return nil, domain.NewDatabaseError("search inquiries", err)
		}
		return inquiriesFromRows(rows), nil
	})
}

// GetStats counts inquiries overall, per calendar window and per status.
// Weeks start on Monday.
func (r *InquiryRepository) GetStats(ctx context.Context) domain.Result[domain.InquiryStats] {
	return run(func() (domain.InquiryStats, error) {
		now := r.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		week := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		stats := domain.InquiryStats{ByStatus: make(map[domain.InquiryStatus]int64, len(domain.InquiryStatuses))}
		for _, status := range domain.InquiryStatuses {
			stats.ByStatus[status] = 0
		}

		counts := []struct {
			since *time.Time
			dest  *int64
		}{
			{nil, &stats.Total},
			{&today, &stats.Today},
			{&week, &stats.ThisWeek},
			{&month, &stats.ThisMonth},
		}
		for _, c := range counts {
			query := r.db.WithContext(ctx).Model(&db.Inquiry{})
			if c.since != nil {
				query = query.Where("submitted_at >= ?", c.since.UTC())
			}
			if err := query.Count(c.dest).Error; err != nil {
				return stats, domain.NewDatabaseError("count inquiries", err)
			}
		}

		var grouped []struct {
			Status string
			Count  int64
		}
		if err := r.db.WithContext(ctx).Model(&db.Inquiry{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&grouped).Error; err != nil {
			return stats, domain.NewDatabaseError("count inquiries by status", err)
		}
		for _, g := range grouped {
			stats.ByStatus[domain.InquiryStatus(g.Status)] = g.Count
		}
		return stats, nil
	})
}

func (r *InquiryRepository) setStatus(ctx context.Context, id string, status domain.InquiryStatus) domain.Result[*domain.Inquiry] {
	return run(func() (*domain.Inquiry, error) {
		row, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}
		if err := r.db.WithContext(ctx).Model(row).Update("status", string(status)).Error; err != nil {
			return nil, translate(err, inquiryEntity, id, "update inquiry status")
		}
		r.log.Info("inquiry status changed", logger.InquiryID(id), zap.String("status", string(status)))
		return r.reload(ctx, id)
	})
}

func (r *InquiryRepository) load(ctx context.Context, id string) (*db.Inquiry, *domain.Error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("", map[string]string{"id": "is required"})
	}
	var row db.Inquiry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err, inquiryEntity, id, "find inquiry")
	}
	return &row, nil
}

func (r *InquiryRepository) reload(ctx context.Context, id string) (*domain.Inquiry, error) {
	row, derr := r.load(ctx, id)
	if derr != nil {
		return nil, derr
	}
	i := inquiryFromRow(*row)
	return &i, nil
}
