package repository

import (
	"errors"
	"time"

	activitydomain "runsight-backend/internal/activity/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dailySummaryRepository implements DailySummaryRepository interface
type dailySummaryRepository struct {
	db *gorm.DB
}

// NewDailySummaryRepository creates a new instance of dailySummaryRepository
func NewDailySummaryRepository(db *gorm.DB) DailySummaryRepository {
	return &dailySummaryRepository{
		db: db,
	}
}

func (r *dailySummaryRepository) Upsert(summary *activitydomain.DailySummary) error {
	now := time.Now()
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	summary.CreatedAt = now
	summary.UpdatedAt = now

	// Last write wins on the (user_id, date) natural key.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(summary).Error
}

func (r *dailySummaryRepository) FindByUser(userID string, opts QueryOptions) ([]activitydomain.DailySummary, error) {
	query := r.db.Where("user_id = ?", userID)

	if opts.StartDate != nil {
		query = query.Where("date >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		query = query.Where("date <= ?", *opts.EndDate)
	}

	query = query.Order("date DESC")
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var summaries []activitydomain.DailySummary
	if err := query.Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *dailySummaryRepository) MostRecentDate(userID string) (*time.Time, error) {
	var summary activitydomain.DailySummary
	err := r.db.Where("user_id = ?", userID).Order("date DESC").First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary.Date, nil
}
