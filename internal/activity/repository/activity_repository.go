package repository

import (
	"errors"
	"time"

	activitydomain "runsight-backend/internal/activity/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activityRepository implements ActivityRepository interface
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new instance of activityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{
		db: db,
	}
}

func (r *activityRepository) Upsert(activity *activitydomain.Activity) error {
	now := time.Now()
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	activity.CreatedAt = now
	activity.UpdatedAt = now

	// Last write wins on the (user_id, garmin_activity_id) natural key.
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "garmin_activity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "start_time", "updated_at"}),
	}).Create(activity).Error
}

func (r *activityRepository) FindByUser(userID string, opts QueryOptions) ([]activitydomain.Activity, error) {
	query := r.db.Where("user_id = ?", userID)

	if opts.StartDate != nil {
		query = query.Where("start_time >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		query = query.Where("start_time <= ?", *opts.EndDate)
	}

	query = query.Order("start_time DESC")
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var activities []activitydomain.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) FindByUserAndActivityID(userID string, garminActivityID int64) (*activitydomain.Activity, error) {
	var activity activitydomain.Activity
	err := r.db.Where("user_id = ? AND garmin_activity_id = ?", userID, garminActivityID).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) MostRecentStartTime(userID string) (*time.Time, error) {
	var activity activitydomain.Activity
	err := r.db.Where("user_id = ?", userID).Order("start_time DESC").First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity.StartTime, nil
}
