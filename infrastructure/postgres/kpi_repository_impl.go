package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linetask/domain/models"
	"linetask/domain/repositories"
)

type KPIRepositoryImpl struct {
	db *gorm.DB
}

func NewKPIRepository(db *gorm.DB) repositories.KPIRepository {
	return &KPIRepositoryImpl{db: db}
}

// Upsert: natural key (task_id, user_id) กันซ้ำที่ระดับ database
// record ที่มีอยู่แล้วไม่ถูกเขียนทับ
func (r *KPIRepositoryImpl) Upsert(ctx context.Context, record *models.KPIRecord) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}},
		DoNothing: true,
	}).Create(record)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *KPIRepositoryImpl) ExistsForTaskUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.KPIRecord{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).Count(&count).Error
	return count > 0, err
}

func (r *KPIRepositoryImpl) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.KPIRecord, error) {
	var records []*models.KPIRecord
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Find(&records).Error
	return records, err
}

func (r *KPIRepositoryImpl) LeaderboardWeekly(ctx context.Context, groupID uuid.UUID, week string) ([]*repositories.LeaderboardEntry, error) {
	return r.leaderboard(ctx, groupID, "period_week", week)
}

func (r *KPIRepositoryImpl) LeaderboardMonthly(ctx context.Context, groupID uuid.UUID, month string) ([]*repositories.LeaderboardEntry, error) {
	return r.leaderboard(ctx, groupID, "period_month", month)
}

func (r *KPIRepositoryImpl) leaderboard(ctx context.Context, groupID uuid.UUID, periodColumn, bucket string) ([]*repositories.LeaderboardEntry, error) {
	var entries []*repositories.LeaderboardEntry
	err := r.db.WithContext(ctx).Model(&models.KPIRecord{}).
		Select("user_id, SUM(points) AS total_points, COUNT(*) AS task_count").
		Where("group_id = ? AND "+periodColumn+" = ?", groupID, bucket).
		Group("user_id").
		Order("total_points DESC").
		Scan(&entries).Error
	return entries, err
}
