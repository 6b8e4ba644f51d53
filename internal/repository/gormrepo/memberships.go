package gormrepo

import (
	"context"
	"time"

	"raidboard/backend/internal/models"
	"raidboard/backend/internal/repository"

	"gorm.io/gorm"
)

type membershipRepo struct {
	db *gorm.DB
}

func (r *membershipRepo) Create(ctx context.Context, m *models.Membership) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *membershipRepo) Find(ctx context.Context, roomID, userID uint) (*models.Membership, error) {
	var m models.Membership
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *membershipRepo) Save(ctx context.Context, m *models.Membership) error {
	return translate(r.db.WithContext(ctx).Save(m).Error)
}

func (r *membershipRepo) Delete(ctx context.Context, roomID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&models.Membership{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *membershipRepo) DeleteByRoom(ctx context.Context, roomID uint) error {
	return translate(r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Delete(&models.Membership{}).Error)
}

// CountDistinct counts distinct user ids rather than rows, so a stray
// duplicate row can never inflate the occupancy check.
func (r *membershipRepo) CountDistinct(ctx context.Context, roomID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("room_id = ?", roomID).
		Distinct("user_id").
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *membershipRepo) Recent(ctx context.Context, limit int) ([]models.Membership, error) {
	var joins []models.Membership
	err := r.db.WithContext(ctx).
		Preload("Room").
		Order("joined_at DESC").
		Limit(limit).
		Find(&joins).Error
	if err != nil {
		return nil, translate(err)
	}
	return joins, nil
}

func (r *membershipRepo) JoinerCounts(ctx context.Context, start, end time.Time, limit int) ([]repository.JoinerCount, error) {
	var rows []repository.JoinerCount
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("user_id, COUNT(*) AS joins").
		Where("joined_at BETWEEN ? AND ?", start, end).
		Group("user_id").
		Order("joins DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
