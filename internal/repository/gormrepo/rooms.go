package gormrepo

import (
	"context"
	"time"

	"raidboard/backend/internal/models"
	"raidboard/backend/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roomRepo struct {
	db *gorm.DB
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	return translate(r.db.WithContext(ctx).Create(room).Error)
}

func (r *roomRepo) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// LockByID loads the room under SELECT ... FOR UPDATE. Only meaningful inside
// a transaction; the lock serializes all per-room mutations.
func (r *roomRepo) LockByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *roomRepo) Save(ctx context.Context, room *models.Room) error {
	return translate(r.db.WithContext(ctx).Save(room).Error)
}

func (r *roomRepo) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Room{}, id).Error)
}

func (r *roomRepo) List(ctx context.Context, offset, limit int) ([]models.Room, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Room{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rooms).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return rooms, total, nil
}

func (r *roomRepo) Recent(ctx context.Context, limit int) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rooms).Error
	if err != nil {
		return nil, translate(err)
	}
	return rooms, nil
}

func (r *roomRepo) CreatorCounts(ctx context.Context, start, end time.Time, limit int) ([]repository.CreatorCount, error) {
	var rows []repository.CreatorCount
	err := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Select("owner_id AS user_id, COUNT(*) AS rooms").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("owner_id").
		Order("rooms DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
