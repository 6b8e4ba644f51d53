package gormrepo

import (
	"context"

	"raidboard/backend/internal/models"

	"gorm.io/gorm"
)

type logRepo struct {
	db *gorm.DB
}

func (r *logRepo) CreateSystem(ctx context.Context, l *models.SystemLog) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *logRepo) CreateRaid(ctx context.Context, l *models.RaidLog) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *logRepo) RecentSystem(ctx context.Context, limit int) ([]models.SystemLog, error) {
	var logs []models.SystemLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, translate(err)
	}
	return logs, nil
}

func (r *logRepo) RecentRaid(ctx context.Context, limit int) ([]models.RaidLog, error) {
	var logs []models.RaidLog
	err := r.db.WithContext(ctx).
		Order("logged_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, translate(err)
	}
	return logs, nil
}
