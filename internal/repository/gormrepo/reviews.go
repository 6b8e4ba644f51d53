package gormrepo

import (
	"context"
	"time"

	"raidboard/backend/internal/models"
	"raidboard/backend/internal/repository"

	"gorm.io/gorm"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Create(review).Error)
}

// AggregateByRoom recomputes the room's rating from scratch. The cached
// columns on Room are always derived from this, never incremented.
func (r *reviewRepo) AggregateByRoom(ctx context.Context, roomID uint) (repository.RoomAggregate, error) {
	var agg repository.RoomAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS review_count, COALESCE(AVG(rating), 0) AS avg_rating").
		Where("room_id = ?", roomID).
		Scan(&agg).Error
	if err != nil {
		return repository.RoomAggregate{}, translate(err)
	}
	return agg, nil
}

func (r *reviewRepo) AggregateByHost(ctx context.Context, hostID uint) (repository.HostRating, error) {
	agg := repository.HostRating{UserID: hostID}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS review_count, COALESCE(AVG(reviews.rating), 0) AS avg_rating").
		Joins("JOIN rooms ON rooms.id = reviews.room_id").
		Where("rooms.owner_id = ?", hostID).
		Scan(&agg).Error
	if err != nil {
		return repository.HostRating{}, translate(err)
	}
	agg.UserID = hostID
	return agg, nil
}

// TopHosts ranks room owners by the reviews they received inside the window.
// Hosts under minReviews are filtered out; ordering is average descending,
// review count descending, then user id ascending so results are stable.
func (r *reviewRepo) TopHosts(ctx context.Context, start, end time.Time, limit, minReviews int) ([]repository.HostRating, error) {
	var rows []repository.HostRating
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("rooms.owner_id AS user_id, COUNT(*) AS review_count, AVG(reviews.rating) AS avg_rating").
		Joins("JOIN rooms ON rooms.id = reviews.room_id").
		Where("reviews.created_at BETWEEN ? AND ?", start, end).
		Group("rooms.owner_id").
		Having("COUNT(*) >= ?", minReviews).
		Order("avg_rating DESC, review_count DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *reviewRepo) RecentAuthored(ctx context.Context, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Room").
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}

// RecentReceived returns the same review rows as RecentAuthored but with the
// owning room preloaded so the caller can credit the host side. Kept separate
// because the feed treats "review written" and "review received" as two
// independent sources that may degrade independently.
func (r *reviewRepo) RecentReceived(ctx context.Context, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Room").
		Joins("JOIN rooms ON rooms.id = reviews.room_id").
		Order("reviews.created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}
