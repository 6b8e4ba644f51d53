package service

import (
	"context"
	"fmt"
	"time"

	"raidboard/backend/internal/models"
	"raidboard/backend/internal/repository"

	"github.com/sirupsen/logrus"
)

// DefaultMinReviews is the qualification threshold for host rankings.
const DefaultMinReviews = 3

// ReviewService owns review creation and keeps the cached room rating
// consistent by re-aggregating after every write.
type ReviewService struct {
	store repository.Store
}

// NewReviewService creates a ReviewService.
func NewReviewService(store repository.Store) *ReviewService {
	if store == nil {
		panic("store cannot be nil for ReviewService")
	}
	return &ReviewService{store: store}
}

// Add records a review and refreshes Room.AvgRating / Room.ReviewCount from a
// full re-aggregation of the room's reviews, all under the room row lock.
// The cache is never incremented in place, so concurrent writes cannot make
// it drift.
func (s *ReviewService) Add(ctx context.Context, roomID, authorID uint, rating int, comment string) (*models.Review, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "author_id": authorID, "rating": rating})

	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	review := &models.Review{
		RoomID:   roomID,
		AuthorID: authorID,
		Rating:   rating,
		Comment:  comment,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		room, err := tx.Rooms().LockByID(ctx, roomID)
		if err != nil {
			return err
		}
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}
		agg, err := tx.Reviews().AggregateByRoom(ctx, roomID)
		if err != nil {
			return err
		}
		room.ReviewCount = int(agg.ReviewCount)
		if agg.ReviewCount > 0 {
			avg := agg.AvgRating
			room.AvgRating = &avg
		} else {
			room.AvgRating = nil
		}
		return tx.Rooms().Save(ctx, room)
	})
	if err != nil {
		logCtx.WithError(err).Warn("Review rejected")
		return nil, storeError(err)
	}

	logCtx.WithField("review_id", review.ID).Info("Review recorded")
	return review, nil
}

// HostRatingFor aggregates the reviews received across all rooms owned by
// userID.
func (s *ReviewService) HostRatingFor(ctx context.Context, userID uint) (repository.HostRating, error) {
	agg, err := s.store.Reviews().AggregateByHost(ctx, userID)
	if err != nil {
		return repository.HostRating{}, storeError(err)
	}
	return agg, nil
}

// TopHosts ranks hosts by average rating over [start,end]. Hosts with fewer
// than minReviews reviews in the window are excluded; minReviews <= 0 falls
// back to DefaultMinReviews.
func (s *ReviewService) TopHosts(ctx context.Context, start, end time.Time, limit, minReviews int) ([]repository.HostRating, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: window end precedes start", ErrValidation)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrValidation)
	}
	if minReviews <= 0 {
		minReviews = DefaultMinReviews
	}
	rows, err := s.store.Reviews().TopHosts(ctx, start, end, limit, minReviews)
	if err != nil {
		return nil, storeError(err)
	}
	return rows, nil
}
