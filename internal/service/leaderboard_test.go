package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"raidboard/backend/internal/repository"
	"raidboard/backend/internal/repository/mocks"
	"raidboard/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_Rankings(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewLeaderboardService(store)
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	store.RoomRepo.On("CreatorCounts", ctx, start, end, 5).
		Return([]repository.CreatorCount{{UserID: 42, Rooms: 6}, {UserID: 9, Rooms: 2}}, nil).Once()
	store.MembershipRepo.On("JoinerCounts", ctx, start, end, 5).
		Return([]repository.JoinerCount{{UserID: 9, Joins: 11}}, nil).Once()
	store.ReviewRepo.On("TopHosts", ctx, start, end, 5, service.DefaultMinReviews).
		Return([]repository.HostRating{{UserID: 42, ReviewCount: 4, AvgRating: 4.5}}, nil).Once()

	rankings, err := svc.Rankings(ctx, start, end, 5)

	require.NoError(t, err)
	require.NotNil(t, rankings)
	assert.Len(t, rankings.TopCreators, 2)
	assert.Equal(t, uint(42), rankings.TopCreators[0].UserID)
	assert.Len(t, rankings.TopJoiners, 1)
	require.Len(t, rankings.TopHostRatings, 1)
	assert.InDelta(t, 4.5, rankings.TopHostRatings[0].AvgRating, 1e-9)
	store.AssertExpectations(t)
}

func TestLeaderboardService_Rankings_BadWindow(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewLeaderboardService(store)
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Rankings(ctx, start, start.AddDate(0, 0, -1), 5)

	assert.ErrorIs(t, err, service.ErrValidation)
	store.RoomRepo.AssertNotCalled(t, "CreatorCounts",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderboardService_Rankings_DefaultsLimit(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewLeaderboardService(store)
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	store.RoomRepo.On("CreatorCounts", ctx, start, end, service.DefaultRankingLimit).
		Return([]repository.CreatorCount{}, nil).Once()
	store.MembershipRepo.On("JoinerCounts", ctx, start, end, service.DefaultRankingLimit).
		Return([]repository.JoinerCount{}, nil).Once()
	store.ReviewRepo.On("TopHosts", ctx, start, end, service.DefaultRankingLimit, service.DefaultMinReviews).
		Return([]repository.HostRating{}, nil).Once()

	_, err := svc.Rankings(ctx, start, end, 0)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestLeaderboardService_Rankings_StorageFailure(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewLeaderboardService(store)
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	store.RoomRepo.On("CreatorCounts", ctx, start, end, 5).
		Return(nil, errors.New("connection reset")).Once()

	_, err := svc.Rankings(ctx, start, end, 5)

	assert.ErrorIs(t, err, service.ErrInternal)
}
