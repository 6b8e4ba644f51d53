package service

import (
	"context"
	"fmt"
	"time"

	"raidboard/backend/internal/repository"
)

// DefaultRankingLimit caps each ranking list when the caller passes no limit.
const DefaultRankingLimit = 10

// Rankings bundles the three independent leaderboard projections over one
// date window.
type Rankings struct {
	TopCreators    []repository.CreatorCount `json:"top_creators"`
	TopJoiners     []repository.JoinerCount  `json:"top_joiners"`
	TopHostRatings []repository.HostRating   `json:"top_host_ratings"`
}

// LeaderboardService ranks users over a date window by rooms created, rooms
// joined, and average host rating. Pure read side; nothing here mutates
// entity state.
type LeaderboardService struct {
	store repository.Store
}

// NewLeaderboardService creates a LeaderboardService.
func NewLeaderboardService(store repository.Store) *LeaderboardService {
	if store == nil {
		panic("store cannot be nil for LeaderboardService")
	}
	return &LeaderboardService{store: store}
}

// Rankings computes all three lists for [start,end], each capped at limit.
// Host ratings are qualified by DefaultMinReviews.
func (s *LeaderboardService) Rankings(ctx context.Context, start, end time.Time, limit int) (*Rankings, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: window end precedes start", ErrValidation)
	}
	if limit < 1 {
		limit = DefaultRankingLimit
	}

	creators, err := s.store.Rooms().CreatorCounts(ctx, start, end, limit)
	if err != nil {
		return nil, storeError(err)
	}
	joiners, err := s.store.Memberships().JoinerCounts(ctx, start, end, limit)
	if err != nil {
		return nil, storeError(err)
	}
	hosts, err := s.store.Reviews().TopHosts(ctx, start, end, limit, DefaultMinReviews)
	if err != nil {
		return nil, storeError(err)
	}

	return &Rankings{
		TopCreators:    creators,
		TopJoiners:     joiners,
		TopHostRatings: hosts,
	}, nil
}
