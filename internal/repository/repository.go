package repository

import (
	"context"
	"errors"
	"time"

	"raidboard/backend/internal/models"
)

// Sentinel errors returned by implementations so services can branch on them
// without knowing the backing store.
var (
	ErrNotFound       = errors.New("repository: record not found")
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
	ErrLockConflict   = errors.New("repository: lock conflict")
)

// CreatorCount is one leaderboard row: rooms created by a user in a window.
type CreatorCount struct {
	UserID uint  `json:"user_id"`
	Rooms  int64 `json:"rooms"`
}

// JoinerCount is one leaderboard row: rooms joined by a user in a window.
type JoinerCount struct {
	UserID uint  `json:"user_id"`
	Joins  int64 `json:"joins"`
}

// HostRating aggregates reviews received across rooms owned by one user.
type HostRating struct {
	UserID      uint    `json:"user_id"`
	ReviewCount int64   `json:"review_count"`
	AvgRating   float64 `json:"avg_rating"`
}

// RoomAggregate is the full re-aggregation of one room's reviews.
type RoomAggregate struct {
	ReviewCount int64
	AvgRating   float64
}

// RoomRepository owns Room rows. LockByID must take a row-level lock so the
// caller can serialize capacity checks and status transitions per room.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id uint) (*models.Room, error)
	LockByID(ctx context.Context, id uint) (*models.Room, error)
	Save(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]models.Room, int64, error)
	Recent(ctx context.Context, limit int) ([]models.Room, error)
	CreatorCounts(ctx context.Context, start, end time.Time, limit int) ([]CreatorCount, error)
}

// MembershipRepository owns Membership rows.
type MembershipRepository interface {
	Create(ctx context.Context, m *models.Membership) error
	Find(ctx context.Context, roomID, userID uint) (*models.Membership, error)
	Save(ctx context.Context, m *models.Membership) error
	Delete(ctx context.Context, roomID, userID uint) error
	DeleteByRoom(ctx context.Context, roomID uint) error
	CountDistinct(ctx context.Context, roomID uint) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Membership, error)
	JoinerCounts(ctx context.Context, start, end time.Time, limit int) ([]JoinerCount, error)
}

// ReviewRepository owns Review rows and answers the aggregate queries behind
// the cached room rating and the leaderboard.
type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	AggregateByRoom(ctx context.Context, roomID uint) (RoomAggregate, error)
	AggregateByHost(ctx context.Context, hostID uint) (HostRating, error)
	TopHosts(ctx context.Context, start, end time.Time, limit, minReviews int) ([]HostRating, error)
	RecentAuthored(ctx context.Context, limit int) ([]models.Review, error)
	RecentReceived(ctx context.Context, limit int) ([]models.Review, error)
}

// LogRepository owns the two raw log tables feeding the activity timeline.
type LogRepository interface {
	CreateSystem(ctx context.Context, l *models.SystemLog) error
	CreateRaid(ctx context.Context, l *models.RaidLog) error
	RecentSystem(ctx context.Context, limit int) ([]models.SystemLog, error)
	RecentRaid(ctx context.Context, limit int) ([]models.RaidLog, error)
}

// Store bundles the repositories with a transaction boundary. InTx runs fn
// against a Store whose repositories share one transaction; returning an
// error rolls everything back.
type Store interface {
	Rooms() RoomRepository
	Memberships() MembershipRepository
	Reviews() ReviewRepository
	Logs() LogRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
