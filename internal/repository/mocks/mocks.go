// Package mocks provides testify mocks for the repository ports, used by the
// service tests.
package mocks

import (
	"context"
	"time"

	"raidboard/backend/internal/models"
	"raidboard/backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// RoomRepository mocks repository.RoomRepository.
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *RoomRepository) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *RoomRepository) LockByID(ctx context.Context, id uint) (*models.Room, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *RoomRepository) Save(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *RoomRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RoomRepository) List(ctx context.Context, offset, limit int) ([]models.Room, int64, error) {
	args := m.Called(ctx, offset, limit)
	rooms, _ := args.Get(0).([]models.Room)
	return rooms, args.Get(1).(int64), args.Error(2)
}

func (m *RoomRepository) Recent(ctx context.Context, limit int) ([]models.Room, error) {
	args := m.Called(ctx, limit)
	rooms, _ := args.Get(0).([]models.Room)
	return rooms, args.Error(1)
}

func (m *RoomRepository) CreatorCounts(ctx context.Context, start, end time.Time, limit int) ([]repository.CreatorCount, error) {
	args := m.Called(ctx, start, end, limit)
	rows, _ := args.Get(0).([]repository.CreatorCount)
	return rows, args.Error(1)
}

// MembershipRepository mocks repository.MembershipRepository.
type MembershipRepository struct {
	mock.Mock
}

func (m *MembershipRepository) Create(ctx context.Context, ms *models.Membership) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *MembershipRepository) Find(ctx context.Context, roomID, userID uint) (*models.Membership, error) {
	args := m.Called(ctx, roomID, userID)
	ms, _ := args.Get(0).(*models.Membership)
	return ms, args.Error(1)
}

func (m *MembershipRepository) Save(ctx context.Context, ms *models.Membership) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *MembershipRepository) Delete(ctx context.Context, roomID, userID uint) error {
	return m.Called(ctx, roomID, userID).Error(0)
}

func (m *MembershipRepository) DeleteByRoom(ctx context.Context, roomID uint) error {
	return m.Called(ctx, roomID).Error(0)
}

func (m *MembershipRepository) CountDistinct(ctx context.Context, roomID uint) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MembershipRepository) Recent(ctx context.Context, limit int) ([]models.Membership, error) {
	args := m.Called(ctx, limit)
	joins, _ := args.Get(0).([]models.Membership)
	return joins, args.Error(1)
}

func (m *MembershipRepository) JoinerCounts(ctx context.Context, start, end time.Time, limit int) ([]repository.JoinerCount, error) {
	args := m.Called(ctx, start, end, limit)
	rows, _ := args.Get(0).([]repository.JoinerCount)
	return rows, args.Error(1)
}

// ReviewRepository mocks repository.ReviewRepository.
type ReviewRepository struct {
	mock.Mock
}

func (m *ReviewRepository) Create(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReviewRepository) AggregateByRoom(ctx context.Context, roomID uint) (repository.RoomAggregate, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(repository.RoomAggregate), args.Error(1)
}

func (m *ReviewRepository) AggregateByHost(ctx context.Context, hostID uint) (repository.HostRating, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).(repository.HostRating), args.Error(1)
}

func (m *ReviewRepository) TopHosts(ctx context.Context, start, end time.Time, limit, minReviews int) ([]repository.HostRating, error) {
	args := m.Called(ctx, start, end, limit, minReviews)
	rows, _ := args.Get(0).([]repository.HostRating)
	return rows, args.Error(1)
}

func (m *ReviewRepository) RecentAuthored(ctx context.Context, limit int) ([]models.Review, error) {
	args := m.Called(ctx, limit)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *ReviewRepository) RecentReceived(ctx context.Context, limit int) ([]models.Review, error) {
	args := m.Called(ctx, limit)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

// LogRepository mocks repository.LogRepository.
type LogRepository struct {
	mock.Mock
}

func (m *LogRepository) CreateSystem(ctx context.Context, l *models.SystemLog) error {
	return m.Called(ctx, l).Error(0)
}

func (m *LogRepository) CreateRaid(ctx context.Context, l *models.RaidLog) error {
	return m.Called(ctx, l).Error(0)
}

func (m *LogRepository) RecentSystem(ctx context.Context, limit int) ([]models.SystemLog, error) {
	args := m.Called(ctx, limit)
	logs, _ := args.Get(0).([]models.SystemLog)
	return logs, args.Error(1)
}

func (m *LogRepository) RecentRaid(ctx context.Context, limit int) ([]models.RaidLog, error) {
	args := m.Called(ctx, limit)
	logs, _ := args.Get(0).([]models.RaidLog)
	return logs, args.Error(1)
}

// Store bundles the repository mocks behind repository.Store. InTx simply
// invokes fn with the same store, so expectations set on the sub-mocks apply
// inside transactions too.
type Store struct {
	RoomRepo       *RoomRepository
	MembershipRepo *MembershipRepository
	ReviewRepo     *ReviewRepository
	LogRepo        *LogRepository

	// InTxErr, when set, is returned instead of running the callback.
	InTxErr error
}

func NewStore() *Store {
	return &Store{
		RoomRepo:       new(RoomRepository),
		MembershipRepo: new(MembershipRepository),
		ReviewRepo:     new(ReviewRepository),
		LogRepo:        new(LogRepository),
	}
}

func (s *Store) Rooms() repository.RoomRepository             { return s.RoomRepo }
func (s *Store) Memberships() repository.MembershipRepository { return s.MembershipRepo }
func (s *Store) Reviews() repository.ReviewRepository         { return s.ReviewRepo }
func (s *Store) Logs() repository.LogRepository               { return s.LogRepo }

func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.InTxErr != nil {
		return s.InTxErr
	}
	return fn(s)
}

// AssertExpectations verifies every sub-mock.
func (s *Store) AssertExpectations(t mock.TestingT) {
	s.RoomRepo.AssertExpectations(t)
	s.MembershipRepo.AssertExpectations(t)
	s.ReviewRepo.AssertExpectations(t)
	s.LogRepo.AssertExpectations(t)
}
