package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"raidboard/backend/internal/models"
	"raidboard/backend/internal/repository/mocks"
	"raidboard/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyFeedSources primes every source the test does not care about to
// return nothing.
func emptyFeedSources(store *mocks.Store) {
	store.RoomRepo.On("Recent", context.Background(), 50).Return([]models.Room{}, nil).Maybe()
	store.MembershipRepo.On("Recent", context.Background(), 50).Return([]models.Membership{}, nil).Maybe()
	store.ReviewRepo.On("RecentAuthored", context.Background(), 50).Return([]models.Review{}, nil).Maybe()
	store.ReviewRepo.On("RecentReceived", context.Background(), 50).Return([]models.Review{}, nil).Maybe()
	store.LogRepo.On("RecentRaid", context.Background(), 50).Return([]models.RaidLog{}, nil).Maybe()
	store.LogRepo.On("RecentSystem", context.Background(), 50).Return([]models.SystemLog{}, nil).Maybe()
}

func feedRoom(id uint, boss string, createdAt time.Time) models.Room {
	room := models.Room{Boss: boss, OwnerID: 42}
	room.ID = id
	room.CreatedAt = createdAt
	return room
}

// Scenario: a room created at t1, joined at t2 and reviewed at t3 appears in
// the feed newest first.
func TestFeedService_Build_OrdersNewestFirst(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewFeedService(store, nil)
	ctx := context.Background()

	t1 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t2.Add(time.Minute)

	store.RoomRepo.On("Recent", ctx, 50).Return([]models.Room{feedRoom(7, "Mega Rayquaza", t1)}, nil).Once()
	store.MembershipRepo.On("Recent", ctx, 50).Return([]models.Membership{
		{RoomID: 7, UserID: 9, JoinedAt: t2, Room: feedRoom(7, "Mega Rayquaza", t1)},
	}, nil).Once()
	review := models.Review{RoomID: 7, AuthorID: 9, Rating: 5, Room: feedRoom(7, "Mega Rayquaza", t1)}
	review.ID = 31
	review.CreatedAt = t3
	store.ReviewRepo.On("RecentAuthored", ctx, 50).Return([]models.Review{review}, nil).Once()
	store.ReviewRepo.On("RecentReceived", ctx, 50).Return([]models.Review{}, nil).Once()
	store.LogRepo.On("RecentRaid", ctx, 50).Return([]models.RaidLog{}, nil).Once()
	store.LogRepo.On("RecentSystem", ctx, 50).Return([]models.SystemLog{}, nil).Once()

	events, err := svc.Build(ctx, 10)

	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, service.EventReviewWrite, events[0].Type)
	assert.Equal(t, service.EventRoomJoin, events[1].Type)
	assert.Equal(t, service.EventRoomCreate, events[2].Type)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt),
			"feed must be sorted non-increasing by created_at")
	}
}

func TestFeedService_Build_TruncatesToLimit(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewFeedService(store, nil)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	rooms := make([]models.Room, 5)
	for i := range rooms {
		rooms[i] = feedRoom(uint(i+1), "Articuno", base.Add(time.Duration(i)*time.Minute))
	}
	store.RoomRepo.On("Recent", ctx, 50).Return(rooms, nil).Once()
	emptyFeedSources(store)

	events, err := svc.Build(ctx, 2)

	require.NoError(t, err)
	assert.Len(t, events, 2)
	// newest rooms survive the cut
	assert.Equal(t, uint(5), events[0].EntityID)
	assert.Equal(t, uint(4), events[1].EntityID)
}

func TestFeedService_Build_ClampsLimit(t *testing.T) {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	t.Run("below range", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewFeedService(store, nil)
		ctx := context.Background()
		store.RoomRepo.On("Recent", ctx, 50).Return([]models.Room{
			feedRoom(1, "Zapdos", base), feedRoom(2, "Zapdos", base.Add(time.Minute)),
		}, nil).Once()
		emptyFeedSources(store)

		events, err := svc.Build(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("above range", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewFeedService(store, nil)
		ctx := context.Background()
		rooms := make([]models.Room, 40)
		joins := make([]models.Membership, 40)
		for i := 0; i < 40; i++ {
			rooms[i] = feedRoom(uint(i+1), "Moltres", base.Add(time.Duration(i)*time.Second))
			joins[i] = models.Membership{RoomID: uint(i + 1), UserID: uint(i + 100),
				JoinedAt: base.Add(time.Duration(i) * time.Millisecond)}
		}
		store.RoomRepo.On("Recent", ctx, 50).Return(rooms, nil).Once()
		store.MembershipRepo.On("Recent", ctx, 50).Return(joins, nil).Once()
		emptyFeedSources(store)

		events, err := svc.Build(ctx, 500)
		require.NoError(t, err)
		assert.Len(t, events, 50)
	})
}

// A failing source is dropped; the rest of the feed is still served.
func TestFeedService_Build_SoftFailsPerSource(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewFeedService(store, nil)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	store.RoomRepo.On("Recent", ctx, 50).Return(nil, errors.New("relation missing")).Once()
	store.LogRepo.On("RecentSystem", ctx, 50).Return([]models.SystemLog{
		{ID: 3, Level: "info", Message: "maintenance done", CreatedAt: base},
	}, nil).Once()
	emptyFeedSources(store)

	events, err := svc.Build(ctx, 10)

	require.NoError(t, err, "one broken source must not fail the feed")
	require.Len(t, events, 1)
	assert.Equal(t, service.EventSystem, events[0].Type)
}

// Events with identical timestamps order by source rank, then by entity id
// descending within one source.
func TestFeedService_Build_TieBreakIsDeterministic(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewFeedService(store, nil)
	ctx := context.Background()

	at := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	store.RoomRepo.On("Recent", ctx, 50).Return([]models.Room{feedRoom(7, "Groudon", at)}, nil).Once()
	store.LogRepo.On("RecentRaid", ctx, 50).Return([]models.RaidLog{
		{ID: 11, RoomID: 7, Detail: "phase 1", LoggedAt: at},
		{ID: 12, RoomID: 7, Detail: "phase 2", LoggedAt: at},
	}, nil).Once()
	store.LogRepo.On("RecentSystem", ctx, 50).Return([]models.SystemLog{
		{ID: 3, Message: "tick", CreatedAt: at},
	}, nil).Once()
	emptyFeedSources(store)

	events, err := svc.Build(ctx, 10)

	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, service.EventRoomCreate, events[0].Type)
	assert.Equal(t, service.EventRaidLog, events[1].Type)
	assert.Equal(t, uint(12), events[1].EntityID)
	assert.Equal(t, uint(11), events[2].EntityID)
	assert.Equal(t, service.EventSystem, events[3].Type)
}

// Metadata carries only the fields that apply to the event type.
func TestFeedService_Build_MetadataPerType(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewFeedService(store, nil)
	ctx := context.Background()

	at := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	review := models.Review{RoomID: 7, AuthorID: 9, Rating: 4, Comment: "clean run",
		Room: feedRoom(7, "Kyogre", at)}
	review.ID = 31
	review.CreatedAt = at
	store.ReviewRepo.On("RecentReceived", ctx, 50).Return([]models.Review{review}, nil).Once()
	emptyFeedSources(store)

	events, err := svc.Build(ctx, 10)

	require.NoError(t, err)
	require.Len(t, events, 1)
	meta := events[0].Meta
	require.NotNil(t, meta.RoomID)
	assert.Equal(t, uint(7), *meta.RoomID)
	require.NotNil(t, meta.ActorID)
	assert.Equal(t, uint(9), *meta.ActorID)
	require.NotNil(t, meta.TargetID)
	assert.Equal(t, uint(42), *meta.TargetID)
	require.NotNil(t, meta.Rating)
	assert.Equal(t, 4, *meta.Rating)
	assert.Equal(t, "Kyogre", meta.Boss)
}
