package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"raidboard/backend/internal/models"
	"raidboard/backend/internal/repository"
	"raidboard/backend/internal/repository/mocks"
	"raidboard/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCreateInput() service.CreateRoomInput {
	return service.CreateRoomInput{
		Boss:       "Mega Rayquaza",
		RaidBossID: 3,
		StartTime:  time.Now().Add(time.Hour),
		MaxMembers: 5,
		OwnerID:    42,
		Note:       "bring clears",
	}
}

func TestRoomService_Create_Success(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	store.RoomRepo.On("Create", ctx, mock.MatchedBy(func(room *models.Room) bool {
		return room.Boss == "Mega Rayquaza" &&
			room.OwnerID == 42 &&
			room.Status == models.RoomInvited &&
			room.AvgRating == nil &&
			room.ReviewCount == 0
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Room).ID = 7
	}).Return(nil).Once()

	// The owner membership must be created in the same unit of work.
	store.MembershipRepo.On("Create", ctx, mock.MatchedBy(func(m *models.Membership) bool {
		return m.RoomID == 7 && m.UserID == 42 && m.Role == models.RoleOwner && !m.JoinedAt.IsZero()
	})).Return(nil).Once()

	room, err := svc.Create(ctx, validCreateInput())

	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, uint(7), room.ID)
	assert.Equal(t, models.RoomInvited, room.Status)
	store.AssertExpectations(t)
}

func TestRoomService_Create_OwnerMembershipFailureRollsBack(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	store.RoomRepo.On("Create", ctx, mock.AnythingOfType("*models.Room")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Room).ID = 7 }).
		Return(nil).Once()
	store.MembershipRepo.On("Create", ctx, mock.AnythingOfType("*models.Membership")).
		Return(errors.New("insert failed")).Once()

	_, err := svc.Create(ctx, validCreateInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInternal)
	store.AssertExpectations(t)
}

func TestRoomService_Create_Validation(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	cases := map[string]func(*service.CreateRoomInput){
		"missing boss":       func(in *service.CreateRoomInput) { in.Boss = "" },
		"missing start time": func(in *service.CreateRoomInput) { in.StartTime = time.Time{} },
		"zero capacity":      func(in *service.CreateRoomInput) { in.MaxMembers = 0 },
		"negative capacity":  func(in *service.CreateRoomInput) { in.MaxMembers = -3 },
		"terminal status":    func(in *service.CreateRoomInput) { in.Status = models.RoomClosed },
		"unknown status":     func(in *service.CreateRoomInput) { in.Status = "paused" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validCreateInput()
			mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}
	store.RoomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_Create_ForceActive(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	store.RoomRepo.On("Create", ctx, mock.MatchedBy(func(room *models.Room) bool {
		return room.Status == models.RoomActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Room).ID = 8
	}).Return(nil).Once()
	store.MembershipRepo.On("Create", ctx, mock.AnythingOfType("*models.Membership")).Return(nil).Once()

	in := validCreateInput()
	in.Status = models.RoomActive
	room, err := svc.Create(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, models.RoomActive, room.Status)
	store.AssertExpectations(t)
}

func TestRoomService_TransitionStatus_AllowedEdge(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()
	owner := service.Actor{ID: 42, Role: models.RoleUserMember}

	store.RoomRepo.On("LockByID", ctx, uint(7)).
		Return(&models.Room{Model: roomModel(7), OwnerID: 42, Status: models.RoomInvited}, nil).Once()
	store.RoomRepo.On("Save", ctx, mock.MatchedBy(func(room *models.Room) bool {
		return room.Status == models.RoomActive
	})).Return(nil).Once()
	store.LogRepo.On("CreateRaid", ctx, mock.AnythingOfType("*models.RaidLog")).Return(nil).Once()

	room, err := svc.TransitionStatus(ctx, 7, models.RoomActive, owner)

	require.NoError(t, err)
	assert.Equal(t, models.RoomActive, room.Status)
	store.AssertExpectations(t)
}

// Every (current, target) pair outside the four allowed edges must be
// rejected without touching the room.
func TestRoomService_TransitionStatus_Closure(t *testing.T) {
	ctx := context.Background()
	owner := service.Actor{ID: 42, Role: models.RoleUserMember}

	allowed := map[[2]models.RoomStatus]bool{
		{models.RoomInvited, models.RoomActive}:   true,
		{models.RoomActive, models.RoomClosed}:    true,
		{models.RoomInvited, models.RoomCanceled}: true,
		{models.RoomActive, models.RoomCanceled}:  true,
	}
	statuses := []models.RoomStatus{models.RoomInvited, models.RoomActive, models.RoomClosed, models.RoomCanceled}

	for _, current := range statuses {
		for _, target := range statuses {
			if allowed[[2]models.RoomStatus{current, target}] {
				continue
			}
			t.Run(string(current)+"_to_"+string(target), func(t *testing.T) {
				store := mocks.NewStore()
				svc := service.NewRoomService(store)
				room := &models.Room{Model: roomModel(7), OwnerID: 42, Status: current}
				store.RoomRepo.On("LockByID", ctx, uint(7)).Return(room, nil).Once()

				_, err := svc.TransitionStatus(ctx, 7, target, owner)

				require.Error(t, err)
				assert.ErrorIs(t, err, service.ErrInvalidTransition)
				assert.Equal(t, current, room.Status, "status must be unchanged after a rejected transition")
				store.RoomRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			})
		}
	}
}

// Scenario: a closed room cannot be reactivated.
func TestRoomService_TransitionStatus_ClosedRoomStaysClosed(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	room := &models.Room{Model: roomModel(7), OwnerID: 42, Status: models.RoomClosed}
	store.RoomRepo.On("LockByID", ctx, uint(7)).Return(room, nil).Once()

	_, err := svc.TransitionStatus(ctx, 7, models.RoomActive, service.Actor{ID: 42, Role: models.RoleUserMember})

	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	assert.Equal(t, models.RoomClosed, room.Status)
}

func TestRoomService_TransitionStatus_NotOwner(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	store.RoomRepo.On("LockByID", ctx, uint(7)).
		Return(&models.Room{Model: roomModel(7), OwnerID: 42, Status: models.RoomInvited}, nil).Once()

	_, err := svc.TransitionStatus(ctx, 7, models.RoomActive, service.Actor{ID: 99, Role: models.RoleUserMember})

	assert.ErrorIs(t, err, service.ErrUnauthorized)
	store.RoomRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoomService_TransitionStatus_OperatorMayModerate(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	store.RoomRepo.On("LockByID", ctx, uint(7)).
		Return(&models.Room{Model: roomModel(7), OwnerID: 42, Status: models.RoomActive}, nil).Once()
	store.RoomRepo.On("Save", ctx, mock.AnythingOfType("*models.Room")).Return(nil).Once()
	store.LogRepo.On("CreateRaid", ctx, mock.AnythingOfType("*models.RaidLog")).Return(nil).Once()

	room, err := svc.TransitionStatus(ctx, 7, models.RoomClosed, service.Actor{ID: 1, Role: models.RoleUserAdmin})

	require.NoError(t, err)
	assert.Equal(t, models.RoomClosed, room.Status)
}

func TestRoomService_TransitionStatus_RoomNotFound(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	store.RoomRepo.On("LockByID", ctx, uint(404)).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.TransitionStatus(ctx, 404, models.RoomActive, service.Actor{ID: 42})

	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRoomService_ForceStatus_OperatorOnly(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	_, err := svc.ForceStatus(ctx, 7, models.RoomActive, service.Actor{ID: 42, Role: models.RoleUserMember})

	assert.ErrorIs(t, err, service.ErrUnauthorized)
	store.RoomRepo.AssertNotCalled(t, "LockByID", mock.Anything, mock.Anything)
}

func TestRoomService_ForceStatus_IgnoresTransitionTable(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	// closed -> active is forbidden for ordinary transitions
	store.RoomRepo.On("LockByID", ctx, uint(7)).
		Return(&models.Room{Model: roomModel(7), OwnerID: 42, Status: models.RoomClosed}, nil).Once()
	store.RoomRepo.On("Save", ctx, mock.MatchedBy(func(room *models.Room) bool {
		return room.Status == models.RoomActive
	})).Return(nil).Once()
	store.LogRepo.On("CreateRaid", ctx, mock.AnythingOfType("*models.RaidLog")).Return(nil).Once()

	room, err := svc.ForceStatus(ctx, 7, models.RoomActive, service.Actor{ID: 1, Role: models.RoleUserAdmin})

	require.NoError(t, err)
	assert.Equal(t, models.RoomActive, room.Status)
	store.AssertExpectations(t)
}

func TestRoomService_Delete_MembershipsBeforeRoom(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	var order []string
	store.RoomRepo.On("LockByID", ctx, uint(7)).
		Return(&models.Room{Model: roomModel(7), OwnerID: 42}, nil).Once()
	store.MembershipRepo.On("DeleteByRoom", ctx, uint(7)).
		Run(func(mock.Arguments) { order = append(order, "memberships") }).
		Return(nil).Once()
	store.RoomRepo.On("Delete", ctx, uint(7)).
		Run(func(mock.Arguments) { order = append(order, "room") }).
		Return(nil).Once()
	store.LogRepo.On("CreateSystem", ctx, mock.AnythingOfType("*models.SystemLog")).Return(nil).Once()

	err := svc.Delete(ctx, 7, service.Actor{ID: 42, Role: models.RoleUserMember})

	require.NoError(t, err)
	assert.Equal(t, []string{"memberships", "room"}, order)
	store.AssertExpectations(t)
}

func TestRoomService_Delete_NotOwner(t *testing.T) {
	store := mocks.NewStore()
	svc := service.NewRoomService(store)
	ctx := context.Background()

	store.RoomRepo.On("LockByID", ctx, uint(7)).
		Return(&models.Room{Model: roomModel(7), OwnerID: 42}, nil).Once()

	err := svc.Delete(ctx, 7, service.Actor{ID: 99, Role: models.RoleUserMember})

	assert.ErrorIs(t, err, service.ErrUnauthorized)
	store.MembershipRepo.AssertNotCalled(t, "DeleteByRoom", mock.Anything, mock.Anything)
	store.RoomRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
