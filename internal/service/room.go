package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raidboard/backend/internal/models"
	"raidboard/backend/internal/repository"

	"github.com/sirupsen/logrus"
)

// allowedTransitions is the full status state machine. Anything not listed
// here, including self-loops and edges out of terminal states, is rejected.
var allowedTransitions = map[models.RoomStatus]map[models.RoomStatus]bool{
	models.RoomInvited: {
		models.RoomActive:   true,
		models.RoomCanceled: true,
	},
	models.RoomActive: {
		models.RoomClosed:   true,
		models.RoomCanceled: true,
	},
}

// RoomService owns room lifecycle: creation, the status state machine, and
// deletion. All mutations run inside a room-scoped transaction.
type RoomService struct {
	store repository.Store
}

// NewRoomService creates a RoomService.
func NewRoomService(store repository.Store) *RoomService {
	if store == nil {
		panic("store cannot be nil for RoomService")
	}
	return &RoomService{store: store}
}

// CreateRoomInput carries the fields needed to open a room.
type CreateRoomInput struct {
	Boss       string
	RaidBossID uint
	StartTime  time.Time
	MaxMembers int
	OwnerID    uint
	Note       string

	// Status optionally force-creates the room in a non-initial state.
	// Empty means the normal initial state, invited.
	Status models.RoomStatus
}

// Create opens a room and its owner membership in one transaction: either
// both rows exist afterwards or neither does.
func (s *RoomService) Create(ctx context.Context, in CreateRoomInput) (*models.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"owner_id": in.OwnerID, "boss": in.Boss})

	if in.Boss == "" {
		return nil, fmt.Errorf("%w: boss is required", ErrValidation)
	}
	if in.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", ErrValidation)
	}
	if in.MaxMembers < 1 {
		return nil, fmt.Errorf("%w: max members must be at least 1", ErrValidation)
	}
	status := in.Status
	if status == "" {
		status = models.RoomInvited
	}
	if status != models.RoomInvited && status != models.RoomActive {
		return nil, fmt.Errorf("%w: rooms cannot be created in status %q", ErrValidation, status)
	}

	room := &models.Room{
		Boss:       in.Boss,
		RaidBossID: in.RaidBossID,
		OwnerID:    in.OwnerID,
		StartTime:  in.StartTime,
		MaxMembers: in.MaxMembers,
		Status:     status,
		Note:       in.Note,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Rooms().Create(ctx, room); err != nil {
			return err
		}
		owner := &models.Membership{
			RoomID:   room.ID,
			UserID:   in.OwnerID,
			Role:     models.RoleOwner,
			JoinedAt: time.Now(),
		}
		return tx.Memberships().Create(ctx, owner)
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to create room")
		return nil, storeError(err)
	}

	logCtx.WithField("room_id", room.ID).Info("Room created")
	return room, nil
}

// TransitionStatus moves a room along one allowed state machine edge. The
// room row is locked first, so a concurrent transition loser observes the
// post-transition state and fails.
func (s *RoomService) TransitionStatus(ctx context.Context, roomID uint, target models.RoomStatus, actor Actor) (*models.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "target": target, "actor_id": actor.ID})

	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}

	var room *models.Room
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		room, err = tx.Rooms().LockByID(ctx, roomID)
		if err != nil {
			return err
		}
		if !actor.mayModerate(room.OwnerID) {
			return fmt.Errorf("%w: only the owner or an operator may change room status", ErrUnauthorized)
		}
		if !allowedTransitions[room.Status][target] {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, room.Status, target)
		}
		from := room.Status
		room.Status = target
		if err := tx.Rooms().Save(ctx, room); err != nil {
			return err
		}
		return tx.Logs().CreateRaid(ctx, &models.RaidLog{
			RoomID:   room.ID,
			Detail:   fmt.Sprintf("status changed from %s to %s", from, target),
			LoggedAt: time.Now(),
		})
	})
	if err != nil {
		logCtx.WithError(err).Warn("Status transition rejected")
		return nil, storeError(err)
	}

	logCtx.Info("Room status changed")
	return room, nil
}

// ForceStatus is the operator-only escape hatch: it writes any valid status
// regardless of the transition table. Ordinary callers must use
// TransitionStatus.
func (s *RoomService) ForceStatus(ctx context.Context, roomID uint, target models.RoomStatus, actor Actor) (*models.Room, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}
	if !actor.Role.CanModerate() {
		return nil, fmt.Errorf("%w: force status is operator-only", ErrUnauthorized)
	}

	var room *models.Room
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		room, err = tx.Rooms().LockByID(ctx, roomID)
		if err != nil {
			return err
		}
		from := room.Status
		room.Status = target
		if err := tx.Rooms().Save(ctx, room); err != nil {
			return err
		}
		return tx.Logs().CreateRaid(ctx, &models.RaidLog{
			RoomID:   room.ID,
			Detail:   fmt.Sprintf("status forced from %s to %s by operator %d", from, target, actor.ID),
			LoggedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, storeError(err)
	}

	logrus.WithFields(logrus.Fields{"room_id": roomID, "target": target, "actor_id": actor.ID}).
		Warn("Room status forced")
	return room, nil
}

// Delete removes a room and all its memberships in one transaction.
// Memberships go first: if the sequence is interrupted the worst leftover is
// an orphaned room, never memberships pointing at nothing.
func (s *RoomService) Delete(ctx context.Context, roomID uint, actor Actor) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "actor_id": actor.ID})

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		room, err := tx.Rooms().LockByID(ctx, roomID)
		if err != nil {
			return err
		}
		if !actor.mayModerate(room.OwnerID) {
			return fmt.Errorf("%w: only the owner or an operator may delete a room", ErrUnauthorized)
		}
		if err := tx.Memberships().DeleteByRoom(ctx, roomID); err != nil {
			return err
		}
		if err := tx.Rooms().Delete(ctx, roomID); err != nil {
			return err
		}
		actorID := actor.ID
		return tx.Logs().CreateSystem(ctx, &models.SystemLog{
			Level:   "info",
			Message: fmt.Sprintf("room %d deleted", roomID),
			ActorID: &actorID,
		})
	})
	if err != nil {
		logCtx.WithError(err).Warn("Room deletion failed")
		return storeError(err)
	}

	logCtx.Info("Room deleted")
	return nil
}

// Get loads a single room.
func (s *RoomService) Get(ctx context.Context, roomID uint) (*models.Room, error) {
	room, err := s.store.Rooms().FindByID(ctx, roomID)
	if err != nil {
		return nil, storeError(err)
	}
	return room, nil
}

// List pages through rooms, newest first.
func (s *RoomService) List(ctx context.Context, offset, limit int) ([]models.Room, int64, error) {
	rooms, total, err := s.store.Rooms().List(ctx, offset, limit)
	if err != nil {
		return nil, 0, storeError(err)
	}
	return rooms, total, nil
}

// storeError converts repository sentinels into domain errors and hides
// everything else behind ErrInternal. Domain errors produced inside a
// transaction callback pass through untouched.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrDuplicateMembership),
		errors.Is(err, ErrOwnerProtected),
		errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateEntry):
		return ErrConflict
	case errors.Is(err, repository.ErrLockConflict):
		return ErrConflict
	default:
		return ErrInternal
	}
}
