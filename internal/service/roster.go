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

// RosterService owns membership: joining, kicking, leaving and friend-ready
// flagging. The capacity check and the insert run under the same room row
// lock, so two concurrent joins can never both squeeze into the last slot.
type RosterService struct {
	store repository.Store
}

// NewRosterService creates a RosterService.
func NewRosterService(store repository.Store) *RosterService {
	if store == nil {
		panic("store cannot be nil for RosterService")
	}
	return &RosterService{store: store}
}

// Join adds userID to the room as a plain member. Duplicate joins are
// rejected rather than treated as a no-op. Terminal rooms cannot be joined.
func (s *RosterService) Join(ctx context.Context, roomID, userID uint) (*models.Membership, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID})

	var membership *models.Membership
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		room, err := tx.Rooms().LockByID(ctx, roomID)
		if err != nil {
			return err
		}
		if room.Status.Terminal() {
			return fmt.Errorf("%w: room is %s", ErrValidation, room.Status)
		}
		if _, err := tx.Memberships().Find(ctx, roomID, userID); err == nil {
			return ErrDuplicateMembership
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		count, err := tx.Memberships().CountDistinct(ctx, roomID)
		if err != nil {
			return err
		}
		if count >= int64(room.MaxMembers) {
			return ErrRoomFull
		}
		membership = &models.Membership{
			RoomID:   roomID,
			UserID:   userID,
			Role:     models.RoleMember,
			JoinedAt: time.Now(),
		}
		return tx.Memberships().Create(ctx, membership)
	})
	if err != nil {
		logCtx.WithError(err).Warn("Join rejected")
		return nil, storeError(err)
	}

	logCtx.Info("User joined room")
	return membership, nil
}

// Kick removes a member. Only the room owner or an operator may kick, and the
// owner membership itself is untouchable.
func (s *RosterService) Kick(ctx context.Context, roomID, targetID uint, actor Actor) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "target_id": targetID, "actor_id": actor.ID})

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		room, err := tx.Rooms().LockByID(ctx, roomID)
		if err != nil {
			return err
		}
		if !actor.mayModerate(room.OwnerID) {
			return fmt.Errorf("%w: only the owner or an operator may kick", ErrUnauthorized)
		}
		m, err := tx.Memberships().Find(ctx, roomID, targetID)
		if err != nil {
			return err
		}
		if m.Role == models.RoleOwner {
			return ErrOwnerProtected
		}
		if err := tx.Memberships().Delete(ctx, roomID, targetID); err != nil {
			return err
		}
		actorID := actor.ID
		return tx.Logs().CreateSystem(ctx, &models.SystemLog{
			Level:   "info",
			Message: fmt.Sprintf("user %d kicked from room %d", targetID, roomID),
			ActorID: &actorID,
		})
	})
	if err != nil {
		logCtx.WithError(err).Warn("Kick rejected")
		return storeError(err)
	}

	logCtx.Info("Member kicked")
	return nil
}

// Leave removes the caller's own membership. The owner cannot leave their own
// room; they cancel or delete it instead.
func (s *RosterService) Leave(ctx context.Context, roomID, userID uint) error {
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Rooms().LockByID(ctx, roomID); err != nil {
			return err
		}
		m, err := tx.Memberships().Find(ctx, roomID, userID)
		if err != nil {
			return err
		}
		if m.Role == models.RoleOwner {
			return ErrOwnerProtected
		}
		return tx.Memberships().Delete(ctx, roomID, userID)
	})
	if err != nil {
		return storeError(err)
	}

	logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).Info("Member left room")
	return nil
}

// MarkFriendReady flags the membership as friend-ready. Idempotent: the first
// call stamps FriendReadyAt, later calls return the current state untouched.
func (s *RosterService) MarkFriendReady(ctx context.Context, roomID, userID uint) (*models.Membership, error) {
	m, err := s.store.Memberships().Find(ctx, roomID, userID)
	if err != nil {
		return nil, storeError(err)
	}
	if m.FriendReady {
		return m, nil
	}

	now := time.Now()
	m.FriendReady = true
	m.FriendReadyAt = &now
	if err := s.store.Memberships().Save(ctx, m); err != nil {
		return nil, storeError(err)
	}

	logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).Info("Member marked friend-ready")
	return m, nil
}

// MemberTotal counts distinct joined users for the room.
func (s *RosterService) MemberTotal(ctx context.Context, roomID uint) (int64, error) {
	count, err := s.store.Memberships().CountDistinct(ctx, roomID)
	if err != nil {
		return 0, storeError(err)
	}
	return count, nil
}
