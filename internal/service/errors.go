package service

import (
	"errors"

	"raidboard/backend/internal/models"
)

// Domain errors surfaced to the transport layer. Handlers map these onto HTTP
// statuses; anything not in this list is treated as an internal failure and
// its detail is never echoed to the caller.
var (
	ErrValidation          = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("actor not allowed")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrRoomFull            = errors.New("room is full")
	ErrDuplicateMembership = errors.New("user is already a member")
	ErrOwnerProtected      = errors.New("owner membership cannot be removed")
	ErrConflict            = errors.New("conflicting concurrent update")
	ErrInternal            = errors.New("internal error")
)

// Actor is the verified caller identity produced by the auth guard.
type Actor struct {
	ID   uint
	Role models.Role
}

// mayModerate reports whether the actor owns the room or holds a moderating
// role.
func (a Actor) mayModerate(ownerID uint) bool {
	return a.ID == ownerID || a.Role.CanModerate()
}
