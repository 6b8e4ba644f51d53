package models

import "time"

// MembershipRole defines a member's role inside a room.
type MembershipRole string

const (
	// RoleOwner is the host of the room. Exactly one per room, created with it.
	RoleOwner MembershipRole = "owner"

	// RoleMember is any other participant.
	RoleMember MembershipRole = "member"
)

// Membership represents a user's participation in a Room.
// The primary key is a composite of (RoomID, UserID) so the store itself
// rejects duplicate rows for the same user in the same room.
type Membership struct {
	RoomID        uint           `gorm:"primaryKey"`
	UserID        uint           `gorm:"primaryKey"`
	Role          MembershipRole `gorm:"type:varchar(20);not null;default:'member'"`
	JoinedAt      time.Time      `gorm:"not null"`
	FriendReady   bool           `gorm:"not null;default:false"`
	FriendReadyAt *time.Time

	Room Room `gorm:"foreignKey:RoomID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
