package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomStatus defines the lifecycle state of a raid room.
type RoomStatus string

const (
	// RoomInvited is the initial state: the room exists and members can join.
	RoomInvited RoomStatus = "invited"

	// RoomActive means the raid is underway.
	RoomActive RoomStatus = "active"

	// RoomClosed means the raid finished normally. Terminal.
	RoomClosed RoomStatus = "closed"

	// RoomCanceled means the host or an operator called the raid off. Terminal.
	RoomCanceled RoomStatus = "canceled"
)

// Valid reports whether s is one of the four known statuses.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomInvited, RoomActive, RoomClosed, RoomCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s RoomStatus) Terminal() bool {
	return s == RoomClosed || s == RoomCanceled
}

// Room represents a scheduled raid session users can gather in.
//
// AvgRating and ReviewCount are a cached aggregate over the room's reviews:
// AvgRating is nil exactly when ReviewCount is zero, and otherwise equals the
// arithmetic mean of all review ratings for the room.
type Room struct {
	gorm.Model
	Boss       string     `gorm:"size:255;not null"`
	RaidBossID uint       `gorm:"not null;index"`
	OwnerID    uint       `gorm:"not null;index"`
	StartTime  time.Time  `gorm:"not null"`
	MaxMembers int        `gorm:"not null;default:5"`
	Status     RoomStatus `gorm:"size:20;not null;default:'invited';index"`
	Note       string

	AvgRating   *float64
	ReviewCount int `gorm:"not null;default:0"`

	RaidBoss RaidBoss `gorm:"foreignKey:RaidBossID"`
	Owner    User     `gorm:"foreignKey:OwnerID"`
}
