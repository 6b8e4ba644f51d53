package models

import "time"

// SystemLog is a generic operator-visible event line. It is one of the raw
// sources merged into the activity feed.
type SystemLog struct {
	ID        uint   `gorm:"primaryKey"`
	Level     string `gorm:"size:20;not null;default:'info'"`
	Message   string `gorm:"not null"`
	ActorID   *uint
	CreatedAt time.Time
}

// RaidLog records an in-raid event for a room. Unlike SystemLog its native
// timestamp column is LoggedAt, set by the producer rather than the store.
type RaidLog struct {
	ID       uint   `gorm:"primaryKey"`
	RoomID   uint   `gorm:"not null;index"`
	Detail   string `gorm:"not null"`
	LoggedAt time.Time `gorm:"not null;index"`
}
