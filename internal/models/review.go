package models

import "gorm.io/gorm"

// Review is a 1-5 rating plus optional comment left by a member about a room.
type Review struct {
	gorm.Model
	RoomID   uint `gorm:"not null;index"`
	AuthorID uint `gorm:"not null;index"`
	Rating   int  `gorm:"not null"`
	Comment  string

	Room   Room `gorm:"foreignKey:RoomID"`
	Author User `gorm:"foreignKey:AuthorID"`
}
