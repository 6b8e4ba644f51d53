package models

import "gorm.io/gorm"

// RaidBoss represents a raid boss definition rooms are scheduled around.
type RaidBoss struct {
	gorm.Model
	Name        string `gorm:"size:255;unique;not null"`
	Tier        int    `gorm:"not null;default:1"`
	Description string
}
