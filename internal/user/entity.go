package user

import "time"

type User struct {
	ID           string `gorm:"primaryKey;size:26"`
	Email        string `gorm:"size:254;not null;uniqueIndex"`
	Username     string `gorm:"size:150;not null"`
	Name         string `gorm:"size:255;not null;default:''"`
	Mobile       string `gorm:"size:20;not null;default:''"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
