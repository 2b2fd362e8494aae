package task

import "time"

type Type string

const (
	TypeWork     Type = "work"
	TypePersonal Type = "personal"
	TypeErrand   Type = "errand"
)

var validTypes = []Type{TypeWork, TypePersonal, TypeErrand}

// Task is a catalog entry. Deleting a task clears Active; rows are never
// removed.
type Task struct {
	ID          string    `gorm:"primaryKey;size:26"`
	Name        string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null"`
	Type        Type      `gorm:"size:20;not null;default:''"`
	Active      bool      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"<-:create"`
	UpdatedAt   time.Time
}

// Patch lists the columns an update writes. Nil fields keep their value.
type Patch struct {
	Name        *string
	Description *string
	Type        *Type
	Active      *bool
	UpdatedAt   time.Time
}
