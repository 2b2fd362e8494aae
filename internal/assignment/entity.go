package assignment

import "time"

// Assignment binds one user to one task and tracks that user's progress.
// AssignedAt is written once on insert. CompletedAt is set by the single
// transition into StatusCompleted.
type Assignment struct {
	ID          string    `gorm:"primaryKey;size:26"`
	UserID      string    `gorm:"size:26;not null;index"`
	TaskID      string    `gorm:"size:26;not null;index"`
	Status      Status    `gorm:"size:20;not null"`
	AssignedAt  time.Time `gorm:"not null;<-:create"`
	CompletedAt *time.Time
}

// Entry is an assignment joined with the fields of its task.
type Entry struct {
	Assignment
	TaskName        string
	TaskDescription string
	TaskType        string
	TaskActive      bool
}

// AssignResult reports the users that received a new assignment.
type AssignResult struct {
	TaskID   string
	TaskName string
	UserIDs  []string
}
