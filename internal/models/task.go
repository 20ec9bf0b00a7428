package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known statuses. Any status may move to
// any other; there is no transition table.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"type:varchar(50);not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	Priority     TaskPriority   `gorm:"type:varchar(10);not null" json:"priority"`
	DueDate      time.Time      `gorm:"not null" json:"dueDate"`
	WorkspaceID  uint64         `gorm:"not null" json:"workspaceId"`
	AssignedToID *uint64        `json:"assignedToId"`
	CreatedByID  uint64         `gorm:"not null" json:"createdById"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Workspace  Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	CreatedBy  User      `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

// TaskRelations are the associations loaded with every task read.
var TaskRelations = []string{"AssignedTo", "CreatedBy", "Workspace"}
