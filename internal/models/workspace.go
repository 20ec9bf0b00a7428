package models

import (
	"time"

	"gorm.io/gorm"
)

type Workspace struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	OwnerID     uint64         `gorm:"not null;index" json:"ownerId"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []User `gorm:"many2many:workspace_members;" json:"members,omitempty"`
	Tasks   []Task `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// WorkspaceMemberTable is the join table backing Workspace.Members.
const WorkspaceMemberTable = "workspace_members"

// HasMember reports whether userID is in the loaded member set.
func (w *Workspace) HasMember(userID uint64) bool {
	for _, m := range w.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the ids of the loaded members.
func (w *Workspace) MemberIDs() []uint64 {
	ids := make([]uint64, len(w.Members))
	for i, m := range w.Members {
		ids[i] = m.ID
	}
	return ids
}
