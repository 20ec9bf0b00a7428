package repository

import (
	"github.com/yukikurage/workspace-task-api/internal/database"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkspaceRelations are the associations loaded with every workspace read.
var WorkspaceRelations = []string{"Owner", "Members", "Tasks"}

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// Create creates a new workspace
func (r *GormWorkspaceRepository) Create(workspace *models.Workspace) error {
	return r.db.Omit(clause.Associations).Create(workspace).Error
}

// FindByID finds a workspace by ID with optional preloading
func (r *GormWorkspaceRepository) FindByID(id uint64, preload ...string) (*models.Workspace, error) {
	var workspace models.Workspace
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&workspace, id).Error; err != nil {
		return nil, err
	}

	return &workspace, nil
}

// List retrieves a page of workspaces, newest first
func (r *GormWorkspaceRepository) List(params utils.PaginationParams) ([]models.Workspace, int64, error) {
	var total int64
	if err := r.db.Model(&models.Workspace{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	workspaces := []models.Workspace{}
	query := r.db.Scopes(database.Paginate(params)).Order("workspaces.created_at DESC, workspaces.id DESC")
	for _, p := range WorkspaceRelations {
		query = query.Preload(p)
	}
	if err := query.Find(&workspaces).Error; err != nil {
		return nil, 0, err
	}

	return workspaces, total, nil
}

// Update updates a workspace
func (r *GormWorkspaceRepository) Update(workspace *models.Workspace) error {
	return r.db.Omit(clause.Associations).Save(workspace).Error
}

// ReplaceMembers replaces the member set with users
func (r *GormWorkspaceRepository) ReplaceMembers(workspace *models.Workspace, users []models.User) error {
	association := r.db.Model(workspace).Association("Members")
	if len(users) == 0 {
		return association.Clear()
	}
	return association.Replace(users)
}

// AddMember adds a member to a workspace
func (r *GormWorkspaceRepository) AddMember(workspace *models.Workspace, user *models.User) error {
	return r.db.Model(workspace).Association("Members").Append(user)
}

// RemoveMember removes a member from a workspace
func (r *GormWorkspaceRepository) RemoveMember(workspace *models.Workspace, userID uint64) error {
	return r.db.Model(workspace).Association("Members").Delete(&models.User{ID: userID})
}

// Delete soft deletes a workspace and its tasks in a transaction
func (r *GormWorkspaceRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Workspace{}, id).Error
	})
}
