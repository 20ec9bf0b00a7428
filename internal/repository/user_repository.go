package repository

import (
	"github.com/yukikurage/workspace-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns the users whose ids appear in ids
func (r *GormUserRepository) FindByIDs(ids []uint64) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken checks the unique email index, including soft deleted rows
func (r *GormUserRepository) EmailTaken(email string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Unscoped().Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every active user ordered by id
func (r *GormUserRepository) List() ([]models.User, error) {
	users := []models.User{}
	if err := r.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Omit(clause.Associations).Save(user).Error
}

// Delete removes a user and everything that hangs off them in a transaction
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Drop memberships
		if err := tx.Exec("DELETE FROM "+models.WorkspaceMemberTable+" WHERE user_id = ?", id).Error; err != nil {
			return err
		}

		// Unassign tasks
		if err := tx.Model(&models.Task{}).
			Where("assigned_to_id = ?", id).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}

		var ownedIDs []uint64
		if err := tx.Model(&models.Workspace{}).Where("owner_id = ?", id).Pluck("id", &ownedIDs).Error; err != nil {
			return err
		}
		if len(ownedIDs) > 0 {
			if err := tx.Where("workspace_id IN ?", ownedIDs).Delete(&models.Task{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ownedIDs).Delete(&models.Workspace{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
