package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/workspace-task-api/internal/constants"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/repository"
	"github.com/yukikurage/workspace-task-api/internal/security"
	"gorm.io/gorm"
)

var (
	ErrNotAccountOwnerUpdate = errors.New("can only update own account")
	ErrNotAccountOwnerDelete = errors.New("can only delete own account")
)

// UserService provides business logic for user accounts.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// UpdateUserInput holds optional changes to a user.
type UpdateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// ListUsers returns all active users.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userNotFound(id)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUser applies a partial update to the actor's own account.
func (s *UserService) UpdateUser(id, actorID uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.ID != actorID {
		return nil, ErrNotAccountOwnerUpdate
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email != user.Email {
			taken, err := s.userRepo.EmailTaken(email, user.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := security.HashPassword(*input.Password)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = hash
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes the actor's own account along with the workspaces they own.
func (s *UserService) DeleteUser(id, actorID uint64) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	if id != actorID {
		return ErrNotAccountOwnerDelete
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
