package service

import (
	"errors"

	"github.com/relaychat-io/relaychat-backend/internal/apperr"
	"github.com/relaychat-io/relaychat-backend/internal/models"
	"github.com/relaychat-io/relaychat-backend/internal/repository"
	"github.com/relaychat-io/relaychat-backend/internal/validation"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo repository.UserRepositoryInterface
}

func NewUserService(userRepo repository.UserRepositoryInterface) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new user. Usernames are globally unique; a duplicate
// registration is a conflict and leaves the first row untouched.
func (s *UserService) Register(username string) (*models.User, error) {
	username = validation.NormalizeUsername(username)
	if username == "" {
		return nil, apperr.Validationf("Username not provided.")
	}

	user := &models.User{Username: username}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("Username '%s' is already taken.", username)
		}
		return nil, err
	}
	return user, nil
}

// findUser resolves an asserted username to its row, phrasing the not-found
// reply with the caller's role ("User", "Sender", "Receiver").
func findUser(repo repository.UserRepositoryInterface, role, username string) (*models.User, error) {
	user, err := repo.FindByUsername(validation.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("%s '%s' not found.", role, username)
		}
		return nil, err
	}
	return user, nil
}
