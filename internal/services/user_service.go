package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/repository"
	"github.com/bojo500/the-reporter/internal/security"
)

// UserService implements user CRUD on top of UserRepository. Password
// changes are out of scope here: Update ignores any password field and
// only registration writes a hash.
type UserService struct {
	userRepo  *repository.UserRepository
	validator *security.ValidationService
	secConfig *security.SecurityConfig
}

// NewUserService returns a UserService with default security settings.
func NewUserService() *UserService {
	cfg := security.DefaultSecurityConfig()
	return &UserService{
		userRepo:  repository.NewUserRepository(),
		validator: security.NewValidationService(cfg),
		secConfig: cfg,
	}
}

// Create adds a user directly (admin path, no verification mail). The
// account starts unverified like registered ones.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.ValidateName(req.Name); err != nil {
		return nil, models.ErrBadRequest(err.Error())
	}
	if err := s.validator.ValidateEmail(req.Email); err != nil {
		return nil, models.ErrBadRequest(err.Error())
	}
	if err := s.validator.ValidatePassword(req.Password); err != nil {
		return nil, models.ErrBadRequest(err.Error())
	}
	if req.Phone != nil {
		if err := s.validator.ValidatePhoneNumber(*req.Phone); err != nil {
			return nil, models.ErrBadRequest(err.Error())
		}
	}
	if req.Section != nil {
		if err := s.validator.ValidateSection(*req.Section); err != nil {
			return nil, models.ErrBadRequest(err.Error())
		}
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, models.ErrConflict("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, models.ErrServer("Failed to check existing users")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.secConfig.BcryptCost)
	if err != nil {
		return nil, models.ErrServer("Failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		PhoneNumber:  req.Phone,
		Section:      req.Section,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.ErrServer("Failed to create user")
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// FindAll lists every user, sanitized.
func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, models.ErrServer("Failed to list users")
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// FindOne fetches one user by id.
func (s *UserService) FindOne(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.ErrNotFound(fmt.Sprintf("User %d not found", id))
		}
		return nil, models.ErrServer("Failed to look up user")
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Update applies a partial profile update. A password in the payload is
// dropped on the floor: credentials never change through this path.
func (s *UserService) Update(ctx context.Context, id int, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.ErrNotFound(fmt.Sprintf("User %d not found", id))
		}
		return nil, models.ErrServer("Failed to look up user")
	}

	if req.Name != nil {
		if err := s.validator.ValidateName(*req.Name); err != nil {
			return nil, models.ErrBadRequest(err.Error())
		}
		user.Name = *req.Name
	}
	if req.Email != nil {
		if err := s.validator.ValidateEmail(*req.Email); err != nil {
			return nil, models.ErrBadRequest(err.Error())
		}
		user.Email = *req.Email
	}
	if req.Phone != nil {
		if err := s.validator.ValidatePhoneNumber(*req.Phone); err != nil {
			return nil, models.ErrBadRequest(err.Error())
		}
		user.PhoneNumber = req.Phone
	}
	if req.Section != nil {
		if err := s.validator.ValidateSection(*req.Section); err != nil {
			return nil, models.ErrBadRequest(err.Error())
		}
		user.Section = req.Section
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.ErrNotFound(fmt.Sprintf("User %d not found", id))
		}
		return nil, models.ErrServer("Failed to update user")
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdatePhoneNumber sets just the phone column.
func (s *UserService) UpdatePhoneNumber(ctx context.Context, id int, phone string) error {
	if err := s.validator.ValidatePhoneNumber(phone); err != nil {
		return models.ErrBadRequest(err.Error())
	}
	if err := s.userRepo.UpdatePhoneNumber(ctx, id, phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.ErrNotFound(fmt.Sprintf("User %d not found", id))
		}
		return models.ErrServer("Failed to update phone number")
	}
	return nil
}

// Remove deletes a user row outright.
func (s *UserService) Remove(ctx context.Context, id int) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.ErrNotFound(fmt.Sprintf("User %d not found", id))
		}
		return models.ErrServer("Failed to delete user")
	}
	return nil
}
