package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/repository"
)

// UserService fronts the user store. Mutate and MutatePair serialise every
// read-modify-write of user records made through this process.
type UserService interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByPublicID(ctx context.Context, publicID string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	Mutate(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error)
	MutatePair(ctx context.Context, firstID, secondID string, fn func(first, second *models.User) error) (*models.User, *models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	mu       sync.Mutex
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.userRepo.SaveUser(ctx, user)
	if errors.Is(err, repository.ErrUserExists) {
		return ErrEmailTaken
	}
	return err
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetUserByEmail(ctx, email)
}

func (s *userService) FindUserByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	return s.userRepo.FindUserByPublicID(ctx, publicID)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.GetAllUsers(ctx)
}

func (s *userService) Mutate(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return user, nil
}

// MutatePair loads two distinct users, applies fn and writes the first user
// back before the second. A failure writing the second leaves the first
// written.
func (s *userService) MutatePair(ctx context.Context, firstID, secondID string, fn func(first, second *models.User) error) (*models.User, *models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	first, err := s.userRepo.GetUserByID(ctx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := s.userRepo.GetUserByID(ctx, secondID)
	if err != nil {
		return nil, nil, err
	}
	if first == nil || second == nil {
		return nil, nil, ErrUserNotFound
	}
	if err := fn(first, second); err != nil {
		return nil, nil, err
	}
	if err := s.userRepo.UpdateUser(ctx, first); err != nil {
		return nil, nil, fmt.Errorf("failed to update user %s: %w", firstID, err)
	}
	if err := s.userRepo.UpdateUser(ctx, second); err != nil {
		return nil, nil, fmt.Errorf("failed to update user %s: %w", secondID, err)
	}
	return first, second, nil
}
