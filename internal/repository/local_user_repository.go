package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/storage"
)

// LocalUserRepository keeps the whole user collection as one JSON array
// under storage.KeyUsers. Every mutation reads, rewrites and stores the
// entire array.
type LocalUserRepository struct {
	store storage.Store
	mu    sync.Mutex
}

func NewLocalUserRepository(store storage.Store) *LocalUserRepository {
	return &LocalUserRepository{store: store}
}

func (r *LocalUserRepository) load(ctx context.Context) ([]*models.User, error) {
	data, err := r.store.Get(ctx, storage.KeyUsers)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var users []*models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", storage.KeyUsers, err)
	}
	return users, nil
}

func (r *LocalUserRepository) save(ctx context.Context, users []*models.User) error {
	if users == nil {
		users = []*models.User{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", storage.KeyUsers, err)
	}
	return r.store.Set(ctx, storage.KeyUsers, data)
}

func (r *LocalUserRepository) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *LocalUserRepository) SaveUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == user.ID || u.Email == user.Email {
			return ErrUserExists
		}
	}
	return r.save(ctx, append(users, user))
}

func (r *LocalUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.ID == id })
}

func (r *LocalUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.Email == email })
}

// FindUserByPublicID matches the public URL first (substring), then the
// customer id (exact).
func (r *LocalUserRepository) FindUserByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	if publicID == "" {
		return nil, nil
	}
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.PublicURL != "" && strings.Contains(u.PublicURL, publicID) {
			return u, nil
		}
	}
	for _, u := range users {
		if u.CustomerID == publicID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *LocalUserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return r.load(ctx)
}

func (r *LocalUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i, u := range users {
		if u.ID == user.ID {
			users[i] = user
			return r.save(ctx, users)
		}
	}
	return ErrUserNotFound
}
