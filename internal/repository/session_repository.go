package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/storage"
)

type SessionRepository interface {
	SaveSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	UpdateSessionUser(ctx context.Context, id string, user *models.User) (bool, error)
	DeleteSession(ctx context.Context, id string) error
	GetAllSessions(ctx context.Context) ([]*models.Session, error)
}

// LocalSessionRepository stores the current-user records of every open
// session as one JSON object, keyed by session id, under
// storage.KeyCurrentUser.
type LocalSessionRepository struct {
	store storage.Store
	mu    sync.Mutex
}

func NewSessionRepository(store storage.Store) *LocalSessionRepository {
	return &LocalSessionRepository{store: store}
}

func (r *LocalSessionRepository) load(ctx context.Context) (map[string]*models.Session, error) {
	sessions := make(map[string]*models.Session)
	data, err := r.store.Get(ctx, storage.KeyCurrentUser)
	if errors.Is(err, storage.ErrNotFound) {
		return sessions, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", storage.KeyCurrentUser, err)
	}
	return sessions, nil
}

func (r *LocalSessionRepository) save(ctx context.Context, sessions map[string]*models.Session) error {
	if len(sessions) == 0 {
		return r.store.Remove(ctx, storage.KeyCurrentUser)
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", storage.KeyCurrentUser, err)
	}
	return r.store.Set(ctx, storage.KeyCurrentUser, data)
}

func (r *LocalSessionRepository) SaveSession(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load(ctx)
	if err != nil {
		return err
	}
	sessions[session.ID] = session
	return r.save(ctx, sessions)
}

// UpdateSessionUser replaces the user held by an existing session. It never
// creates a session and reports false when the id is gone.
func (r *LocalSessionRepository) UpdateSessionUser(ctx context.Context, id string, user *models.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	session, ok := sessions[id]
	if !ok {
		return false, nil
	}
	session.User = user
	return true, r.save(ctx, sessions)
}

func (r *LocalSessionRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	sessions, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return sessions[id], nil
}

func (r *LocalSessionRepository) DeleteSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := sessions[id]; !ok {
		return nil
	}
	delete(sessions, id)
	return r.save(ctx, sessions)
}

func (r *LocalSessionRepository) GetAllSessions(ctx context.Context) ([]*models.Session, error) {
	sessions, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
