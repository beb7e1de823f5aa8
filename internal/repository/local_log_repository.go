package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/storage"
)

// MaxLocalLogEntries bounds the audit log kept under storage.KeyLogs; the
// oldest entries are dropped first.
const MaxLocalLogEntries = 1000

type LocalLogRepository struct {
	store storage.Store
	mu    sync.Mutex
	now   func() time.Time
}

func NewLocalLogRepository(store storage.Store) *LocalLogRepository {
	return &LocalLogRepository{store: store, now: time.Now}
}

func (r *LocalLogRepository) load(ctx context.Context) ([]*models.LogEntry, error) {
	data, err := r.store.Get(ctx, storage.KeyLogs)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var logs []*models.LogEntry
	if err := json.Unmarshal(data, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", storage.KeyLogs, err)
	}
	return logs, nil
}

func (r *LocalLogRepository) SaveLog(ctx context.Context, log *models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs, err := r.load(ctx)
	if err != nil {
		return err
	}
	log.ID = uuid.New().String()
	log.Timestamp = r.now()
	logs = append(logs, log)
	if len(logs) > MaxLocalLogEntries {
		logs = logs[len(logs)-MaxLocalLogEntries:]
	}
	data, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", storage.KeyLogs, err)
	}
	return r.store.Set(ctx, storage.KeyLogs, data)
}

func (r *LocalLogRepository) GetAllLogs(ctx context.Context, page, limit int) ([]*models.LogEntry, error) {
	return r.page(ctx, func(*models.LogEntry) bool { return true }, page, limit)
}

func (r *LocalLogRepository) GetLogsByUserID(ctx context.Context, userID string, page, limit int) ([]*models.LogEntry, error) {
	return r.page(ctx, func(l *models.LogEntry) bool { return l.UserID == userID }, page, limit)
}

// page walks the stored entries newest first.
func (r *LocalLogRepository) page(ctx context.Context, match func(*models.LogEntry) bool, page, limit int) ([]*models.LogEntry, error) {
	logs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)
	skip := (page - 1) * limit

	out := make([]*models.LogEntry, 0, limit)
	for i := len(logs) - 1; i >= 0 && len(out) < limit; i-- {
		if !match(logs[i]) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, logs[i])
	}
	return out, nil
}
