package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/repository"
	"github.com/mehrbod2002/horizon/internal/storage"
	"github.com/sirupsen/logrus"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []models.Transaction
	fails bool
}

func (n *recordingNotifier) NotifyTransfer(_ context.Context, _, _ *models.User, tx models.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, tx)
	if n.fails {
		return errors.New("smtp down")
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.UserEvent
	live   map[string]bool
}

func (p *recordingPublisher) RetainSessions(live map[string]bool, _ time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live = live
}

func (p *recordingPublisher) PublishUserEvent(event *models.UserEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type fixture struct {
	store     storage.Store
	clock     *clock
	users     UserService
	sessions  repository.SessionRepository
	auth      AuthService
	banking   BankingService
	logs      LogService
	notifier  *recordingNotifier
	publisher *recordingPublisher
	syncer    *SessionSyncer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		store:     storage.NewMemoryStore(),
		clock:     &clock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	gen := NewSeededGenerator(42, f.clock.Now)
	f.users = NewUserService(repository.NewLocalUserRepository(f.store))
	f.sessions = repository.NewSessionRepository(f.store)
	f.logs = NewLogService(repository.NewLocalLogRepository(f.store), log)
	f.auth = NewAuthService(f.users, f.sessions, gen, time.Hour, "https://horizon.test/", log)
	f.banking = NewBankingService(f.users, f.logs, f.notifier, gen, log)
	f.syncer = NewSessionSyncer(f.sessions, f.users, f.publisher, gen, time.Second, log)
	return f
}

func (f *fixture) register(t *testing.T, email string) *models.Session {
	t.Helper()
	session, err := f.auth.Register(context.Background(), email, "password123", "password123")
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return session
}

// linked registers a user with one bank account holding balance.
func (f *fixture) linked(t *testing.T, email string, balance float64) *models.User {
	t.Helper()
	ctx := context.Background()
	session := f.register(t, email)
	if _, _, err := f.banking.LinkBankAccount(ctx, session.User.ID, models.BankCredentials{}); err != nil {
		t.Fatalf("LinkBankAccount: %v", err)
	}
	user, err := f.users.Mutate(ctx, session.User.ID, func(u *models.User) error {
		u.BankAccounts[0].Balance = balance
		return nil
	})
	if err != nil {
		t.Fatalf("set balance: %v", err)
	}
	return user
}
