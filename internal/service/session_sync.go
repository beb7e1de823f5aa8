package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// EventPublisher delivers user events to the user's live connections.
// RetainSessions closes connections opened before the given time whose
// session is not in live.
type EventPublisher interface {
	PublishUserEvent(event *models.UserEvent)
	RetainSessions(live map[string]bool, openedBefore time.Time)
}

// SessionSyncer keeps every session's copy of its user in step with the user
// store and tells connected clients what changed.
type SessionSyncer struct {
	sessionRepo repository.SessionRepository
	users       UserService
	publisher   EventPublisher
	gen         *Generator
	log         *logrus.Logger
	interval    time.Duration

	cron *cron.Cron
}

func NewSessionSyncer(sessionRepo repository.SessionRepository, users UserService, publisher EventPublisher, gen *Generator, interval time.Duration, log *logrus.Logger) *SessionSyncer {
	return &SessionSyncer{
		sessionRepo: sessionRepo,
		users:       users,
		publisher:   publisher,
		gen:         gen,
		log:         log,
		interval:    interval,
	}
}

func (s *SessionSyncer) Start() error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		if err := s.SyncOnce(ctx); err != nil {
			s.log.WithError(err).Error("session sync failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule session sync: %w", err)
	}
	s.cron = c
	c.Start()
	s.log.WithField("interval", s.interval.String()).Info("session sync started")
	return nil
}

// Stop waits for a running sync to finish.
func (s *SessionSyncer) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// SyncOnce runs a single comparison pass over all sessions.
func (s *SessionSyncer) SyncOnce(ctx context.Context) error {
	started := time.Now()
	sessions, err := s.sessionRepo.GetAllSessions(ctx)
	if err != nil {
		return err
	}

	now := s.gen.Now()
	notified := make(map[string]bool)
	live := make(map[string]bool, len(sessions))
	for _, session := range sessions {
		if session.User == nil || session.Expired(now) {
			s.drop(ctx, session, "expired")
			continue
		}

		stored, err := s.users.GetUser(ctx, session.User.ID)
		if err != nil {
			return err
		}
		if stored == nil {
			s.drop(ctx, session, "user removed")
			continue
		}
		stored = stored.Public()

		same, err := sameUser(session.User, stored)
		if err != nil {
			return err
		}
		if same {
			live[session.ID] = true
			continue
		}

		event := userEvent(session.User, stored, now)
		ok, err := s.sessionRepo.UpdateSessionUser(ctx, session.ID, stored)
		if err != nil {
			return fmt.Errorf("failed to update session %s: %w", session.ID, err)
		}
		if !ok {
			// logged out while this pass was running
			continue
		}
		live[session.ID] = true
		if !notified[stored.ID] {
			notified[stored.ID] = true
			s.publisher.PublishUserEvent(event)
		}
	}
	s.publisher.RetainSessions(live, started)
	return nil
}

func (s *SessionSyncer) drop(ctx context.Context, session *models.Session, reason string) {
	if err := s.sessionRepo.DeleteSession(ctx, session.ID); err != nil {
		s.log.WithError(err).WithField("session_id", session.ID).Warn("failed to drop session")
		return
	}
	s.log.WithFields(logrus.Fields{"session_id": session.ID, "reason": reason}).Info("session dropped")
}

func sameUser(a, b *models.User) (bool, error) {
	aj, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(aj, bj), nil
}

// userEvent reports an incoming payment when the stored record gained
// transactions and at least one of them is a deposit.
func userEvent(old, current *models.User, now time.Time) *models.UserEvent {
	event := &models.UserEvent{
		Type:      models.UserEventUpdated,
		UserID:    current.ID,
		User:      current,
		Timestamp: now.Unix(),
	}
	if len(current.Transactions) <= len(old.Transactions) {
		return event
	}
	added := current.Transactions[len(old.Transactions):]
	event.Transactions = added
	for _, tx := range added {
		if tx.Type == models.TransactionTypeDeposit {
			event.Type = models.UserEventIncomingPayment
			break
		}
	}
	return event
}
