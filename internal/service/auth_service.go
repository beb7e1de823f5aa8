package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, email, password, confirmPassword string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
	UpdateUser(ctx context.Context, sessionID string, apply func(*models.User) error) (*models.User, error)
	SetSessionUser(ctx context.Context, sessionID string, user *models.User) error
}

type authService struct {
	users         UserService
	sessionRepo   repository.SessionRepository
	gen           *Generator
	ttl           time.Duration
	publicURLBase string
	log           *logrus.Logger
}

func NewAuthService(users UserService, sessionRepo repository.SessionRepository, gen *Generator, ttl time.Duration, publicURLBase string, log *logrus.Logger) AuthService {
	return &authService{
		users:         users,
		sessionRepo:   sessionRepo,
		gen:           gen,
		ttl:           ttl,
		publicURLBase: strings.TrimRight(publicURLBase, "/"),
		log:           log,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *authService) newUser(email, passwordHash string) *models.User {
	name, _, _ := strings.Cut(email, "@")
	return &models.User{
		ID:             s.gen.UUID(),
		Email:          email,
		Name:           name,
		CustomerID:     "CUST_" + s.gen.UpperToken(9),
		PublicURL:      s.publicURLBase + "/user/" + s.gen.Token(9),
		PasswordHash:   passwordHash,
		CreatedAt:      s.gen.Timestamp(),
		BankAccounts:   []models.BankAccount{},
		FundingSources: []models.FundingSource{},
		Transactions:   []models.Transaction{},
	}
}

func (s *authService) Register(ctx context.Context, email, password, confirmPassword string) (*models.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := s.newUser(email, string(hash))
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("user registered")
	return s.openSession(ctx, user)
}

// Login restores the session of a known email. An unknown email gets a
// fresh account on the fly, without a password.
func (s *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = s.newUser(email, "")
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		s.log.WithField("user_id", user.ID).Info("user created on login")
	} else if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}
	return s.openSession(ctx, user)
}

func (s *authService) openSession(ctx context.Context, user *models.User) (*models.Session, error) {
	now := s.gen.Now().UTC()
	session := &models.Session{
		ID:        s.gen.UUID(),
		User:      user.Public(),
		CreatedAt: now,
	}
	if s.ttl > 0 {
		session.ExpiresAt = now.Add(s.ttl)
	}
	if err := s.sessionRepo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.DeleteSession(ctx, sessionID)
}

// GetSession returns nil for unknown sessions. Expired sessions are removed
// on sight.
func (s *authService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessionRepo.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return nil, err
	}
	if session.Expired(s.gen.Now()) {
		if err := s.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return session, nil
}

func (s *authService) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session.User, nil
}

// UpdateUser applies the change to the stored record and mirrors the result
// into the session.
func (s *authService) UpdateUser(ctx context.Context, sessionID string, apply func(*models.User) error) (*models.User, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.User == nil {
		return nil, ErrSessionNotFound
	}

	user, err := s.users.Mutate(ctx, session.User.ID, apply)
	if err != nil {
		return nil, err
	}
	if err := s.SetSessionUser(ctx, sessionID, user); err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *authService) SetSessionUser(ctx context.Context, sessionID string, user *models.User) error {
	ok, err := s.sessionRepo.UpdateSessionUser(ctx, sessionID, user.Public())
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}
