package config

import (
	"time"

	"github.com/google/uuid"
	"github.com/mehrbod2002/horizon/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// NewAdminAccount builds the single operator account from ADMIN_USER and
// ADMIN_PASS. It lives only in memory; nothing about it is persisted.
func NewAdminAccount(cfg *Config) (*models.AdminAccount, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPass), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &models.AdminAccount{
		ID:               uuid.New().String(),
		Username:         cfg.AdminUser,
		Password:         string(hashedPassword),
		AccountType:      "admin",
		RegistrationDate: time.Now().Format(time.RFC3339),
	}, nil
}
