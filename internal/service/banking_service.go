package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultAccountName = "Primary Checking"
	defaultInstitution = "Sample Bank"
	defaultAccountType = "checking"
	accountCurrency    = "INR"
)

// Notifier tells a recipient about money that arrived. Failures are logged
// and never fail the transfer.
type Notifier interface {
	NotifyTransfer(ctx context.Context, sender, recipient *models.User, tx models.Transaction) error
}

// BankingService fabricates bank data and moves money between stored users.
// Nothing here talks to a real financial institution.
type BankingService interface {
	LinkBankAccount(ctx context.Context, userID string, creds models.BankCredentials) (*models.User, *models.BankAccount, error)
	CreateFundingSource(ctx context.Context, userID, accessToken, bankAccountID string) (*models.User, *models.FundingSource, error)
	TransferFunds(ctx context.Context, senderID, recipientPublicID string, amount float64, description string) (*models.User, *models.Transaction, error)
	GetTransactionHistory(ctx context.Context, userID string) ([]models.Transaction, error)
	GetAccountBalance(ctx context.Context, userID, accountID string) (*models.BalanceData, error)
}

type bankingService struct {
	users      UserService
	logService LogService
	notifier   Notifier
	gen        *Generator
	log        *logrus.Logger
}

func NewBankingService(users UserService, logService LogService, notifier Notifier, gen *Generator, log *logrus.Logger) BankingService {
	return &bankingService{
		users:      users,
		logService: logService,
		notifier:   notifier,
		gen:        gen,
		log:        log,
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func (s *bankingService) newBankAccount(creds models.BankCredentials) models.BankAccount {
	return models.BankAccount{
		ID:            s.gen.UUID(),
		AccountID:     "ACC_" + s.gen.UpperToken(9),
		Name:          orDefault(creds.BankName, defaultAccountName),
		Type:          orDefault(creds.AccountType, defaultAccountType),
		Balance:       float64(s.gen.IntRange(10000, 509999)),
		Currency:      accountCurrency,
		AccountNumber: fmt.Sprintf("****%d", s.gen.IntRange(1000, 9999)),
		RoutingNumber: fmt.Sprintf("****%d", s.gen.IntRange(100000, 999999)),
		Institution:   orDefault(creds.Institution, defaultInstitution),
		AccessToken:   "access_token_" + s.gen.Token(20),
		CreatedAt:     s.gen.Timestamp(),
	}
}

func (s *bankingService) LinkBankAccount(ctx context.Context, userID string, creds models.BankCredentials) (*models.User, *models.BankAccount, error) {
	account := s.newBankAccount(creds)
	user, err := s.users.Mutate(ctx, userID, func(u *models.User) error {
		u.BankAccounts = append(u.BankAccounts, account)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	metadata := map[string]interface{}{
		"bank_account_id": account.ID,
		"account_id":      account.AccountID,
		"institution":     account.Institution,
	}
	if err := s.logService.LogAction(ctx, userID, "LinkBankAccount", "Bank account linked", "", metadata); err != nil {
		s.log.WithError(err).Warn("failed to record audit log")
	}
	return user.Public(), &account, nil
}

func findBankAccount(user *models.User, id string) *models.BankAccount {
	for i := range user.BankAccounts {
		a := &user.BankAccounts[i]
		if a.ID == id || a.AccountID == id {
			return a
		}
	}
	return nil
}

func (s *bankingService) CreateFundingSource(ctx context.Context, userID, accessToken, bankAccountID string) (*models.User, *models.FundingSource, error) {
	var source models.FundingSource
	user, err := s.users.Mutate(ctx, userID, func(u *models.User) error {
		account := findBankAccount(u, bankAccountID)
		if account == nil {
			return ErrBankAccountNotFound
		}
		if accessToken != account.AccessToken {
			return ErrInvalidAccessToken
		}
		source = models.FundingSource{
			ID:            s.gen.UUID(),
			UserID:        u.ID,
			BankAccountID: account.ID,
			AccessToken:   accessToken,
			Status:        models.FundingSourceVerified,
			CreatedAt:     s.gen.Timestamp(),
		}
		u.FundingSources = append(u.FundingSources, source)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	metadata := map[string]interface{}{
		"funding_source_id": source.ID,
		"bank_account_id":   source.BankAccountID,
	}
	if err := s.logService.LogAction(ctx, userID, "CreateFundingSource", "Funding source created", "", metadata); err != nil {
		s.log.WithError(err).Warn("failed to record audit log")
	}
	return user.Public(), &source, nil
}

func (s *bankingService) GetAccountBalance(ctx context.Context, userID, accountID string) (*models.BalanceData, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	account := findBankAccount(user, accountID)
	if account == nil {
		return nil, ErrBankAccountNotFound
	}
	return &models.BalanceData{
		UserID:    user.ID,
		AccountID: account.AccountID,
		Balance:   account.Balance,
		Currency:  account.Currency,
		Timestamp: s.gen.Now().Unix(),
	}, nil
}
