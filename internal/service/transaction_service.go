package service

import (
	"context"
	"math"
	"strings"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/shopspring/decimal"
)

const incomingSenderName = "Payment Received"

// adjustPrimaryBalance adds delta to the first linked account. Results are
// rounded to cents and, when clamp is set, floored at zero. Users without a
// linked account keep no balance to adjust.
func adjustPrimaryBalance(user *models.User, delta decimal.Decimal, clamp bool) {
	if len(user.BankAccounts) == 0 {
		return
	}
	account := &user.BankAccounts[0]
	balance := decimal.NewFromFloat(account.Balance).Add(delta).Round(2)
	if clamp && balance.IsNegative() {
		balance = decimal.Zero
	}
	account.Balance = balance.InexactFloat64()
}

func (s *bankingService) TransferFunds(ctx context.Context, senderID, recipientPublicID string, amount float64, description string) (*models.User, *models.Transaction, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	value := decimal.NewFromFloat(amount).Round(2)
	if value.LessThanOrEqual(decimal.Zero) {
		return nil, nil, ErrInvalidAmount
	}
	recipientPublicID = strings.TrimSpace(recipientPublicID)
	if recipientPublicID == "" {
		return nil, nil, ErrRecipientRequired
	}

	recipient, err := s.users.FindUserByPublicID(ctx, recipientPublicID)
	if err != nil {
		return nil, nil, err
	}
	if recipient == nil {
		return nil, nil, ErrRecipientNotFound
	}
	if recipient.ID == senderID {
		return nil, nil, ErrSelfTransfer
	}

	tx := models.Transaction{
		ID:                s.gen.UUID(),
		TransactionID:     "TXN_" + s.gen.UpperToken(12),
		SenderID:          senderID,
		RecipientID:       recipient.ID,
		RecipientPublicID: recipientPublicID,
		Amount:            value.InexactFloat64(),
		Description:       description,
		Status:            models.TransactionStatusCompleted,
		Type:              models.TransactionTypeTransfer,
		CreatedAt:         s.gen.Timestamp(),
	}
	incoming := tx
	incoming.Type = models.TransactionTypeDeposit
	incoming.SenderName = incomingSenderName

	credited, sender, err := s.users.MutatePair(ctx, recipient.ID, senderID, func(r, snd *models.User) error {
		adjustPrimaryBalance(r, value, false)
		r.Transactions = append(r.Transactions, incoming)

		adjustPrimaryBalance(snd, value.Neg(), true)
		snd.Transactions = append(snd.Transactions, tx)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	metadata := map[string]interface{}{
		"transaction_id": tx.TransactionID,
		"recipient_id":   tx.RecipientID,
		"amount":         tx.Amount,
	}
	if err := s.logService.LogAction(ctx, senderID, "TransferFunds", "Transfer completed", "", metadata); err != nil {
		s.log.WithError(err).Warn("failed to record audit log")
	}
	if err := s.notifier.NotifyTransfer(ctx, sender, credited, incoming); err != nil {
		s.log.WithError(err).WithField("transaction_id", tx.TransactionID).Warn("failed to notify recipient")
	}
	return sender.Public(), &tx, nil
}

// GetTransactionHistory returns the user's transactions newest first.
func (s *bankingService) GetTransactionHistory(ctx context.Context, userID string) ([]models.Transaction, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	history := make([]models.Transaction, len(user.Transactions))
	for i, tx := range user.Transactions {
		history[len(history)-1-i] = tx
	}
	return history, nil
}
