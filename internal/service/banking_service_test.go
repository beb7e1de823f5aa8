package service

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/mehrbod2002/horizon/internal/models"
)

func TestLinkBankAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.register(t, "link@example.com")

	user, account, err := f.banking.LinkBankAccount(ctx, session.User.ID, models.BankCredentials{})
	if err != nil {
		t.Fatalf("LinkBankAccount: %v", err)
	}
	if len(user.BankAccounts) != 1 || user.BankAccounts[0].ID != account.ID {
		t.Fatalf("account not appended: %+v", user.BankAccounts)
	}
	if account.Name != "Primary Checking" || account.Institution != "Sample Bank" || account.Type != "checking" {
		t.Errorf("defaults not applied: %+v", account)
	}
	if account.Currency != "INR" {
		t.Errorf("currency %q", account.Currency)
	}
	if account.Balance < 10000 || account.Balance > 509999 || account.Balance != math.Trunc(account.Balance) {
		t.Errorf("balance %v out of range", account.Balance)
	}
	checks := map[string]string{
		account.AccountID:     `^ACC_[0-9A-Z]{9}$`,
		account.AccountNumber: `^\*{4}\d{4}$`,
		account.RoutingNumber: `^\*{4}\d{6}$`,
		account.AccessToken:   `^access_token_[0-9a-z]{20}$`,
	}
	for value, pattern := range checks {
		if !regexp.MustCompile(pattern).MatchString(value) {
			t.Errorf("%q does not match %s", value, pattern)
		}
	}

	_, named, err := f.banking.LinkBankAccount(ctx, session.User.ID, models.BankCredentials{
		BankName: "Travel Savings", Institution: "Horizon Credit Union", AccountType: "savings",
	})
	if err != nil {
		t.Fatalf("LinkBankAccount: %v", err)
	}
	if named.Name != "Travel Savings" || named.Institution != "Horizon Credit Union" || named.Type != "savings" {
		t.Errorf("credentials ignored: %+v", named)
	}

	if _, _, err := f.banking.LinkBankAccount(ctx, "nobody", models.BankCredentials{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: want ErrUserNotFound, got %v", err)
	}

	logs, _ := f.logs.GetLogsByUserID(ctx, session.User.ID, 1, 10)
	if len(logs) != 2 || logs[0].Action != "LinkBankAccount" {
		t.Errorf("expected audit entries, got %d", len(logs))
	}
}

func TestCreateFundingSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.linked(t, "fund@example.com", 500)
	account := user.BankAccounts[0]

	if _, _, err := f.banking.CreateFundingSource(ctx, user.ID, account.AccessToken, "missing"); !errors.Is(err, ErrBankAccountNotFound) {
		t.Fatalf("unknown account: want ErrBankAccountNotFound, got %v", err)
	}
	if _, _, err := f.banking.CreateFundingSource(ctx, user.ID, "access_token_wrong", account.ID); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("wrong token: want ErrInvalidAccessToken, got %v", err)
	}

	updated, source, err := f.banking.CreateFundingSource(ctx, user.ID, account.AccessToken, account.AccountID)
	if err != nil {
		t.Fatalf("CreateFundingSource: %v", err)
	}
	if source.Status != models.FundingSourceVerified || source.BankAccountID != account.ID || source.UserID != user.ID {
		t.Errorf("unexpected funding source: %+v", source)
	}
	if len(updated.FundingSources) != 1 {
		t.Errorf("funding source not stored")
	}
}

func TestTransferFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sender := f.linked(t, "sender@example.com", 1000)
	recipient := f.linked(t, "recipient@example.com", 250.10)
	publicID := recipient.PublicURL[strings.LastIndex(recipient.PublicURL, "/")+1:]

	updated, tx, err := f.banking.TransferFunds(ctx, sender.ID, publicID, 100.255, "rent")
	if err != nil {
		t.Fatalf("TransferFunds: %v", err)
	}
	if !regexp.MustCompile(`^TXN_[0-9A-Z]{12}$`).MatchString(tx.TransactionID) {
		t.Errorf("transaction id %q", tx.TransactionID)
	}
	if tx.Type != models.TransactionTypeTransfer || tx.Status != models.TransactionStatusCompleted {
		t.Errorf("unexpected transaction: %+v", tx)
	}
	if tx.Amount != 100.26 {
		t.Errorf("amount = %v, want 100.26", tx.Amount)
	}
	if updated.BankAccounts[0].Balance != 899.74 {
		t.Errorf("sender balance = %v, want 899.74", updated.BankAccounts[0].Balance)
	}
	if len(updated.Transactions) != 1 || updated.Transactions[0].ID != tx.ID {
		t.Errorf("sender history not updated")
	}

	credited, _ := f.users.GetUser(ctx, recipient.ID)
	if credited.BankAccounts[0].Balance != 350.36 {
		t.Errorf("recipient balance = %v, want 350.36", credited.BankAccounts[0].Balance)
	}
	incoming := credited.Transactions[0]
	if incoming.Type != models.TransactionTypeDeposit || incoming.SenderName != "Payment Received" || incoming.TransactionID != tx.TransactionID {
		t.Errorf("unexpected incoming copy: %+v", incoming)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].Type != models.TransactionTypeDeposit {
		t.Errorf("recipient not notified: %+v", f.notifier.sent)
	}
}

func TestTransferFundsByCustomerIDClampsSender(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sender := f.linked(t, "poor@example.com", 40)
	recipient := f.linked(t, "rich@example.com", 10)
	f.notifier.fails = true

	updated, _, err := f.banking.TransferFunds(ctx, sender.ID, recipient.CustomerID, 75, "")
	if err != nil {
		t.Fatalf("TransferFunds: %v", err)
	}
	if updated.BankAccounts[0].Balance != 0 {
		t.Errorf("sender balance = %v, want clamp at 0", updated.BankAccounts[0].Balance)
	}
	credited, _ := f.users.GetUser(ctx, recipient.ID)
	if credited.BankAccounts[0].Balance != 85 {
		t.Errorf("recipient credit should be unclamped, got %v", credited.BankAccounts[0].Balance)
	}
}

func TestTransferFundsErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sender := f.linked(t, "s@example.com", 100)

	tests := []struct {
		name      string
		recipient string
		amount    float64
		want      error
	}{
		{"zero amount", sender.CustomerID, 0, ErrInvalidAmount},
		{"negative amount", sender.CustomerID, -5, ErrInvalidAmount},
		{"nan amount", sender.CustomerID, math.NaN(), ErrInvalidAmount},
		{"sub-cent amount", sender.CustomerID, 0.001, ErrInvalidAmount},
		{"blank recipient", "  ", 10, ErrRecipientRequired},
		{"unknown recipient", "CUST_NOBODY000", 10, ErrRecipientNotFound},
		{"self transfer", sender.CustomerID, 10, ErrSelfTransfer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.banking.TransferFunds(ctx, sender.ID, tt.recipient, tt.amount, "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}

	stored, _ := f.users.GetUser(ctx, sender.ID)
	if stored.BankAccounts[0].Balance != 100 || len(stored.Transactions) != 0 {
		t.Errorf("failed transfers must not touch the sender: %+v", stored)
	}
}

func TestConcurrentTransfersDoNotLoseUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sender := f.linked(t, "burst@example.com", 10000)
	recipient := f.linked(t, "sink@example.com", 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := f.banking.TransferFunds(ctx, sender.ID, recipient.CustomerID, 10, ""); err != nil {
				t.Errorf("TransferFunds: %v", err)
			}
		}()
	}
	wg.Wait()

	s, _ := f.users.GetUser(ctx, sender.ID)
	r, _ := f.users.GetUser(ctx, recipient.ID)
	if s.BankAccounts[0].Balance != 9800 || len(s.Transactions) != 20 {
		t.Errorf("sender: balance %v, %d transactions", s.BankAccounts[0].Balance, len(s.Transactions))
	}
	if r.BankAccounts[0].Balance != 200 || len(r.Transactions) != 20 {
		t.Errorf("recipient: balance %v, %d transactions", r.BankAccounts[0].Balance, len(r.Transactions))
	}
}

func TestHistoryAndBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sender := f.linked(t, "h@example.com", 1000)
	recipient := f.linked(t, "r@example.com", 0)

	for _, desc := range []string{"first", "second", "third"} {
		if _, _, err := f.banking.TransferFunds(ctx, sender.ID, recipient.CustomerID, 1, desc); err != nil {
			t.Fatalf("TransferFunds: %v", err)
		}
	}
	history, err := f.banking.GetTransactionHistory(ctx, sender.ID)
	if err != nil {
		t.Fatalf("GetTransactionHistory: %v", err)
	}
	if len(history) != 3 || history[0].Description != "third" || history[2].Description != "first" {
		t.Errorf("history not newest first: %+v", history)
	}

	account := sender.BankAccounts[0]
	for _, id := range []string{account.ID, account.AccountID} {
		balance, err := f.banking.GetAccountBalance(ctx, sender.ID, id)
		if err != nil {
			t.Fatalf("GetAccountBalance(%s): %v", id, err)
		}
		if balance.Balance != 997 || balance.AccountID != account.AccountID || balance.Currency != "INR" {
			t.Errorf("unexpected balance: %+v", balance)
		}
	}
	if _, err := f.banking.GetAccountBalance(ctx, sender.ID, "ACC_MISSING"); !errors.Is(err, ErrBankAccountNotFound) {
		t.Fatalf("unknown account: want ErrBankAccountNotFound, got %v", err)
	}
	if _, err := f.banking.GetTransactionHistory(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: want ErrUserNotFound, got %v", err)
	}
}
