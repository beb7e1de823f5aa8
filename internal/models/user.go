package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID             string          `json:"id" bson:"_id"`
	Email          string          `json:"email" bson:"email"`
	Name           string          `json:"name" bson:"name"`
	CustomerID     string          `json:"customer_id" bson:"customer_id"`
	PublicURL      string          `json:"public_url" bson:"public_url"`
	PasswordHash   string          `json:"password_hash,omitempty" bson:"password_hash,omitempty"`
	CreatedAt      string          `json:"created_at" bson:"created_at"`
	BankAccounts   []BankAccount   `json:"bank_accounts" bson:"bank_accounts"`
	FundingSources []FundingSource `json:"funding_sources,omitempty" bson:"funding_sources,omitempty"`
	Transactions   []Transaction   `json:"transactions" bson:"transactions"`
}

// Public returns a copy without the password hash, for API responses and
// websocket events.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp
}

// TotalBalance sums the balances of every linked bank account, rounded to cents.
func (u *User) TotalBalance() float64 {
	total := decimal.Zero
	for _, a := range u.BankAccounts {
		total = total.Add(decimal.NewFromFloat(a.Balance))
	}
	return total.Round(2).InexactFloat64()
}

// Session is the "current user" record held for one logged-in client.
type Session struct {
	ID        string    `json:"id"`
	User      *User     `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
