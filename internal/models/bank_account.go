package models

type BankAccount struct {
	ID            string  `json:"id" bson:"id"`
	AccountID     string  `json:"account_id" bson:"account_id"`
	Name          string  `json:"name" bson:"name"`
	Type          string  `json:"type" bson:"type"`
	Balance       float64 `json:"balance" bson:"balance"`
	Currency      string  `json:"currency" bson:"currency"`
	AccountNumber string  `json:"account_number" bson:"account_number"`
	RoutingNumber string  `json:"routing_number" bson:"routing_number"`
	Institution   string  `json:"institution" bson:"institution"`
	AccessToken   string  `json:"access_token" bson:"access_token"`
	CreatedAt     string  `json:"created_at" bson:"created_at"`
}

type FundingSourceStatus string

const FundingSourceVerified FundingSourceStatus = "verified"

type FundingSource struct {
	ID            string              `json:"id" bson:"id"`
	UserID        string              `json:"user_id" bson:"user_id"`
	BankAccountID string              `json:"bank_account_id" bson:"bank_account_id"`
	AccessToken   string              `json:"access_token" bson:"access_token"`
	Status        FundingSourceStatus `json:"status" bson:"status"`
	CreatedAt     string              `json:"created_at" bson:"created_at"`
}

// BankCredentials is what a user submits when linking an account. Only the
// display fields are used; nothing is verified against a real institution.
type BankCredentials struct {
	BankName    string `json:"bank_name"`
	Institution string `json:"institution"`
	AccountType string `json:"account_type"`
}
