package models

type BalanceData struct {
	UserID    string  `json:"user_id"`
	AccountID string  `json:"account_id"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
	Timestamp int64   `json:"timestamp"`
}
