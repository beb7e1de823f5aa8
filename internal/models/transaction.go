package models

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

type TransactionType string

const (
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypeDeposit  TransactionType = "deposit"
)

type Transaction struct {
	ID                string            `json:"id" bson:"id"`
	TransactionID     string            `json:"transaction_id" bson:"transaction_id"`
	SenderID          string            `json:"sender_id" bson:"sender_id"`
	RecipientID       string            `json:"recipient_id" bson:"recipient_id"`
	RecipientPublicID string            `json:"recipient_public_id" bson:"recipient_public_id"`
	Amount            float64           `json:"amount" bson:"amount"`
	Description       string            `json:"description" bson:"description"`
	Status            TransactionStatus `json:"status" bson:"status"`
	Type              TransactionType   `json:"type" bson:"type"`
	SenderName        string            `json:"sender_name,omitempty" bson:"sender_name,omitempty"`
	CreatedAt         string            `json:"created_at" bson:"created_at"`
}
