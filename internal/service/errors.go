package service

import "errors"

// The text of these errors is what API clients see.
var (
	ErrInvalidEmail        = errors.New("a valid email is required")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSessionNotFound     = errors.New("session not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrRecipientRequired   = errors.New("recipient public ID is required")
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrSelfTransfer        = errors.New("cannot transfer funds to yourself")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrBankAccountNotFound = errors.New("bank account not found")
	ErrInvalidAccessToken  = errors.New("access token does not match bank account")
)
