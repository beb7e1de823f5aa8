package models

type AdminAccount struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Password         string `json:"-"`
	AccountType      string `json:"account_type"`
	RegistrationDate string `json:"registration_date"`
}
