package models

import "testing"

func TestTotalBalanceRoundsToCents(t *testing.T) {
	tests := []struct {
		name     string
		balances []float64
		want     float64
	}{
		{"no accounts", nil, 0},
		{"single", []float64{250.10}, 250.10},
		{"float drift", []float64{250.10, 100.26}, 350.36},
		{"tenths", []float64{0.1, 0.2}, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{}
			for _, b := range tt.balances {
				u.BankAccounts = append(u.BankAccounts, BankAccount{Balance: b})
			}
			if got := u.TotalBalance(); got != tt.want {
				t.Errorf("TotalBalance() = %v, want %v", got, tt.want)
			}
		})
	}
}
