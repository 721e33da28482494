/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyCHF Currency = "CHF"
)

// Currencies lists every supported account currency.
var Currencies = []Currency{CurrencyEUR, CurrencyUSD, CurrencyGBP, CurrencyCHF}

type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeCredit   AccountType = "CREDIT"
)

// AccountTypes lists every supported account type.
var AccountTypes = []AccountType{AccountTypeSavings, AccountTypeChecking, AccountTypeCredit}

// Account is a single ledger row. Version increases by one on every write that
// changes the balance or the status.
type Account struct {
	AccountID  string          `json:"account_id"`
	CustomerID string          `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
	Currency   Currency        `json:"currency"`
	Type       AccountType     `json:"type"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
	Version    int64           `json:"version"`
}

// NewAccount returns an empty, active account owned by customerID.
func NewAccount(customerID string, currency Currency, accountType AccountType) Account {
	return Account{
		AccountID:  GenerateUUIDWithSuffix("acc"),
		CustomerID: customerID,
		Balance:    decimal.Zero,
		Currency:   currency,
		Type:       accountType,
		Status:     StatusActive,
		CreatedAt:  time.Now(),
		Version:    0,
	}
}

func (a Account) IsActive() bool {
	return a.Status == StatusActive
}

// WithBalance returns the next revision of the account carrying balance.
func (a Account) WithBalance(balance decimal.Decimal, now time.Time) Account {
	next := a
	next.Balance = balance
	next.UpdatedAt = &now
	next.Version = a.Version + 1
	return next
}
