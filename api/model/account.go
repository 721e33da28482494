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
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/blnkfinance/bank/model"
)

const (
	DefaultPageSize = model.DefaultPageSize
	DefaultPage     = 1
)

func currencies() []interface{} {
	values := make([]interface{}, len(model.Currencies))
	for i, c := range model.Currencies {
		values[i] = c
	}
	return values
}

func accountTypes() []interface{} {
	values := make([]interface{}, len(model.AccountTypes))
	for i, t := range model.AccountTypes {
		values[i] = t
	}
	return values
}

type CreateAccount struct {
	CustomerID string            `json:"customer_id"`
	Currency   model.Currency    `json:"currency"`
	Type       model.AccountType `json:"type"`
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.CustomerID, validation.Required),
		validation.Field(&a.Currency, validation.Required, validation.In(currencies()...).Error("must be one of EUR, USD, GBP, CHF")),
		validation.Field(&a.Type, validation.Required, validation.In(accountTypes()...).Error("must be one of SAVINGS, CHECKING, CREDIT")),
	)
}

// AccountMovement is the body of a deposit or a withdrawal. Version is the
// account version the caller last read.
type AccountMovement struct {
	AccountID string           `json:"account_id"`
	Amount    *decimal.Decimal `json:"amount"`
	Currency  model.Currency   `json:"currency"`
	Version   *int64           `json:"version"`
}

func (m *AccountMovement) ValidateAccountMovement() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.AccountID, validation.Required),
		validation.Field(&m.Amount, validation.NotNil),
		validation.Field(&m.Currency, validation.Required, validation.In(currencies()...).Error("must be one of EUR, USD, GBP, CHF")),
		validation.Field(&m.Version, validation.NotNil, validation.Min(int64(0))),
	)
}

type Pagination struct {
	PageSize int `form:"pageSize" json:"pageSize"`
	Page     int `form:"page" json:"page"`
}

func (p *Pagination) ValidatePagination() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.PageSize, validation.Min(0)),
		validation.Field(&p.Page, validation.Min(0)),
	)
}

// Normalize fills in the default page and caps the page size at the one the
// listing will actually use.
func (p *Pagination) Normalize() {
	p.PageSize = model.PageSize(p.PageSize)
	if p.Page == 0 {
		p.Page = DefaultPage
	}
}

// AccountResponse carries an account together with its owner.
type AccountResponse struct {
	Account  *model.Account  `json:"account"`
	Customer *model.Customer `json:"customer,omitempty"`
}

type AccountList struct {
	Accounts []model.Account `json:"accounts"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type CustomerAccounts struct {
	Customer *model.Customer `json:"customer"`
	Accounts []model.Account `json:"accounts"`
}
