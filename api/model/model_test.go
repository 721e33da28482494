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
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wacul/ptr"

	"github.com/blnkfinance/bank/model"
)

func validCustomerRequest() CustomerRequest {
	return CustomerRequest{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Birthdate: "1990-12-10",
		Address: Address{
			Street:     gofakeit.Street(),
			City:       gofakeit.City(),
			Country:    gofakeit.Country(),
			PostalCode: ptr.String("00-950"),
		},
		Email: ptr.String("jan.kowalski@example.pl"),
		Phone: ptr.String("+48 461 956 4063"),
	}
}

func TestValidateCustomer(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *CustomerRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(r *CustomerRequest) {}},
		{name: "optional fields absent", mutate: func(r *CustomerRequest) {
			r.Email, r.Phone, r.Address.PostalCode = nil, nil, nil
		}},
		{name: "missing first name", mutate: func(r *CustomerRequest) { r.FirstName = "" }, wantErr: "first_name: cannot be blank."},
		{name: "blank last name", mutate: func(r *CustomerRequest) { r.LastName = "   " }, wantErr: "last_name: must not be blank."},
		{name: "bad birthdate format", mutate: func(r *CustomerRequest) { r.Birthdate = "10/12/1990" }, wantErr: "birthdate: must be a date formatted as YYYY-MM-DD."},
		{name: "birthdate in the future", mutate: func(r *CustomerRequest) {
			r.Birthdate = time.Now().AddDate(1, 0, 0).Format(BirthdateLayout)
		}, wantErr: "birthdate: must not be in the future or before 1910-01-01."},
		{name: "birthdate too early", mutate: func(r *CustomerRequest) { r.Birthdate = "1909-12-31" }, wantErr: "birthdate: must not be in the future or before 1910-01-01."},
		{name: "blank postal code", mutate: func(r *CustomerRequest) { r.Address.PostalCode = ptr.String(" ") }, wantErr: "address: (postal_code: must not be blank.)."},
		{name: "missing city", mutate: func(r *CustomerRequest) { r.Address.City = "" }, wantErr: "address: (city: cannot be blank.)."},
		{name: "bad email", mutate: func(r *CustomerRequest) { r.Email = ptr.String("not-an-email") }, wantErr: "email: must be a valid email address."},
		{name: "bad phone", mutate: func(r *CustomerRequest) { r.Phone = ptr.String("48 461") }, wantErr: "phone: must start with + and contain only digits and spaces."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validCustomerRequest()
			tt.mutate(&r)
			err := r.ValidateCustomer()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestToCustomer(t *testing.T) {
	r := validCustomerRequest()
	r.FirstName = "  Jan "

	c := r.ToCustomer("cus_1")
	assert.Equal(t, "cus_1", c.CustomerID)
	assert.Equal(t, "Jan", c.FirstName)
	assert.Equal(t, time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC), c.Birthdate)
	assert.Equal(t, r.Address.PostalCode, c.Address.PostalCode)
	assert.Equal(t, r.Email, c.Email)
}

func TestValidateCreateAccount(t *testing.T) {
	valid := CreateAccount{CustomerID: "cus_1", Currency: model.CurrencyGBP, Type: model.AccountTypeCredit}
	assert.NoError(t, valid.ValidateCreateAccount())

	badCurrency := valid
	badCurrency.Currency = "PLN"
	assert.EqualError(t, badCurrency.ValidateCreateAccount(), "currency: must be one of EUR, USD, GBP, CHF.")

	badType := valid
	badType.Type = "BROKERAGE"
	assert.EqualError(t, badType.ValidateCreateAccount(), "type: must be one of SAVINGS, CHECKING, CREDIT.")

	missing := CreateAccount{}
	assert.Error(t, missing.ValidateCreateAccount())
}

func TestValidateAccountMovement(t *testing.T) {
	amount := decimal.RequireFromString("-10")
	version := int64(0)
	m := AccountMovement{AccountID: "acc_1", Amount: &amount, Currency: model.CurrencyEUR, Version: &version}
	assert.NoError(t, m.ValidateAccountMovement(), "amount sign is checked by the ledger")

	noVersion := m
	noVersion.Version = nil
	assert.EqualError(t, noVersion.ValidateAccountMovement(), "version: is required.")

	negative := int64(-1)
	negativeVersion := m
	negativeVersion.Version = &negative
	assert.EqualError(t, negativeVersion.ValidateAccountMovement(), "version: must be no less than 0.")

	noAmount := m
	noAmount.Amount = nil
	assert.EqualError(t, noAmount.ValidateAccountMovement(), "amount: is required.")
}

func TestPagination(t *testing.T) {
	p := Pagination{}
	assert.NoError(t, p.ValidatePagination())
	p.Normalize()
	assert.Equal(t, Pagination{PageSize: DefaultPageSize, Page: DefaultPage}, p)

	bad := Pagination{PageSize: -1, Page: 2}
	assert.EqualError(t, bad.ValidatePagination(), "pageSize: must be no less than 0.")

	large := Pagination{PageSize: 1000, Page: 3}
	assert.NoError(t, large.ValidatePagination())
	large.Normalize()
	assert.Equal(t, Pagination{PageSize: model.MaxPageSize, Page: 3}, large)
}
