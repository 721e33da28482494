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
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wacul/ptr"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("acc")
	assert.True(t, strings.HasPrefix(id, "acc_"))
	assert.Len(t, id, len("acc_")+36)
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("acc"))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(50, 1))
	assert.Equal(t, 100, Offset(50, 3))
	assert.Equal(t, 0, Offset(50, 0))
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, PageSize(0))
	assert.Equal(t, DefaultPageSize, PageSize(-4))
	assert.Equal(t, 20, PageSize(20))
	assert.Equal(t, MaxPageSize, PageSize(1000))
}

func TestNewAccount(t *testing.T) {
	account := NewAccount("cus_1", CurrencyEUR, AccountTypeSavings)
	assert.True(t, strings.HasPrefix(account.AccountID, "acc_"))
	assert.True(t, account.Balance.Equal(decimal.Zero))
	assert.Equal(t, StatusActive, account.Status)
	assert.Equal(t, int64(0), account.Version)
	assert.Nil(t, account.UpdatedAt)
	assert.WithinDuration(t, time.Now(), account.CreatedAt, time.Second)
}

func TestAccount_WithBalance(t *testing.T) {
	account := NewAccount("cus_1", CurrencyEUR, AccountTypeSavings)
	now := time.Now()
	next := account.WithBalance(decimal.RequireFromString("100.00"), now)

	assert.Equal(t, int64(1), next.Version)
	assert.Equal(t, "100", next.Balance.String())
	assert.Equal(t, &now, next.UpdatedAt)
	assert.Equal(t, int64(0), account.Version, "original must be untouched")
	assert.True(t, account.Balance.IsZero())
}

func TestAddress_OneLine(t *testing.T) {
	addr := Address{Street: "Main 1", City: "Berlin", Country: "Germany", PostalCode: ptr.String("10115")}
	assert.Equal(t, "Main 1, 10115, Berlin, Germany", addr.OneLine())

	addr.PostalCode = nil
	assert.Equal(t, "Main 1, Berlin, Germany", addr.OneLine())
}

func TestCustomer_Anonymize(t *testing.T) {
	customer := Customer{
		CustomerID: GenerateUUIDWithSuffix("cus"),
		FirstName:  gofakeit.FirstName(),
		LastName:   gofakeit.LastName(),
		Birthdate:  gofakeit.DateRange(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), time.Now()),
		Gender:     ptr.String("female"),
		Address: Address{
			Street:     gofakeit.Street(),
			City:       gofakeit.City(),
			Country:    gofakeit.Country(),
			PostalCode: ptr.String(gofakeit.Zip()),
		},
		Email:  ptr.String(gofakeit.Email()),
		Phone:  ptr.String("+48 461 956 4063"),
		Status: StatusInactive,
	}

	anon := customer.Anonymize()
	assert.Equal(t, customer.CustomerID, anon.CustomerID)
	assert.Equal(t, StatusInactive, anon.Status)
	assert.Equal(t, AnonymizedValue, anon.FirstName)
	assert.Equal(t, AnonymizedValue, anon.LastName)
	assert.Equal(t, AnonymizedBirthdate, anon.Birthdate)
	assert.Nil(t, anon.Gender)
	assert.Equal(t, Address{Street: AnonymizedValue, City: AnonymizedValue, Country: AnonymizedValue}, anon.Address)
	assert.Nil(t, anon.Email)
	assert.Nil(t, anon.Phone)

	// applying it again yields the same record
	assert.Equal(t, anon, anon.Anonymize())
}

func TestCustomer_FullName(t *testing.T) {
	c := Customer{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", c.FullName())
}

func TestRecommendationFor(t *testing.T) {
	tests := []struct {
		score int
		want  Recommendation
	}{
		{100, RecommendationApprove},
		{80, RecommendationApprove},
		{79, RecommendationMaybe},
		{60, RecommendationMaybe},
		{59, RecommendationReject},
		{0, RecommendationReject},
		{101, RecommendationReject},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RecommendationFor(tt.score), "score %d", tt.score)
	}
}

func TestNewCreditScore(t *testing.T) {
	assert.Equal(t, CreditScore{Score: 85, Recommendation: RecommendationApprove}, NewCreditScore(80, 90))
	assert.Equal(t, CreditScore{Score: 79, Recommendation: RecommendationMaybe}, NewCreditScore(79, 80))
	assert.Equal(t, CreditScore{Score: 30, Recommendation: RecommendationReject}, NewCreditScore(20, 41))
}
