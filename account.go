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

package bank

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/blnkfinance/bank/internal/apierror"
	"github.com/blnkfinance/bank/model"
)

type movement string

const (
	deposit    movement = "deposit"
	withdrawal movement = "withdrawal"
)

// GetAccount returns an active account.
func (b *Bank) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	ctx, span := tracer.Start(ctx, "GetAccount")
	defer span.End()

	account, err := b.datasource.FindAccount(ctx, id)
	if err != nil {
		return nil, recordError(span, err)
	}
	return account, nil
}

// GetAllAccounts lists active accounts page by page in creation order.
func (b *Bank) GetAllAccounts(ctx context.Context, pageSize, page int) ([]model.Account, error) {
	ctx, span := tracer.Start(ctx, "GetAllAccounts")
	defer span.End()

	limit, offset := pagination(pageSize, page)
	accounts, err := b.datasource.GetActiveAccounts(ctx, limit, offset)
	if err != nil {
		return nil, recordError(span, err)
	}
	return accounts, nil
}

// GetAccountsByCustomer lists every account of a customer, including the
// accounts deactivated when the customer was deleted.
func (b *Bank) GetAccountsByCustomer(ctx context.Context, customerID string) ([]model.Account, error) {
	_, accounts, err := b.GetCustomerWithAccounts(ctx, customerID)
	return accounts, err
}

// GetCustomerWithAccounts resolves a customer whatever their status and
// returns them with all of their accounts.
func (b *Bank) GetCustomerWithAccounts(ctx context.Context, customerID string) (*model.Customer, []model.Account, error) {
	ctx, span := tracer.Start(ctx, "GetCustomerWithAccounts")
	defer span.End()

	customer, err := b.datasource.FindCustomer(ctx, customerID, true)
	if err != nil {
		return nil, nil, recordError(span, err)
	}
	accounts, err := b.datasource.GetAccountsByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, recordError(span, err)
	}
	return customer, accounts, nil
}

// GetAccountOwner resolves the customer who owns an account, whatever their
// status.
func (b *Bank) GetAccountOwner(ctx context.Context, account *model.Account) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "GetAccountOwner")
	defer span.End()

	customer, err := b.datasource.FindCustomer(ctx, account.CustomerID, true)
	if err != nil {
		return nil, recordError(span, err)
	}
	return customer, nil
}

// CreateAccount opens an empty account for an active customer. The customer
// row stays locked until the account is written.
func (b *Bank) CreateAccount(ctx context.Context, customerID string, currency model.Currency, accountType model.AccountType) (*model.Account, error) {
	ctx, span := tracer.Start(ctx, "CreateAccount")
	defer span.End()

	var account *model.Account
	err := b.datasource.RunInTx(ctx, func(ctx context.Context) error {
		status, err := b.datasource.LockCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if status != model.StatusActive {
			return apierror.NewCustomerNotFound(customerID)
		}

		account, err = b.datasource.UpsertAccountIfVersion(ctx, model.NewAccount(customerID, currency, accountType), 0)
		return err
	})
	if err != nil {
		return nil, recordError(span, err)
	}
	logrus.WithFields(logrus.Fields{
		"account_id":  account.AccountID,
		"customer_id": customerID,
		"currency":    currency,
	}).Info("account created")
	return account, nil
}

// Deposit credits amount to the account if expectedVersion is still current.
func (b *Bank) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, currency model.Currency, expectedVersion int64) (*model.Account, error) {
	return b.move(ctx, deposit, accountID, amount, currency, expectedVersion)
}

// Withdraw debits amount from the account if expectedVersion is still current
// and the balance covers it.
func (b *Bank) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, currency model.Currency, expectedVersion int64) (*model.Account, error) {
	return b.move(ctx, withdrawal, accountID, amount, currency, expectedVersion)
}

// move reads the account, validates the request against it and writes the
// next revision with a version-conditioned upsert. Checks run in this order:
// existence, currency, amount, funds (withdrawals only), version.
func (b *Bank) move(ctx context.Context, kind movement, accountID string, amount decimal.Decimal, currency model.Currency, expectedVersion int64) (*model.Account, error) {
	ctx, span := tracer.Start(ctx, "Account "+string(kind))
	defer span.End()
	span.SetAttributes(
		attribute.String("account.id", accountID),
		attribute.Int64("account.expected_version", expectedVersion),
	)

	account, err := b.datasource.FindAccount(ctx, accountID)
	if err != nil {
		return nil, recordError(span, err)
	}

	if account.Currency != currency {
		return nil, recordError(span, apierror.NewMismatchedCurrency(accountID, string(account.Currency), string(currency)))
	}

	var balance decimal.Decimal
	switch kind {
	case deposit:
		if !amount.IsPositive() {
			return nil, recordError(span, apierror.NewInvalidDepositAmount(accountID, amount.String()))
		}
		balance = account.Balance.Add(amount)
	case withdrawal:
		if !amount.IsPositive() {
			return nil, recordError(span, apierror.NewInvalidWithdrawAmount(accountID, amount.String()))
		}
		if amount.GreaterThan(account.Balance) {
			return nil, recordError(span, apierror.NewInsufficientFunds(accountID))
		}
		balance = account.Balance.Sub(amount)
	}

	if account.Version != expectedVersion {
		return nil, recordError(span, apierror.NewAccountVersionOutOfDate(accountID))
	}

	updated, err := b.datasource.UpsertAccountIfVersion(ctx, account.WithBalance(balance, time.Now()), expectedVersion)
	if err != nil {
		return nil, recordError(span, err)
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"movement":   kind,
		"amount":     amount.String(),
		"version":    updated.Version,
	}).Info("account balance updated")
	return updated, nil
}

// DeleteAccount deactivates an account. Deleting an account that is missing
// or already inactive fails with AccountNotFound.
func (b *Bank) DeleteAccount(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DeleteAccount")
	defer span.End()

	affected, err := b.datasource.SetAccountStatus(ctx, id, model.StatusInactive)
	if err != nil {
		return recordError(span, err)
	}
	if affected == 0 {
		return recordError(span, apierror.NewAccountNotFound(id))
	}
	logrus.WithField("account_id", id).Info("account deactivated")
	return nil
}
