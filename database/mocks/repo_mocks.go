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

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blnkfinance/bank/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Account methods

func (m *MockDataSource) FindAccount(ctx context.Context, id string) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockDataSource) UpsertAccountIfVersion(ctx context.Context, acc model.Account, expectedVersion int64) (*model.Account, error) {
	args := m.Called(ctx, acc, expectedVersion)
	if fn, ok := args.Get(0).(func(context.Context, model.Account, int64) *model.Account); ok {
		return fn(ctx, acc, expectedVersion), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockDataSource) GetActiveAccounts(ctx context.Context, limit, offset int) ([]model.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *MockDataSource) GetAccountsByCustomer(ctx context.Context, customerID string) ([]model.Account, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *MockDataSource) SetAccountStatus(ctx context.Context, id string, status model.Status) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataSource) SetAccountStatusByCustomer(ctx context.Context, customerID string, status model.Status) (int64, error) {
	args := m.Called(ctx, customerID, status)
	return args.Get(0).(int64), args.Error(1)
}

// Customer methods

func (m *MockDataSource) FindCustomer(ctx context.Context, id string, includeInactive bool) (*model.Customer, error) {
	args := m.Called(ctx, id, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockDataSource) GetActiveCustomers(ctx context.Context, name string, limit, offset int) ([]model.Customer, error) {
	args := m.Called(ctx, name, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Customer), args.Error(1)
}

func (m *MockDataSource) UpsertCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, c)
	if fn, ok := args.Get(0).(func(context.Context, model.Customer) *model.Customer); ok {
		return fn(ctx, c), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockDataSource) SetCustomerStatus(ctx context.Context, id string, status model.Status) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataSource) LockCustomer(ctx context.Context, id string) (model.Status, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Status), args.Error(1)
}

// Unit of work

// RunInTx calls fn directly; expectations set on the mock observe the calls fn makes.
func (m *MockDataSource) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *MockDataSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
