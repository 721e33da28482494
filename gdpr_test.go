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
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blnkfinance/bank/database/mocks"
	"github.com/blnkfinance/bank/internal/apierror"
	"github.com/blnkfinance/bank/model"
)

func gdprTask(t *testing.T, customerID string) *asynq.Task {
	payload, err := json.Marshal(GdprPayload{CustomerID: customerID})
	require.NoError(t, err)
	return asynq.NewTask("gdpr.customer.v1", payload)
}

func TestProcessGdprEvent(t *testing.T) {
	b, ds := newMockBank()
	customer := testCustomer(model.StatusInactive)
	ds.On("FindCustomer", mock.Anything, customer.CustomerID, true).Return(customer, nil)
	ds.On("UpsertCustomer", mock.Anything, mock.MatchedBy(func(c model.Customer) bool {
		return c.CustomerID == customer.CustomerID && c.FirstName == model.AnonymizedValue
	})).Return(func(_ context.Context, c model.Customer) *model.Customer { return &c }, nil)

	assert.NoError(t, b.ProcessGdprEvent(context.Background(), gdprTask(t, customer.CustomerID)))
	ds.AssertExpectations(t)
}

func TestProcessGdprEvent_RequestsRedelivery(t *testing.T) {
	active := testCustomer(model.StatusActive)

	tests := []struct {
		name  string
		task  *asynq.Task
		setup func(ds *mocks.MockDataSource)
		check func(t *testing.T, err error)
	}{
		{
			name: "malformed payload",
			task: asynq.NewTask("gdpr.customer.v1", []byte("{not json")),
			check: func(t *testing.T, err error) {
				var syntaxErr *json.SyntaxError
				assert.ErrorAs(t, err, &syntaxErr)
			},
		},
		{
			name: "missing customer id",
			task: asynq.NewTask("gdpr.customer.v1", []byte(`{}`)),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errEmptyGdprCustomer)
			},
		},
		{
			name: "customer still active",
			task: gdprTask(t, active.CustomerID),
			setup: func(ds *mocks.MockDataSource) {
				ds.On("FindCustomer", mock.Anything, active.CustomerID, true).Return(active, nil)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, apierror.IsKind(err, apierror.ActiveCustomerAnonymization))
			},
		},
		{
			name: "unknown customer",
			task: gdprTask(t, "cus_missing"),
			setup: func(ds *mocks.MockDataSource) {
				ds.On("FindCustomer", mock.Anything, "cus_missing", true).Return(nil, apierror.NewCustomerNotFound("cus_missing"))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, apierror.IsKind(err, apierror.CustomerNotFound))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ds := newMockBank()
			if tt.setup != nil {
				tt.setup(ds)
			}
			err := b.ProcessGdprEvent(context.Background(), tt.task)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestGdprRetryDelay(t *testing.T) {
	delay := GdprRetryDelay(time.Second)
	for n := 0; n < 5; n++ {
		assert.Equal(t, time.Second, delay(n, errors.New("boom"), gdprTask(t, "cus_1")))
	}
}

func TestReportGdprFailure(t *testing.T) {
	var notified []error
	notifyError = func(err error) { notified = append(notified, err) }
	t.Cleanup(func() { notifyError = defaultNotifyError })

	task := gdprTask(t, "cus_1")
	cause := errors.New("db down")

	reportGdprFailure(task, cause, 3, 25)
	assert.Empty(t, notified)

	reportGdprFailure(task, cause, 25, 25)
	require.Len(t, notified, 1)
	assert.ErrorIs(t, notified[0], cause)
	assert.Contains(t, notified[0].Error(), `{"customerId":"cus_1"}`)
}
