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
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blnkfinance/bank/internal/apierror"
	"github.com/blnkfinance/bank/model"
)

var (
	errQueueUnavailable = errors.New("gdpr queue is not configured")

	// ErrAnonymizationNotScheduled wraps an enqueue failure that followed a
	// successful deactivation.
	ErrAnonymizationNotScheduled = errors.New("customer deactivated but anonymization could not be scheduled")
)

// GetCustomer returns an active customer.
func (b *Bank) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "GetCustomer")
	defer span.End()

	customer, err := b.datasource.FindCustomer(ctx, id, false)
	if err != nil {
		return nil, recordError(span, err)
	}
	return customer, nil
}

// GetAllCustomers lists active customers page by page. A non-empty name keeps
// only customers whose full name contains it, ignoring case.
func (b *Bank) GetAllCustomers(ctx context.Context, name string, pageSize, page int) ([]model.Customer, error) {
	ctx, span := tracer.Start(ctx, "GetAllCustomers")
	defer span.End()

	limit, offset := pagination(pageSize, page)
	customers, err := b.datasource.GetActiveCustomers(ctx, name, limit, offset)
	if err != nil {
		return nil, recordError(span, err)
	}
	return customers, nil
}

func (b *Bank) CreateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "CreateCustomer")
	defer span.End()

	c.CustomerID = model.GenerateUUIDWithSuffix("cus")
	c.Status = model.StatusActive
	c.CreatedAt = time.Now()

	customer, err := b.datasource.UpsertCustomer(ctx, c)
	if err != nil {
		return nil, recordError(span, err)
	}
	logrus.WithField("customer_id", customer.CustomerID).Info("customer created")
	return customer, nil
}

// UpdateCustomer replaces the personal data of an active customer. Status and
// creation time are kept from the stored row.
func (b *Bank) UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "UpdateCustomer")
	defer span.End()

	var updated *model.Customer
	err := b.datasource.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := b.datasource.FindCustomer(ctx, c.CustomerID, false)
		if err != nil {
			return err
		}
		c.Status = existing.Status
		c.CreatedAt = existing.CreatedAt

		updated, err = b.datasource.UpsertCustomer(ctx, c)
		return err
	})
	if err != nil {
		return nil, recordError(span, err)
	}
	return updated, nil
}

// DeleteCustomer deactivates a customer together with all of their accounts
// in one transaction. Nothing changes unless every step succeeds.
func (b *Bank) DeleteCustomer(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DeleteCustomer")
	defer span.End()

	err := b.datasource.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := b.datasource.LockCustomer(ctx, id); err != nil {
			return err
		}

		accounts, err := b.datasource.GetAccountsByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if len(accounts) > 0 {
			if _, err := b.datasource.SetAccountStatusByCustomer(ctx, id, model.StatusInactive); err != nil {
				return err
			}
		}

		affected, err := b.datasource.SetCustomerStatus(ctx, id, model.StatusInactive)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apierror.NewCustomerNotFound(id)
		}
		return nil
	})
	if err != nil {
		return recordError(span, err)
	}

	logrus.WithField("customer_id", id).Info("customer and accounts deactivated")
	return nil
}

// AnonymizeCustomer scrubs the personal data of an inactive customer. Running
// it again on an anonymized customer writes the same values.
func (b *Bank) AnonymizeCustomer(ctx context.Context, id string) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "AnonymizeCustomer")
	defer span.End()

	customer, err := b.datasource.FindCustomer(ctx, id, true)
	if err != nil {
		return nil, recordError(span, err)
	}
	if customer.IsActive() {
		return nil, recordError(span, apierror.NewActiveCustomerAnonymization(id))
	}

	anonymized, err := b.datasource.UpsertCustomer(ctx, customer.Anonymize())
	if err != nil {
		return nil, recordError(span, err)
	}
	logrus.WithField("customer_id", id).Info("customer anonymized")
	return anonymized, nil
}

// DeleteAndAnonymizeCustomer deactivates a customer and queues their
// anonymization. A customer that is already inactive is only queued.
func (b *Bank) DeleteAndAnonymizeCustomer(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DeleteAndAnonymizeCustomer")
	defer span.End()

	err := b.DeleteCustomer(ctx, id)
	if apierror.IsKind(err, apierror.CustomerNotFound) {
		customer, findErr := b.datasource.FindCustomer(ctx, id, true)
		if findErr != nil || customer.IsActive() {
			return recordError(span, err)
		}
		logrus.WithField("customer_id", id).Info("customer already inactive, scheduling anonymization only")
		err = nil
	}
	if err != nil {
		return recordError(span, err)
	}

	if err := b.ScheduleAnonymization(ctx, id); err != nil {
		return recordError(span, fmt.Errorf("%w: %w", ErrAnonymizationNotScheduled, err))
	}
	return nil
}

// ScheduleAnonymization queues a GDPR anonymization event for a customer.
func (b *Bank) ScheduleAnonymization(ctx context.Context, id string) error {
	if b.queue == nil {
		return errQueueUnavailable
	}
	return b.queue.EnqueueGdprAnonymization(ctx, id)
}
