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
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/blnkfinance/bank/internal/notification"
)

var (
	errEmptyGdprCustomer = errors.New("gdpr event has no customerId")

	defaultNotifyError = notification.NotifyError
	notifyError        = defaultNotifyError
)

// ProcessGdprEvent anonymizes the customer named in the task. Any error is
// returned so the worker hands the task out again after the retry delay.
func (b *Bank) ProcessGdprEvent(ctx context.Context, t *asynq.Task) error {
	ctx, span := tracer.Start(ctx, "ProcessGdprEvent")
	defer span.End()

	var payload GdprPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logrus.WithError(err).Error("failed to decode gdpr event, requesting redelivery")
		return recordError(span, err)
	}
	if payload.CustomerID == "" {
		logrus.Error("gdpr event without customer id, requesting redelivery")
		return recordError(span, errEmptyGdprCustomer)
	}

	if _, err := b.AnonymizeCustomer(ctx, payload.CustomerID); err != nil {
		logrus.WithError(err).WithField("customer_id", payload.CustomerID).Error("gdpr anonymization failed, requesting redelivery")
		return err
	}
	return nil
}

// GdprRetryDelay waits the same fixed delay before every redelivery.
func GdprRetryDelay(delay time.Duration) asynq.RetryDelayFunc {
	return func(_ int, _ error, _ *asynq.Task) time.Duration {
		return delay
	}
}

// GdprErrorHandler alerts once a task has used up its retries.
func GdprErrorHandler() asynq.ErrorHandler {
	return asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		reportGdprFailure(task, err, retried, maxRetry)
	})
}

func reportGdprFailure(task *asynq.Task, err error, retried, maxRetry int) {
	if retried < maxRetry {
		return
	}
	notifyError(fmt.Errorf("gdpr event %s dropped after %d retries: %w", task.Payload(), retried, err))
}
