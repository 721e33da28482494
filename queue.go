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

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/blnkfinance/bank/config"
	redis_db "github.com/blnkfinance/bank/internal/redis-db"
)

// Queue publishes background work to redis through asynq.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
	gdprQueue string
	maxRetry  int
}

// GdprPayload is the body of a GDPR anonymization event.
type GdprPayload struct {
	CustomerID string `json:"customerId"`
}

// RedisClientOpt turns the configured redis address into asynq options.
func RedisClientOpt(conf *config.Configuration) (asynq.RedisClientOpt, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      redisOption.Addr,
		Username:  redisOption.Username,
		Password:  redisOption.Password,
		DB:        redisOption.DB,
		TLSConfig: redisOption.TLSConfig,
	}, nil
}

func NewQueue(conf *config.Configuration) (*Queue, error) {
	queueOptions, err := RedisClientOpt(conf)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}
	return &Queue{
		Client:    asynq.NewClient(queueOptions),
		Inspector: asynq.NewInspector(queueOptions),
		gdprQueue: conf.Queue.GdprQueue,
		maxRetry:  conf.Queue.MaxRetry,
	}, nil
}

func gdprTaskID(customerID string) string {
	return "gdpr_" + customerID
}

// EnqueueGdprAnonymization publishes an anonymization event for customerID.
// An event still waiting to run for the same customer is not duplicated; one
// archived after exhausting its retries is replaced by a fresh event.
func (q *Queue) EnqueueGdprAnonymization(ctx context.Context, customerID string) error {
	payload, err := json.Marshal(GdprPayload{CustomerID: customerID})
	if err != nil {
		return err
	}

	taskID := gdprTaskID(customerID)
	taskOptions := []asynq.Option{
		asynq.TaskID(taskID),
		asynq.Queue(q.gdprQueue),
		asynq.MaxRetry(q.maxRetry),
	}
	task := asynq.NewTask(q.gdprQueue, payload, taskOptions...)
	info, err := q.Client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		replaced, rerr := q.replaceArchived(taskID)
		if rerr != nil {
			logrus.WithError(rerr).WithField("customer_id", customerID).Error("failed to inspect queued gdpr anonymization")
			return rerr
		}
		if !replaced {
			logrus.WithField("customer_id", customerID).Info("gdpr anonymization already queued")
			return nil
		}
		info, err = q.Client.EnqueueContext(ctx, task)
	}
	if err != nil {
		logrus.WithError(err).WithField("customer_id", customerID).Error("failed to enqueue gdpr anonymization")
		return err
	}
	logrus.Infof(" [*] Successfully enqueued gdpr anonymization: %s (queue %s)", customerID, info.Queue)
	return nil
}

// replaceArchived deletes taskID when asynq has archived it, reporting
// whether the id is free again.
func (q *Queue) replaceArchived(taskID string) (bool, error) {
	info, err := q.Inspector.GetTaskInfo(q.gdprQueue, taskID)
	if errors.Is(err, asynq.ErrTaskNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if info.State != asynq.TaskStateArchived {
		return false, nil
	}
	if err := q.Inspector.DeleteTask(q.gdprQueue, taskID); err != nil {
		return false, err
	}
	logrus.WithField("task_id", taskID).Info("removed archived gdpr anonymization")
	return true, nil
}

func (q *Queue) Close() error {
	if err := q.Inspector.Close(); err != nil {
		return err
	}
	return q.Client.Close()
}
