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
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blnkfinance/bank/config"
)

func newTestQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	q, err := NewQueue(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
		Queue: config.QueueConfig{GdprQueue: config.DEFAULT_GDPR_QUEUE, MaxRetry: 3},
	})
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q, mr
}

func TestEnqueueGdprAnonymization(t *testing.T) {
	q, mr := newTestQueue(t)

	err := q.EnqueueGdprAnonymization(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.NotEmpty(t, mr.Keys())

	info, err := q.Inspector.GetTaskInfo(config.DEFAULT_GDPR_QUEUE, gdprTaskID("cus_1"))
	require.NoError(t, err)
	assert.Equal(t, config.DEFAULT_GDPR_QUEUE, info.Type)
	assert.Equal(t, 3, info.MaxRetry)

	var payload GdprPayload
	require.NoError(t, json.Unmarshal(info.Payload, &payload))
	assert.Equal(t, "cus_1", payload.CustomerID)
}

func TestEnqueueGdprAnonymization_PendingDuplicate(t *testing.T) {
	q, _ := newTestQueue(t)

	require.NoError(t, q.EnqueueGdprAnonymization(context.Background(), "cus_1"))
	assert.NoError(t, q.EnqueueGdprAnonymization(context.Background(), "cus_1"))
}

func TestEnqueueGdprAnonymization_ReplacesArchived(t *testing.T) {
	q, _ := newTestQueue(t)
	taskID := gdprTaskID("cus_1")

	require.NoError(t, q.EnqueueGdprAnonymization(context.Background(), "cus_1"))
	require.NoError(t, q.Inspector.ArchiveTask(config.DEFAULT_GDPR_QUEUE, taskID))

	info, err := q.Inspector.GetTaskInfo(config.DEFAULT_GDPR_QUEUE, taskID)
	require.NoError(t, err)
	require.Equal(t, asynq.TaskStateArchived, info.State)

	require.NoError(t, q.EnqueueGdprAnonymization(context.Background(), "cus_1"))

	info, err = q.Inspector.GetTaskInfo(config.DEFAULT_GDPR_QUEUE, taskID)
	require.NoError(t, err)
	assert.Equal(t, asynq.TaskStatePending, info.State)
}

func TestNewQueue_InvalidRedisURL(t *testing.T) {
	_, err := NewQueue(&config.Configuration{Redis: config.RedisConfig{Dns: "redis://:pw@[::1"}})
	assert.Error(t, err)
}

func TestScheduleAnonymization(t *testing.T) {
	q, _ := newTestQueue(t)
	b, _ := newMockBank()
	b.queue = q

	assert.NoError(t, b.ScheduleAnonymization(context.Background(), "cus_2"))
	_, err := q.Inspector.GetTaskInfo(config.DEFAULT_GDPR_QUEUE, gdprTaskID("cus_2"))
	assert.NoError(t, err)
}
