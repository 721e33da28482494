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

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blnkfinance/bank/config"
)

func TestNewCLI_Commands(t *testing.T) {
	cli := NewCLI()

	var names []string
	for _, c := range cli.cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"start", "workers", "migrate", "config"}, names)

	migrateCmd, _, err := cli.cmd.Find([]string{"migrate", "up"})
	require.NoError(t, err)
	assert.Equal(t, "up", migrateCmd.Name())
}

func TestInitializeWorkerServer(t *testing.T) {
	conf := &config.Configuration{
		Redis: config.RedisConfig{Dns: "localhost:6379"},
		Queue: config.QueueConfig{GdprQueue: config.DEFAULT_GDPR_QUEUE, Concurrency: 2, RedeliveryDelayMs: 500},
	}

	queues := initializeQueues(conf)
	assert.Equal(t, map[string]int{config.DEFAULT_GDPR_QUEUE: 1}, queues)

	srv, err := initializeWorkerServer(conf, queues)
	require.NoError(t, err)
	assert.NotNil(t, srv)

	conf.Redis.Dns = ""
	_, err = initializeWorkerServer(conf, queues)
	assert.Error(t, err)
}

func TestInitializeObservability_Disabled(t *testing.T) {
	shutdown, err := initializeObservability(context.Background(), &config.Configuration{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
