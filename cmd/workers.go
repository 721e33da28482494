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
	"fmt"
	"log"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.elastic.co/apm/module/apmlogrus/v2"

	"github.com/blnkfinance/bank"
	"github.com/blnkfinance/bank/config"
)

func init() {
	logrus.AddHook(&apmlogrus.Hook{})
}

func initializeQueues(conf *config.Configuration) map[string]int {
	return map[string]int{
		conf.Queue.GdprQueue: 1,
	}
}

// initializeWorkerServer builds the asynq server. Failed tasks come back after
// the configured redelivery delay until they run out of retries.
func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := bank.RedisClientOpt(conf)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		redisOption,
		asynq.Config{
			Concurrency:    conf.Queue.Concurrency,
			Queues:         queues,
			RetryDelayFunc: bank.GdprRetryDelay(conf.Queue.RedeliveryDelay()),
			ErrorHandler:   bank.GdprErrorHandler(),
			Logger:         logrus.StandardLogger(),
		},
	), nil
}

func initializeTaskHandlers(b *bankInstance, mux *asynq.ServeMux) {
	mux.HandleFunc(b.cnf.Queue.GdprQueue, b.bank.ProcessGdprEvent)
}

// workerCommands starts the GDPR event consumer and the asynqmon dashboard.
func workerCommands(b *bankInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start bank workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			conf := b.cnf

			shutdown, err := initializeObservability(ctx, conf)
			if err != nil {
				log.Fatal(err)
			}
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error during shutdown: %v", err)
				}
			}()

			srv, err := initializeWorkerServer(conf, initializeQueues(conf))
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(b, mux)

			redisOption, _ := bank.RedisClientOpt(conf)
			h := asynqmon.New(asynqmon.Options{
				RootPath:     "/monitoring",
				RedisConnOpt: redisOption,
			})

			go func() {
				monitoringAddr := fmt.Sprintf(":%s", conf.Queue.MonitoringPort)
				log.Printf("Asynqmon server listening on %s/monitoring", monitoringAddr)
				if err := http.ListenAndServe(monitoringAddr, h); err != nil {
					log.Fatalf("could not start asynqmon server: %v", err)
				}
			}()

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run server: %v", err)
			}
		},
	}

	return cmd
}
