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
	"embed"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/blnkfinance/bank/config"
	"github.com/blnkfinance/bank/database"
	"github.com/blnkfinance/bank/internal/creditscore"
	redis_db "github.com/blnkfinance/bank/internal/redis-db"
	"github.com/blnkfinance/bank/model"
)

var tracer = otel.Tracer("bank")

//go:embed sql/*.sql
var SQLFiles embed.FS

// Bank is the back-office core: the account ledger, the customer lifecycle
// and the credit score aggregator. It keeps no rows between calls.
type Bank struct {
	datasource      database.IDataSource
	queue           *Queue
	redis           *redis_db.Redis
	providers       []creditscore.Provider
	providerTimeout time.Duration
}

// NewBank wires the datasource to redis, the GDPR queue and both credit
// score providers using the current configuration.
func NewBank(db database.IDataSource) (*Bank, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	redisClient, err := redis_db.NewRedisClient([]string{cfg.Redis.Dns}, cfg.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}

	queue, err := NewQueue(cfg)
	if err != nil {
		return nil, err
	}

	providers := []creditscore.Provider{
		creditscore.NewCsnuClient(cfg.CreditScore.Csnu.BaseUrl, cfg.CreditScore.Csnu.Token, nil),
		creditscore.NewScorexClient(cfg.CreditScore.Scorex.BaseUrl, cfg.CreditScore.Scorex.Token, nil),
	}

	return &Bank{
		datasource:      db,
		queue:           queue,
		redis:           redisClient,
		providers:       providers,
		providerTimeout: cfg.CreditScore.Timeout(),
	}, nil
}

// Redis returns the shared redis client, or nil when none was configured.
func (b *Bank) Redis() redis.UniversalClient {
	if b.redis == nil {
		return nil
	}
	return b.redis.Client()
}

// HealthReport is the per-dependency outcome of CheckHealth.
type HealthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// CheckHealth pings postgres and redis. It reports "ok" or the error text for
// each and returns false if either is down.
func (b *Bank) CheckHealth(ctx context.Context) (HealthReport, bool) {
	report := HealthReport{Status: "ok", Database: "ok", Redis: "ok"}
	healthy := true

	if err := b.datasource.Ping(ctx); err != nil {
		report.Database = err.Error()
		healthy = false
	}
	if b.redis != nil {
		if err := b.redis.Ping(ctx); err != nil {
			report.Redis = err.Error()
			healthy = false
		}
	}
	if !healthy {
		report.Status = "unavailable"
		logrus.WithFields(logrus.Fields{"database": report.Database, "redis": report.Redis}).Warn("health check failed")
	}
	return report, healthy
}

func pagination(pageSize, page int) (limit, offset int) {
	limit = model.PageSize(pageSize)
	return limit, model.Offset(limit, page)
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
