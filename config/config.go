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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT                 = "5001"
	DEFAULT_GDPR_QUEUE           = "gdpr.customer.v1"
	DEFAULT_REDELIVERY_DELAY_MS  = 1000
	DEFAULT_MAX_RETRY            = 25
	DEFAULT_WORKER_CONCURRENCY   = 5
	DEFAULT_CREDIT_SCORE_TIMEOUT = 10
	DEFAULT_IDEMPOTENCY_TTL_SEC  = 86400
	DEFAULT_MONITORING_PORT      = "5004"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL    bool   `json:"ssl" envconfig:"BANK_SERVER_SSL"`
	Domain string `json:"domain" envconfig:"BANK_SERVER_SSL_DOMAIN"`
	Email  string `json:"ssl_email" envconfig:"BANK_SERVER_SSL_EMAIL"`
	Port   string `json:"port" envconfig:"BANK_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"BANK_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"BANK_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"BANK_REDIS_SKIP_TLS_VERIFY"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"BANK_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"BANK_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"BANK_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type QueueConfig struct {
	GdprQueue         string `json:"gdpr_queue" envconfig:"BANK_QUEUE_GDPR_QUEUE"`
	RedeliveryDelayMs int    `json:"redelivery_delay_ms" envconfig:"BANK_QUEUE_REDELIVERY_DELAY_MS"`
	MaxRetry          int    `json:"max_retry" envconfig:"BANK_QUEUE_MAX_RETRY"`
	Concurrency       int    `json:"concurrency" envconfig:"BANK_QUEUE_CONCURRENCY"`
	MonitoringPort    string `json:"monitoring_port" envconfig:"BANK_QUEUE_MONITORING_PORT"`
}

// RedeliveryDelay is the fixed wait before a failed task is handed out again.
func (q QueueConfig) RedeliveryDelay() time.Duration {
	return time.Duration(q.RedeliveryDelayMs) * time.Millisecond
}

type CreditScoreProvider struct {
	BaseUrl string `json:"base_url"`
	Token   string `json:"token"`
}

type CreditScoreConfig struct {
	Csnu       CreditScoreProvider `json:"csnu"`
	Scorex     CreditScoreProvider `json:"scorex"`
	CsnuUrl    string              `json:"-" envconfig:"BANK_CREDIT_SCORE_CSNU_URL"`
	CsnuToken  string              `json:"-" envconfig:"BANK_CREDIT_SCORE_CSNU_TOKEN"`
	ScorexUrl  string              `json:"-" envconfig:"BANK_CREDIT_SCORE_SCOREX_URL"`
	ScorexKey  string              `json:"-" envconfig:"BANK_CREDIT_SCORE_SCOREX_TOKEN"`
	TimeoutSec int                 `json:"timeout_sec" envconfig:"BANK_CREDIT_SCORE_TIMEOUT_SEC"`
}

// Timeout bounds a single provider call.
func (c CreditScoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

type IdempotencyConfig struct {
	TTLSec int `json:"ttl_sec" envconfig:"BANK_IDEMPOTENCY_TTL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"BANK_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName     string            `json:"project_name" envconfig:"BANK_PROJECT_NAME"`
	EnableTelemetry bool              `json:"enable_telemetry" envconfig:"BANK_ENABLE_TELEMETRY"`
	OtelEndpoint    string            `json:"otel_endpoint" envconfig:"BANK_OTEL_ENDPOINT"`
	Server          ServerConfig      `json:"server"`
	DataSource      DataSourceConfig  `json:"data_source"`
	Redis           RedisConfig       `json:"redis"`
	Queue           QueueConfig       `json:"queue"`
	CreditScore     CreditScoreConfig `json:"credit_score"`
	Idempotency     IdempotencyConfig `json:"idempotency"`
	Notification    Notification      `json:"notification"`
	RateLimit       RateLimitConfig   `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("bank", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called bank.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Bank Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	cnf.applyQueueDefaults()
	cnf.applyCreditScoreDefaults()

	if cnf.Idempotency.TTLSec <= 0 {
		cnf.Idempotency.TTLSec = DEFAULT_IDEMPOTENCY_TTL_SEC
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

func (cnf *Configuration) applyQueueDefaults() {
	if cnf.Queue.GdprQueue == "" {
		cnf.Queue.GdprQueue = DEFAULT_GDPR_QUEUE
	}
	if cnf.Queue.RedeliveryDelayMs <= 0 {
		cnf.Queue.RedeliveryDelayMs = DEFAULT_REDELIVERY_DELAY_MS
	}
	if cnf.Queue.MaxRetry <= 0 {
		cnf.Queue.MaxRetry = DEFAULT_MAX_RETRY
	}
	if cnf.Queue.Concurrency <= 0 {
		cnf.Queue.Concurrency = DEFAULT_WORKER_CONCURRENCY
	}
	if cnf.Queue.MonitoringPort == "" {
		cnf.Queue.MonitoringPort = DEFAULT_MONITORING_PORT
	}
}

// applyCreditScoreDefaults folds the flat env overrides into the provider
// sections and sets the call timeout.
func (cnf *Configuration) applyCreditScoreDefaults() {
	cs := &cnf.CreditScore
	if cs.CsnuUrl != "" {
		cs.Csnu.BaseUrl = cs.CsnuUrl
	}
	if cs.CsnuToken != "" {
		cs.Csnu.Token = cs.CsnuToken
	}
	if cs.ScorexUrl != "" {
		cs.Scorex.BaseUrl = cs.ScorexUrl
	}
	if cs.ScorexKey != "" {
		cs.Scorex.Token = cs.ScorexKey
	}
	cs.Csnu.BaseUrl = strings.TrimRight(strings.TrimSpace(cs.Csnu.BaseUrl), "/")
	cs.Scorex.BaseUrl = strings.TrimRight(strings.TrimSpace(cs.Scorex.BaseUrl), "/")

	if cs.TimeoutSec <= 0 {
		cs.TimeoutSec = DEFAULT_CREDIT_SCORE_TIMEOUT
	}
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
