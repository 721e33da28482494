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

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/blnkfinance/bank"
	"github.com/blnkfinance/bank/api/middleware"
	"github.com/blnkfinance/bank/config"
	"github.com/blnkfinance/bank/internal/apierror"
	"github.com/blnkfinance/bank/internal/cache"
)

type Api struct {
	bank           *bank.Bank
	router         *gin.Engine
	idempotency    cache.Cache
	locks          redis.UniversalClient
	idempotencyTTL time.Duration
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.GET("/health", a.Health)

	router.POST("/customers", a.CreateCustomer)
	router.GET("/customers", a.GetAllCustomers)
	router.GET("/customers/:id", a.GetCustomer)
	router.PUT("/customers/:id", a.UpdateCustomer)
	router.DELETE("/customers/:id", a.DeleteCustomer)
	router.GET("/customers/:id/credit-score", a.GetCreditScore)

	idempotent := middleware.Idempotency(a.idempotency, a.locks, a.idempotencyTTL)
	router.POST("/accounts", a.CreateAccount)
	router.POST("/accounts/deposit", idempotent, a.Deposit)
	router.POST("/accounts/withdraw", idempotent, a.Withdraw)
	router.GET("/accounts", a.GetAllAccounts)
	router.GET("/accounts/search", a.GetAccountsByCustomer)
	router.GET("/accounts/:id", a.GetAccount)
	router.DELETE("/accounts/:id", a.DeleteAccount)
	return router
}

func NewAPI(b *bank.Bank) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}

	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.EnableTelemetry {
		r.Use(middleware.Tracing(conf.ProjectName))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	var store cache.Cache
	client := b.Redis()
	if client != nil {
		store = cache.NewRedisCache(client)
	}

	return &Api{
		bank:           b,
		router:         r,
		idempotency:    store,
		locks:          client,
		idempotencyTTL: time.Duration(conf.Idempotency.TTLSec) * time.Second,
	}
}

// respondError writes err with the status its error class maps to. Typed
// failures also carry their kind.
func respondError(c *gin.Context, err error) {
	body := gin.H{
		"error": err.Error(),
		"code":  apierror.CodeOf(err),
	}
	var failure apierror.Failure
	if errors.As(err, &failure) {
		body["kind"] = failure.Kind
	}
	c.JSON(apierror.MapErrorToHTTPStatus(err), body)
}

func (a Api) Health(c *gin.Context) {
	report, healthy := a.bank.CheckHealth(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, report)
		return
	}
	c.JSON(http.StatusOK, report)
}
