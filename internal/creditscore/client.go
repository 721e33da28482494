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

package creditscore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blnkfinance/bank/internal/apierror"
	"github.com/blnkfinance/bank/internal/request"
	"github.com/blnkfinance/bank/model"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultClientError = "Client error"
	defaultServerError = "Server error"
	birthdateLayout    = "2006-01-02"
)

// Provider is an external credit bureau returning a score in [0, 100].
type Provider interface {
	Name() string
	GetCreditScore(ctx context.Context, customer model.Customer) (int, error)
}

// ScoreParser extracts the score from a successful provider response.
type ScoreParser func(body []byte) (int, error)

// Client calls one credit bureau over HTTP. Failures come back as
// apierror.Failure values of kind ThirdPartyCreditScoreFailure.
type Client struct {
	name       string
	baseURL    string
	path       string
	token      string
	httpClient *http.Client
	parse      ScoreParser
}

type scoreRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Birthdate string `json:"birthdate"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func newScoreRequest(c model.Customer) scoreRequest {
	r := scoreRequest{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Birthdate: c.Birthdate.Format(birthdateLayout),
		Address:   c.Address.OneLine(),
	}
	if c.Email != nil {
		r.Email = *c.Email
	}
	if c.Phone != nil {
		r.Phone = *c.Phone
	}
	return r
}

func newClient(name, baseURL, path, token string, httpClient *http.Client, parse ScoreParser) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       path,
		token:      token,
		httpClient: httpClient,
		parse:      parse,
	}
}

func (c *Client) Name() string {
	return c.name
}

// GetCreditScore posts the customer to the bureau. 4xx answers are client
// failures; every other non-2xx answer, transport error or timeout is a
// server failure.
func (c *Client) GetCreditScore(ctx context.Context, customer model.Customer) (int, error) {
	payload, err := request.ToJsonReq(newScoreRequest(customer))
	if err != nil {
		return 0, c.failure(apierror.ProviderServerError, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, payload)
	if err != nil {
		return 0, c.failure(apierror.ProviderServerError, err.Error())
	}
	req.Header.Set("Authorization", request.BearerAuth(c.token))

	start := time.Now()
	resp, body, err := request.Call(c.httpClient, req)
	if err != nil {
		var netErr net.Error
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return 0, c.failure(apierror.ProviderServerError, "request timed out")
		}
		return 0, c.failure(apierror.ProviderServerError, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"provider":    c.name,
		"customer_id": customer.CustomerID,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("credit score provider responded")

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		score, err := c.parse(body)
		if err != nil {
			return 0, c.failure(apierror.ProviderServerError, fmt.Sprintf("invalid response: %v", err))
		}
		if score < 0 || score > 100 {
			return 0, c.failure(apierror.ProviderServerError, fmt.Sprintf("score %d out of range", score))
		}
		return score, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return 0, c.failure(apierror.ProviderClientError, messageOr(body, defaultClientError))
	default:
		return 0, c.failure(apierror.ProviderServerError, messageOr(body, defaultServerError))
	}
}

func (c *Client) failure(category apierror.ProviderCategory, msg string) error {
	f := apierror.NewThirdPartyFailure(c.name, category, msg)
	logrus.WithFields(logrus.Fields{
		"provider": c.name,
		"category": category,
	}).Error(f.Message)
	return f
}

func messageOr(body []byte, fallback string) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fallback
	}
	return msg
}
