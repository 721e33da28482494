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

package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/blnkfinance/bank/internal/cache"
	redlock "github.com/blnkfinance/bank/internal/lock"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"
	maxKeyLength      = 255
	inFlightTTL       = 30 * time.Second
)

// StoredResponse is what gets replayed for a repeated idempotency key.
type StoredResponse struct {
	Status int
	Body   []byte
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func idempotencyKey(c *gin.Context, key string) string {
	return "idempotency:" + c.Request.Method + ":" + c.FullPath() + ":" + key
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key seen within ttl. Requests without the header pass through.
// Server errors are not stored so the client can retry them. With a redis
// client, a repeat that arrives while the first request is still running is
// rejected with 409.
func Idempotency(store cache.Cache, client redis.UniversalClient, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}
		if len(key) > maxKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": IdempotencyHeader + " is too long"})
			return
		}

		cacheKey := idempotencyKey(c, key)
		var saved StoredResponse
		found, err := store.Get(c.Request.Context(), cacheKey, &saved)
		if err != nil {
			logrus.WithError(err).Warn("idempotency lookup failed, processing request")
		}
		if found {
			c.Header(ReplayedHeader, "true")
			c.Data(saved.Status, "application/json; charset=utf-8", saved.Body)
			c.Abort()
			return
		}

		if client != nil {
			locker := redlock.NewLocker(client, "idempotency-lock:"+cacheKey, uuid.NewString())
			err := locker.Lock(c.Request.Context(), inFlightTTL)
			switch {
			case errors.Is(err, redlock.ErrLockHeld):
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "a request with this " + IdempotencyHeader + " is still in progress"})
				return
			case err != nil:
				logrus.WithError(err).Warn("idempotency lock unavailable, processing request")
			default:
				defer func() {
					if err := locker.Unlock(context.WithoutCancel(c.Request.Context())); err != nil {
						logrus.WithError(err).Warn("failed to release idempotency lock")
					}
				}()
			}
		}

		writer := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		ctx := context.WithoutCancel(c.Request.Context())
		if err := store.Set(ctx, cacheKey, StoredResponse{Status: status, Body: writer.body.Bytes()}, ttl); err != nil {
			logrus.WithError(err).Warn("failed to store idempotent response")
		}
	}
}
