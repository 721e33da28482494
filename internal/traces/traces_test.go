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

package traces

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	otellog "go.opentelemetry.io/otel/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupOTelSDK(t *testing.T) {
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	shutdown, err := SetupOTelSDK(context.Background(), "bank-test", "localhost:4318")
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, shutdown(ctx))
	assert.NoError(t, shutdown(ctx))
}

func TestRecordFor(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &logrus.Entry{
		Time:    at,
		Level:   logrus.WarnLevel,
		Message: "idempotency lookup failed",
		Data: logrus.Fields{
			"customer_id": "cus_1",
			"error":       errors.New("redis down"),
			"retried":     3,
		},
	}

	rec := recordFor(entry)
	assert.Equal(t, at, rec.Timestamp())
	assert.Equal(t, "idempotency lookup failed", rec.Body().AsString())
	assert.Equal(t, otellog.SeverityWarn, rec.Severity())
	assert.Equal(t, "warning", rec.SeverityText())

	attrs := map[string]string{}
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	assert.Equal(t, map[string]string{"customer_id": "cus_1", "error": "redis down", "retried": "3"}, attrs)
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		level    logrus.Level
		expected otellog.Severity
	}{
		{logrus.TraceLevel, otellog.SeverityTrace},
		{logrus.DebugLevel, otellog.SeverityDebug},
		{logrus.InfoLevel, otellog.SeverityInfo},
		{logrus.WarnLevel, otellog.SeverityWarn},
		{logrus.ErrorLevel, otellog.SeverityError},
		{logrus.FatalLevel, otellog.SeverityFatal},
		{logrus.PanicLevel, otellog.SeverityFatal},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, severityFor(tt.level))
		})
	}
}

func TestLogHook_Fire(t *testing.T) {
	hook := NewLogHook("bank-test")
	assert.Equal(t, logrus.AllLevels, hook.Levels())
	assert.NoError(t, hook.Fire(&logrus.Entry{Message: "no context", Level: logrus.InfoLevel}))
}
