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

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/blnkfinance/bank/model"
)

// GetCreditScore asks every provider for a score at the same time and blends
// the answers. The first provider failure cancels the remaining calls and is
// returned as is.
func (b *Bank) GetCreditScore(ctx context.Context, customerID string) (*model.CreditScore, error) {
	ctx, span := tracer.Start(ctx, "GetCreditScore")
	defer span.End()

	customer, err := b.datasource.FindCustomer(ctx, customerID, false)
	if err != nil {
		return nil, recordError(span, err)
	}

	scores := make([]int, len(b.providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, provider := range b.providers {
		g.Go(func() error {
			callCtx, cancel := b.providerContext(gctx)
			defer cancel()

			score, err := provider.GetCreditScore(callCtx, *customer)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, recordError(span, err)
	}

	result := model.NewCreditScore(scores...)
	logrus.WithFields(logrus.Fields{
		"customer_id":    customerID,
		"scores":         scores,
		"score":          result.Score,
		"recommendation": result.Recommendation,
	}).Info("credit score computed")
	return &result, nil
}

func (b *Bank) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.providerTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.providerTimeout)
}
