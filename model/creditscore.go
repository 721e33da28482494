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

package model

type Recommendation string

const (
	RecommendationApprove Recommendation = "APPROVE"
	RecommendationMaybe   Recommendation = "MAYBE"
	RecommendationReject  Recommendation = "REJECT"
)

// CreditScore is computed per request and never stored.
type CreditScore struct {
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
}

// RecommendationFor maps a blended score to its tier.
func RecommendationFor(score int) Recommendation {
	switch {
	case score >= 80 && score <= 100:
		return RecommendationApprove
	case score >= 60 && score <= 79:
		return RecommendationMaybe
	default:
		return RecommendationReject
	}
}

// NewCreditScore averages the provider scores, rounding down.
func NewCreditScore(scores ...int) CreditScore {
	if len(scores) == 0 {
		return CreditScore{Score: 0, Recommendation: RecommendationReject}
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := sum / len(scores)
	return CreditScore{Score: avg, Recommendation: RecommendationFor(avg)}
}
