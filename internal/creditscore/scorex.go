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
	"encoding/json"
	"errors"
	"net/http"
)

const ScorexName = "Scorex"

var errMissingScore = errors.New("score missing from response")

type scorexResponse struct {
	Customer    string `json:"customer"`
	CreditScore *int   `json:"creditScore"`
}

// NewScorexClient returns a client for the Scorex bureau.
func NewScorexClient(baseURL, token string, httpClient *http.Client) *Client {
	return newClient(ScorexName, baseURL, "/creditscore", token, httpClient, parseScorex)
}

func parseScorex(body []byte) (int, error) {
	var res scorexResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return 0, err
	}
	if res.CreditScore == nil {
		return 0, errMissingScore
	}
	return *res.CreditScore, nil
}
