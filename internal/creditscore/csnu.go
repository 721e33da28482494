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
	"net/http"
)

const CsnuName = "CSNU"

type csnuResponse struct {
	CustomerName string `json:"customerName"`
	Score        *int   `json:"score"`
}

// NewCsnuClient returns a client for the CSNU bureau.
func NewCsnuClient(baseURL, token string, httpClient *http.Client) *Client {
	return newClient(CsnuName, baseURL, "/credit-score", token, httpClient, parseCsnu)
}

func parseCsnu(body []byte) (int, error) {
	var res csnuResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return 0, err
	}
	if res.Score == nil {
		return 0, errMissingScore
	}
	return *res.Score, nil
}
