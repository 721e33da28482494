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

import (
	"strings"
	"time"
)

const AnonymizedValue = "Anonymized"

// AnonymizedBirthdate replaces the real birthdate of anonymized customers.
var AnonymizedBirthdate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

type Address struct {
	Street     string  `json:"street"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
	PostalCode *string `json:"postal_code,omitempty"`
}

// OneLine renders the address as "street, postalCode, city, country",
// leaving out the postal code when there is none.
func (a Address) OneLine() string {
	parts := []string{a.Street}
	if a.PostalCode != nil && *a.PostalCode != "" {
		parts = append(parts, *a.PostalCode)
	}
	parts = append(parts, a.City, a.Country)
	return strings.Join(parts, ", ")
}

type Customer struct {
	CustomerID string    `json:"customer_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Birthdate  time.Time `json:"birthdate"`
	Gender     *string   `json:"gender,omitempty"`
	Address    Address   `json:"address"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

func (c Customer) IsActive() bool {
	return c.Status == StatusActive
}

// Anonymize returns a copy of the customer with every personal field replaced
// by its sentinel. The id, status and creation time are kept.
func (c Customer) Anonymize() Customer {
	anon := c
	anon.FirstName = AnonymizedValue
	anon.LastName = AnonymizedValue
	anon.Birthdate = AnonymizedBirthdate
	anon.Gender = nil
	anon.Address = Address{
		Street:  AnonymizedValue,
		City:    AnonymizedValue,
		Country: AnonymizedValue,
	}
	anon.Email = nil
	anon.Phone = nil
	return anon
}
