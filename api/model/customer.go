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
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/blnkfinance/bank/model"
)

const BirthdateLayout = "2006-01-02"

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)
	phonePattern = regexp.MustCompile(`^\+[0-9 ]*$`)

	earliestBirthdate = time.Date(1910, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// notBlank rejects strings made only of whitespace. nil and empty values are
// left to Required.
var notBlank = validation.By(func(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
})

type Address struct {
	Street     string  `json:"street"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
	PostalCode *string `json:"postal_code"`
}

func (a Address) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Street, validation.Required, notBlank),
		validation.Field(&a.City, validation.Required, notBlank),
		validation.Field(&a.Country, validation.Required, notBlank),
		validation.Field(&a.PostalCode, validation.NilOrNotEmpty, notBlank),
	)
}

// CustomerRequest is the body of POST /customers and PUT /customers/:id.
type CustomerRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Birthdate string  `json:"birthdate"`
	Gender    *string `json:"gender"`
	Address   Address `json:"address"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

func (r *CustomerRequest) ValidateCustomer() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FirstName, validation.Required, notBlank),
		validation.Field(&r.LastName, validation.Required, notBlank),
		validation.Field(&r.Birthdate, validation.Required,
			validation.Date(BirthdateLayout).
				Min(earliestBirthdate).
				Max(time.Now()).
				Error("must be a date formatted as YYYY-MM-DD").
				RangeError("must not be in the future or before 1910-01-01")),
		validation.Field(&r.Address),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Match(emailPattern).Error("must be a valid email address")),
		validation.Field(&r.Phone, validation.NilOrNotEmpty, validation.Match(phonePattern).Error("must start with + and contain only digits and spaces")),
	)
}

// ToCustomer converts a validated request. id is empty for new customers.
func (r *CustomerRequest) ToCustomer(id string) model.Customer {
	birthdate, _ := time.Parse(BirthdateLayout, r.Birthdate)
	return model.Customer{
		CustomerID: id,
		FirstName:  strings.TrimSpace(r.FirstName),
		LastName:   strings.TrimSpace(r.LastName),
		Birthdate:  birthdate,
		Gender:     r.Gender,
		Address: model.Address{
			Street:     r.Address.Street,
			City:       r.Address.City,
			Country:    r.Address.Country,
			PostalCode: r.Address.PostalCode,
		},
		Email: r.Email,
		Phone: r.Phone,
	}
}

// CustomerQuery binds the query string of GET /customers.
type CustomerQuery struct {
	Pagination
	Name string `form:"name"`
}

type CustomerList struct {
	Customers []model.Customer `json:"customers"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
}
