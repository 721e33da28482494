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
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/blnkfinance/bank/api/model"
)

func (a Api) CreateCustomer(c *gin.Context) {
	var req model2.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateCustomer(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	customer, err := a.bank.CreateCustomer(c.Request.Context(), req.ToCustomer(""))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (a Api) GetCustomer(c *gin.Context) {
	customer, err := a.bank.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (a Api) GetAllCustomers(c *gin.Context) {
	var query model2.CustomerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := query.ValidatePagination(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	query.Normalize()

	customers, err := a.bank.GetAllCustomers(c.Request.Context(), query.Name, query.PageSize, query.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model2.CustomerList{Customers: customers, Page: query.Page, PageSize: query.PageSize})
}

func (a Api) UpdateCustomer(c *gin.Context) {
	var req model2.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateCustomer(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	customer, err := a.bank.UpdateCustomer(c.Request.Context(), req.ToCustomer(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer deactivates the customer and their accounts. With
// ?anonymize=true it also queues the GDPR anonymization of the customer, which
// for an already deactivated customer is all it does.
func (a Api) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if c.Query("anonymize") != "true" {
		if err := a.bank.DeleteCustomer(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
		return
	}

	if err := a.bank.DeleteAndAnonymizeCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Customer deleted successfully, anonymization scheduled"})
}

func (a Api) GetCreditScore(c *gin.Context) {
	score, err := a.bank.GetCreditScore(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}
