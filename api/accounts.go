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
	"github.com/sirupsen/logrus"

	model2 "github.com/blnkfinance/bank/api/model"
	"github.com/blnkfinance/bank/model"
)

// accountResponse pairs the account with its owner. The account has already
// been read or written, so a failed owner lookup only drops the customer.
func (a Api) accountResponse(c *gin.Context, status int, account *model.Account) {
	customer, err := a.bank.GetAccountOwner(c.Request.Context(), account)
	if err != nil {
		logrus.WithError(err).WithField("account_id", account.AccountID).Warn("could not resolve account owner")
	}
	c.JSON(status, model2.AccountResponse{Account: account, Customer: customer})
}

func (a Api) CreateAccount(c *gin.Context) {
	var newAccount model2.CreateAccount
	if err := c.ShouldBindJSON(&newAccount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := newAccount.ValidateCreateAccount(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	account, err := a.bank.CreateAccount(c.Request.Context(), newAccount.CustomerID, newAccount.Currency, newAccount.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	a.accountResponse(c, http.StatusCreated, account)
}

func (a Api) GetAccount(c *gin.Context) {
	account, err := a.bank.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	a.accountResponse(c, http.StatusOK, account)
}

func (a Api) GetAllAccounts(c *gin.Context) {
	var page model2.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := page.ValidatePagination(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	page.Normalize()

	accounts, err := a.bank.GetAllAccounts(c.Request.Context(), page.PageSize, page.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model2.AccountList{Accounts: accounts, Page: page.Page, PageSize: page.PageSize})
}

func (a Api) GetAccountsByCustomer(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id is required. pass it as a query parameter"})
		return
	}

	customer, accounts, err := a.bank.GetCustomerWithAccounts(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model2.CustomerAccounts{Customer: customer, Accounts: accounts})
}

func (a Api) DeleteAccount(c *gin.Context) {
	if err := a.bank.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (a Api) Deposit(c *gin.Context) {
	a.move(c, true)
}

func (a Api) Withdraw(c *gin.Context) {
	a.move(c, false)
}

func (a Api) move(c *gin.Context, isDeposit bool) {
	var req model2.AccountMovement
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateAccountMovement(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	var (
		account *model.Account
		err     error
	)
	if isDeposit {
		account, err = a.bank.Deposit(c.Request.Context(), req.AccountID, *req.Amount, req.Currency, *req.Version)
	} else {
		account, err = a.bank.Withdraw(c.Request.Context(), req.AccountID, *req.Amount, req.Currency, *req.Version)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	a.accountResponse(c, http.StatusOK, account)
}
