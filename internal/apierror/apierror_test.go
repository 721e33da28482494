package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/blnkfinance/bank/internal/apierror"
	"github.com/stretchr/testify/assert"
)

func TestNewAPIError(t *testing.T) {
	details := "Some internal error details"
	apiErr := apierror.NewAPIError(apierror.ErrInternalServer, "Something went wrong", details)

	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, details, apiErr.Details)
	assert.Equal(t, "INTERNAL_SERVER_ERROR: Something went wrong", apiErr.Error())
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"api not found", apierror.NewAPIError(apierror.ErrNotFound, "missing", nil), http.StatusNotFound},
		{"api conflict", apierror.NewAPIError(apierror.ErrConflict, "conflict", nil), http.StatusConflict},
		{"api bad request", apierror.NewAPIError(apierror.ErrBadRequest, "bad", nil), http.StatusBadRequest},
		{"api invalid input", apierror.NewAPIError(apierror.ErrInvalidInput, "invalid", nil), http.StatusBadRequest},
		{"api internal", apierror.NewAPIError(apierror.ErrInternalServer, "boom", nil), http.StatusInternalServerError},
		{"customer not found", apierror.NewCustomerNotFound("cus_1"), http.StatusNotFound},
		{"account not found", apierror.NewAccountNotFound("acc_1"), http.StatusNotFound},
		{"outdated version", apierror.NewAccountVersionOutOfDate("acc_1"), http.StatusBadRequest},
		{"currency", apierror.NewMismatchedCurrency("acc_1", "EUR", "USD"), http.StatusBadRequest},
		{"funds", apierror.NewInsufficientFunds("acc_1"), http.StatusBadRequest},
		{"deposit amount", apierror.NewInvalidDepositAmount("acc_1", "-1"), http.StatusBadRequest},
		{"withdraw amount", apierror.NewInvalidWithdrawAmount("acc_1", "0"), http.StatusBadRequest},
		{"active anonymization", apierror.NewActiveCustomerAnonymization("cus_1"), http.StatusBadRequest},
		{"provider client", apierror.NewThirdPartyFailure("CSNU", apierror.ProviderClientError, "bad"), http.StatusBadRequest},
		{"provider server", apierror.NewThirdPartyFailure("Scorex", apierror.ProviderServerError, "down"), http.StatusInternalServerError},
		{"wrapped failure", fmt.Errorf("deposit: %w", apierror.NewAccountNotFound("acc_1")), http.StatusNotFound},
		{"plain error", errors.New("some error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apierror.MapErrorToHTTPStatus(tt.err))
		})
	}
}

func TestFailureMessages(t *testing.T) {
	assert.Equal(t, "Customer with id cus_1 not found", apierror.NewCustomerNotFound("cus_1").Error())
	assert.Equal(t, "Account with id acc_1 not found", apierror.NewAccountNotFound("acc_1").Error())
	assert.Equal(t, "Request has an outdated version for account acc_1", apierror.NewAccountVersionOutOfDate("acc_1").Error())
	assert.Equal(t, "Mismatched currency: Expected currency EUR, but got USD", apierror.NewMismatchedCurrency("acc_1", "EUR", "USD").Error())
	assert.Equal(t, "Insufficient funds in account with id acc_1", apierror.NewInsufficientFunds("acc_1").Error())
	assert.Equal(t, "Deposit amount must be positive, but received -5", apierror.NewInvalidDepositAmount("acc_1", "-5").Error())
	assert.Equal(t, "Withdraw amount must be positive, but received 0", apierror.NewInvalidWithdrawAmount("acc_1", "0").Error())
	assert.Equal(t, "Cannot anonymize an active customer: a customer with id cus_1 is still active", apierror.NewActiveCustomerAnonymization("cus_1").Error())
	assert.Equal(t, "Failed to retrieve credit score from third party: CSNU: Client error", apierror.NewThirdPartyFailure("CSNU", apierror.ProviderClientError, "Client error").Error())
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", apierror.NewInsufficientFunds("acc_1"))
	assert.True(t, apierror.IsKind(err, apierror.InsufficientFunds))
	assert.False(t, apierror.IsKind(err, apierror.AccountNotFound))
	assert.True(t, errors.Is(err, apierror.Failure{Kind: apierror.InsufficientFunds}))
	assert.False(t, apierror.IsKind(errors.New("x"), apierror.InsufficientFunds))
}
