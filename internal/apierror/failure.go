package apierror

import (
	"errors"
	"fmt"
)

// Kind tags a domain failure.
type Kind string

const (
	CustomerNotFound             Kind = "CUSTOMER_NOT_FOUND"
	AccountNotFound              Kind = "ACCOUNT_NOT_FOUND"
	AccountVersionOutOfDate      Kind = "ACCOUNT_VERSION_OUT_OF_DATE"
	MismatchedCurrency           Kind = "MISMATCHED_CURRENCY"
	InsufficientFunds            Kind = "INSUFFICIENT_FUNDS"
	InvalidDepositAmount         Kind = "INVALID_DEPOSIT_AMOUNT"
	InvalidWithdrawAmount        Kind = "INVALID_WITHDRAW_AMOUNT"
	ActiveCustomerAnonymization  Kind = "ACTIVE_CUSTOMER_ANONYMIZATION"
	ThirdPartyCreditScoreFailure Kind = "THIRD_PARTY_CREDIT_SCORE_FAILURE"
)

// ProviderCategory separates provider errors caused by our request from
// errors on the provider side.
type ProviderCategory string

const (
	ProviderClientError ProviderCategory = "client"
	ProviderServerError ProviderCategory = "server"
)

// Failure is an expected, typed outcome of a core operation.
type Failure struct {
	Kind     Kind             `json:"kind"`
	ID       string           `json:"id,omitempty"`
	Expected string           `json:"expected,omitempty"`
	Actual   string           `json:"actual,omitempty"`
	Provider string           `json:"provider,omitempty"`
	Category ProviderCategory `json:"category,omitempty"`
	Message  string           `json:"message"`
}

func (f Failure) Error() string {
	return f.Message
}

// Class maps the failure to the caller-facing error class.
func (f Failure) Class() ErrorCode {
	switch f.Kind {
	case CustomerNotFound, AccountNotFound:
		return ErrNotFound
	case ThirdPartyCreditScoreFailure:
		if f.Category == ProviderClientError {
			return ErrBadRequest
		}
		return ErrInternalServer
	default:
		return ErrBadRequest
	}
}

// Is matches failures by kind so errors.Is(err, Failure{Kind: k}) works.
func (f Failure) Is(target error) bool {
	t, ok := target.(Failure)
	if !ok {
		return false
	}
	return t.Kind == f.Kind
}

// IsKind reports whether err carries a failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var f Failure
	return errors.As(err, &f) && f.Kind == kind
}

func NewCustomerNotFound(id string) Failure {
	return Failure{Kind: CustomerNotFound, ID: id, Message: fmt.Sprintf("Customer with id %s not found", id)}
}

func NewAccountNotFound(id string) Failure {
	return Failure{Kind: AccountNotFound, ID: id, Message: fmt.Sprintf("Account with id %s not found", id)}
}

func NewAccountVersionOutOfDate(id string) Failure {
	return Failure{Kind: AccountVersionOutOfDate, ID: id, Message: fmt.Sprintf("Request has an outdated version for account %s", id)}
}

func NewMismatchedCurrency(id, expected, actual string) Failure {
	return Failure{
		Kind:     MismatchedCurrency,
		ID:       id,
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf("Mismatched currency: Expected currency %s, but got %s", expected, actual),
	}
}

func NewInsufficientFunds(id string) Failure {
	return Failure{Kind: InsufficientFunds, ID: id, Message: fmt.Sprintf("Insufficient funds in account with id %s", id)}
}

func NewInvalidDepositAmount(id, amount string) Failure {
	return Failure{Kind: InvalidDepositAmount, ID: id, Actual: amount, Message: fmt.Sprintf("Deposit amount must be positive, but received %s", amount)}
}

func NewInvalidWithdrawAmount(id, amount string) Failure {
	return Failure{Kind: InvalidWithdrawAmount, ID: id, Actual: amount, Message: fmt.Sprintf("Withdraw amount must be positive, but received %s", amount)}
}

func NewActiveCustomerAnonymization(id string) Failure {
	return Failure{
		Kind:    ActiveCustomerAnonymization,
		ID:      id,
		Message: fmt.Sprintf("Cannot anonymize an active customer: a customer with id %s is still active", id),
	}
}

func NewThirdPartyFailure(provider string, category ProviderCategory, msg string) Failure {
	return Failure{
		Kind:     ThirdPartyCreditScoreFailure,
		Provider: provider,
		Category: category,
		Message:  fmt.Sprintf("Failed to retrieve credit score from third party: %s: %s", provider, msg),
	}
}
