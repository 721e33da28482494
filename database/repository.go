package database

import (
	"context"

	"github.com/blnkfinance/bank/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	account    // Ledger store
	customer   // Customer store
	unitOfWork // Transaction boundary spanning both stores
	Ping(ctx context.Context) error
}

// account defines the ledger store. Reads never cache; writes are conditional.
type account interface {
	FindAccount(ctx context.Context, id string) (*model.Account, error)                                           // Retrieves an active account by ID
	UpsertAccountIfVersion(ctx context.Context, acc model.Account, expectedVersion int64) (*model.Account, error) // Writes acc only if the stored version equals expectedVersion
	GetActiveAccounts(ctx context.Context, limit, offset int) ([]model.Account, error)                            // Lists active accounts in creation order
	GetAccountsByCustomer(ctx context.Context, customerID string) ([]model.Account, error)                        // Lists every account owned by a customer
	SetAccountStatus(ctx context.Context, id string, status model.Status) (int64, error)                          // Changes one account's status, returns rows affected
	SetAccountStatusByCustomer(ctx context.Context, customerID string, status model.Status) (int64, error)        // Changes the status of a customer's accounts, returns rows affected
}

// customer defines the customer store.
type customer interface {
	FindCustomer(ctx context.Context, id string, includeInactive bool) (*model.Customer, error)       // Retrieves a customer by ID
	GetActiveCustomers(ctx context.Context, name string, limit, offset int) ([]model.Customer, error) // Lists active customers, optionally filtered by name
	UpsertCustomer(ctx context.Context, c model.Customer) (*model.Customer, error)                    // Inserts or replaces a customer row
	SetCustomerStatus(ctx context.Context, id string, status model.Status) (int64, error)             // Changes a customer's status, returns rows affected
	LockCustomer(ctx context.Context, id string) (model.Status, error)                                // Row-locks a customer until the transaction ends
}

// unitOfWork runs fn inside a single database transaction.
type unitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
