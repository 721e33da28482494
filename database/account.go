package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/blnkfinance/bank/internal/apierror"
	"github.com/blnkfinance/bank/model"
)

var tracer = otel.Tracer("bank.database")

const accountColumns = `account_id, customer_id, balance, currency, type, status, created_at, updated_at, version`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		acc       model.Account
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&acc.AccountID,
		&acc.CustomerID,
		&acc.Balance,
		&acc.Currency,
		&acc.Type,
		&acc.Status,
		&acc.CreatedAt,
		&updatedAt,
		&acc.Version,
	)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		acc.UpdatedAt = &t
	}
	return &acc, nil
}

func scanAccounts(rows *sql.Rows) ([]model.Account, error) {
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan account")
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate accounts")
	}
	return accounts, nil
}

// FindAccount retrieves an active account by ID.
func (d Datasource) FindAccount(ctx context.Context, id string) (*model.Account, error) {
	ctx, span := tracer.Start(ctx, "FindAccount")
	defer span.End()

	row := d.conn(ctx).QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM bank.accounts
		WHERE account_id = $1 AND status = $2
	`, id, model.StatusActive)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAccountNotFound(id)
		}
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account", errors.Wrap(err, id))
	}
	return acc, nil
}

// UpsertAccountIfVersion inserts acc, or replaces the stored row when its
// version still equals expectedVersion. A version mismatch writes nothing and
// returns AccountVersionOutOfDate. Owner, currency and type never change.
func (d Datasource) UpsertAccountIfVersion(ctx context.Context, acc model.Account, expectedVersion int64) (*model.Account, error) {
	ctx, span := tracer.Start(ctx, "UpsertAccountIfVersion")
	defer span.End()

	row := d.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO bank.accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (account_id) DO UPDATE SET
			balance = EXCLUDED.balance,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version
		WHERE bank.accounts.version = $10
		RETURNING `+accountColumns,
		acc.AccountID,
		acc.CustomerID,
		acc.Balance,
		acc.Currency,
		acc.Type,
		acc.Status,
		acc.CreatedAt,
		acc.UpdatedAt,
		acc.Version,
		expectedVersion,
	)

	saved, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAccountVersionOutOfDate(acc.AccountID)
		}
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to save account", errors.Wrap(err, acc.AccountID))
	}
	return saved, nil
}

// GetActiveAccounts lists active accounts ordered by creation time.
func (d Datasource) GetActiveAccounts(ctx context.Context, limit, offset int) ([]model.Account, error) {
	ctx, span := tracer.Start(ctx, "GetActiveAccounts")
	defer span.End()

	rows, err := d.conn(ctx).QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM bank.accounts
		WHERE status = $1
		ORDER BY created_at, account_id
		LIMIT $2 OFFSET $3
	`, model.StatusActive, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve accounts", err)
	}

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve accounts", err)
	}
	return accounts, nil
}

// GetAccountsByCustomer lists every account of a customer, inactive ones included.
func (d Datasource) GetAccountsByCustomer(ctx context.Context, customerID string) ([]model.Account, error) {
	ctx, span := tracer.Start(ctx, "GetAccountsByCustomer")
	defer span.End()

	rows, err := d.conn(ctx).QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM bank.accounts
		WHERE customer_id = $1
		ORDER BY created_at, account_id
	`, customerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve customer accounts", err)
	}

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve customer accounts", err)
	}
	return accounts, nil
}

// SetAccountStatus moves one account to status. Rows already in that status
// are left alone, so a zero count means absent or unchanged.
func (d Datasource) SetAccountStatus(ctx context.Context, id string, status model.Status) (int64, error) {
	ctx, span := tracer.Start(ctx, "SetAccountStatus")
	defer span.End()

	result, err := d.conn(ctx).ExecContext(ctx, `
		UPDATE bank.accounts
		SET status = $2, version = version + 1, updated_at = $3
		WHERE account_id = $1 AND status <> $2
	`, id, status, time.Now())
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update account status", err)
	}
	return rowsAffected(result)
}

// SetAccountStatusByCustomer moves every account of a customer to status.
func (d Datasource) SetAccountStatusByCustomer(ctx context.Context, customerID string, status model.Status) (int64, error) {
	ctx, span := tracer.Start(ctx, "SetAccountStatusByCustomer")
	defer span.End()

	result, err := d.conn(ctx).ExecContext(ctx, `
		UPDATE bank.accounts
		SET status = $2, version = version + 1, updated_at = $3
		WHERE customer_id = $1 AND status <> $2
	`, customerID, status, time.Now())
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update customer accounts", err)
	}
	return rowsAffected(result)
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	return n, nil
}
