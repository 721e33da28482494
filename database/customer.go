package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/blnkfinance/bank/internal/apierror"
	"github.com/blnkfinance/bank/model"
)

const customerColumns = `customer_id, first_name, last_name, birthdate, gender, street, city, country, postal_code, email, phone, status, created_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanCustomer(row rowScanner) (*model.Customer, error) {
	var (
		c                                model.Customer
		gender, postalCode, email, phone sql.NullString
	)
	err := row.Scan(
		&c.CustomerID,
		&c.FirstName,
		&c.LastName,
		&c.Birthdate,
		&gender,
		&c.Address.Street,
		&c.Address.City,
		&c.Address.Country,
		&postalCode,
		&email,
		&phone,
		&c.Status,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Gender = nullStringPtr(gender)
	c.Address.PostalCode = nullStringPtr(postalCode)
	c.Email = nullStringPtr(email)
	c.Phone = nullStringPtr(phone)
	return &c, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// FindCustomer retrieves a customer by ID. Inactive customers are only
// returned when includeInactive is set.
func (d Datasource) FindCustomer(ctx context.Context, id string, includeInactive bool) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "FindCustomer")
	defer span.End()

	row := d.conn(ctx).QueryRowContext(ctx, `
		SELECT `+customerColumns+`
		FROM bank.customers
		WHERE customer_id = $1 AND ($2 OR status = $3)
	`, id, includeInactive, model.StatusActive)

	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewCustomerNotFound(id)
		}
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve customer", errors.Wrap(err, id))
	}
	return c, nil
}

// LockCustomer takes a row lock on a customer for the rest of the enclosing
// transaction and returns the customer's status, whatever it is.
func (d Datasource) LockCustomer(ctx context.Context, id string) (model.Status, error) {
	ctx, span := tracer.Start(ctx, "LockCustomer")
	defer span.End()

	var status model.Status
	err := d.conn(ctx).QueryRowContext(ctx, `
		SELECT status
		FROM bank.customers
		WHERE customer_id = $1
		FOR UPDATE
	`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apierror.NewCustomerNotFound(id)
		}
		span.RecordError(err)
		return "", apierror.NewAPIError(apierror.ErrInternalServer, "Failed to lock customer", errors.Wrap(err, id))
	}
	return status, nil
}

// GetActiveCustomers lists active customers in creation order. A non-empty
// name keeps only customers whose full name contains it, ignoring case.
func (d Datasource) GetActiveCustomers(ctx context.Context, name string, limit, offset int) ([]model.Customer, error) {
	ctx, span := tracer.Start(ctx, "GetActiveCustomers")
	defer span.End()

	rows, err := d.conn(ctx).QueryContext(ctx, `
		SELECT `+customerColumns+`
		FROM bank.customers
		WHERE status = $1 AND ($2 = '' OR full_name ILIKE '%' || $2 || '%')
		ORDER BY created_at, customer_id
		LIMIT $3 OFFSET $4
	`, model.StatusActive, likeEscaper.Replace(strings.TrimSpace(name)), limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve customers", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan customer data", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over customers", err)
	}
	return customers, nil
}

// UpsertCustomer inserts c or replaces every mutable column of the stored row.
func (d Datasource) UpsertCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	ctx, span := tracer.Start(ctx, "UpsertCustomer")
	defer span.End()

	row := d.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO bank.customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (customer_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			birthdate = EXCLUDED.birthdate,
			gender = EXCLUDED.gender,
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			postal_code = EXCLUDED.postal_code,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			status = EXCLUDED.status
		RETURNING `+customerColumns,
		c.CustomerID,
		c.FirstName,
		c.LastName,
		c.Birthdate,
		c.Gender,
		c.Address.Street,
		c.Address.City,
		c.Address.Country,
		c.Address.PostalCode,
		c.Email,
		c.Phone,
		c.Status,
		c.CreatedAt,
	)

	saved, err := scanCustomer(row)
	if err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to save customer", errors.Wrap(err, c.CustomerID))
	}
	return saved, nil
}

// SetCustomerStatus moves a customer to status. A zero count means the
// customer is absent or already in that status.
func (d Datasource) SetCustomerStatus(ctx context.Context, id string, status model.Status) (int64, error) {
	ctx, span := tracer.Start(ctx, "SetCustomerStatus")
	defer span.End()

	result, err := d.conn(ctx).ExecContext(ctx, `
		UPDATE bank.customers
		SET status = $2
		WHERE customer_id = $1 AND status <> $2
	`, id, status)
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update customer status", err)
	}
	return rowsAffected(result)
}
