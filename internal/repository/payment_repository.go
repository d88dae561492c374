package repository

import (
	"context"
	"fmt"

	"github.com/unessa/fundraiser-api/internal/database"
	"github.com/unessa/fundraiser-api/internal/model"
)

// PaymentRepository handles donation persistence
type PaymentRepository struct {
	db *database.Postgres
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *database.Postgres) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment and credits the referring fundraiser's ledger in
// one transaction. A referral name pointing at no user rolls everything back.
func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO payments (id, ref_name, name, email, phone, amount, anonymous, address, order_id, payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, query,
		p.ID,
		p.RefName,
		p.Name,
		p.Email,
		p.Phone,
		p.Amount,
		p.Anonymous,
		p.Address,
		p.OrderID,
		p.PaymentID,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if p.RefName != "" {
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET amount = amount + $1, updated_at = $2 WHERE username = $3`,
			p.Amount, p.CreatedAt, p.RefName)
		if err != nil {
			return fmt.Errorf("failed to credit referrer: %w", err)
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}
	return nil
}

// ListByRefName returns payments referred by the given username, newest
// first. An empty refName returns all payments.
func (r *PaymentRepository) ListByRefName(ctx context.Context, refName string) ([]*model.Payment, error) {
	query := `
		SELECT id, ref_name, name, email, phone, amount, anonymous, address, order_id, payment_id, created_at
		FROM payments
	`
	args := []interface{}{}
	if refName != "" {
		query += ` WHERE ref_name = $1`
		args = append(args, refName)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		var p model.Payment
		err := rows.Scan(
			&p.ID,
			&p.RefName,
			&p.Name,
			&p.Email,
			&p.Phone,
			&p.Amount,
			&p.Anonymous,
			&p.Address,
			&p.OrderID,
			&p.PaymentID,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// ExistsByPaymentID checks whether a gateway payment ID was already recorded.
// The webhook uses this to stay idempotent across gateway retries.
func (r *PaymentRepository) ExistsByPaymentID(ctx context.Context, paymentID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payments WHERE payment_id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, paymentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}
	return exists, nil
}
