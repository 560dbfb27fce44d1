package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargehub/internal/models"
)

// BillingRepository handles invoices, payment methods and payments.
type BillingRepository struct{}

// NewBillingRepository returns repository.
func NewBillingRepository() *BillingRepository {
	return &BillingRepository{}
}

// CreateInvoice inserts an invoice and returns its id.
func (r *BillingRepository) CreateInvoice(ctx context.Context, q Querier, inv *models.Invoice) (int64, error) {
	const query = `
		INSERT INTO invoice (user_id, issue_date, total_amount, user_subscription_id, charging_session_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING invoice_id
	`
	var id int64
	err := q.QueryRowContext(ctx, query,
		inv.UserID,
		inv.IssueDate,
		inv.TotalAmount,
		inv.SubscriptionID,
		inv.SessionID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListInvoicesByUser returns billing history joined with session and payment.
func (r *BillingRepository) ListInvoicesByUser(ctx context.Context, q Querier, userID int64) ([]models.InvoiceListing, error) {
	const query = `
		SELECT i.invoice_id, i.issue_date, i.total_amount,
		       COALESCE(cs.session_id, 0), COALESCE(cs.start_time, i.issue_date),
		       COALESCE(cs.end_time, i.issue_date), COALESCE(cs.energy_consumed, 0),
		       COALESCE(p.payment_id, 0), COALESCE(p.amount, 0),
		       COALESCE(p.status, ''), p.payment_date
		FROM invoice i
		LEFT JOIN charging_session cs ON i.charging_session_id = cs.session_id
		LEFT JOIN payment p ON i.invoice_id = p.invoice_id
		WHERE i.user_id = $1
		ORDER BY i.issue_date DESC, i.invoice_id DESC
	`
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.InvoiceListing
	for rows.Next() {
		var l models.InvoiceListing
		if err := rows.Scan(
			&l.InvoiceID,
			&l.IssueDate,
			&l.TotalAmount,
			&l.SessionID,
			&l.StartTime,
			&l.EndTime,
			&l.EnergyConsumed,
			&l.PaymentID,
			&l.PaymentAmount,
			&l.PaymentStatus,
			&l.PaymentDate,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

// FirstMethodID returns the user's first payment method by id, or ErrNotFound.
// Ordering by id keeps resolution deterministic.
func (r *BillingRepository) FirstMethodID(ctx context.Context, q Querier, userID int64) (int64, error) {
	const query = `
		SELECT payment_method_id
		FROM payment_method
		WHERE user_id = $1
		ORDER BY payment_method_id
		LIMIT 1
	`
	var id int64
	if err := q.QueryRowContext(ctx, query, userID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// CreateMethod inserts a payment method and returns its id.
func (r *BillingRepository) CreateMethod(ctx context.Context, q Querier, userID int64, methodType string) (int64, error) {
	const query = `
		INSERT INTO payment_method (user_id, method_type)
		VALUES ($1, $2)
		RETURNING payment_method_id
	`
	var id int64
	if err := q.QueryRowContext(ctx, query, userID, methodType).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateCreditCard attaches a card record to a payment method.
func (r *BillingRepository) CreateCreditCard(ctx context.Context, q Querier, methodID int64, cardNumber string, expiry time.Time, holder string) error {
	const query = `
		INSERT INTO credit_card (payment_method_id, card_number, expiry_date, card_holder_name)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.ExecContext(ctx, query, methodID, cardNumber, expiry, holder)
	return err
}

// ListMethodsByUser returns payment methods with masked display info.
func (r *BillingRepository) ListMethodsByUser(ctx context.Context, q Querier, userID int64) ([]models.PaymentMethod, error) {
	const query = `
		SELECT pm.payment_method_id, pm.user_id, pm.method_type,
		       CASE
		           WHEN pm.method_type = 'Credit Card' THEN CONCAT('****', RIGHT(cc.card_number, 4))
		           WHEN pm.method_type = 'Debit Card' THEN CONCAT('****', RIGHT(dc.card_number, 4))
		           WHEN pm.method_type = 'Wallet' THEN w.wallet_provider
		           ELSE 'Unknown'
		       END AS display_info
		FROM payment_method pm
		LEFT JOIN credit_card cc ON pm.payment_method_id = cc.payment_method_id
		LEFT JOIN debit_card dc ON pm.payment_method_id = dc.payment_method_id
		LEFT JOIN wallet w ON pm.payment_method_id = w.payment_method_id
		WHERE pm.user_id = $1
		ORDER BY pm.payment_method_id
	`
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.MethodType, &m.DisplayInfo); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return methods, nil
}

// CreatePendingPayment inserts a Pending payment for an invoice.
func (r *BillingRepository) CreatePendingPayment(ctx context.Context, q Querier, invoiceID, methodID int64, amount float64) (int64, error) {
	const query = `
		INSERT INTO payment (invoice_id, payment_method_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING payment_id
	`
	var id int64
	err := q.QueryRowContext(ctx, query, invoiceID, methodID, amount, models.PaymentPending).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CompletePayment marks a Pending payment Completed and stamps the payment
// date. Returns the settled payment. ErrNotFound covers both a missing
// payment and one that is not Pending.
func (r *BillingRepository) CompletePayment(ctx context.Context, q Querier, paymentID int64, when time.Time) (*models.Payment, error) {
	const query = `
		UPDATE payment
		SET status = $2, payment_date = $3
		WHERE payment_id = $1
		  AND status = $4
		RETURNING payment_id, invoice_id, payment_method_id, amount, status, payment_date
	`
	var p models.Payment
	err := q.QueryRowContext(ctx, query, paymentID, models.PaymentCompleted, when, models.PaymentPending).
		Scan(&p.ID, &p.InvoiceID, &p.MethodID, &p.Amount, &p.Status, &p.PaymentDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ReservationForPayment finds the Confirmed reservation linked to a payment
// through its invoice and session, newest first with id as tie-break.
func (r *BillingRepository) ReservationForPayment(ctx context.Context, q Querier, paymentID int64) (int64, error) {
	const query = `
		SELECT res.reservation_id
		FROM payment p
		JOIN invoice i ON p.invoice_id = i.invoice_id
		JOIN charging_session cs ON i.charging_session_id = cs.session_id
		JOIN reservation res ON res.charge_point_id = cs.charge_point_id
			AND res.user_id = i.user_id
			AND res.status = 'Confirmed'
		WHERE p.payment_id = $1
		ORDER BY res.start_time DESC, res.reservation_id DESC
		LIMIT 1
	`
	var id int64
	if err := q.QueryRowContext(ctx, query, paymentID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}
