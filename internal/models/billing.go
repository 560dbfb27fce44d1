package models

import "time"

// Payment statuses.
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
)

// Invoice is created exactly once per stopped session and never mutated.
type Invoice struct {
	ID             int64     `db:"invoice_id" json:"invoice_id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	IssueDate      time.Time `db:"issue_date" json:"issue_date"`
	TotalAmount    float64   `db:"total_amount" json:"total_amount"`
	SubscriptionID int64     `db:"user_subscription_id" json:"user_subscription_id"`
	SessionID      int64     `db:"charging_session_id" json:"charging_session_id"`
}

// InvoiceListing joins session and payment info for billing history.
type InvoiceListing struct {
	InvoiceID      int64      `db:"invoice_id" json:"invoice_id"`
	IssueDate      time.Time  `db:"issue_date" json:"issue_date"`
	TotalAmount    float64    `db:"total_amount" json:"total_amount"`
	SessionID      int64      `db:"session_id" json:"session_id"`
	StartTime      time.Time  `db:"start_time" json:"start_time"`
	EndTime        time.Time  `db:"end_time" json:"end_time"`
	EnergyConsumed float64    `db:"energy_consumed" json:"energy_consumed"`
	PaymentID      int64      `db:"payment_id" json:"payment_id"`
	PaymentAmount  float64    `db:"payment_amount" json:"payment_amount"`
	PaymentStatus  string     `db:"payment_status" json:"payment_status"`
	PaymentDate    *time.Time `db:"payment_date" json:"payment_date,omitempty"`
}

// PaymentMethod is a stored payment instrument.
type PaymentMethod struct {
	ID         int64  `db:"payment_method_id" json:"payment_method_id"`
	UserID     int64  `db:"user_id" json:"user_id"`
	MethodType string `db:"method_type" json:"method_type"`
	// DisplayInfo is a masked card number or wallet provider for the UI.
	DisplayInfo string `db:"display_info" json:"display_info"`
}

// Payment settles an invoice through a payment method. It starts Pending and
// becomes Completed through the simulated gateway.
type Payment struct {
	ID          int64      `db:"payment_id" json:"payment_id"`
	InvoiceID   int64      `db:"invoice_id" json:"invoice_id"`
	MethodID    int64      `db:"payment_method_id" json:"payment_method_id"`
	Amount      float64    `db:"amount" json:"amount"`
	Status      string     `db:"status" json:"status"`
	PaymentDate *time.Time `db:"payment_date" json:"payment_date,omitempty"`
}
