package models

import "time"

// Account types stored on app_user.
const (
	AccountTypeStandard = "Standard"
	AccountTypeOperator = "Operator"
)

// User is a person with a user account attached.
type User struct {
	ID          int64     `db:"user_id" json:"user_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
	AccountType string    `db:"account_type" json:"account_type"`
}
