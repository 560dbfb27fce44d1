package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"chargehub/internal/models"
)

// UserRepository handles persons and user accounts.
type UserRepository struct{}

// NewUserRepository returns repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const userColumns = `
	p.person_id, p.first_name, p.last_name, p.email, p.phone, p.date_of_birth, u.account_type
`

// FindByEmail returns the user account behind an email, or ErrNotFound.
// A person row without an app_user row is not a user account.
func (r *UserRepository) FindByEmail(ctx context.Context, q Querier, email string) (*models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM person p
		JOIN app_user u ON p.person_id = u.user_id
		WHERE LOWER(p.email) = $1
	`
	return r.scanUser(q.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// GetByID returns the user account by id.
func (r *UserRepository) GetByID(ctx context.Context, q Querier, id int64) (*models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM person p
		JOIN app_user u ON p.person_id = u.user_id
		WHERE p.person_id = $1
	`
	return r.scanUser(q.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.DateOfBirth, &u.AccountType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EmailExists reports whether any person already uses the email.
func (r *UserRepository) EmailExists(ctx context.Context, q Querier, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM person WHERE LOWER(email) = $1)`
	var exists bool
	err := q.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CreatePerson inserts a person row and returns its id.
func (r *UserRepository) CreatePerson(ctx context.Context, q Querier, firstName, lastName, email, phone string, dateOfBirth time.Time) (int64, error) {
	const query = `
		INSERT INTO person (first_name, last_name, email, phone, date_of_birth)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING person_id
	`
	var id int64
	err := q.QueryRowContext(ctx, query, firstName, lastName, strings.ToLower(strings.TrimSpace(email)), phone, dateOfBirth).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CreateAccount attaches a user account to a person.
func (r *UserRepository) CreateAccount(ctx context.Context, q Querier, personID int64, accountType string) error {
	const query = `INSERT INTO app_user (user_id, account_type) VALUES ($1, $2)`
	_, err := q.ExecContext(ctx, query, personID, accountType)
	return err
}
