package repository

import (
	"context"
	"database/sql"
	"errors"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, phone,
	address_line1, address_line2, city, state, postal_code, role, status, created_at, updated_at`

type UserRepository struct {
	DB DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{DB: db}
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.AddressLine1, &u.AddressLine2, &u.City, &u.State, &u.PostalCode, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, first_name, last_name, phone,
		address_line1, address_line2, city, state, postal_code, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone,
		user.AddressLine1, user.AddressLine2, user.City, user.State, user.PostalCode, user.Role, user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, username))
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&exists)
	return exists, err
}

// UserExists backs the owner check performed before an account is opened.
func (r *UserRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

func (r *UserRepository) ListUsersByRole(ctx context.Context, role string) ([]*model.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, role)
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]*model.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute list users query")
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfile writes the editable profile columns of user.
func (r *UserRepository) UpdateUserProfile(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET first_name = $1, last_name = $2, email = $3, phone = $4,
		address_line1 = $5, address_line2 = $6, city = $7, state = $8, postal_code = $9, updated_at = now()
		WHERE id = $10 RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.Phone,
		user.AddressLine1, user.AddressLine2, user.City, user.State, user.PostalCode, user.ID,
	).Scan(&user.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicateKey
	}
	return err
}

func (r *UserRepository) UpdateUserStatus(ctx context.Context, id int64, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *UserRepository) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
