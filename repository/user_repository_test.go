package repository

import (
	"context"
	"testing"
	"time"

	"go-bank-ledger/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	now := time.Now()
	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: "CUSTOMER", Status: "ACTIVE"}

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))
	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.Equal(t, int64(5), user.ID)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})
	assert.ErrorIs(t, repo.CreateUser(context.Background(), user), ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UserExistsAndMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE id = \$1\)`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	ok, err := repo.UserExists(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.GetUserByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec(`UPDATE users SET status`).WithArgs("INACTIVE", int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateUserStatus(context.Background(), 3, "INACTIVE"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateUserProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	now := time.Now()
	user := &model.User{ID: 4, FirstName: "Ada", LastName: "King", Email: "ada@example.com", Phone: "1",
		AddressLine1: "12 Park St", City: "Kolkata", State: "WB", PostalCode: "700016"}

	mock.ExpectQuery(`UPDATE users SET first_name = \$1`).
		WithArgs("Ada", "King", "ada@example.com", "1", "12 Park St", "", "Kolkata", "WB", "700016", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	require.NoError(t, repo.UpdateUserProfile(context.Background(), user))
	assert.Equal(t, now, user.UpdatedAt)

	mock.ExpectQuery(`UPDATE users SET first_name`).WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))
	assert.ErrorIs(t, repo.UpdateUserProfile(context.Background(), user), ErrNotFound)

	mock.ExpectQuery(`UPDATE users SET first_name`).WillReturnError(&pq.Error{Code: "23505"})
	assert.ErrorIs(t, repo.UpdateUserProfile(context.Background(), user), ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListUsersByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	now := time.Now()
	columns := []string{"id", "username", "email", "password_hash", "first_name", "last_name", "phone",
		"address_line1", "address_line2", "city", "state", "postal_code", "role", "status", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE role = \$1 ORDER BY id`).WithArgs("ADMIN").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "root", "root@example.com", "hash", "R", "Oot", "1", "", "", "Delhi", "DL", "110001", "ADMIN", "ACTIVE", now, now))

	admins, err := repo.ListUsersByRole(context.Background(), "ADMIN")
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "root", admins[0].Username)
	assert.Equal(t, "Delhi", admins[0].City)
	assert.Equal(t, "110001", admins[0].PostalCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
