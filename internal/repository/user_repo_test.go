package repository

import (
	"context"
	"testing"
	"time"

	"ganspro/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
)

func newAccount() *model.Account {
	now := time.Now()
	return &model.Account{
		Email:        "a@x.com",
		PasswordHash: "$2a$12$hash",
		Name:         "A",
		Balance:      0,
		Role:         model.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	account := newAccount()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(account.Email, account.PasswordHash, account.Name, account.Balance,
			account.Role, account.EmailVerified, account.CreatedAt, account.UpdatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(7))

	err = repo.Create(context.Background(), account)
	assert.NoError(t, err)
	assert.Equal(t, 7, account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	account := newAccount()

	// Losing the race between the existence check and the insert surfaces
	// as a unique violation, not a crash.
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(account.Email, account.PasswordHash, account.Name, account.Balance,
			account.Role, account.EmailVerified, account.CreatedAt, account.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err = repo.Create(context.Background(), account)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "email", "password_hash", "name", "balance", "role", "email_verified", "created_at", "updated_at"}).
		AddRow(1, "a@x.com", "$2a$12$hash", "A", int64(0), model.RoleStudent, (*time.Time)(nil), now, now)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("a@x.com").
		WillReturnRows(rows)

	account, err := repo.FindByEmail(context.Background(), "a@x.com")
	assert.NoError(t, err)
	assert.NotNil(t, account)
	assert.Equal(t, 1, account.ID)
	assert.Equal(t, model.RoleStudent, account.Role)
	assert.Nil(t, account.EmailVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("missing@x.com").
		WillReturnError(pgx.ErrNoRows)

	account, err := repo.FindByEmail(context.Background(), "missing@x.com")
	assert.NoError(t, err)
	assert.Nil(t, account)
	assert.NoError(t, mock.ExpectationsWereMet())
}
