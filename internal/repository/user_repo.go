package repository

import (
	"context"
	"errors"
	"fmt"

	"ganspro/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned when an insert loses the uniqueness race on
// the email column. The service layer maps it to its conflict error.
var ErrDuplicateEmail = errors.New("email already registered")

// DB is the subset of pgxpool.Pool the repositories use. pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for account data
type UserRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByID(ctx context.Context, id int) (*model.Account, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new account into the database
func (r *userRepository) Create(ctx context.Context, account *model.Account) error {
	sql := `INSERT INTO users (email, password_hash, name, balance, role, email_verified, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRow(ctx, sql,
		account.Email, account.PasswordHash, account.Name, account.Balance,
		account.Role, account.EmailVerified, account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Concurrent signup with the same email; the unique index wins.
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindByEmail retrieves an account by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	account := &model.Account{}
	sql := `SELECT id, email, password_hash, name, balance, role, email_verified, created_at, updated_at
            FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.Name, &account.Balance,
		&account.Role, &account.EmailVerified, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Account not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	return account, nil
}

// FindByID retrieves an account by its ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.Account, error) {
	account := &model.Account{}
	sql := `SELECT id, email, password_hash, name, balance, role, email_verified, created_at, updated_at
            FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.Name, &account.Balance,
		&account.Role, &account.EmailVerified, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Account not found
		}
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}
	return account, nil
}
