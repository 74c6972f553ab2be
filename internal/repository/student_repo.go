package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ganspro/internal/model"

	"github.com/jackc/pgx/v5"
)

// StudentRepository defines operations for student profile, document and fee data
type StudentRepository interface {
	CreateProfile(ctx context.Context, p *model.StudentProfile) error
	FindProfileByUserID(ctx context.Context, userID int) (*model.StudentProfile, error)
	UpdateProfile(ctx context.Context, p *model.StudentProfile) error
	ListProfiles(ctx context.Context) ([]model.StudentProfile, error)

	CreateDocument(ctx context.Context, d *model.Document) error
	FindDocumentsByUser(ctx context.Context, userID int) ([]model.Document, error)

	CreateFee(ctx context.Context, f *model.Fee) error
	FindFeeByID(ctx context.Context, id string) (*model.Fee, error)
	FindFeesByUser(ctx context.Context, userID int) ([]model.Fee, error)
	UpdateFeePaid(ctx context.Context, id string, paid int64) error

	GetDashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type studentRepository struct {
	db DB
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DB) StudentRepository {
	return &studentRepository{db: db}
}

// CreateProfile inserts a new student profile
func (r *studentRepository) CreateProfile(ctx context.Context, p *model.StudentProfile) error {
	sql := `INSERT INTO student_profiles (user_id, phone, address, course, enrollment_date, status, sponsor, student_no, date_of_birth, gender, avatar_url, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, sql,
		p.UserID, p.Phone, p.Address, p.Course, p.EnrollmentDate, p.Status,
		p.Sponsor, p.StudentNo, p.DateOfBirth, p.Gender, p.AvatarURL,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}
	return nil
}

const profileColumns = `p.user_id, u.name, u.email, p.phone, p.address, p.course, p.enrollment_date, p.status,
            p.sponsor, p.student_no, p.date_of_birth, p.gender, p.avatar_url, p.created_at, p.updated_at`

func scanProfile(row pgx.Row, p *model.StudentProfile) error {
	return row.Scan(
		&p.UserID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.Course, &p.EnrollmentDate, &p.Status,
		&p.Sponsor, &p.StudentNo, &p.DateOfBirth, &p.Gender, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
}

// FindProfileByUserID retrieves a student profile joined with its account
func (r *studentRepository) FindProfileByUserID(ctx context.Context, userID int) (*model.StudentProfile, error) {
	p := &model.StudentProfile{}
	sql := fmt.Sprintf(`SELECT %s FROM student_profiles p JOIN users u ON p.user_id = u.id WHERE p.user_id = $1`, profileColumns)
	err := scanProfile(r.db.QueryRow(ctx, sql, userID), p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Profile not found
		}
		return nil, fmt.Errorf("failed to find student profile: %w", err)
	}
	return p, nil
}

// UpdateProfile modifies an existing student profile
func (r *studentRepository) UpdateProfile(ctx context.Context, p *model.StudentProfile) error {
	sql := `UPDATE student_profiles
            SET phone = $1, address = $2, course = $3, status = $4, sponsor = $5, date_of_birth = $6, gender = $7, avatar_url = $8, updated_at = NOW()
            WHERE user_id = $9 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql,
		p.Phone, p.Address, p.Course, p.Status, p.Sponsor, p.DateOfBirth, p.Gender, p.AvatarURL, p.UserID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("student profile not found for update")
		}
		return fmt.Errorf("failed to update student profile: %w", err)
	}
	return nil
}

// ListProfiles retrieves all student profiles for the admin dashboard
func (r *studentRepository) ListProfiles(ctx context.Context) ([]model.StudentProfile, error) {
	sql := fmt.Sprintf(`SELECT %s FROM student_profiles p JOIN users u ON p.user_id = u.id ORDER BY u.name`, profileColumns)
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query student profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.StudentProfile
	for rows.Next() {
		var p model.StudentProfile
		if err := scanProfile(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan student profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student profile rows: %w", err)
	}
	return profiles, nil
}

// CreateDocument inserts a new document metadata record
func (r *studentRepository) CreateDocument(ctx context.Context, d *model.Document) error {
	sql := `INSERT INTO documents (id, user_id, name, type, url, size_bytes, uploaded_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, sql, d.ID, d.UserID, d.Name, d.Type, d.URL, d.SizeBytes, d.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// FindDocumentsByUser retrieves document metadata for a user
func (r *studentRepository) FindDocumentsByUser(ctx context.Context, userID int) ([]model.Document, error) {
	sql := `SELECT id, user_id, name, type, url, size_bytes, uploaded_at
            FROM documents WHERE user_id = $1 ORDER BY uploaded_at DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var documents []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Type, &d.URL, &d.SizeBytes, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		documents = append(documents, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return documents, nil
}

// CreateFee inserts a new fee record
func (r *studentRepository) CreateFee(ctx context.Context, f *model.Fee) error {
	sql := `INSERT INTO fees (id, user_id, semester, amount, paid, due_date, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, sql, f.ID, f.UserID, f.Semester, f.Amount, f.Paid, f.DueDate, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create fee: %w", err)
	}
	return nil
}

// FindFeeByID retrieves a fee record by its ID
func (r *studentRepository) FindFeeByID(ctx context.Context, id string) (*model.Fee, error) {
	f := &model.Fee{}
	sql := `SELECT id, user_id, semester, amount, paid, due_date, created_at, updated_at
            FROM fees WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&f.ID, &f.UserID, &f.Semester, &f.Amount, &f.Paid, &f.DueDate, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find fee by ID: %w", err)
	}
	f.Status = model.FeeStatus(f.Amount, f.Paid)
	return f, nil
}

// FindFeesByUser retrieves fee records for a user
func (r *studentRepository) FindFeesByUser(ctx context.Context, userID int) ([]model.Fee, error) {
	sql := `SELECT id, user_id, semester, amount, paid, due_date, created_at, updated_at
            FROM fees WHERE user_id = $1 ORDER BY due_date DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fees: %w", err)
	}
	defer rows.Close()

	var fees []model.Fee
	for rows.Next() {
		var f model.Fee
		if err := rows.Scan(&f.ID, &f.UserID, &f.Semester, &f.Amount, &f.Paid, &f.DueDate, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fee row: %w", err)
		}
		f.Status = model.FeeStatus(f.Amount, f.Paid)
		fees = append(fees, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee rows: %w", err)
	}
	return fees, nil
}

// UpdateFeePaid sets the cumulative paid amount on a fee record
func (r *studentRepository) UpdateFeePaid(ctx context.Context, id string, paid int64) error {
	sql := `UPDATE fees SET paid = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, sql, paid, id).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("fee not found for payment update")
		}
		return fmt.Errorf("failed to update fee payment: %w", err)
	}
	return nil
}

// GetDashboardStats calculates aggregate numbers for the admin dashboard
func (r *studentRepository) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}

	sql := `
        SELECT
            (SELECT COUNT(*) FROM student_profiles) as student_count,
            COALESCE(SUM(f.amount), 0) as total_billed,
            COALESCE(SUM(f.paid), 0) as total_paid,
            (SELECT COUNT(*) FROM documents) as document_count
        FROM fees f`

	err := r.db.QueryRow(ctx, sql).Scan(
		&stats.StudentCount, &stats.TotalBilled, &stats.TotalPaid, &stats.DocumentCount,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	stats.TotalOutstanding = stats.TotalBilled - stats.TotalPaid

	return stats, nil
}
