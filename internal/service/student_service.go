package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ganspro/internal/model"
	"ganspro/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("student profile not found")
	ErrFeeNotFound     = errors.New("fee record not found")
	ErrForbidden       = errors.New("forbidden: user does not have permission for this action")
)

// StudentSummary is the landing view of the student portal
type StudentSummary struct {
	Profile          *model.StudentProfile `json:"profile"`
	Fees             []model.Fee           `json:"fees"`
	TotalBilled      int64                 `json:"total_billed"`
	TotalPaid        int64                 `json:"total_paid"`
	TotalOutstanding int64                 `json:"total_outstanding"`
}

// StudentService defines portal and dashboard operations over student data
type StudentService interface {
	GetProfile(ctx context.Context, userID int) (*model.StudentProfile, error)
	UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.StudentProfile, error)
	GetSummary(ctx context.Context, userID int) (*StudentSummary, error)

	ListDocuments(ctx context.Context, ownerID int, requester model.Identity) ([]model.Document, error)
	AddDocument(ctx context.Context, ownerID int, requester model.Identity, req model.CreateDocumentRequest) (*model.Document, error)
	ListFees(ctx context.Context, ownerID int, requester model.Identity) ([]model.Fee, error)

	// Admin methods
	ListStudents(ctx context.Context) ([]model.StudentProfile, error)
	CreateFee(ctx context.Context, ownerID int, req model.CreateFeeRequest) (*model.Fee, error)
	RecordPayment(ctx context.Context, feeID string, req model.RecordPaymentRequest) (*model.Fee, error)
	GetDashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type studentService struct {
	repo repository.StudentRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(repo repository.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func (s *studentService) GetProfile(ctx context.Context, userID int) (*model.StudentProfile, error) {
	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *studentService) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.StudentProfile, error) {
	existing, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile for update: %w", err)
	}
	if existing == nil {
		return nil, ErrProfileNotFound
	}

	// Apply updates
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Address != nil {
		existing.Address = *req.Address
	}
	if req.Course != nil {
		existing.Course = *req.Course
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}
	if req.Sponsor != nil { // handles setting to "" or null
		existing.Sponsor = req.Sponsor
	}
	if req.DateOfBirth != nil {
		existing.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		existing.Gender = *req.Gender
	}
	if req.AvatarURL != nil {
		existing.AvatarURL = req.AvatarURL
	}

	if err := s.repo.UpdateProfile(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update profile in repo: %w", err)
	}
	return existing, nil
}

func (s *studentService) GetSummary(ctx context.Context, userID int) (*StudentSummary, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	fees, err := s.repo.FindFeesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fees for summary: %w", err)
	}

	summary := &StudentSummary{Profile: profile, Fees: fees}
	for _, f := range fees {
		summary.TotalBilled += f.Amount
		summary.TotalPaid += f.Paid
	}
	summary.TotalOutstanding = summary.TotalBilled - summary.TotalPaid
	return summary, nil
}

func (s *studentService) ListDocuments(ctx context.Context, ownerID int, requester model.Identity) ([]model.Document, error) {
	if requester.Role != model.RoleAdmin && ownerID != requester.ID {
		return nil, ErrForbidden
	}
	documents, err := s.repo.FindDocumentsByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents from repo: %w", err)
	}
	return documents, nil
}

func (s *studentService) AddDocument(ctx context.Context, ownerID int, requester model.Identity, req model.CreateDocumentRequest) (*model.Document, error) {
	if requester.Role != model.RoleAdmin && ownerID != requester.ID {
		return nil, ErrForbidden
	}

	document := &model.Document{
		ID:         uuid.NewString(),
		UserID:     ownerID,
		Name:       req.Name,
		Type:       req.Type,
		URL:        req.URL,
		SizeBytes:  req.SizeBytes,
		UploadedAt: time.Now(),
	}
	if err := s.repo.CreateDocument(ctx, document); err != nil {
		return nil, fmt.Errorf("failed to create document in repo: %w", err)
	}
	return document, nil
}

func (s *studentService) ListFees(ctx context.Context, ownerID int, requester model.Identity) ([]model.Fee, error) {
	if requester.Role != model.RoleAdmin && ownerID != requester.ID {
		return nil, ErrForbidden
	}
	fees, err := s.repo.FindFeesByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fees from repo: %w", err)
	}
	return fees, nil
}

// --- Admin Methods ---

func (s *studentService) ListStudents(ctx context.Context) ([]model.StudentProfile, error) {
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return profiles, nil
}

func (s *studentService) CreateFee(ctx context.Context, ownerID int, req model.CreateFeeRequest) (*model.Fee, error) {
	profile, err := s.repo.FindProfileByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile for fee creation: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	now := time.Now()
	fee := &model.Fee{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Semester:  req.Semester,
		Amount:    req.Amount,
		Paid:      0,
		DueDate:   req.DueDate,
		Status:    model.FeeStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateFee(ctx, fee); err != nil {
		return nil, fmt.Errorf("failed to create fee in repo: %w", err)
	}
	return fee, nil
}

func (s *studentService) RecordPayment(ctx context.Context, feeID string, req model.RecordPaymentRequest) (*model.Fee, error) {
	fee, err := s.repo.FindFeeByID(ctx, feeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fee for payment: %w", err)
	}
	if fee == nil {
		return nil, ErrFeeNotFound
	}

	fee.Paid += req.Amount
	if err := s.repo.UpdateFeePaid(ctx, feeID, fee.Paid); err != nil {
		return nil, fmt.Errorf("failed to record payment in repo: %w", err)
	}
	fee.Status = model.FeeStatus(fee.Amount, fee.Paid)
	fee.UpdatedAt = time.Now()
	return fee, nil
}

func (s *studentService) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	stats, err := s.repo.GetDashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return stats, nil
}
