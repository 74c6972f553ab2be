package model

import "time"

const (
	DocumentTypeResults    = "results"
	DocumentTypeTranscript = "transcript"
	DocumentTypeFees       = "fees"
	DocumentTypeOther      = "other"
)

const (
	FeeStatusPaid          = "Paid"
	FeeStatusPartiallyPaid = "Partially Paid"
	FeeStatusPending       = "Pending"
)

// StudentProfile holds the portal-facing details of a student account
type StudentProfile struct {
	UserID         int        `json:"user_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	Course         string     `json:"course"`
	EnrollmentDate *time.Time `json:"enrollment_date,omitempty"`
	Status         string     `json:"status"`
	Sponsor        *string    `json:"sponsor,omitempty"` // Pointer for optional field
	StudentNo      string     `json:"student_no"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Gender         string     `json:"gender"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// UpdateProfileRequest is used for partial profile updates
type UpdateProfileRequest struct {
	Phone       *string    `json:"phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Course      *string    `json:"course,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Sponsor     *string    `json:"sponsor,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
}

// Document is the stored metadata of an uploaded file. The file itself lives
// behind the URL; this service never touches file contents.
type Document struct {
	ID         string    `json:"id"`
	UserID     int       `json:"user_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"` // results, transcript, fees or other
	URL        string    `json:"url"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// CreateDocumentRequest is used for registering a new document
type CreateDocumentRequest struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=results transcript fees other"`
	URL       string `json:"url" binding:"required"`
	SizeBytes int64  `json:"size_bytes" binding:"gte=0"`
}

// Fee is a per-semester fee record. Status is derived from paid vs amount,
// never written directly by clients.
type Fee struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Semester  string    `json:"semester"`
	Amount    int64     `json:"amount"` // In cents
	Paid      int64     `json:"paid"`
	DueDate   time.Time `json:"due_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateFeeRequest is used by admins to open a fee record for a student
type CreateFeeRequest struct {
	Semester string    `json:"semester" binding:"required"`
	Amount   int64     `json:"amount" binding:"required,gt=0"`
	DueDate  time.Time `json:"due_date" binding:"required"`
}

// RecordPaymentRequest is used by admins to record a payment against a fee
type RecordPaymentRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// FeeStatus derives the display status from the amounts
func FeeStatus(amount, paid int64) string {
	switch {
	case paid >= amount:
		return FeeStatusPaid
	case paid > 0:
		return FeeStatusPartiallyPaid
	default:
		return FeeStatusPending
	}
}

// DashboardStats is the aggregate view shown on the admin dashboard
type DashboardStats struct {
	StudentCount     int64 `json:"student_count"`
	TotalBilled      int64 `json:"total_billed"`
	TotalPaid        int64 `json:"total_paid"`
	TotalOutstanding int64 `json:"total_outstanding"`
	DocumentCount    int64 `json:"document_count"`
}
