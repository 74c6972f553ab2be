package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ganspro/internal/model"
)

// MemoryUserRepository is an in-memory UserRepository. It backs tests and
// local development without a database; the email uniqueness constraint is
// enforced the same way the store's unique index does.
type MemoryUserRepository struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	nextID   int
}

// NewMemoryUserRepository creates an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{accounts: make(map[string]*model.Account)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[account.Email]; exists {
		return ErrDuplicateEmail
	}
	r.nextID++
	account.ID = r.nextID
	copied := *account
	r.accounts[account.Email] = &copied
	return nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[email]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id int) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.ID == id {
			copied := *account
			return &copied, nil
		}
	}
	return nil, nil
}

// MemoryStudentRepository is an in-memory StudentRepository
type MemoryStudentRepository struct {
	mu        sync.Mutex
	profiles  map[int]*model.StudentProfile
	documents map[int][]model.Document
	fees      map[string]*model.Fee
}

// NewMemoryStudentRepository creates an empty in-memory student repository
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{
		profiles:  make(map[int]*model.StudentProfile),
		documents: make(map[int][]model.Document),
		fees:      make(map[string]*model.Fee),
	}
}

func (r *MemoryStudentRepository) CreateProfile(ctx context.Context, p *model.StudentProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *p
	r.profiles[p.UserID] = &copied
	return nil
}

func (r *MemoryStudentRepository) FindProfileByUserID(ctx context.Context, userID int) (*model.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *MemoryStudentRepository) UpdateProfile(ctx context.Context, p *model.StudentProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.UserID]; !ok {
		return fmt.Errorf("student profile not found for update")
	}
	copied := *p
	r.profiles[p.UserID] = &copied
	return nil
}

func (r *MemoryStudentRepository) ListProfiles(ctx context.Context) ([]model.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StudentProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *MemoryStudentRepository) CreateDocument(ctx context.Context, d *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents[d.UserID] = append(r.documents[d.UserID], *d)
	return nil
}

func (r *MemoryStudentRepository) FindDocumentsByUser(ctx context.Context, userID int) ([]model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Document(nil), r.documents[userID]...), nil
}

func (r *MemoryStudentRepository) CreateFee(ctx context.Context, f *model.Fee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *f
	r.fees[f.ID] = &copied
	return nil
}

func (r *MemoryStudentRepository) FindFeeByID(ctx context.Context, id string) (*model.Fee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fees[id]
	if !ok {
		return nil, nil
	}
	copied := *f
	copied.Status = model.FeeStatus(copied.Amount, copied.Paid)
	return &copied, nil
}

func (r *MemoryStudentRepository) FindFeesByUser(ctx context.Context, userID int) ([]model.Fee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Fee
	for _, f := range r.fees {
		if f.UserID == userID {
			copied := *f
			copied.Status = model.FeeStatus(copied.Amount, copied.Paid)
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.After(out[j].DueDate) })
	return out, nil
}

func (r *MemoryStudentRepository) UpdateFeePaid(ctx context.Context, id string, paid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fees[id]
	if !ok {
		return fmt.Errorf("fee not found for payment update")
	}
	f.Paid = paid
	return nil
}

func (r *MemoryStudentRepository) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &model.DashboardStats{StudentCount: int64(len(r.profiles))}
	for _, f := range r.fees {
		stats.TotalBilled += f.Amount
		stats.TotalPaid += f.Paid
	}
	stats.TotalOutstanding = stats.TotalBilled - stats.TotalPaid
	for _, docs := range r.documents {
		stats.DocumentCount += int64(len(docs))
	}
	return stats, nil
}
