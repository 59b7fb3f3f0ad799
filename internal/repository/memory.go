package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"inbound-wms-api-server/internal/models"
)

// MemoryRepository giữ các yêu cầu nhập hàng trong bộ nhớ của process.
// map được bảo vệ bởi RWMutex, order giữ thứ tự chèn.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.InboundRequest
	order []string
	now   Clock
}

func NewMemoryRepository(now Clock) *MemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepository{
		items: make(map[string]*models.InboundRequest),
		now:   now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, req *models.InboundRequest) (*models.InboundRequest, error) {
	rec := req.Clone()
	rec.Prepare(r.now())

	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		if _, exists := r.items[rec.ID]; !exists {
			break
		}
		rec.ID = models.NewRequestID(r.now())
	}
	r.items[rec.ID] = rec
	r.order = append(r.order, rec.ID)
	return rec.Clone(), nil
}

func (r *MemoryRepository) GetAll(ctx context.Context) ([]models.InboundRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.InboundRequest, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id].Clone())
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.InboundRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus, reason string, at time.Time) (*models.InboundRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Áp dụng trên bản sao để bản ghi không đổi khi chuyển trạng thái thất bại.
	next := rec.Clone()
	if err := next.ApplyStatus(status, reason, at); err != nil {
		return nil, fmt.Errorf("update status of %s: %w", id, err)
	}
	r.items[id] = next
	return next.Clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) AddAttachment(ctx context.Context, id string, attachment models.Attachment) (*models.InboundRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := rec.Clone()
	next.Attachments = append(next.Attachments, attachment)
	next.UpdatedAt = attachment.UploadedAt
	r.items[id] = next
	return next.Clone(), nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

// MemoryUserRepository lưu user trong bộ nhớ, key là email viết thường.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.users[key]; exists {
		return ErrUserExists
	}
	r.users[key] = *user
	return nil
}
