package repository

import (
	"context"
	"errors"
	"time"

	"inbound-wms-api-server/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrStaleUpdate: bản ghi đã bị thay đổi bởi một request khác trong lúc cập nhật.
	ErrStaleUpdate = errors.New("record was modified concurrently")
)

// InboundRequestRepository là kho lưu trữ các yêu cầu nhập hàng.
// Mọi backend (memory, mongo, postgres, sqlite) đều phải tuân theo cùng một hợp đồng:
// id duy nhất, GetAll theo thứ tự chèn, xoá lần hai trả về ErrNotFound.
type InboundRequestRepository interface {
	Create(ctx context.Context, req *models.InboundRequest) (*models.InboundRequest, error)
	GetAll(ctx context.Context) ([]models.InboundRequest, error)
	GetByID(ctx context.Context, id string) (*models.InboundRequest, error)
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus, reason string, at time.Time) (*models.InboundRequest, error)
	Delete(ctx context.Context, id string) error
	AddAttachment(ctx context.Context, id string, attachment models.Attachment) (*models.InboundRequest, error)
	Count(ctx context.Context) (int, error)
}

// UserRepository phục vụ việc đăng nhập.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// ErrUserExists được trả về khi email đã tồn tại.
var ErrUserExists = errors.New("user already exists")

// maxCreateAttempts: số lần thử lại khi id sinh ra bị trùng.
const maxCreateAttempts = 4

// Clock cho phép test cố định thời gian.
type Clock func() time.Time
