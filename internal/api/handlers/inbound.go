// server/internal/api/handlers/inbound.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"inbound-wms-api-server/internal/events"
	"inbound-wms-api-server/internal/models"
	"inbound-wms-api-server/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LineItemRequest là một dòng hàng trong payload tạo yêu cầu.
type LineItemRequest struct {
	ID          string `json:"id"`
	SKUCode     string `json:"skuCode" binding:"required"`
	ProductName string `json:"productName" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	Unit        string `json:"unit"`
}

type CreateInboundRequest struct {
	PONumber     string            `json:"poNumber" binding:"required"`
	SupplierName string            `json:"supplierName" binding:"required"`
	Items        []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	RequestDate  string            `json:"requestDate" binding:"omitempty,datetime=2006-01-02"`
	ExpectedDate string            `json:"expectedDate" binding:"omitempty,datetime=2006-01-02"`
	Memo         string            `json:"memo"`
}

// errBlankField: trường bắt buộc chỉ chứa khoảng trắng.
var errBlankField = errors.New("required field is blank")

// normalize cắt khoảng trắng; binding "required" không bắt được chuỗi toàn dấu cách.
func (r *CreateInboundRequest) normalize() error {
	r.PONumber = strings.TrimSpace(r.PONumber)
	r.SupplierName = strings.TrimSpace(r.SupplierName)
	if r.PONumber == "" {
		return fmt.Errorf("poNumber: %w", errBlankField)
	}
	if r.SupplierName == "" {
		return fmt.Errorf("supplierName: %w", errBlankField)
	}
	for i := range r.Items {
		r.Items[i].SKUCode = strings.TrimSpace(r.Items[i].SKUCode)
		r.Items[i].ProductName = strings.TrimSpace(r.Items[i].ProductName)
		r.Items[i].Unit = strings.TrimSpace(r.Items[i].Unit)
		if r.Items[i].SKUCode == "" {
			return fmt.Errorf("items[%d].skuCode: %w", i, errBlankField)
		}
		if r.Items[i].ProductName == "" {
			return fmt.Errorf("items[%d].productName: %w", i, errBlankField)
		}
	}
	return nil
}

func (r CreateInboundRequest) toModel() *models.InboundRequest {
	items := make([]models.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, models.LineItem{
			ID:          it.ID,
			SKUCode:     it.SKUCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
		})
	}
	return &models.InboundRequest{
		PONumber:     r.PONumber,
		SupplierName: r.SupplierName,
		Items:        items,
		RequestDate:  r.RequestDate,
		ExpectedDate: r.ExpectedDate,
		Memo:         strings.TrimSpace(r.Memo),
	}
}

// InboundService gom các thao tác dùng chung giữa API JSON và giao diện quản trị.
type InboundService struct {
	Repo     repository.InboundRequestRepository
	Notifier events.Notifier
	Logger   *zap.Logger
	// Now là đồng hồ của handler, test có thể cố định.
	Now func() time.Time
}

func (s *InboundService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *InboundService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// notify không bao giờ làm hỏng request; lỗi chỉ được ghi log.
func (s *InboundService) notify(ctx context.Context, event models.InboundEvent) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, event); err != nil {
		s.logger().Warn("Failed to publish inbound event", zap.String("event", event.Event), zap.Error(err))
	}
}

// Create kiểm tra payload rồi lưu yêu cầu mới. Payload đã qua binding.
func (s *InboundService) Create(ctx context.Context, req CreateInboundRequest) (*models.InboundRequest, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	created, err := s.Repo.Create(ctx, req.toModel())
	if err != nil {
		return nil, err
	}
	s.notify(ctx, models.InboundEvent{
		Event:     models.EventInboundCreated,
		RequestID: created.ID,
		PONumber:  created.PONumber,
		Status:    created.ApprovalStatus,
		At:        created.CreatedAt,
	})
	return created, nil
}

// ChangeStatus kiểm tra token trạng thái trước, sau đó mới tới id và bảng chuyển trạng thái.
func (s *InboundService) ChangeStatus(ctx context.Context, id, status, reason string) (*models.InboundRequest, error) {
	next, err := models.ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	updated, err := s.Repo.UpdateStatus(ctx, id, next, reason, s.now())
	if err != nil {
		return nil, err
	}
	s.notify(ctx, models.InboundEvent{
		Event:     models.EventInboundStatusChanged,
		RequestID: updated.ID,
		PONumber:  updated.PONumber,
		Status:    updated.ApprovalStatus,
		Reason:    reason,
		At:        updated.UpdatedAt,
	})
	return updated, nil
}

func (s *InboundService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, models.InboundEvent{Event: models.EventInboundDeleted, RequestID: id, At: s.now()})
	return nil
}

// statusForError ánh xạ lỗi nghiệp vụ sang mã HTTP tại một chỗ duy nhất.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidStatus), errors.Is(err, errBlankField):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, repository.ErrStaleUpdate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(code, gin.H{"success": false, "error": err.Error()})
}

func respondOK(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"success": true, "data": data})
}
