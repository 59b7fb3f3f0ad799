package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	// Số ngày mặc định từ ngày yêu cầu đến ngày dự kiến nhận hàng
	DefaultLeadDays = 5
	DefaultUnit     = "EA"
)

// InboundRequest là yêu cầu nhập hàng theo đơn đặt hàng (PO) của nhà cung cấp.
type InboundRequest struct {
	ID             string         `bson:"_id" json:"id"`
	PONumber       string         `bson:"poNumber" json:"poNumber"`
	SupplierName   string         `bson:"supplierName" json:"supplierName"`
	Items          []LineItem     `bson:"items" json:"items"`
	RequestDate    string         `bson:"requestDate" json:"requestDate"`
	ExpectedDate   string         `bson:"expectedDate" json:"expectedDate"`
	ApprovalStatus ApprovalStatus `bson:"approvalStatus" json:"approvalStatus"`
	Memo           string         `bson:"memo" json:"memo"`
	History        []StatusEvent  `bson:"history" json:"history"`
	Attachments    []Attachment   `bson:"attachments" json:"attachments"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// NewRequestID sinh mã yêu cầu dạng PO-<unix millis>-<4 hex>.
func NewRequestID(now time.Time) string {
	return fmt.Sprintf("PO-%d-%s", now.UnixMilli(), strings.ToUpper(uuid.New().String()[:4]))
}

func newItemID() string {
	return fmt.Sprintf("ITEM-%s", strings.ToUpper(uuid.New().String()[:8]))
}

// Prepare gán các giá trị do store quản lý cho một yêu cầu mới:
// id, id của từng dòng hàng, ngày mặc định, trạng thái ban đầu và lịch sử.
func (r *InboundRequest) Prepare(now time.Time) {
	if r.ID == "" {
		r.ID = NewRequestID(now)
	}
	for i := range r.Items {
		if r.Items[i].ID == "" {
			r.Items[i].ID = newItemID()
		}
		if r.Items[i].Unit == "" {
			r.Items[i].Unit = DefaultUnit
		}
	}
	if r.RequestDate == "" {
		r.RequestDate = now.Format(DateLayout)
	}
	if r.ExpectedDate == "" {
		r.ExpectedDate = now.AddDate(0, 0, DefaultLeadDays).Format(DateLayout)
	}
	r.ApprovalStatus = StatusPendingApproval
	r.History = []StatusEvent{{Status: StatusPendingApproval, ChangedAt: now}}
	if r.Attachments == nil {
		r.Attachments = []Attachment{}
	}
	r.CreatedAt = now
	r.UpdatedAt = now
}

// ApplyStatus chuyển trạng thái theo bảng chuyển trạng thái.
// Lý do (nếu có) ghi đè memo và luôn được lưu lại trong lịch sử.
func (r *InboundRequest) ApplyStatus(next ApprovalStatus, reason string, at time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if !r.ApprovalStatus.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.ApprovalStatus, next)
	}
	r.ApprovalStatus = next
	if reason != "" {
		r.Memo = reason
	}
	r.History = append(r.History, StatusEvent{Status: next, Reason: reason, ChangedAt: at})
	r.UpdatedAt = at
	return nil
}

// Clone trả về bản sao sâu để store trong bộ nhớ không chia sẻ slice với bên gọi.
func (r *InboundRequest) Clone() *InboundRequest {
	if r == nil {
		return nil
	}
	out := *r
	out.Items = append([]LineItem(nil), r.Items...)
	out.History = append([]StatusEvent(nil), r.History...)
	out.Attachments = append([]Attachment(nil), r.Attachments...)
	return &out
}
