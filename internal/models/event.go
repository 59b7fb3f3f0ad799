package models

import "time"

// Các loại sự kiện được phát qua WebSocket và RabbitMQ.
const (
	EventInboundCreated       = "inbound_created"
	EventInboundStatusChanged = "inbound_status_changed"
	EventInboundDeleted       = "inbound_deleted"
	EventAttachmentAdded      = "inbound_attachment_added"
)

// InboundEvent là thông báo phát ra sau mỗi thay đổi của một yêu cầu nhập hàng.
type InboundEvent struct {
	Event     string         `json:"event"`
	RequestID string         `json:"requestID"`
	PONumber  string         `json:"poNumber,omitempty"`
	Status    ApprovalStatus `json:"status,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	At        time.Time      `json:"at"`
}
