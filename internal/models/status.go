package models

import (
	"errors"
	"fmt"
)

// ApprovalStatus là trạng thái phê duyệt của một yêu cầu nhập hàng.
// Giá trị lưu trữ và truyền đi luôn là một trong bốn token cố định bên dưới.
type ApprovalStatus string

const (
	StatusPendingApproval ApprovalStatus = "PendingApproval"
	StatusApproved        ApprovalStatus = "Approved"
	StatusRejected        ApprovalStatus = "Rejected"
	StatusReceived        ApprovalStatus = "Received"
)

var (
	ErrInvalidStatus     = errors.New("invalid approval status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// AllStatuses theo thứ tự hiển thị.
var AllStatuses = []ApprovalStatus{
	StatusPendingApproval,
	StatusApproved,
	StatusRejected,
	StatusReceived,
}

// Bảng chuyển trạng thái. Rejected và Received là trạng thái cuối.
var transitions = map[ApprovalStatus][]ApprovalStatus{
	StatusPendingApproval: {StatusApproved, StatusRejected},
	StatusApproved:        {StatusReceived},
	StatusRejected:        nil,
	StatusReceived:        nil,
}

func (s ApprovalStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal trả về true nếu không còn trạng thái nào có thể chuyển tới.
func (s ApprovalStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Next trả về danh sách trạng thái được phép chuyển tới từ s.
func (s ApprovalStatus) Next() []ApprovalStatus {
	next := transitions[s]
	out := make([]ApprovalStatus, len(next))
	copy(out, next)
	return out
}

func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseStatus chuyển chuỗi thành ApprovalStatus, trả về ErrInvalidStatus nếu không hợp lệ.
func ParseStatus(value string) (ApprovalStatus, error) {
	s := ApprovalStatus(value)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return s, nil
}
