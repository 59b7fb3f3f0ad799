// server/internal/models/common.go
package models

import "time"

// LineItem là một dòng hàng trong yêu cầu nhập hàng.
type LineItem struct {
	ID          string `bson:"id" json:"id"`
	SKUCode     string `bson:"skuCode" json:"skuCode"`
	ProductName string `bson:"productName" json:"productName"`
	Quantity    int    `bson:"quantity" json:"quantity"`
	Unit        string `bson:"unit" json:"unit"`
}

// StatusEvent là một bản ghi lịch sử thay đổi trạng thái, chỉ được thêm vào, không sửa.
type StatusEvent struct {
	Status    ApprovalStatus `bson:"status" json:"status"`
	Reason    string         `bson:"reason,omitempty" json:"reason,omitempty"`
	ChangedAt time.Time      `bson:"changedAt" json:"changedAt"`
}

// Attachment là file đính kèm (ví dụ: ảnh phiếu giao hàng) đã upload lên S3.
type Attachment struct {
	ID          string    `bson:"id" json:"id"`
	FileName    string    `bson:"fileName" json:"fileName"`
	URL         string    `bson:"url" json:"url"`
	ContentType string    `bson:"contentType" json:"contentType"`
	UploadedAt  time.Time `bson:"uploadedAt" json:"uploadedAt"`
}
