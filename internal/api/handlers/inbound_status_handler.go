// server/internal/api/handlers/inbound_status_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"inbound-wms-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxAttachmentSize giới hạn kích thước file đính kèm (10 MB).
const maxAttachmentSize = 10 << 20

// AttachmentUploader là phần của s3.Uploader mà handler cần.
type AttachmentUploader interface {
	UploadFile(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error)
}

type InboundStatusHandler struct {
	Service *InboundService
	// Uploader nil nghĩa là S3 chưa được cấu hình.
	Uploader AttachmentUploader
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type statusResponse struct {
	ID             string                 `json:"id"`
	Status         models.ApprovalStatus  `json:"status"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	Reason         string                 `json:"reason"`
	RequestDetails *models.InboundRequest `json:"requestDetails,omitempty"`
}

// GetInboundStatus trả về trạng thái hiện tại và thời điểm thay đổi cuối cùng.
func (h *InboundStatusHandler) GetInboundStatus(c *gin.Context) {
	rec, err := h.Service.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, statusResponse{
		ID:             rec.ID,
		Status:         rec.ApprovalStatus,
		UpdatedAt:      rec.UpdatedAt,
		Reason:         rec.Memo,
		RequestDetails: rec,
	})
}

// UpdateInboundStatus: 400 nếu status sai, 404 nếu không có id, 409 nếu không được phép chuyển.
func (h *InboundStatusHandler) UpdateInboundStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	updated, err := h.Service.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, statusResponse{
		ID:        updated.ID,
		Status:    updated.ApprovalStatus,
		UpdatedAt: updated.UpdatedAt,
		Reason:    updated.Memo,
	})
}

func (h *InboundStatusHandler) DeleteInboundRequest(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// GetStatusHistory trả về nhật ký thay đổi trạng thái (chỉ thêm, không sửa).
func (h *InboundStatusHandler) GetStatusHistory(c *gin.Context) {
	rec, err := h.Service.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, rec.History)
}

// UploadAttachment tải file lên S3 rồi gắn vào yêu cầu nhập hàng.
func (h *InboundStatusHandler) UploadAttachment(c *gin.Context) {
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "attachment storage is not configured"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.Service.Repo.GetByID(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAttachmentSize)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error":   fmt.Sprintf("file exceeds %d bytes", maxAttachmentSize),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, fmt.Errorf("open uploaded file: %w", err))
		return
	}
	defer file.Close()

	name := sanitizeFileName(fileHeader.Filename)
	attachmentID := uuid.New().String()
	objectKey := fmt.Sprintf("inbound/%s/%s-%s", id, attachmentID, name)
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.Uploader.UploadFile(ctx, file, objectKey, contentType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}

	attachment := models.Attachment{
		ID:          attachmentID,
		FileName:    name,
		URL:         url,
		ContentType: contentType,
		UploadedAt:  h.Service.now(),
	}
	updated, err := h.Service.Repo.AddAttachment(ctx, id, attachment)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Service.notify(ctx, models.InboundEvent{
		Event:     models.EventAttachmentAdded,
		RequestID: updated.ID,
		PONumber:  updated.PONumber,
		Status:    updated.ApprovalStatus,
		At:        attachment.UploadedAt,
	})
	respondOK(c, http.StatusCreated, attachment)
}

// sanitizeFileName bỏ đường dẫn và ký tự có thể phá object key.
func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20, r == '/', r == '?', r == '#', r == '%':
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
