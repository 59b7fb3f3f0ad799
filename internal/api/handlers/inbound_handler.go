// server/internal/api/handlers/inbound_handler.go
package handlers

import (
	"net/http"

	"inbound-wms-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

type InboundHandler struct {
	Service *InboundService
}

// GetAllInboundRequests trả về tất cả yêu cầu theo thứ tự tạo, có thể lọc theo ?status=
func (h *InboundHandler) GetAllInboundRequests(c *gin.Context) {
	var filter models.ApprovalStatus
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		filter = status
	}

	requests, err := h.Service.Repo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]models.InboundRequest, 0, len(requests))
	for _, r := range requests {
		if filter == "" || r.ApprovalStatus == filter {
			result = append(result, r)
		}
	}
	respondOK(c, http.StatusOK, result)
}

// CreateInboundRequest tạo một yêu cầu nhập hàng mới ở trạng thái PendingApproval.
func (h *InboundHandler) CreateInboundRequest(c *gin.Context) {
	var req CreateInboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	created, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created)
}
